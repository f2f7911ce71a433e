package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SellerRequired vérifie que l'utilisateur authentifié a le rôle vendeur.
// L'appartenance à une société est vérifiée ensuite par le handler
// (résolution du tenant), pas ici.
func SellerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")

		if !exists || role != "seller" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Accès réservé aux vendeurs",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
