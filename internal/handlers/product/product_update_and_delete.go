package product

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"bizbazaar_back_end/internal/catalog"
	"bizbazaar_back_end/internal/database"
	"bizbazaar_back_end/internal/models"
	"bizbazaar_back_end/internal/services"
)

// Réponse unique et volontairement ambiguë : un id inexistant et un id
// appartenant à une autre société sont indistinguables pour l'appelant.
const notFoundOrUnauthorized = "Product not found or unauthorized"

type updateInput struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Price       *float64               `json:"price"`
	Category    *string                `json:"category"`
	Stock       *int                   `json:"stock"`
	MinOrderQty *int                   `json:"min_order_qty"`
	Tags        *[]string              `json:"tags"`
	Location    *models.Location       `json:"location"`
	Images      *[]models.ProductImage `json:"images"`
	// company_id n'est volontairement pas accepté du client
}

func (in *updateInput) validate() string {
	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
		if len(*in.Name) < 3 || len(*in.Name) > 120 {
			return "Product name must be between 3 and 120 characters"
		}
	}
	if in.Price != nil && *in.Price < 0 {
		return "Price cannot be negative"
	}
	if in.Description != nil && len(*in.Description) > 2000 {
		return "Description cannot exceed 2000 characters"
	}
	if in.Stock != nil && *in.Stock < 0 {
		return "Stock cannot be negative"
	}
	if in.MinOrderQty != nil && *in.MinOrderQty < 1 {
		return "Minimum order quantity must be at least 1"
	}
	return ""
}

func UpdateProduct(c *gin.Context) {
	ownerID, ok := userUUID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundOrUnauthorized})
		return
	}
	productID := gocql.UUID(pid)

	company, err := services.ResolveCompany(ctx, ownerID)
	if errors.Is(err, services.ErrCompanyNotFound) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Complete seller onboarding first"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur résolution société: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	var in updateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}
	if msg := in.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	// Un changement de nom regénère le slug et rejoue les réservations
	// d'unicité. La lecture préalable ne sert qu'au ménage des index :
	// la garantie de propriété vient du LWT de l'UPDATE, pas d'elle.
	var oldName, oldSlug, newSlug string
	if in.Name != nil {
		err = session.Query(`SELECT name, slug FROM products WHERE product_id = ?`, productID).
			WithContext(ctx).Scan(&oldName, &oldSlug)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundOrUnauthorized})
			return
		}

		if *in.Name != oldName {
			newSlug = catalog.Slugify(*in.Name)

			applied, err := session.Query(`INSERT INTO products_by_company_name (company_id, name, product_id) VALUES (?, ?, ?) IF NOT EXISTS`,
				company.ID, *in.Name, productID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
				return
			}
			if !applied {
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You already have a product with this name"})
				return
			}

			// Un renommage qui conserve le slug (casse, espaces) ne rejoue pas
			// la réservation : la ligne products_by_slug existante est la nôtre
			if newSlug != oldSlug {
				applied, err = session.Query(`INSERT INTO products_by_slug (slug, product_id) VALUES (?, ?) IF NOT EXISTS`,
					newSlug, productID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
				if err != nil || !applied {
					session.Query(`DELETE FROM products_by_company_name WHERE company_id = ? AND name = ?`, company.ID, *in.Name).Exec()
					if err != nil {
						c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
						return
					}
					c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A product with this slug already exists. Choose another name"})
					return
				}
			}
		} else {
			in.Name = nil // pas de changement effectif
		}
	}

	// UPDATE conditionnel unique : cible + propriété vérifiées dans la même
	// opération (pas de fetch-check-write, pas de fenêtre TOCTOU)
	updates := []string{}
	values := []interface{}{}

	if in.Name != nil {
		updates = append(updates, "name = ?", "slug = ?")
		values = append(values, *in.Name, newSlug)
	}
	if in.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *in.Description)
	}
	if in.Price != nil {
		updates = append(updates, "price = ?")
		values = append(values, *in.Price)
	}
	if in.Category != nil {
		updates = append(updates, "category = ?")
		values = append(values, *in.Category)
	}
	if in.Stock != nil {
		updates = append(updates, "stock = ?")
		values = append(values, *in.Stock)
	}
	if in.MinOrderQty != nil {
		updates = append(updates, "min_order_qty = ?")
		values = append(values, *in.MinOrderQty)
	}
	if in.Tags != nil {
		updates = append(updates, "tags = ?")
		values = append(values, *in.Tags)
	}
	if in.Location != nil {
		updates = append(updates, "city = ?", "state = ?", "country = ?")
		values = append(values, in.Location.City, in.Location.State, in.Location.Country)
	}
	if in.Images != nil {
		var urls, ids []string
		for _, img := range *in.Images {
			urls = append(urls, img.URL)
			ids = append(ids, img.ID)
		}
		updates = append(updates, "image_urls = ?", "image_ids = ?")
		values = append(values, urls, ids)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Nothing to update"})
		return
	}

	updates = append(updates, "updated_at = ?")
	values = append(values, time.Now())
	values = append(values, productID, company.ID)

	query := "UPDATE products SET " + strings.Join(updates, ", ") + " WHERE product_id = ? IF company_id = ?"

	applied, err := session.Query(query, values...).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil && err != gocql.ErrNotFound {
		log.Printf("❌ Erreur mise à jour produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	if err == gocql.ErrNotFound || !applied {
		// ligne absente OU autre société : même réponse, et on rend les réservations
		if in.Name != nil {
			session.Query(`DELETE FROM products_by_company_name WHERE company_id = ? AND name = ?`, company.ID, *in.Name).Exec()
			if newSlug != oldSlug {
				session.Query(`DELETE FROM products_by_slug WHERE slug = ?`, newSlug).Exec()
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundOrUnauthorized})
		return
	}

	// Ménage des anciennes entrées d'index après un renommage réussi
	if in.Name != nil {
		session.Query(`DELETE FROM products_by_company_name WHERE company_id = ? AND name = ?`, company.ID, oldName).Exec()
		if newSlug != oldSlug {
			session.Query(`DELETE FROM products_by_slug WHERE slug = ?`, oldSlug).Exec()
		}
	}

	p, err := getProductByID(ctx, productID)
	if err != nil {
		log.Printf("⚠️ Relecture produit après update en échec: %v", err)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated successfully"})
		return
	}

	go services.IndexProduct(p)
	invalidateCategoryCache(context.Background(), p.Category)
	if in.Category != nil {
		invalidateCategoryCache(context.Background(), *in.Category)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func DeleteProduct(c *gin.Context) {
	ownerID, ok := userUUID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundOrUnauthorized})
		return
	}
	productID := gocql.UUID(pid)

	company, err := services.ResolveCompany(ctx, ownerID)
	if errors.Is(err, services.ErrCompanyNotFound) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Complete seller onboarding first"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	// Soft delete : bascule de visibilité, état terminal, les données restent.
	// Même opération conditionnelle unique que l'update.
	applied, err := session.Query(`UPDATE products SET is_active = false, updated_at = ? WHERE product_id = ? IF company_id = ?`,
		time.Now(), productID, company.ID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil && err != gocql.ErrNotFound {
		log.Printf("❌ Erreur suppression produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	if err == gocql.ErrNotFound || !applied {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundOrUnauthorized})
		return
	}

	if p, err := getProductByID(ctx, productID); err == nil {
		go services.IndexProduct(p)
		invalidateCategoryCache(context.Background(), p.Category)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product removed successfully"})
}

// GetSellerProducts "mes produits" : tout le périmètre de la société,
// soft-supprimés compris (pas de filtre is_active côté propriétaire)
func GetSellerProducts(c *gin.Context) {
	ownerID, ok := userUUID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	company, err := services.ResolveCompany(ctx, ownerID)
	if errors.Is(err, services.ErrCompanyNotFound) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Complete seller onboarding first"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	iter := session.Query(`SELECT `+productColumns+` FROM products WHERE company_id = ? ALLOW FILTERING`, company.ID).
		WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	var urls, ids []string

	for iter.Scan(scanProduct(&p, &urls, &ids)...) {
		attachImages(&p, urls, ids)
		products = append(products, p)
		p = models.Product{}
		urls, ids = nil, nil
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture produits vendeur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	catalog.SortProducts(products, catalog.Sort{Field: "created_at"})
	signAll(ctx, products)

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(products), "data": products})
}
