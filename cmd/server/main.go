package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"bizbazaar_back_end/internal/config"
	"bizbazaar_back_end/internal/database"
	"bizbazaar_back_end/internal/routes"
	"bizbazaar_back_end/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	// ✅ Index Elasticsearch prêt avant de servir (les lectures retombent sur
	// ScyllaDB s'il est indisponible, on ne bloque pas le démarrage)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := services.EnsureProductIndex(ctx); err != nil {
		log.Printf("⚠️ Index Elasticsearch indisponible au démarrage: %v", err)
	}
	cancel()

	r := gin.Default()
	r.Use(corsConfig())

	// Health check
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "🚀 BizBazaar B2B marketplace API is running")
	})

	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur BizBazaar lancé sur le port", port)
	r.Run(":" + port)
}

func corsConfig() gin.HandlerFunc {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = strings.Split(origins, ",")
	cfg.AllowCredentials = true
	cfg.AddAllowHeaders("Authorization")
	return cors.New(cfg)
}
