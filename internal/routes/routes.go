package routes

import (
	"bizbazaar_back_end/internal/handlers/company"
	"bizbazaar_back_end/internal/handlers/product"
	"bizbazaar_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.Use(middleware.APIRateLimit())

	// Produits — lectures acheteur publiques
	products := api.Group("/products")
	{
		products.GET("", middleware.SearchRateLimit(), product.FilterProducts)
		products.GET("/random", product.GetRandomProducts)
		products.GET("/category/:category", product.GetProductsByCategory)
		products.GET("/:id/store", product.RedirectToStore)
		products.GET("/:id/qr", product.ProductQR)
		products.POST("/:id/enquiry", product.SendProductEnquiry)

		// Écritures vendeur
		seller := products.Group("")
		seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
		{
			seller.POST("", product.CreateProduct)
			seller.GET("/seller/me", product.GetSellerProducts)
			seller.PUT("/:id", product.UpdateProduct)
			seller.DELETE("/:id", product.DeleteProduct)
		}
	}

	// Société du vendeur
	companies := api.Group("/company")
	companies.Use(middleware.AuthRequired(), middleware.SellerRequired())
	{
		companies.POST("", company.UpsertCompany)
		companies.GET("/me", company.GetMyCompany)
		companies.PUT("/me", company.UpdateCompany)
	}
}
