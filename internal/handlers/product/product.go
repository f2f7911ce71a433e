package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"bizbazaar_back_end/internal/catalog"
	"bizbazaar_back_end/internal/database"
	"bizbazaar_back_end/internal/models"
	"bizbazaar_back_end/internal/services"
)

const (
	categoryCacheTTL = 5 * time.Minute
	storeURLCacheTTL = 1 * time.Hour
	categoryLimit    = 500 // borne dure du listing par catégorie (non paginé), tronque au-delà
)

// ---------------------------------------------
// Helpers partagés du package
// ---------------------------------------------

// userUUID extrait le user_id posé par le middleware JWT
func userUUID(c *gin.Context) (gocql.UUID, bool) {
	raw := c.GetString("user_id")
	uid, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user id"})
		return gocql.UUID{}, false
	}
	return gocql.UUID(uid), true
}

const productColumns = `product_id, company_id, name, slug, description, price, category, stock, min_order_qty, is_active,
	image_urls, image_ids, tags, city, state, country, created_at, updated_at`

// scanProduct destination de scan pour une ligne products
func scanProduct(p *models.Product, imageURLs, imageIDs *[]string) []interface{} {
	return []interface{}{
		&p.ID, &p.CompanyID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Category, &p.Stock, &p.MinOrderQty, &p.IsActive,
		imageURLs, imageIDs, &p.Tags, &p.Location.City, &p.Location.State, &p.Location.Country, &p.CreatedAt, &p.UpdatedAt,
	}
}

func attachImages(p *models.Product, urls, ids []string) {
	p.Images = nil
	for i, u := range urls {
		img := models.ProductImage{URL: u}
		if i < len(ids) {
			img.ID = ids[i]
		}
		p.Images = append(p.Images, img)
	}
}

// getProductByID lit un produit par clé primaire
func getProductByID(ctx context.Context, id gocql.UUID) (models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	var urls, ids []string
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(scanProduct(&p, &urls, &ids)...)
	if err != nil {
		return models.Product{}, err
	}
	attachImages(&p, urls, ids)
	return p, nil
}

// scanAllProducts scan complet de la table products. Chemin de secours
// uniquement : ScyllaDB ne sait pas évaluer le prédicat composé, le filtrage
// se fait en mémoire via catalog (cf. catalog/memory.go).
func scanAllProducts(ctx context.Context) ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	var urls, ids []string

	for iter.Scan(scanProduct(&p, &urls, &ids)...) {
		attachImages(&p, urls, ids)
		products = append(products, p)
		p = models.Product{} // Reset pour la prochaine itération
		urls, ids = nil, nil
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

// invalidateCategoryCache purge le cache du listing par catégorie
func invalidateCategoryCache(ctx context.Context, categories ...string) {
	for _, cat := range categories {
		if cat != "" {
			database.Redis.Del(ctx, "products:category:"+cat)
		}
	}
}

func signAll(ctx context.Context, products []models.Product) {
	for i := range products {
		services.SignProductImages(ctx, &products[i])
	}
}

// ---------------------------------------------
// SELLER: création
// ---------------------------------------------

type createInput struct {
	Name        string                `json:"name"`
	Price       *float64              `json:"price"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	Stock       int                   `json:"stock"`
	MinOrderQty int                   `json:"min_order_qty"`
	Tags        []string              `json:"tags"`
	Location    models.Location       `json:"location"`
	Images      []models.ProductImage `json:"images"`
}

func (in *createInput) validate() string {
	in.Name = strings.TrimSpace(in.Name)
	if len(in.Name) < 3 || len(in.Name) > 120 {
		return "Product name must be between 3 and 120 characters"
	}
	if in.Price == nil || *in.Price < 0 {
		return "Price is required and cannot be negative"
	}
	if in.Category == "" {
		return "Category is required"
	}
	if len(in.Description) > 2000 {
		return "Description cannot exceed 2000 characters"
	}
	if in.Stock < 0 {
		return "Stock cannot be negative"
	}
	if in.MinOrderQty < 0 {
		return "Minimum order quantity cannot be negative"
	}
	return ""
}

func CreateProduct(c *gin.Context) {
	ownerID, ok := userUUID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// Résolution du tenant AVANT toute écriture produit
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

	var in createInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if msg := in.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}
	if in.MinOrderQty == 0 {
		in.MinOrderQty = 1
	}
	// Adresse dénormalisée : copie de l'adresse société si le vendeur n'en donne pas,
	// pour éviter une jointure sur le chemin de lecture
	if in.Location.City == "" {
		in.Location = models.Location{City: company.Address.City, State: company.Address.State, Country: company.Address.Country}
	}
	if in.Location.Country == "" {
		in.Location.Country = "India"
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	p := models.Product{
		ID:          gocql.TimeUUID(),
		CompanyID:   company.ID,
		Name:        in.Name,
		Slug:        catalog.Slugify(in.Name),
		Description: in.Description,
		Price:       *in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		MinOrderQty: in.MinOrderQty,
		IsActive:    true,
		Images:      in.Images,
		Tags:        in.Tags,
		Location:    in.Location,
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	// Unicité (name, company) : réservation LWT, le perdant de la course reçoit 409.
	// Aucun verrou applicatif : le service tourne en plusieurs instances.
	applied, err := session.Query(`INSERT INTO products_by_company_name (company_id, name, product_id) VALUES (?, ?, ?) IF NOT EXISTS`,
		p.CompanyID, p.Name, p.ID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		log.Printf("❌ Erreur réservation nom produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "You already have a product with this name"})
		return
	}

	// Unicité globale du slug, même mécanique. Pas d'auto-suffixe : on rejette.
	applied, err = session.Query(`INSERT INTO products_by_slug (slug, product_id) VALUES (?, ?) IF NOT EXISTS`,
		p.Slug, p.ID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil || !applied {
		session.Query(`DELETE FROM products_by_company_name WHERE company_id = ? AND name = ?`, p.CompanyID, p.Name).Exec()
		if err != nil {
			log.Printf("❌ Erreur réservation slug: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A product with this slug already exists. Choose another name"})
		return
	}

	var urls, ids []string
	for _, img := range p.Images {
		urls = append(urls, img.URL)
		ids = append(ids, img.ID)
	}

	err = session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CompanyID, p.Name, p.Slug, p.Description, p.Price, p.Category, p.Stock, p.MinOrderQty, p.IsActive,
		urls, ids, p.Tags, p.Location.City, p.Location.State, p.Location.Country, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		session.Query(`DELETE FROM products_by_company_name WHERE company_id = ? AND name = ?`, p.CompanyID, p.Name).Exec()
		session.Query(`DELETE FROM products_by_slug WHERE slug = ?`, p.Slug).Exec()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	// 🔄 Indexation Elasticsearch (cohérence éventuelle assumée)
	go services.IndexProduct(p)
	invalidateCategoryCache(context.Background(), p.Category)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product created successfully",
		"data":    p,
	})
}

// ---------------------------------------------
// BUYER: filtrage / recherche
// ---------------------------------------------

func FilterProducts(c *gin.Context) {
	ctx := c.Request.Context()

	params := catalog.Params{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
		Tags:     c.Query("tags"),
		City:     c.Query("city"),
		Sort:     c.Query("sort"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
	}

	q, err := catalog.BuildQuery(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	catalog.ApplyVisibility(&q, catalog.Buyer())

	products, total, err := services.SearchProducts(ctx, q)
	if err != nil {
		// 🔁 Fallback ScyllaDB si Elastic est indisponible : scan + évaluation
		// en mémoire du même prédicat
		log.Printf("⚠️ Elastic indisponible, fallback ScyllaDB: %v", err)
		all, scanErr := scanAllProducts(ctx)
		if scanErr != nil {
			log.Printf("❌ Erreur scan produits: %v", scanErr)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		products, total = catalog.Apply(all, q)
	}

	signAll(ctx, products)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"page":    q.Page,
		"pages":   q.Pages(total),
		"data":    products,
	})
}

// ---------------------------------------------
// BUYER: listing par catégorie (sans pagination, caché 5 min)
// ---------------------------------------------

func GetProductsByCategory(c *gin.Context) {
	ctx := c.Request.Context()
	category := c.Param("category")
	cacheKey := "products:category:" + category

	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			// le cache stocke les URLs brutes : la signature expire
			// indépendamment du TTL, on signe à chaque lecture
			signAll(ctx, cached)
			c.JSON(http.StatusOK, gin.H{"success": true, "count": len(cached), "data": cached})
			return
		}
	}

	q := catalog.Query{
		Clauses: []catalog.Clause{catalog.TermClause{Field: "category", Value: category}},
		Sort:    catalog.Sort{Field: "created_at"},
		Page:    1,
		Limit:   categoryLimit,
	}
	catalog.ApplyVisibility(&q, catalog.Buyer())

	products, _, err := services.SearchProducts(ctx, q)
	if err != nil {
		log.Printf("⚠️ Elastic indisponible, fallback ScyllaDB: %v", err)
		all, scanErr := scanAllProducts(ctx)
		if scanErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		products, _ = catalog.Apply(all, q)
	}

	if len(products) >= categoryLimit {
		log.Printf("⚠️ Listing catégorie %q tronqué à %d produits", category, categoryLimit)
	}

	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, cacheKey, data, categoryCacheTTL)
	}

	signAll(ctx, products)

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(products), "data": products})
}

// ---------------------------------------------
// BUYER: tirage aléatoire (jamais caché, recalculé à chaque appel)
// ---------------------------------------------

func GetRandomProducts(c *gin.Context) {
	ctx := c.Request.Context()

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(catalog.DefaultSampleSize)))
	if err != nil || limit < 1 {
		limit = catalog.DefaultSampleSize
	}
	if limit > catalog.MaxLimit {
		limit = catalog.MaxLimit
	}

	seed := time.Now().UnixNano()

	products, esErr := services.SampleProducts(ctx, limit, seed)
	if esErr != nil {
		// 🔁 Fallback : réservoir sur un scan ScyllaDB des produits actifs
		log.Printf("⚠️ Elastic indisponible, échantillonnage réservoir: %v", esErr)
		all, scanErr := scanAllProducts(ctx)
		if scanErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		var active []models.Product
		for _, p := range all {
			if p.IsActive {
				active = append(active, p)
			}
		}
		rng := rand.New(rand.NewSource(seed))
		products = catalog.Reservoir(active, limit, rng)
	}

	signAll(ctx, products)

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(products), "data": products})
}

// ---------------------------------------------
// BUYER: redirection boutique + QR de partage
// ---------------------------------------------

// resolveStoreURL résout l'URL de la vitrine de la société propriétaire.
// Réponse 404 uniforme : produit inexistant, inactif ou société irrésoluble.
func resolveStoreURL(ctx context.Context, rawID string) (string, bool) {
	pid, err := uuid.Parse(rawID)
	if err != nil {
		return "", false
	}

	p, err := getProductByID(ctx, gocql.UUID(pid))
	if err != nil || !p.IsActive {
		return "", false
	}

	cacheKey := "store_url:" + p.CompanyID.String()
	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		return val, true
	}

	company, err := services.GetCompanyByID(ctx, p.CompanyID)
	if err != nil || company.Subdomain == "" {
		return "", false
	}

	baseDomain := os.Getenv("BASE_DOMAIN")
	if baseDomain == "" {
		baseDomain = "bizbazaar.in"
	}
	storeURL := fmt.Sprintf("https://%s.%s", company.Subdomain, baseDomain)

	database.Redis.Set(ctx, cacheKey, storeURL, storeURLCacheTTL)
	return storeURL, true
}

func RedirectToStore(c *gin.Context) {
	storeURL, ok := resolveStoreURL(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}
	c.Redirect(http.StatusFound, storeURL)
}

// ProductQR rend un QR PNG pointant vers la vitrine du vendeur
func ProductQR(c *gin.Context) {
	storeURL, ok := resolveStoreURL(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	png, err := qrcode.Encode(storeURL, qrcode.Medium, 256)
	if err != nil {
		log.Printf("❌ Erreur génération QR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
