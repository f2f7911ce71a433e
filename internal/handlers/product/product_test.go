package product

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"bizbazaar_back_end/internal/database"
	"bizbazaar_back_end/internal/models"
)

// Le cache catégorie stocke des URLs d'images brutes (la signature expire
// indépendamment du TTL). Un hit cache doit donc signer avant de répondre,
// exactement comme un miss.
func TestCategoryCacheHitReturnsSignedURLs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Setenv("MINIO_BUCKET", "products")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	mc, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("test", "test-secret", ""),
		Region: "us-east-1", // évite la résolution réseau de la région
	})
	if err != nil {
		t.Fatal(err)
	}
	database.MinIO = mc

	cached := []models.Product{{
		ID:        gocql.TimeUUID(),
		Name:      "Industrial Pump",
		Category:  "machinery",
		IsActive:  true,
		Images:    []models.ProductImage{{URL: "http://localhost:9000/products/pump.png", ID: "pump"}},
		CreatedAt: time.Now(),
	}}
	data, err := json.Marshal(cached)
	if err != nil {
		t.Fatal(err)
	}
	if err := mr.Set("products:category:machinery", string(data)); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/products/category/machinery", nil)
	c.Params = gin.Params{{Key: "category", Value: "machinery"}}

	GetProductsByCategory(c)

	if w.Code != http.StatusOK {
		t.Fatalf("200 attendu sur un hit cache, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, "X-Amz-Signature") {
		t.Fatalf("URLs non signées sur un hit cache: %s", body)
	}

	// l'entrée cachée, elle, reste brute : on ne cache jamais une signature
	raw, err := mr.Get("products:category:machinery")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(raw, "X-Amz-Signature") {
		t.Error("le cache ne doit contenir que des URLs brutes")
	}
}
