package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"bizbazaar_back_end/internal/catalog"
	"bizbazaar_back_end/internal/database"
	"bizbazaar_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const productIndex = "products"

// mapping explicite : keyword pour tout ce qui sert de filtre exact ou de tri,
// text pour le multi_match
const productMapping = `{
	"mappings": {
		"properties": {
			"id":          {"type": "keyword"},
			"company_id":  {"type": "keyword"},
			"slug":        {"type": "keyword"},
			"name":        {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"description": {"type": "text"},
			"category":    {"type": "keyword"},
			"tags":        {"type": "keyword"},
			"price":       {"type": "double"},
			"stock":       {"type": "integer"},
			"is_active":   {"type": "boolean"},
			"location":    {"properties": {
				"city":    {"type": "keyword"},
				"state":   {"type": "keyword"},
				"country": {"type": "keyword"}
			}},
			"created_at":  {"type": "date"},
			"updated_at":  {"type": "date"}
		}
	}
}`

// EnsureProductIndex crée l'index products avec son mapping s'il n'existe pas
func EnsureProductIndex(ctx context.Context) error {
	if database.Elastic == nil {
		return errors.New("client Elasticsearch non initialisé")
	}

	exists := esapi.IndicesExistsRequest{Index: []string{productIndex}}
	res, err := exists.Do(ctx, database.Elastic)
	if err != nil {
		return fmt.Errorf("erreur vérification index: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	create := esapi.IndicesCreateRequest{
		Index: productIndex,
		Body:  strings.NewReader(productMapping),
	}
	cres, err := create.Do(ctx, database.Elastic)
	if err != nil {
		return fmt.Errorf("erreur création index: %v", err)
	}
	defer cres.Body.Close()
	if cres.IsError() {
		return fmt.Errorf("création index refusée: %s", cres.String())
	}

	log.Println("✅ Index Elasticsearch 'products' créé")
	return nil
}

// IndexProduct indexe (ou ré-indexe) un produit dans Elasticsearch.
// Appelé en goroutine après chaque écriture ScyllaDB : la lecture catalogue
// est à cohérence éventuelle, c'est assumé.
func IndexProduct(p models.Product) {
	if database.Elastic == nil {
		log.Println("⚠️ Elastic non initialisé, impossible d'indexer:", p.Name)
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      productIndex,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Name, res.String())
	} else {
		log.Printf("✅ Produit indexé dans Elasticsearch: %s", p.Name)
	}
}

// SearchProducts exécute le prédicat composé et retourne (page, total).
// Le total vient de track_total_hits ; il peut être légèrement en avance ou
// en retard sur la page sous écritures concurrentes, c'est toléré.
func SearchProducts(ctx context.Context, q catalog.Query) ([]models.Product, int, error) {
	body := catalog.SearchBody(q)
	return runSearch(ctx, body)
}

// SampleProducts tirage aléatoire de n produits actifs via random_score
func SampleProducts(ctx context.Context, n int, seed int64) ([]models.Product, error) {
	body := catalog.SampleBody(n, seed)
	products, _, err := runSearch(ctx, body)
	return products, err
}

func runSearch(ctx context.Context, body map[string]interface{}) ([]models.Product, int, error) {
	if database.Elastic == nil {
		return nil, 0, errors.New("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{productIndex},
		Body:  &buf,
	}
	res, err := req.Do(ctx, database.Elastic)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		json.NewDecoder(res.Body).Decode(&e)
		log.Printf("❌ Elasticsearch erreur: %+v", e)
		return nil, 0, errors.New("recherche Elasticsearch en échec")
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("erreur décodage JSON: %v", err)
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		products = append(products, hit.Source)
	}

	return products, r.Hits.Total.Value, nil
}
