package catalog

import (
	"reflect"
	"testing"
	"time"

	"bizbazaar_back_end/internal/models"

	"github.com/gocql/gocql"
)

func uuidN(n byte) gocql.UUID {
	var u gocql.UUID
	u[15] = n
	return u
}

func fixture() []models.Product {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []models.Product{
		{ID: uuidN(1), CompanyID: uuidN(100), Name: "A", Price: 100, Category: "x", Tags: []string{"steel"}, Location: models.Location{City: "Pune"}, IsActive: true, CreatedAt: base},
		{ID: uuidN(2), CompanyID: uuidN(100), Name: "B", Price: 300, Category: "y", Tags: []string{"brass", "export"}, Location: models.Location{City: "Surat"}, IsActive: true, CreatedAt: base.Add(time.Hour)},
		{ID: uuidN(3), CompanyID: uuidN(200), Name: "C", Price: 200, Category: "x", Tags: []string{"steel", "export"}, Location: models.Location{City: "Pune"}, IsActive: false, CreatedAt: base.Add(2 * time.Hour)},
		{ID: uuidN(4), CompanyID: uuidN(200), Name: "D", Price: 50, Category: "y", Description: "heavy duty pump", IsActive: true, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func buyerQuery(p Params, t *testing.T) Query {
	t.Helper()
	q, err := BuildQuery(p)
	if err != nil {
		t.Fatal(err)
	}
	ApplyVisibility(&q, Buyer())
	return q
}

func TestMinPriceExample(t *testing.T) {
	// [{A,100,x},{B,300,y}] + minPrice=150 → uniquement B
	products := fixture()[:2]
	q := buyerQuery(Params{MinPrice: "150"}, t)
	page, total := Apply(products, q)
	if total != 1 || len(page) != 1 || page[0].Name != "B" {
		t.Fatalf("minPrice=150 doit renvoyer B seul, got %v (total %d)", page, total)
	}
}

func TestCategoryFilterIsActiveAlwaysApplied(t *testing.T) {
	q := buyerQuery(Params{Category: "x"}, t)
	page, _ := Apply(fixture(), q)
	for _, p := range page {
		if p.Category != "x" || !p.IsActive {
			t.Errorf("produit hors contrat category=x actif: %+v", p)
		}
	}
	// C est en catégorie x mais soft-supprimé
	if len(page) != 1 || page[0].Name != "A" {
		t.Errorf("seul A attendu, got %v", page)
	}
}

func TestClosedPriceInterval(t *testing.T) {
	q := buyerQuery(Params{MinPrice: "60", MaxPrice: "250"}, t)
	page, _ := Apply(fixture(), q)
	for _, p := range page {
		if p.Price < 60 || p.Price > 250 {
			t.Errorf("prix hors [60,250]: %v", p.Price)
		}
	}
	if len(page) != 1 || page[0].Name != "A" {
		t.Errorf("seul A attendu (C est inactif), got %v", page)
	}
}

func TestTagIntersection(t *testing.T) {
	q := buyerQuery(Params{Tags: "export,unknown"}, t)
	page, _ := Apply(fixture(), q)
	if len(page) != 1 || page[0].Name != "B" {
		t.Fatalf("intersection de tags: B seul attendu (C inactif), got %v", page)
	}
}

func TestCityExactMatchCaseSensitive(t *testing.T) {
	q := buyerQuery(Params{City: "pune"}, t)
	if page, _ := Apply(fixture(), q); len(page) != 0 {
		t.Errorf("correspondance sensible à la casse, got %v", page)
	}
	q = buyerQuery(Params{City: "Pune"}, t)
	page, _ := Apply(fixture(), q)
	if len(page) != 1 || page[0].Name != "A" {
		t.Errorf("A seul attendu pour Pune, got %v", page)
	}
}

func TestKeywordComposesWithFilters(t *testing.T) {
	q := buyerQuery(Params{Keyword: "pump", Category: "y"}, t)
	page, _ := Apply(fixture(), q)
	if len(page) != 1 || page[0].Name != "D" {
		t.Errorf("keyword+category: D seul attendu, got %v", page)
	}
	// le keyword n'élargit jamais le jeu restreint par les autres clauses
	q = buyerQuery(Params{Keyword: "pump", Category: "x"}, t)
	if page, _ := Apply(fixture(), q); len(page) != 0 {
		t.Errorf("aucun résultat attendu, got %v", page)
	}
}

func TestPaginationWindow(t *testing.T) {
	// 15 correspondances, page 2 limit 10 → 5 éléments, pages = 2
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var products []models.Product
	for i := 0; i < 15; i++ {
		products = append(products, models.Product{
			ID: uuidN(byte(i + 1)), Name: "P", Price: 10, Category: "x",
			IsActive: true, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	q := buyerQuery(Params{Page: "2", Limit: "10"}, t)
	page, total := Apply(products, q)
	if total != 15 || len(page) != 5 {
		t.Fatalf("page 2/10 sur 15: 5 éléments attendus, got %d (total %d)", len(page), total)
	}
	if q.Pages(total) != 2 {
		t.Errorf("pages = ceil(15/10) = 2, got %d", q.Pages(total))
	}
	if len(page) > q.Limit {
		t.Errorf("jamais plus de limit éléments")
	}
	// au-delà de la dernière page : vide, pas d'erreur
	q = buyerQuery(Params{Page: "4", Limit: "10"}, t)
	if page, _ := Apply(products, q); len(page) != 0 {
		t.Errorf("page hors fenêtre → vide, got %v", page)
	}
}

func TestIdempotentOrdering(t *testing.T) {
	q := buyerQuery(Params{}, t)
	first, _ := Apply(fixture(), q)
	second, _ := Apply(fixture(), q)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("deux exécutions identiques doivent rendre la même page ordonnée")
	}
}

func TestSortTieBreakByID(t *testing.T) {
	// timestamps identiques : l'ordre doit rester stable, id croissant
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	products := []models.Product{
		{ID: uuidN(3), Name: "c", IsActive: true, CreatedAt: ts},
		{ID: uuidN(1), Name: "a", IsActive: true, CreatedAt: ts},
		{ID: uuidN(2), Name: "b", IsActive: true, CreatedAt: ts},
	}
	SortProducts(products, Sort{Field: "created_at"})
	for i, want := range []string{"a", "b", "c"} {
		if products[i].Name != want {
			t.Fatalf("départage par id croissant attendu, got %v", products)
		}
	}
}

func TestSortByPrice(t *testing.T) {
	products := fixture()
	SortProducts(products, Sort{Field: "price", Ascending: true})
	for i := 1; i < len(products); i++ {
		if products[i-1].Price > products[i].Price {
			t.Fatalf("tri prix croissant cassé: %v", products)
		}
	}
	SortProducts(products, Sort{Field: "price"})
	for i := 1; i < len(products); i++ {
		if products[i-1].Price < products[i].Price {
			t.Fatalf("tri prix décroissant cassé: %v", products)
		}
	}
}

func TestDefaultSortNewestFirst(t *testing.T) {
	q := buyerQuery(Params{}, t)
	page, _ := Apply(fixture(), q)
	for i := 1; i < len(page); i++ {
		if page[i-1].CreatedAt.Before(page[i].CreatedAt) {
			t.Fatalf("tri -createdAt attendu, got %v", page)
		}
	}
}

func TestOwnerVisibility(t *testing.T) {
	q, _ := BuildQuery(Params{})
	ApplyVisibility(&q, Owner(uuidN(200)))
	page, total := Apply(fixture(), q)
	if total != 2 {
		t.Fatalf("le vendeur voit ses 2 produits (dont le soft-supprimé), got %d", total)
	}
	for _, p := range page {
		if p.CompanyID != uuidN(200) {
			t.Errorf("produit hors périmètre société: %+v", p)
		}
	}
}

func TestBuyerNeverSeesInactive(t *testing.T) {
	q := buyerQuery(Params{}, t)
	page, total := Apply(fixture(), q)
	if total != 3 {
		t.Fatalf("3 produits actifs attendus, got %d", total)
	}
	for _, p := range page {
		if !p.IsActive {
			t.Errorf("produit inactif visible acheteur: %+v", p)
		}
	}
}
