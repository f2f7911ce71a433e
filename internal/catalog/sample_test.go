package catalog

import (
	"math/rand"
	"testing"
	"time"

	"bizbazaar_back_end/internal/models"

	"github.com/gocql/gocql"
)

func pool(n int) []models.Product {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	products := make([]models.Product, n)
	for i := range products {
		products[i] = models.Product{ID: uuidN(byte(i + 1)), IsActive: true, CreatedAt: base}
	}
	return products
}

func TestReservoirSmallPool(t *testing.T) {
	// 12 demandés sur 5 actifs → les 5, une seule fois chacun
	rng := rand.New(rand.NewSource(42))
	sample := Reservoir(pool(5), 12, rng)
	if len(sample) != 5 {
		t.Fatalf("pool de 5 → 5 résultats, got %d", len(sample))
	}
	seen := map[gocql.UUID]bool{}
	for _, p := range sample {
		if seen[p.ID] {
			t.Fatalf("doublon dans l'échantillon: %v", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestReservoirSize(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sample := Reservoir(pool(100), 12, rng)
	if len(sample) != 12 {
		t.Fatalf("12 attendus, got %d", len(sample))
	}
	seen := map[gocql.UUID]bool{}
	for _, p := range sample {
		if seen[p.ID] {
			t.Fatal("doublon dans l'échantillon")
		}
		seen[p.ID] = true
	}
}

func TestReservoirDefaultSize(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	if got := len(Reservoir(pool(100), 0, rng)); got != DefaultSampleSize {
		t.Fatalf("taille par défaut %d attendue, got %d", DefaultSampleSize, got)
	}
}

func TestReservoirCoversWholePool(t *testing.T) {
	// chaque élément doit pouvoir sortir : sur beaucoup de tirages,
	// le dernier du pool apparaît aussi (pas de biais de position)
	rng := rand.New(rand.NewSource(1))
	last := uuidN(20)
	found := false
	for i := 0; i < 200 && !found; i++ {
		for _, p := range Reservoir(pool(20), 3, rng) {
			if p.ID == last {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("le dernier élément du pool n'est jamais tiré, échantillonnage biaisé")
	}
}

func TestReservoirEmptyPool(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	if got := Reservoir(nil, 12, rng); len(got) != 0 {
		t.Fatalf("pool vide → échantillon vide, got %v", got)
	}
}
