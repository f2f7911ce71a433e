package catalog

import (
	"math/rand"

	"bizbazaar_back_end/internal/models"
)

const DefaultSampleSize = 12

// Reservoir échantillonnage réservoir (algorithme R) : au plus n produits
// distincts, sans biais, sans doublon. Si le pool contient moins de n
// produits, tous sont retournés. Chemin de secours du tirage aléatoire ;
// le chemin principal passe par random_score côté Elasticsearch.
func Reservoir(products []models.Product, n int, rng *rand.Rand) []models.Product {
	if n <= 0 {
		n = DefaultSampleSize
	}
	reservoir := make([]models.Product, 0, n)
	for i, p := range products {
		if i < n {
			reservoir = append(reservoir, p)
			continue
		}
		if j := rng.Intn(i + 1); j < n {
			reservoir[j] = p
		}
	}
	return reservoir
}
