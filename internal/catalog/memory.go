package catalog

import (
	"bytes"
	"sort"

	"bizbazaar_back_end/internal/models"
)

// Évaluation en mémoire du prédicat composé. Utilisée par le chemin de secours
// quand Elasticsearch est indisponible : ScyllaDB ne sait pas faire de
// recherche texte ni de filtres dynamiques, on scanne et on filtre ici
// (même approche que le fallback de recherche historique).

// MatchesAll vrai si le produit satisfait toutes les clauses (AND)
func MatchesAll(p models.Product, clauses []Clause) bool {
	for _, c := range clauses {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

// Apply filtre, trie et pagine. Retourne la page demandée et le total de
// correspondances avant pagination.
func Apply(products []models.Product, q Query) ([]models.Product, int) {
	var matched []models.Product
	for _, p := range products {
		if MatchesAll(p, q.Clauses) {
			matched = append(matched, p)
		}
	}

	SortProducts(matched, q.Sort)

	total := len(matched)
	start := q.Skip()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

// SortProducts tri stable ; départage systématique par id croissant pour que
// des timestamps identiques ne réordonnent jamais une page entre deux appels.
func SortProducts(products []models.Product, s Sort) {
	field := s.Field
	if field == "" {
		// pas de score en mémoire : retombe sur le tri par défaut
		field = "created_at"
	}
	sort.Slice(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch field {
		case "price":
			if a.Price != b.Price {
				if s.Ascending {
					return a.Price < b.Price
				}
				return a.Price > b.Price
			}
		case "name":
			if a.Name != b.Name {
				if s.Ascending {
					return a.Name < b.Name
				}
				return a.Name > b.Name
			}
		default: // created_at
			if !a.CreatedAt.Equal(b.CreatedAt) {
				if s.Ascending {
					return a.CreatedAt.Before(b.CreatedAt)
				}
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
}
