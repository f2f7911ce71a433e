package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bizbazaar_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ErrValidation paramètre de filtre invalide — rejeté avant de toucher au stockage
var ErrValidation = errors.New("invalid filter parameter")

const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = "-createdAt"
	MaxLimit     = 100
)

// Params paramètres bruts de la requête, tous optionnels.
// Un paramètre absent ("") ne produit AUCUNE clause.
type Params struct {
	Keyword  string
	Category string
	MinPrice string
	MaxPrice string
	Tags     string
	City     string
	Sort     string
	Page     string
	Limit    string
}

// Clause fragment de prédicat typé. Les clauses sont combinées en AND.
// Matches permet l'évaluation en mémoire (fallback ScyllaDB quand Elastic est down).
type Clause interface {
	Matches(p models.Product) bool
}

// TermClause égalité exacte (category, location.city, ...)
type TermClause struct {
	Field string
	Value string
}

func (c TermClause) Matches(p models.Product) bool {
	switch c.Field {
	case "category":
		return p.Category == c.Value
	case "location.city":
		return p.Location.City == c.Value
	case "slug":
		return p.Slug == c.Value
	}
	return false
}

// RangeClause intervalle de prix, bornes optionnelles
type RangeClause struct {
	Field string
	Min   *float64
	Max   *float64
}

func (c RangeClause) Matches(p models.Product) bool {
	if c.Min != nil && p.Price < *c.Min {
		return false
	}
	if c.Max != nil && p.Price > *c.Max {
		return false
	}
	return true
}

// AnyTagClause intersection non vide entre les tags du produit et ceux demandés
// (OR à l'intérieur de la clause, AND avec le reste)
type AnyTagClause struct {
	Tags []string
}

func (c AnyTagClause) Matches(p models.Product) bool {
	for _, want := range c.Tags {
		for _, have := range p.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TextClause recherche plein-texte sur name, description et tags
type TextClause struct {
	Keyword string
}

func (c TextClause) Matches(p models.Product) bool {
	kw := strings.ToLower(c.Keyword)
	if strings.Contains(strings.ToLower(p.Name), kw) ||
		strings.Contains(strings.ToLower(p.Description), kw) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), kw) {
			return true
		}
	}
	return false
}

// ActiveClause clause de visibilité acheteur : uniquement les produits actifs
type ActiveClause struct{}

func (c ActiveClause) Matches(p models.Product) bool { return p.IsActive }

// CompanyClause périmètre vendeur : uniquement les produits de SA société
type CompanyClause struct {
	CompanyID gocql.UUID
}

func (c CompanyClause) Matches(p models.Product) bool { return p.CompanyID == c.CompanyID }

// Sort spécification de tri. Le départage se fait toujours par id croissant
// pour que deux requêtes identiques renvoient des pages identiques.
type Sort struct {
	Field     string // created_at | price | name | "" (pertinence Elastic)
	Ascending bool
}

// Query prédicat composé + tri + fenêtre de pagination
type Query struct {
	Clauses []Clause
	Sort    Sort
	Page    int
	Limit   int
}

func (q Query) Skip() int { return (q.Page - 1) * q.Limit }

// Pages nombre total de pages = ceil(total / limit)
func (q Query) Pages(total int) int {
	if total == 0 {
		return 0
	}
	return (total + q.Limit - 1) / q.Limit
}

// BuildQuery transforme les paramètres bruts en Query structurée.
// Retourne ErrValidation (wrappé) sur toute entrée malformée.
func BuildQuery(p Params) (Query, error) {
	q := Query{Page: DefaultPage, Limit: DefaultLimit}

	if p.Category != "" {
		q.Clauses = append(q.Clauses, TermClause{Field: "category", Value: p.Category})
	}

	if p.MinPrice != "" || p.MaxPrice != "" {
		rc := RangeClause{Field: "price"}
		if p.MinPrice != "" {
			v, err := strconv.ParseFloat(p.MinPrice, 64)
			if err != nil || v < 0 {
				return Query{}, fmt.Errorf("%w: minPrice=%q", ErrValidation, p.MinPrice)
			}
			rc.Min = &v
		}
		if p.MaxPrice != "" {
			v, err := strconv.ParseFloat(p.MaxPrice, 64)
			if err != nil || v < 0 {
				return Query{}, fmt.Errorf("%w: maxPrice=%q", ErrValidation, p.MaxPrice)
			}
			rc.Max = &v
		}
		q.Clauses = append(q.Clauses, rc)
	}

	if p.Tags != "" {
		tags := splitTags(p.Tags)
		if len(tags) > 0 {
			q.Clauses = append(q.Clauses, AnyTagClause{Tags: tags})
		}
	}

	if p.City != "" {
		q.Clauses = append(q.Clauses, TermClause{Field: "location.city", Value: p.City})
	}

	if p.Keyword != "" {
		q.Clauses = append(q.Clauses, TextClause{Keyword: p.Keyword})
	}

	sort, err := parseSort(p.Sort)
	if err != nil {
		return Query{}, err
	}
	q.Sort = sort

	if p.Page != "" {
		v, err := strconv.Atoi(p.Page)
		if err != nil || v < 1 {
			return Query{}, fmt.Errorf("%w: page=%q", ErrValidation, p.Page)
		}
		q.Page = v
	}
	if p.Limit != "" {
		v, err := strconv.Atoi(p.Limit)
		if err != nil || v < 1 {
			return Query{}, fmt.Errorf("%w: limit=%q", ErrValidation, p.Limit)
		}
		if v > MaxLimit {
			v = MaxLimit
		}
		q.Limit = v
	}

	return q, nil
}

// splitTags découpe sur la virgule, trim, supprime vides et doublons
func splitTags(raw string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

func parseSort(raw string) (Sort, error) {
	if raw == "" {
		raw = DefaultSort
	}
	asc := true
	if strings.HasPrefix(raw, "-") {
		asc = false
		raw = raw[1:]
	}
	switch raw {
	case "createdAt":
		return Sort{Field: "created_at", Ascending: asc}, nil
	case "price":
		return Sort{Field: "price", Ascending: asc}, nil
	case "name":
		return Sort{Field: "name", Ascending: asc}, nil
	case "relevance":
		// tri par score Elastic, pas de champ
		return Sort{}, nil
	}
	return Sort{}, fmt.Errorf("%w: sort=%q", ErrValidation, raw)
}
