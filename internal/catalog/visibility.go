package catalog

import "github.com/gocql/gocql"

// Viewer contexte d'appel : acheteur anonyme ou vendeur authentifié.
// CompanyID nil = acheteur.
type Viewer struct {
	CompanyID *gocql.UUID
}

func Buyer() Viewer { return Viewer{} }

func Owner(companyID gocql.UUID) Viewer { return Viewer{CompanyID: &companyID} }

// ApplyVisibility ajoute la clause de visibilité, TOUJOURS, en dernier :
//   - acheteur : is_active == true, non contournable
//   - vendeur ("mes produits") : périmètre société, actifs ET soft-supprimés
func ApplyVisibility(q *Query, v Viewer) {
	if v.CompanyID != nil {
		q.Clauses = append(q.Clauses, CompanyClause{CompanyID: *v.CompanyID})
		return
	}
	q.Clauses = append(q.Clauses, ActiveClause{})
}
