package services

import (
	"context"
	"errors"
	"fmt"

	"bizbazaar_back_end/internal/database"
	"bizbazaar_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ErrCompanyNotFound le principal authentifié n'a pas de société onboardée.
// Toutes les écritures vendeur passent par ResolveCompany avant de toucher
// aux produits : c'est la source de vérité du "qui écrit où".
var ErrCompanyNotFound = errors.New("no company for this user")

// ResolveCompany résout la société possédée par un utilisateur via la table
// companies_by_owner (un utilisateur → au plus une société)
func ResolveCompany(ctx context.Context, ownerID gocql.UUID) (models.Company, error) {
	session, err := database.GetCompaniesSession()
	if err != nil {
		return models.Company{}, err
	}

	var companyID gocql.UUID
	err = session.Query(`SELECT company_id FROM companies_by_owner WHERE owner_user_id = ?`, ownerID).
		WithContext(ctx).Scan(&companyID)
	if err == gocql.ErrNotFound {
		return models.Company{}, ErrCompanyNotFound
	}
	if err != nil {
		return models.Company{}, fmt.Errorf("erreur lecture companies_by_owner: %v", err)
	}

	return GetCompanyByID(ctx, companyID)
}

// GetCompanyByID charge la ligne complète de la société
func GetCompanyByID(ctx context.Context, companyID gocql.UUID) (models.Company, error) {
	session, err := database.GetCompaniesSession()
	if err != nil {
		return models.Company{}, err
	}

	var co models.Company
	err = session.Query(`SELECT company_id, owner_user_id, company_name, business_type, description, gst_number, email, subdomain,
	                     city, state, country, pincode, is_verified, established_year, website, logo_url, created_at, updated_at
	                     FROM companies WHERE company_id = ?`, companyID).
		WithContext(ctx).Scan(
		&co.ID, &co.OwnerUserID, &co.CompanyName, &co.BusinessType, &co.Description, &co.GSTNumber, &co.Email, &co.Subdomain,
		&co.Address.City, &co.Address.State, &co.Address.Country, &co.Address.Pincode,
		&co.IsVerified, &co.EstablishedYear, &co.Website, &co.LogoURL, &co.CreatedAt, &co.UpdatedAt)
	if err == gocql.ErrNotFound {
		return models.Company{}, ErrCompanyNotFound
	}
	if err != nil {
		return models.Company{}, fmt.Errorf("erreur lecture companies: %v", err)
	}

	return co, nil
}
