package company

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"bizbazaar_back_end/internal/database"
	"bizbazaar_back_end/internal/models"
	"bizbazaar_back_end/internal/services"
)

func ownerUUID(c *gin.Context) (gocql.UUID, bool) {
	raw := c.GetString("user_id")
	uid, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid user id"})
		return gocql.UUID{}, false
	}
	return gocql.UUID(uid), true
}

type upsertInput struct {
	CompanyName     string         `json:"companyName"`
	BusinessType    string         `json:"businessType"`
	Description     string         `json:"description"`
	GSTNumber       string         `json:"gstNumber"`
	Email           string         `json:"email"`
	Subdomain       string         `json:"subdomain"`
	Address         models.Address `json:"address"`
	EstablishedYear int            `json:"establishedYear"`
	Website         string         `json:"website"`
	Logo            string         `json:"logo"`
}

// normalizeSubdomain minuscules, trim, les suites d'espaces deviennent un tiret
func normalizeSubdomain(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), "-")
}

// UpsertCompany crée ou met à jour LA société de l'utilisateur (une seule par
// compte, clé owner_user_id). L'unicité du sous-domaine est arbitrée par LWT
// dans companies_by_subdomain : le perdant d'une course reçoit 409.
func UpsertCompany(c *gin.Context) {
	ownerID, ok := ownerUUID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var in upsertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if in.CompanyName == "" || in.BusinessType == "" || in.Subdomain == "" ||
		in.Address.City == "" || in.Address.State == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Company name, business type, subdomain and address are required",
		})
		return
	}

	subdomain := normalizeSubdomain(in.Subdomain)
	if in.Address.Country == "" {
		in.Address.Country = "India"
	}

	session, err := database.GetCompaniesSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// Société existante ?
	existing, err := services.ResolveCompany(ctx, ownerID)
	isNew := errors.Is(err, services.ErrCompanyNotFound)
	if err != nil && !isNew {
		log.Printf("❌ Erreur résolution société: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	companyID := existing.ID
	now := time.Now()
	createdAt := existing.CreatedAt

	if isNew {
		companyID = gocql.TimeUUID()
		createdAt = now

		// Course possible entre deux onboardings du même compte : le perdant
		// réutilise la société gagnante
		prev := map[string]interface{}{}
		applied, err := session.Query(`INSERT INTO companies_by_owner (owner_user_id, company_id) VALUES (?, ?) IF NOT EXISTS`,
			ownerID, companyID).WithContext(ctx).MapScanCAS(prev)
		if err != nil {
			log.Printf("❌ Erreur réservation owner: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if !applied {
			if winner, ok := prev["company_id"].(gocql.UUID); ok {
				companyID = winner
				isNew = false
			}
		}
	}

	// Réservation du sous-domaine (sauf s'il est déjà à nous)
	if existing.Subdomain != subdomain {
		prev := map[string]interface{}{}
		applied, err := session.Query(`INSERT INTO companies_by_subdomain (subdomain, company_id) VALUES (?, ?) IF NOT EXISTS`,
			subdomain, companyID).WithContext(ctx).MapScanCAS(prev)
		if err != nil {
			log.Printf("❌ Erreur réservation sous-domaine: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if !applied {
			holder, _ := prev["company_id"].(gocql.UUID)
			if holder != companyID {
				c.JSON(http.StatusConflict, gin.H{"message": "Subdomain already taken. Choose another one."})
				return
			}
		}
	}

	co := models.Company{
		ID:              companyID,
		OwnerUserID:     ownerID,
		CompanyName:     in.CompanyName,
		BusinessType:    in.BusinessType,
		Description:     in.Description,
		GSTNumber:       in.GSTNumber,
		Email:           in.Email,
		Subdomain:       subdomain,
		Address:         in.Address,
		IsVerified:      existing.IsVerified,
		EstablishedYear: in.EstablishedYear,
		Website:         in.Website,
		LogoURL:         in.Logo,
		CreatedAt:       createdAt,
		UpdatedAt:       now,
	}

	err = session.Query(`INSERT INTO companies (company_id, owner_user_id, company_name, business_type, description, gst_number, email, subdomain,
	                     city, state, country, pincode, is_verified, established_year, website, logo_url, created_at, updated_at)
	                     VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		co.ID, co.OwnerUserID, co.CompanyName, co.BusinessType, co.Description, co.GSTNumber, co.Email, co.Subdomain,
		co.Address.City, co.Address.State, co.Address.Country, co.Address.Pincode,
		co.IsVerified, co.EstablishedYear, co.Website, co.LogoURL, co.CreatedAt, co.UpdatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		log.Printf("❌ Erreur sauvegarde société: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// Libère l'ancien sous-domaine après un changement réussi
	if !isNew && existing.Subdomain != "" && existing.Subdomain != subdomain {
		session.Query(`DELETE FROM companies_by_subdomain WHERE subdomain = ?`, existing.Subdomain).Exec()
		database.Redis.Del(ctx, "store_url:"+companyID.String())
	}

	log.Printf("✅ Société sauvegardée: %s (%s)", co.CompanyName, co.Subdomain)

	c.JSON(http.StatusOK, gin.H{
		"message": "Company details saved successfully",
		"company": co,
	})
}

// GetMyCompany GET /api/v1/company/me
func GetMyCompany(c *gin.Context) {
	ownerID, ok := ownerUUID(c)
	if !ok {
		return
	}

	company, err := services.ResolveCompany(c.Request.Context(), ownerID)
	if errors.Is(err, services.ErrCompanyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Company not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur résolution société: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

type updateInput struct {
	CompanyName     *string         `json:"companyName"`
	BusinessType    *string         `json:"businessType"`
	Description     *string         `json:"description"`
	GSTNumber       *string         `json:"gstNumber"`
	Email           *string         `json:"email"`
	Address         *models.Address `json:"address"`
	EstablishedYear *int            `json:"establishedYear"`
	Website         *string         `json:"website"`
	Logo            *string         `json:"logo"`
	// le sous-domaine ne change que via l'upsert (chemin LWT unique)
}

// UpdateCompany PUT /api/v1/company/me — mise à jour partielle
func UpdateCompany(c *gin.Context) {
	ownerID, ok := ownerUUID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	company, err := services.ResolveCompany(ctx, ownerID)
	if errors.Is(err, services.ErrCompanyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Company not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	var in updateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	session, err := database.GetCompaniesSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	updates := []string{}
	values := []interface{}{}

	if in.CompanyName != nil {
		updates = append(updates, "company_name = ?")
		values = append(values, *in.CompanyName)
		company.CompanyName = *in.CompanyName
	}
	if in.BusinessType != nil {
		updates = append(updates, "business_type = ?")
		values = append(values, *in.BusinessType)
		company.BusinessType = *in.BusinessType
	}
	if in.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *in.Description)
		company.Description = *in.Description
	}
	if in.GSTNumber != nil {
		updates = append(updates, "gst_number = ?")
		values = append(values, *in.GSTNumber)
		company.GSTNumber = *in.GSTNumber
	}
	if in.Email != nil {
		updates = append(updates, "email = ?")
		values = append(values, *in.Email)
		company.Email = *in.Email
	}
	if in.Address != nil {
		updates = append(updates, "city = ?", "state = ?", "country = ?", "pincode = ?")
		values = append(values, in.Address.City, in.Address.State, in.Address.Country, in.Address.Pincode)
		company.Address = *in.Address
	}
	if in.EstablishedYear != nil {
		updates = append(updates, "established_year = ?")
		values = append(values, *in.EstablishedYear)
		company.EstablishedYear = *in.EstablishedYear
	}
	if in.Website != nil {
		updates = append(updates, "website = ?")
		values = append(values, *in.Website)
		company.Website = *in.Website
	}
	if in.Logo != nil {
		updates = append(updates, "logo_url = ?")
		values = append(values, *in.Logo)
		company.LogoURL = *in.Logo
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	now := time.Now()
	updates = append(updates, "updated_at = ?")
	values = append(values, now)
	values = append(values, company.ID)
	company.UpdatedAt = now

	query := "UPDATE companies SET " + strings.Join(updates, ", ") + " WHERE company_id = ?"
	if err := session.Query(query, values...).WithContext(ctx).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour société: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// Un changement d'adresse ne rafraîchit pas les produits existants :
	// la copie dénormalisée peut rester brièvement en retard, c'est accepté

	c.JSON(http.StatusOK, gin.H{
		"message": "Company updated successfully",
		"company": company,
	})
}
