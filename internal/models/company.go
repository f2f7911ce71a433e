package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Address adresse de la société (pincode indien, cf. marché cible)
type Address struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
}

type Company struct {
	ID              gocql.UUID `json:"id" db:"company_id"`
	OwnerUserID     gocql.UUID `json:"owner_user_id" db:"owner_user_id"`
	CompanyName     string     `json:"company_name" db:"company_name"`
	BusinessType    string     `json:"business_type" db:"business_type"`
	Description     string     `json:"description" db:"description"`
	GSTNumber       string     `json:"gst_number" db:"gst_number"`
	Email           string     `json:"email" db:"email"`
	Subdomain       string     `json:"subdomain" db:"subdomain"`
	Address         Address    `json:"address"`
	IsVerified      bool       `json:"is_verified" db:"is_verified"`
	EstablishedYear int        `json:"established_year" db:"established_year"`
	Website         string     `json:"website" db:"website"`
	LogoURL         string     `json:"logo_url" db:"logo_url"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
