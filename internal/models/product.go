package models

import (
	"time"

	"github.com/gocql/gocql"
)

// ProductImage référence opaque fournie par le service d'upload ({url, id})
type ProductImage struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// Location adresse dénormalisée sur le produit (copiée depuis la société à la création)
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type Product struct {
	ID          gocql.UUID     `json:"id" db:"product_id"`
	CompanyID   gocql.UUID     `json:"company_id" db:"company_id"`
	Name        string         `json:"name" db:"name"`
	Slug        string         `json:"slug" db:"slug"`
	Description string         `json:"description" db:"description"`
	Price       float64        `json:"price" db:"price"`
	Category    string         `json:"category" db:"category"`
	Stock       int            `json:"stock" db:"stock"`
	MinOrderQty int            `json:"min_order_qty" db:"min_order_qty"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	Images      []ProductImage `json:"images"`
	Tags        []string       `json:"tags" db:"tags"`
	Location    Location       `json:"location"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
