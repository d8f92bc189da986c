package models

import (
	"strings"
	"time"
)

// Supplier represents a goods supplier.
type Supplier struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
}

// SupplierForm represents form data for creating/updating suppliers
type SupplierForm struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

// Validate validates the supplier form data
func (f *SupplierForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Name) == "" {
		errors = append(errors, "Name is required")
	}
	if len(f.Name) > 200 {
		errors = append(errors, "Name must be less than 200 characters")
	}
	if f.ContactEmail != "" && !strings.Contains(f.ContactEmail, "@") {
		errors = append(errors, "Contact email format is invalid")
	}

	return errors
}

// Product represents a catalog product identified by its SKU.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductForm represents form data for creating/updating products
type ProductForm struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// Validate validates the product form data
func (f *ProductForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.SKU) == "" {
		errors = append(errors, "SKU is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		errors = append(errors, "Name is required")
	}

	return errors
}
