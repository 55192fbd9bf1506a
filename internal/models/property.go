package models

import "github.com/shopspring/decimal"

// PropertyStatus is the listing state of a property
type PropertyStatus string

const (
	PropertyDraft     PropertyStatus = "draft"
	PropertyPublished PropertyStatus = "published"
	PropertyRented    PropertyStatus = "rented"
)

// Property represents a rentable unit owned by a landlord
type Property struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Title       string          `json:"title"`
	Status      PropertyStatus  `json:"status"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
}

// Listable reports whether the property counts towards occupation and expected revenue
func (p Property) Listable() bool {
	return p.Status == PropertyPublished || p.Status == PropertyRented
}

// Residency links a tenant to the property they occupy
type Residency struct {
	PropertyID string `json:"property_id"`
	TenantID   string `json:"tenant_id"`
	IsActive   bool   `json:"is_active"`
}

// Owner is a landlord profile used as digest recipient
type Owner struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
