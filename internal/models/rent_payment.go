package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a rent payment
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// RentPayment represents one expected or recorded rent obligation
type RentPayment struct {
	ID         string          `json:"id"`
	PropertyID string          `json:"property_id"`
	TenantID   string          `json:"tenant_id"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	Status     PaymentStatus   `json:"status"`
	Month      string          `json:"month"` // YYYY-MM-DD or YYYY-MM
}

// InMonth reports whether the payment belongs to the given YYYY-MM key
func (p RentPayment) InMonth(monthKey string) bool {
	return strings.HasPrefix(p.Month, monthKey)
}

// RentPaymentRecord is a payment joined with its property title and tenant name
type RentPaymentRecord struct {
	ID            string          `json:"id"`
	PropertyID    string          `json:"property_id"`
	PropertyTitle string          `json:"property_title"`
	TenantID      string          `json:"tenant_id"`
	TenantName    string          `json:"tenant_name"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Status        PaymentStatus   `json:"status"`
	Month         string          `json:"month"`
}
