package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancesKPIs represents the headline numbers of the owner finances hub
type FinancesKPIs struct {
	MonthlyRevenue     decimal.Decimal `json:"monthly_revenue"`
	PendingPayments    decimal.Decimal `json:"pending_payments"`
	OverdueAmount      decimal.Decimal `json:"overdue_amount"`
	CollectionRate     int             `json:"collection_rate"` // percent, 0-100
	OccupationRate     int             `json:"occupation_rate"` // percent, 0-100
	AvgRentPerProperty decimal.Decimal `json:"avg_rent_per_property"`
}

// PaymentSummary represents current month payment status.
// Overdue figures cover all months.
type PaymentSummary struct {
	Paid         decimal.Decimal `json:"paid"`
	Pending      decimal.Decimal `json:"pending"`
	Overdue      decimal.Decimal `json:"overdue"`
	PaidCount    int             `json:"paid_count"`
	PendingCount int             `json:"pending_count"`
	OverdueCount int             `json:"overdue_count"`
}

// MonthlyTrend represents collected and expected rent for one month
type MonthlyTrend struct {
	Month      string          `json:"month"` // Format: YYYY-MM
	MonthLabel string          `json:"month_label"`
	Collected  decimal.Decimal `json:"collected"`
	Expected   decimal.Decimal `json:"expected"`
	Pending    decimal.Decimal `json:"pending"`
	Overdue    decimal.Decimal `json:"overdue"`
}

type AlertType string

const (
	AlertOverdue        AlertType = "overdue"
	AlertUpcomingDue    AlertType = "upcoming_due"
	AlertCollectionLow  AlertType = "collection_low"
	AlertVacantProperty AlertType = "vacant_property"
)

type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Rank orders severities critical first
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// FinanceAlert is a transient advisory shown on the finances hub
type FinanceAlert struct {
	ID            string           `json:"id"`
	Type          AlertType        `json:"type"`
	Severity      AlertSeverity    `json:"severity"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PropertyID    string           `json:"property_id,omitempty"`
	PropertyTitle string           `json:"property_title,omitempty"`
	Href          string           `json:"href"`
	CreatedAt     time.Time        `json:"created_at"`
}

// FinancesOverview is the full payload of the owner finances hub
type FinancesOverview struct {
	KPIs           FinancesKPIs   `json:"kpis"`
	PaymentSummary PaymentSummary `json:"payment_summary"`
	Trend          []MonthlyTrend `json:"trend"`
	Alerts         []FinanceAlert `json:"alerts"`
	LastUpdated    time.Time      `json:"last_updated"`
}

// EmptyOverview returns the overview shown when an owner has no data
func EmptyOverview(now time.Time) *FinancesOverview {
	return &FinancesOverview{
		KPIs: FinancesKPIs{
			MonthlyRevenue:     decimal.Zero,
			PendingPayments:    decimal.Zero,
			OverdueAmount:      decimal.Zero,
			CollectionRate:     100,
			AvgRentPerProperty: decimal.Zero,
		},
		PaymentSummary: PaymentSummary{
			Paid:    decimal.Zero,
			Pending: decimal.Zero,
			Overdue: decimal.Zero,
		},
		Trend:       []MonthlyTrend{},
		Alerts:      []FinanceAlert{},
		LastUpdated: now,
	}
}

// MonthTotals represents collected and expected rent for a single month
type MonthTotals struct {
	Collected decimal.Decimal `json:"collected"`
	Expected  decimal.Decimal `json:"expected"`
}

// MonthlyComparison compares the current month with the previous one
type MonthlyComparison struct {
	CurrentMonth  MonthTotals `json:"current_month"`
	PreviousMonth MonthTotals `json:"previous_month"`
	ChangePercent int         `json:"change_percent"`
}

// EmptyComparison returns a comparison with every figure at zero
func EmptyComparison() *MonthlyComparison {
	return &MonthlyComparison{
		CurrentMonth:  MonthTotals{Collected: decimal.Zero, Expected: decimal.Zero},
		PreviousMonth: MonthTotals{Collected: decimal.Zero, Expected: decimal.Zero},
	}
}

// OwnerDigest is the content of an owner's alert digest e-mail
type OwnerDigest struct {
	Owner       Owner
	Overview    *FinancesOverview
	GeneratedAt time.Time
}

// HasAlerts reports whether the digest is worth sending
func (d *OwnerDigest) HasAlerts() bool {
	return d != nil && d.Overview != nil && len(d.Overview.Alerts) > 0
}
