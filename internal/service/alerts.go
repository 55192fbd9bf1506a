package service

import (
	"sort"
	"time"

	"github.com/Dan9191/finances-service/internal/i18n"
	"github.com/Dan9191/finances-service/internal/models"
	"github.com/shopspring/decimal"
)

// Stable alert ids, one per rule
const (
	alertIDOverdue       = "overdue-payments"
	alertIDLowCollection = "low-collection"
	alertIDVacant        = "vacant-properties"
)

const (
	financeHref    = "/dashboard/owner/finance"
	propertiesHref = "/dashboard/owner/properties"
)

// lowCollectionRatio is the paid/total ratio under which the current month is flagged
var lowCollectionRatio = decimal.NewFromFloat(0.8)

// AlertRules tunes the alert generator
type AlertRules struct {
	// OverdueCriticalThreshold is the overdue total above which the overdue alert is critical
	OverdueCriticalThreshold decimal.Decimal
	Locale                   string
}

// DefaultAlertRules returns the rules used when nothing is configured
func DefaultAlertRules() AlertRules {
	return AlertRules{
		OverdueCriticalThreshold: decimal.NewFromInt(1000),
		Locale:                   i18n.DefaultLocale,
	}
}

// GenerateAlerts evaluates every alert rule and returns the alerts sorted
// critical first. Rules are independent; each fires at most once.
func GenerateAlerts(properties []models.Property, payments []models.RentPayment, residencies []models.Residency, now time.Time, rules AlertRules) []models.FinanceAlert {
	printer := i18n.Printer(rules.Locale)
	alerts := []models.FinanceAlert{}

	if total, count := sumPayments(payments, withStatus(models.PaymentOverdue)); count > 0 {
		severity := models.SeverityWarning
		if total.GreaterThan(rules.OverdueCriticalThreshold) {
			severity = models.SeverityCritical
		}
		alerts = append(alerts, models.FinanceAlert{
			ID:          alertIDOverdue,
			Type:        models.AlertOverdue,
			Severity:    severity,
			Title:       printer.Sprintf(i18n.OverdueTitle, count),
			Description: printer.Sprintf(i18n.OverdueDesc, i18n.Amount(total)),
			Amount:      &total,
			Href:        financeHref,
			CreatedAt:   now,
		})
	}

	key := monthKey(now)
	_, paidCount := sumPayments(payments, inMonthWithStatus(key, models.PaymentPaid))
	_, totalCount := sumPayments(payments, func(p models.RentPayment) bool { return p.InMonth(key) })
	if totalCount > 0 {
		ratio := decimal.NewFromInt(int64(paidCount)).Div(decimal.NewFromInt(int64(totalCount)))
		if ratio.LessThan(lowCollectionRatio) {
			alerts = append(alerts, models.FinanceAlert{
				ID:          alertIDLowCollection,
				Type:        models.AlertCollectionLow,
				Severity:    models.SeverityWarning,
				Title:       printer.Sprintf(i18n.LowCollectionTitle),
				Description: printer.Sprintf(i18n.LowCollectionDesc, paidCount, totalCount),
				Href:        financeHref,
				CreatedAt:   now,
			})
		}
	}

	occupied := occupiedSet(residencies)
	potential, vacant := decimal.Zero, 0
	var lastVacant models.Property
	for _, p := range properties {
		if _, ok := occupied[p.ID]; p.Status == models.PropertyPublished && !ok {
			potential = potential.Add(p.MonthlyRent)
			vacant++
			lastVacant = p
		}
	}
	if vacant > 0 {
		alert := models.FinanceAlert{
			ID:          alertIDVacant,
			Type:        models.AlertVacantProperty,
			Severity:    models.SeverityInfo,
			Title:       printer.Sprintf(i18n.VacantTitle, vacant),
			Description: printer.Sprintf(i18n.VacantDesc, i18n.Amount(potential)),
			Amount:      &potential,
			Href:        propertiesHref,
			CreatedAt:   now,
		}
		if vacant == 1 {
			alert.PropertyID = lastVacant.ID
			alert.PropertyTitle = lastVacant.Title
		}
		alerts = append(alerts, alert)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	return alerts
}
