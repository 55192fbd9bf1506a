package service

import (
	"time"

	"github.com/Dan9191/finances-service/internal/i18n"
	"github.com/Dan9191/finances-service/internal/models"
	"github.com/shopspring/decimal"
)

// collectionWindowMonths is the trailing window of the collection rate KPI
const collectionWindowMonths = 3

// occupiedSet returns the ids of properties with an active residency
func occupiedSet(residencies []models.Residency) map[string]struct{} {
	occupied := make(map[string]struct{}, len(residencies))
	for _, r := range residencies {
		if r.IsActive {
			occupied[r.PropertyID] = struct{}{}
		}
	}
	return occupied
}

func sumPayments(payments []models.RentPayment, keep func(models.RentPayment) bool) (decimal.Decimal, int) {
	total, count := decimal.Zero, 0
	for _, p := range payments {
		if keep(p) {
			total = total.Add(p.Amount)
			count++
		}
	}
	return total, count
}

func withStatus(status models.PaymentStatus) func(models.RentPayment) bool {
	return func(p models.RentPayment) bool { return p.Status == status }
}

func inMonthWithStatus(key string, status models.PaymentStatus) func(models.RentPayment) bool {
	return func(p models.RentPayment) bool { return p.Status == status && p.InMonth(key) }
}

// expectedMonthlyRent sums the rent of every listable property.
// It is applied to every month of a series regardless of when the
// properties were listed.
func expectedMonthlyRent(properties []models.Property) decimal.Decimal {
	total := decimal.Zero
	for _, p := range properties {
		if p.Listable() {
			total = total.Add(p.MonthlyRent)
		}
	}
	return total
}

// CalculateKPIs computes the headline numbers of the finances hub
func CalculateKPIs(properties []models.Property, payments []models.RentPayment, residencies []models.Residency, now time.Time) models.FinancesKPIs {
	occupied := occupiedSet(residencies)

	monthlyRevenue := decimal.Zero
	occupiedCount, eligibleCount, occupiedEligible := 0, 0, 0
	for _, p := range properties {
		_, isOccupied := occupied[p.ID]
		if isOccupied {
			monthlyRevenue = monthlyRevenue.Add(p.MonthlyRent)
			occupiedCount++
		}
		if p.Listable() {
			eligibleCount++
			if isOccupied {
				occupiedEligible++
			}
		}
	}

	currentKey := monthKey(now)
	pending, _ := sumPayments(payments, inMonthWithStatus(currentKey, models.PaymentPending))
	overdue, _ := sumPayments(payments, withStatus(models.PaymentOverdue))

	windowStart := subMonths(now, collectionWindowMonths)
	recent := func(p models.RentPayment) bool { return !p.DueDate.Before(windowStart) }
	totalDue, _ := sumPayments(payments, recent)
	collected, _ := sumPayments(payments, func(p models.RentPayment) bool {
		return recent(p) && p.Status == models.PaymentPaid
	})

	kpis := models.FinancesKPIs{
		MonthlyRevenue:     monthlyRevenue,
		PendingPayments:    pending,
		OverdueAmount:      overdue,
		CollectionRate:     100,
		AvgRentPerProperty: decimal.Zero,
	}
	if totalDue.IsPositive() {
		kpis.CollectionRate = percent(collected, totalDue)
	}
	if eligibleCount > 0 {
		kpis.OccupationRate = percent(decimal.NewFromInt(int64(occupiedEligible)), decimal.NewFromInt(int64(eligibleCount)))
	}
	if occupiedCount > 0 {
		kpis.AvgRentPerProperty = roundHalfUp(monthlyRevenue.Div(decimal.NewFromInt(int64(occupiedCount))))
	}
	return kpis
}

// CalculatePaymentSummary sums current month payments by status.
// Overdue payments are counted whatever their month.
func CalculatePaymentSummary(payments []models.RentPayment, now time.Time) models.PaymentSummary {
	key := monthKey(now)

	paid, paidCount := sumPayments(payments, inMonthWithStatus(key, models.PaymentPaid))
	pending, pendingCount := sumPayments(payments, inMonthWithStatus(key, models.PaymentPending))
	overdue, overdueCount := sumPayments(payments, withStatus(models.PaymentOverdue))

	return models.PaymentSummary{
		Paid:         paid,
		Pending:      pending,
		Overdue:      overdue,
		PaidCount:    paidCount,
		PendingCount: pendingCount,
		OverdueCount: overdueCount,
	}
}

// CalculateMonthlyTrend builds one record per month for the trailing
// window ending with the current month, oldest first.
func CalculateMonthlyTrend(payments []models.RentPayment, properties []models.Property, months int, now time.Time, locale string) []models.MonthlyTrend {
	if months < 1 {
		return []models.MonthlyTrend{}
	}
	expected := expectedMonthlyRent(properties)

	trend := make([]models.MonthlyTrend, 0, months)
	for i := months - 1; i >= 0; i-- {
		date := subMonths(now, i)
		key := monthKey(date)

		collected, _ := sumPayments(payments, inMonthWithStatus(key, models.PaymentPaid))
		pending, _ := sumPayments(payments, inMonthWithStatus(key, models.PaymentPending))
		overdue, _ := sumPayments(payments, inMonthWithStatus(key, models.PaymentOverdue))

		trend = append(trend, models.MonthlyTrend{
			Month:      key,
			MonthLabel: i18n.MonthLabel(date, locale),
			Collected:  collected,
			Expected:   expected,
			Pending:    pending,
			Overdue:    overdue,
		})
	}
	return trend
}

// CalculateMonthlyComparison compares rent collected this month with the previous month
func CalculateMonthlyComparison(properties []models.Property, payments []models.RentPayment, now time.Time) models.MonthlyComparison {
	current, _ := sumPayments(payments, inMonthWithStatus(monthKey(now), models.PaymentPaid))
	previous, _ := sumPayments(payments, inMonthWithStatus(monthKey(subMonths(now, 1)), models.PaymentPaid))
	expected := expectedMonthlyRent(properties)

	cmp := models.MonthlyComparison{
		CurrentMonth:  models.MonthTotals{Collected: current, Expected: expected},
		PreviousMonth: models.MonthTotals{Collected: previous, Expected: expected},
	}
	if previous.IsPositive() {
		cmp.ChangePercent = percent(current.Sub(previous), previous)
	}
	return cmp
}
