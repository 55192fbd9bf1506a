package service

import (
	"strings"
	"time"

	"github.com/Dan9191/finances-service/internal/models"
	"github.com/shopspring/decimal"
)

// testNow is the fixed clock of the service tests
var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// plainSpaces folds the no-break spaces used for French grouping
func plainSpaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func property(id string, status models.PropertyStatus, rent int64) models.Property {
	return models.Property{ID: id, Title: "Property " + id, Status: status, MonthlyRent: dec(rent)}
}

func payment(id, propertyID string, status models.PaymentStatus, amount int64, due string) models.RentPayment {
	dueDate, err := time.Parse("2006-01-02", due)
	if err != nil {
		panic(err)
	}
	return models.RentPayment{
		ID:         id,
		PropertyID: propertyID,
		Amount:     dec(amount),
		DueDate:    dueDate,
		Status:     status,
		Month:      dueDate.Format("2006-01") + "-01",
	}
}

func residency(propertyID string) models.Residency {
	return models.Residency{PropertyID: propertyID, TenantID: "tenant-" + propertyID, IsActive: true}
}

// portfolio is a small owner portfolio:
// A published 800 occupied, B rented 1000 occupied, C published 600 vacant, D draft 500.
func portfolio() ([]models.Property, []models.RentPayment, []models.Residency) {
	properties := []models.Property{
		property("A", models.PropertyPublished, 800),
		property("B", models.PropertyRented, 1000),
		property("C", models.PropertyPublished, 600),
		property("D", models.PropertyDraft, 500),
	}
	payments := []models.RentPayment{
		payment("p1", "A", models.PaymentPaid, 800, "2026-10-05"),
		payment("p2", "B", models.PaymentPending, 1000, "2026-10-05"),
		payment("p3", "A", models.PaymentPaid, 800, "2026-09-05"),
		payment("p4", "B", models.PaymentOverdue, 1000, "2026-09-05"),
		payment("p5", "A", models.PaymentPaid, 800, "2026-06-05"),
	}
	residencies := []models.Residency{residency("A"), residency("B")}
	return properties, payments, residencies
}
