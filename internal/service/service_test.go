package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/finances-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves fixed rows. Each method writes only its own fields so
// concurrent fetches do not race.
type fakeStore struct {
	properties  []models.Property
	payments    []models.RentPayment
	residencies []models.Residency
	records     []models.RentPaymentRecord

	propertiesErr error
	paymentsErr   error
	residencyErr  error
	recentErr     error
	panicOn       string

	paymentCalls int
	recentLimit  int
}

func (f *fakeStore) ListOwnerProperties(ctx context.Context, ownerID string) ([]models.Property, error) {
	if f.panicOn == "properties" {
		panic("boom")
	}
	return f.properties, f.propertiesErr
}

func (f *fakeStore) ListPayments(ctx context.Context, propertyIDs []string) ([]models.RentPayment, error) {
	f.paymentCalls++
	if f.panicOn == "payments" {
		panic("boom in payments")
	}
	return f.payments, f.paymentsErr
}

func (f *fakeStore) ListActiveResidencies(ctx context.Context, propertyIDs []string) ([]models.Residency, error) {
	if f.panicOn == "residencies" {
		panic("boom in residencies")
	}
	return f.residencies, f.residencyErr
}

func (f *fakeStore) ListRecentPayments(ctx context.Context, propertyIDs []string, limit int) ([]models.RentPaymentRecord, error) {
	f.recentLimit = limit
	return f.records, f.recentErr
}

func newTestService(store Store) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(store, log, Options{
		Locale: "fr",
		Now:    func() time.Time { return testNow },
	})
}

func assertEmptyOverview(t *testing.T, overview *models.FinancesOverview) {
	t.Helper()
	require.NotNil(t, overview)
	assert.Equal(t, 100, overview.KPIs.CollectionRate)
	assert.Equal(t, 0, overview.KPIs.OccupationRate)
	assert.True(t, overview.KPIs.MonthlyRevenue.IsZero())
	assert.True(t, overview.KPIs.PendingPayments.IsZero())
	assert.True(t, overview.KPIs.OverdueAmount.IsZero())
	assert.True(t, overview.KPIs.AvgRentPerProperty.IsZero())
	assert.True(t, overview.PaymentSummary.Paid.IsZero())
	assert.True(t, overview.PaymentSummary.Pending.IsZero())
	assert.True(t, overview.PaymentSummary.Overdue.IsZero())
	assert.Zero(t, overview.PaymentSummary.PaidCount+overview.PaymentSummary.PendingCount+overview.PaymentSummary.OverdueCount)
	assert.Empty(t, overview.Trend)
	assert.Empty(t, overview.Alerts)
	assert.Equal(t, testNow, overview.LastUpdated)
}

func TestGetFinancesOverview(t *testing.T) {
	properties, payments, residencies := portfolio()
	store := &fakeStore{properties: properties, payments: payments, residencies: residencies}

	overview, err := newTestService(store).GetFinancesOverview(context.Background(), uuid.NewString())
	require.NoError(t, err)

	assert.Equal(t, CalculateKPIs(properties, payments, residencies, testNow), overview.KPIs)
	assert.Equal(t, CalculatePaymentSummary(payments, testNow), overview.PaymentSummary)
	assert.Len(t, overview.Trend, 6)
	assert.Equal(t, "2026-10", overview.Trend[5].Month)
	// 1000 overdue is not above the threshold, so both warnings keep their rule order
	require.Len(t, overview.Alerts, 3)
	assert.Equal(t, "overdue-payments", overview.Alerts[0].ID)
	assert.Equal(t, models.SeverityWarning, overview.Alerts[0].Severity)
	assert.Equal(t, "low-collection", overview.Alerts[1].ID)
	assert.Equal(t, "vacant-properties", overview.Alerts[2].ID)
	assert.Equal(t, testNow, overview.LastUpdated)
}

func TestGetFinancesOverview_NoProperties(t *testing.T) {
	store := &fakeStore{}

	overview, err := newTestService(store).GetFinancesOverview(context.Background(), uuid.NewString())

	require.NoError(t, err)
	assertEmptyOverview(t, overview)
	assert.Zero(t, store.paymentCalls, "no payment fetch without properties")
}

func TestGetFinancesOverview_FailuresYieldEmptyOverview(t *testing.T) {
	properties, _, _ := portfolio()
	dbErr := errors.New("connection reset")

	tests := []struct {
		name  string
		store *fakeStore
	}{
		{"properties", &fakeStore{propertiesErr: dbErr}},
		{"payments", &fakeStore{properties: properties, paymentsErr: dbErr}},
		{"residencies", &fakeStore{properties: properties, residencyErr: dbErr}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overview, err := newTestService(tt.store).GetFinancesOverview(context.Background(), uuid.NewString())

			assertEmptyOverview(t, overview)
			assert.ErrorIs(t, err, ErrOverviewUnavailable)
			assert.ErrorIs(t, err, dbErr)
		})
	}
}

func TestGetFinancesOverview_Panic(t *testing.T) {
	properties, _, _ := portfolio()

	for _, source := range []string{"properties", "payments", "residencies"} {
		t.Run(source, func(t *testing.T) {
			store := &fakeStore{properties: properties, panicOn: source}

			overview, err := newTestService(store).GetFinancesOverview(context.Background(), uuid.NewString())

			assertEmptyOverview(t, overview)
			assert.ErrorIs(t, err, ErrOverviewUnavailable)
			assert.ErrorContains(t, err, "panic")
		})
	}
}

func TestGetFinancesOverview_AlertRules(t *testing.T) {
	properties := []models.Property{property("A", models.PropertyRented, 500)}
	payments := []models.RentPayment{payment("p1", "A", models.PaymentOverdue, 500, "2026-09-05")}
	store := &fakeStore{properties: properties, payments: payments, residencies: []models.Residency{residency("A")}}
	log := logrus.New()
	log.SetOutput(io.Discard)

	tests := []struct {
		name  string
		rules *AlertRules
		want  models.AlertSeverity
	}{
		{"defaults", nil, models.SeverityWarning},
		{"zero threshold", &AlertRules{OverdueCriticalThreshold: decimal.Zero}, models.SeverityCritical},
		{"raised threshold", &AlertRules{OverdueCriticalThreshold: dec(5000)}, models.SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(store, log, Options{Rules: tt.rules, Now: func() time.Time { return testNow }})

			overview, err := svc.GetFinancesOverview(context.Background(), uuid.NewString())
			require.NoError(t, err)

			a := alertByID(overview.Alerts, alertIDOverdue)
			require.NotNil(t, a)
			assert.Equal(t, tt.want, a.Severity)
		})
	}
}

func TestGetFinancesOverview_InvalidOwner(t *testing.T) {
	store := &fakeStore{}

	overview, err := newTestService(store).GetFinancesOverview(context.Background(), "not-a-uuid")

	assertEmptyOverview(t, overview)
	assert.ErrorIs(t, err, ErrInvalidOwnerID)
	assert.ErrorIs(t, err, ErrOverviewUnavailable)
}

func TestGetFinancesOverview_Cancelled(t *testing.T) {
	properties, payments, residencies := portfolio()
	store := &fakeStore{properties: properties, payments: payments, residencies: residencies}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	overview, err := newTestService(store).GetFinancesOverview(ctx, uuid.NewString())

	assertEmptyOverview(t, overview)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetFinancesOverview_VacancyScenario(t *testing.T) {
	store := &fakeStore{properties: []models.Property{property("A", models.PropertyPublished, 800)}}

	overview, err := newTestService(store).GetFinancesOverview(context.Background(), uuid.NewString())
	require.NoError(t, err)

	require.Len(t, overview.Alerts, 1)
	assert.Equal(t, models.SeverityInfo, overview.Alerts[0].Severity)
	assert.True(t, overview.Alerts[0].Amount.Equal(dec(800)))
	assert.Equal(t, 0, overview.KPIs.OccupationRate)
	assert.Equal(t, 100, overview.KPIs.CollectionRate)
}

func TestGetRecentPayments(t *testing.T) {
	store := &fakeStore{
		properties: []models.Property{property("A", models.PropertyRented, 800)},
		records: []models.RentPaymentRecord{
			{ID: "p1", PropertyID: "A", TenantName: "Léa"},
			{ID: "p2", PropertyID: "unknown"},
		},
	}
	svc := newTestService(store)

	records, err := svc.GetRecentPayments(context.Background(), uuid.NewString(), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, store.recentLimit)

	require.Len(t, records, 2)
	assert.Equal(t, "Property A", records[0].PropertyTitle)
	assert.Equal(t, "Léa", records[0].TenantName)
	assert.Equal(t, "Propriété", records[1].PropertyTitle)
	assert.Equal(t, "Locataire", records[1].TenantName)

	_, err = svc.GetRecentPayments(context.Background(), uuid.NewString(), 500)
	require.NoError(t, err)
	assert.Equal(t, 100, store.recentLimit)

	records, err = svc.GetRecentPayments(context.Background(), uuid.NewString(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, store.recentLimit)
	assert.Len(t, records, 1)
}

func TestGetRecentPayments_EmptyAndFailure(t *testing.T) {
	records, err := newTestService(&fakeStore{}).GetRecentPayments(context.Background(), uuid.NewString(), 5)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	store := &fakeStore{
		properties: []models.Property{property("A", models.PropertyRented, 800)},
		recentErr:  errors.New("timeout"),
	}
	records, err = newTestService(store).GetRecentPayments(context.Background(), uuid.NewString(), 5)
	assert.Error(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGetMonthlyComparison(t *testing.T) {
	properties, payments, _ := portfolio()
	svc := newTestService(&fakeStore{properties: properties, payments: payments})

	cmp, err := svc.GetMonthlyComparison(context.Background(), uuid.NewString())
	require.NoError(t, err)

	assert.True(t, cmp.CurrentMonth.Collected.Equal(dec(800)))
	assert.True(t, cmp.PreviousMonth.Collected.Equal(dec(800)))
	assert.True(t, cmp.CurrentMonth.Expected.Equal(dec(2400)))
	assert.Equal(t, 0, cmp.ChangePercent)
}

func TestGetMonthlyComparison_EmptyAndFailure(t *testing.T) {
	cmp, err := newTestService(&fakeStore{}).GetMonthlyComparison(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, models.EmptyComparison(), cmp)

	properties, _, _ := portfolio()
	cmp, err = newTestService(&fakeStore{properties: properties, paymentsErr: errors.New("down")}).
		GetMonthlyComparison(context.Background(), uuid.NewString())
	assert.Error(t, err)
	assert.Equal(t, models.EmptyComparison(), cmp)
}

func TestBuildOwnerDigest(t *testing.T) {
	properties, payments, residencies := portfolio()
	svc := newTestService(&fakeStore{properties: properties, payments: payments, residencies: residencies})
	owner := models.Owner{ID: uuid.NewString(), FullName: "Marc", Email: "marc@example.com"}

	digest, err := svc.BuildOwnerDigest(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, owner, digest.Owner)
	assert.True(t, digest.HasAlerts())
	assert.Equal(t, testNow, digest.GeneratedAt)

	_, err = newTestService(&fakeStore{propertiesErr: errors.New("down")}).BuildOwnerDigest(context.Background(), owner)
	assert.ErrorIs(t, err, ErrOverviewUnavailable)
}
