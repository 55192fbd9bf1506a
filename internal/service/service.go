package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finances-service/internal/i18n"
	"github.com/Dan9191/finances-service/internal/metrics"
	"github.com/Dan9191/finances-service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrOverviewUnavailable is returned alongside the empty overview when data could not be fetched
	ErrOverviewUnavailable = errors.New("finances overview unavailable")
	// ErrInvalidOwnerID is returned when the owner id is not a UUID
	ErrInvalidOwnerID = errors.New("invalid owner id")
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
	defaultTrendMonths = 6
)

// Store is the read-only data source of the finances pipeline
type Store interface {
	ListOwnerProperties(ctx context.Context, ownerID string) ([]models.Property, error)
	ListPayments(ctx context.Context, propertyIDs []string) ([]models.RentPayment, error)
	ListActiveResidencies(ctx context.Context, propertyIDs []string) ([]models.Residency, error)
	ListRecentPayments(ctx context.Context, propertyIDs []string, limit int) ([]models.RentPaymentRecord, error)
}

// Options configures the finances service
type Options struct {
	Locale      string
	Location    *time.Location
	TrendMonths int
	// Rules defaults to DefaultAlertRules when nil
	Rules *AlertRules
	// Now overrides the clock, mostly for tests
	Now func() time.Time
}

// Service handles owner finances aggregation
type Service struct {
	repo        Store
	log         *logrus.Logger
	locale      string
	loc         *time.Location
	trendMonths int
	rules       AlertRules
	now         func() time.Time
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, opts Options) *Service {
	s := &Service{
		repo:        repo,
		log:         log,
		locale:      opts.Locale,
		loc:         opts.Location,
		trendMonths: opts.TrendMonths,
		rules:       DefaultAlertRules(),
		now:         opts.Now,
	}
	if s.locale == "" {
		s.locale = i18n.DefaultLocale
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.trendMonths < 1 {
		s.trendMonths = defaultTrendMonths
	}
	if opts.Rules != nil {
		s.rules = *opts.Rules
	}
	s.rules.Locale = s.locale
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// ownerProperties validates the owner id and lists the owner's properties
func (s *Service) ownerProperties(ctx context.Context, ownerID string) ([]models.Property, []string, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidOwnerID, ownerID)
	}
	properties, err := s.repo.ListOwnerProperties(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(properties))
	for i, p := range properties {
		ids[i] = p.ID
	}
	return properties, ids, nil
}

// goSafe runs fn on g and reports a panic in fn as an error
func goSafe(g *errgroup.Group, fn func() error) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	})
}

// GetFinancesOverview builds the finances hub overview of an owner.
//
// The returned overview is never nil. When data cannot be fetched it is the
// empty overview and the error wraps ErrOverviewUnavailable.
func (s *Service) GetFinancesOverview(ctx context.Context, ownerID string) (overview *models.FinancesOverview, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			s.log.WithFields(logrus.Fields{"owner_id": ownerID, "error": err}).Error("Failed to build finances overview")
			metrics.OverviewResults.WithLabelValues("error").Inc()
			overview = models.EmptyOverview(s.clock())
			err = fmt.Errorf("%w: %w", ErrOverviewUnavailable, err)
		}
		metrics.OverviewDuration.Observe(time.Since(start).Seconds())
	}()

	properties, ids, err := s.ownerProperties(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		metrics.OverviewResults.WithLabelValues("empty").Inc()
		return models.EmptyOverview(s.clock()), nil
	}

	var (
		payments    []models.RentPayment
		residencies []models.Residency
	)
	fetch, fetchCtx := errgroup.WithContext(ctx)
	goSafe(fetch, func() (err error) {
		payments, err = s.repo.ListPayments(fetchCtx, ids)
		return err
	})
	goSafe(fetch, func() (err error) {
		residencies, err = s.repo.ListActiveResidencies(fetchCtx, ids)
		return err
	})
	if err := fetch.Wait(); err != nil {
		return nil, err
	}

	now := s.clock()
	result := &models.FinancesOverview{LastUpdated: now}

	// Independent reductions over the same immutable rows.
	compute, computeCtx := errgroup.WithContext(ctx)
	goSafe(compute, func() error {
		if err := computeCtx.Err(); err != nil {
			return err
		}
		result.KPIs = CalculateKPIs(properties, payments, residencies, now)
		return nil
	})
	goSafe(compute, func() error {
		if err := computeCtx.Err(); err != nil {
			return err
		}
		result.PaymentSummary = CalculatePaymentSummary(payments, now)
		return nil
	})
	goSafe(compute, func() error {
		if err := computeCtx.Err(); err != nil {
			return err
		}
		result.Trend = CalculateMonthlyTrend(payments, properties, s.trendMonths, now, s.locale)
		return nil
	})
	goSafe(compute, func() error {
		if err := computeCtx.Err(); err != nil {
			return err
		}
		result.Alerts = GenerateAlerts(properties, payments, residencies, now, s.rules)
		return nil
	})
	if err := compute.Wait(); err != nil {
		return nil, err
	}

	for _, a := range result.Alerts {
		metrics.AlertsEmitted.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}
	metrics.OverviewResults.WithLabelValues("ok").Inc()
	s.log.WithFields(logrus.Fields{
		"owner_id":   ownerID,
		"properties": len(properties),
		"payments":   len(payments),
		"alerts":     len(result.Alerts),
	}).Debug("Finances overview built")
	return result, nil
}

// GetRecentPayments returns the latest payments of an owner's properties,
// latest due date first. limit defaults to 10 and is capped at 100.
// The returned slice is never nil.
func (s *Service) GetRecentPayments(ctx context.Context, ownerID string, limit int) ([]models.RentPaymentRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	properties, ids, err := s.ownerProperties(ctx, ownerID)
	if err != nil {
		s.log.WithFields(logrus.Fields{"owner_id": ownerID, "error": err}).Error("Failed to fetch recent payments")
		return []models.RentPaymentRecord{}, err
	}
	if len(properties) == 0 {
		return []models.RentPaymentRecord{}, nil
	}

	records, err := s.repo.ListRecentPayments(ctx, ids, limit)
	if err != nil {
		s.log.WithFields(logrus.Fields{"owner_id": ownerID, "error": err}).Error("Failed to fetch recent payments")
		return []models.RentPaymentRecord{}, err
	}

	titles := make(map[string]string, len(properties))
	for _, p := range properties {
		titles[p.ID] = p.Title
	}
	printer := i18n.Printer(s.locale)
	out := make([]models.RentPaymentRecord, 0, len(records))
	for _, rec := range records {
		rec.PropertyTitle = titles[rec.PropertyID]
		if rec.PropertyTitle == "" {
			rec.PropertyTitle = printer.Sprintf(i18n.FallbackProperty)
		}
		if rec.TenantName == "" {
			rec.TenantName = printer.Sprintf(i18n.FallbackTenant)
		}
		out = append(out, rec)
		// a Store is not required to honour the limit
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// GetMonthlyComparison compares rent collected this month with the previous month.
// The returned comparison is never nil; it is all zeros on failure.
func (s *Service) GetMonthlyComparison(ctx context.Context, ownerID string) (*models.MonthlyComparison, error) {
	properties, ids, err := s.ownerProperties(ctx, ownerID)
	if err == nil && len(properties) == 0 {
		return models.EmptyComparison(), nil
	}
	var payments []models.RentPayment
	if err == nil {
		payments, err = s.repo.ListPayments(ctx, ids)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{"owner_id": ownerID, "error": err}).Error("Failed to calculate monthly comparison")
		return models.EmptyComparison(), err
	}

	cmp := CalculateMonthlyComparison(properties, payments, s.clock())
	return &cmp, nil
}

// BuildOwnerDigest computes the overview of an owner for the digest e-mail
func (s *Service) BuildOwnerDigest(ctx context.Context, owner models.Owner) (*models.OwnerDigest, error) {
	overview, err := s.GetFinancesOverview(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	return &models.OwnerDigest{Owner: owner, Overview: overview, GeneratedAt: overview.LastUpdated}, nil
}
