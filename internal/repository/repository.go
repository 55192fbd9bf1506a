package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/finances-service/internal/models"
	"github.com/lib/pq"
)

// Repository provides read access to the marketplace tables
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListOwnerProperties retrieves every property owned by the given owner
func (r *Repository) ListOwnerProperties(ctx context.Context, ownerID string) ([]models.Property, error) {
	query := `
		SELECT id, owner_id, COALESCE(title, ''), status, COALESCE(monthly_rent, 0)
		FROM properties
		WHERE owner_id = $1`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Status, &p.MonthlyRent); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// ListPayments retrieves rent payments of the given properties, latest due date first
func (r *Repository) ListPayments(ctx context.Context, propertyIDs []string) ([]models.RentPayment, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, property_id, COALESCE(user_id::text, ''), COALESCE(amount, 0),
		       due_date, paid_at, status, month::text
		FROM rent_payments
		WHERE property_id = ANY($1::uuid[])
		ORDER BY due_date DESC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(propertyIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.RentPayment
	for rows.Next() {
		var (
			p      models.RentPayment
			paidAt sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.PropertyID, &p.TenantID, &p.Amount,
			&p.DueDate, &paidAt, &p.Status, &p.Month); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if paidAt.Valid {
			p.PaidAt = &paidAt.Time
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListActiveResidencies retrieves active residencies of the given properties
func (r *Repository) ListActiveResidencies(ctx context.Context, propertyIDs []string) ([]models.Residency, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT property_id, COALESCE(user_id::text, '')
		FROM property_residents
		WHERE property_id = ANY($1::uuid[]) AND is_active = true`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(propertyIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list residencies: %w", err)
	}
	defer rows.Close()

	var residencies []models.Residency
	for rows.Next() {
		res := models.Residency{IsActive: true}
		if err := rows.Scan(&res.PropertyID, &res.TenantID); err != nil {
			return nil, fmt.Errorf("failed to scan residency: %w", err)
		}
		residencies = append(residencies, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list residencies: %w", err)
	}
	return residencies, nil
}

// ListRecentPayments retrieves the latest payments of the given properties with tenant names.
// PropertyTitle is left empty; callers resolve it from the properties they already hold.
func (r *Repository) ListRecentPayments(ctx context.Context, propertyIDs []string, limit int) ([]models.RentPaymentRecord, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT rp.id, rp.property_id, COALESCE(rp.user_id::text, ''), COALESCE(pr.full_name, ''),
		       COALESCE(rp.amount, 0), rp.due_date, rp.paid_at, rp.status, rp.month::text
		FROM rent_payments rp
		LEFT JOIN profiles pr ON pr.id = rp.user_id
		WHERE rp.property_id = ANY($1::uuid[])
		ORDER BY rp.due_date DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(propertyIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}
	defer rows.Close()

	var records []models.RentPaymentRecord
	for rows.Next() {
		var (
			rec    models.RentPaymentRecord
			paidAt sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.PropertyID, &rec.TenantID, &rec.TenantName,
			&rec.Amount, &rec.DueDate, &paidAt, &rec.Status, &rec.Month); err != nil {
			return nil, fmt.Errorf("failed to scan recent payment: %w", err)
		}
		if paidAt.Valid {
			rec.PaidAt = &paidAt.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}
	return records, nil
}

// ListOwnersWithProperties retrieves owners that own at least one property and have an e-mail
func (r *Repository) ListOwnersWithProperties(ctx context.Context) ([]models.Owner, error) {
	query := `
		SELECT DISTINCT pr.id, COALESCE(pr.full_name, ''), pr.email
		FROM profiles pr
		JOIN properties p ON p.owner_id = pr.id
		WHERE pr.email IS NOT NULL AND pr.email <> ''
		ORDER BY pr.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var owners []models.Owner
	for rows.Next() {
		var o models.Owner
		if err := rows.Scan(&o.ID, &o.FullName, &o.Email); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}
