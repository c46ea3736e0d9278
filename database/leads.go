package database

import (
	"context"
	"database/sql"
	"errors"

	"funnel-svc/models"

	"github.com/google/uuid"
)

// LeadRepo stores funnel contacts. A lead is keyed by (email, source) so
// re-submitting the download form refreshes the existing row instead of
// erroring or duplicating.
type LeadRepo struct {
	db *sql.DB
}

func NewLeadRepo(db *sql.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

func (r *LeadRepo) Upsert(ctx context.Context, l *models.Lead) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = models.LeadNew
	}
	return r.db.QueryRowContext(ctx,
		`INSERT INTO leads (id, email, name, company, source, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email, source) DO UPDATE
		 SET name = EXCLUDED.name, company = EXCLUDED.company, updated_at = NOW()
		 RETURNING id, status, created_at, updated_at`,
		l.ID, l.Email, l.Name, l.Company, l.Source, l.Status).
		Scan(&l.ID, &l.Status, &l.CreatedAt, &l.UpdatedAt)
}

func (r *LeadRepo) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	var l models.Lead
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, company, source, status, created_at, updated_at
		 FROM leads WHERE id = $1`, id).
		Scan(&l.ID, &l.Email, &l.Name, &l.Company, &l.Source, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepo) List(ctx context.Context) ([]models.Lead, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, name, company, source, status, created_at, updated_at
		 FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Email, &l.Name, &l.Company, &l.Source, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLeadNotFound
	}
	return nil
}
