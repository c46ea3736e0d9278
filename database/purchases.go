package database

import (
	"context"
	"database/sql"

	"funnel-svc/models"

	"github.com/google/uuid"
)

// PurchaseRepo owns the purchase ledger. The UNIQUE constraint on
// session_id is the idempotence point for the whole fulfillment flow:
// Complete reports a first-time transition exactly once per session,
// no matter how many concurrent verification calls race on it.
type PurchaseRepo struct {
	db *sql.DB
}

func NewPurchaseRepo(db *sql.DB) *PurchaseRepo {
	return &PurchaseRepo{db: db}
}

// CreatePending records the ledger row when a checkout session is created.
// A duplicate session id is a no-op so page reloads on the checkout step
// cannot double-insert.
func (r *PurchaseRepo) CreatePending(ctx context.Context, p *models.Purchase) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO purchases (id, product_id, customer_email, customer_name, session_id, amount, currency, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (session_id) DO NOTHING`,
		p.ID, p.ProductID, p.CustomerEmail, p.CustomerName, p.SessionID, p.Amount, p.Currency, models.PurchasePending)
	return err
}

// Complete transitions the ledger row for p.SessionID to completed and
// reports whether this call performed the transition. The first branch is
// the conditional pending -> completed update; the fallback insert covers
// sessions that never got a pending row. Both are single statements, so a
// concurrent duplicate sees either rows-affected zero or a conflict no-op
// and never a second first-completion.
func (r *PurchaseRepo) Complete(ctx context.Context, p *models.Purchase) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE purchases
		 SET status = $2, payment_intent_id = $3, amount = $4, currency = $5,
		     customer_email = COALESCE(NULLIF($6, ''), customer_email),
		     completed_at = NOW()
		 WHERE session_id = $1 AND status = $7`,
		p.SessionID, models.PurchaseCompleted, p.PaymentIntentID, p.Amount, p.Currency,
		p.CustomerEmail, models.PurchasePending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	res, err = r.db.ExecContext(ctx,
		`INSERT INTO purchases (id, product_id, customer_email, customer_name, session_id, payment_intent_id, amount, currency, status, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		 ON CONFLICT (session_id) DO NOTHING`,
		p.ID, p.ProductID, p.CustomerEmail, p.CustomerName, p.SessionID, p.PaymentIntentID,
		p.Amount, p.Currency, models.PurchaseCompleted)
	if err != nil {
		return false, err
	}
	n, err = res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkFailed records an explicit vendor decline. Terminal, like completed.
func (r *PurchaseRepo) MarkFailed(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE purchases SET status = $2 WHERE session_id = $1 AND status = $3`,
		sessionID, models.PurchaseFailed, models.PurchasePending)
	return err
}

func (r *PurchaseRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Purchase, error) {
	var p models.Purchase
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, customer_email, customer_name, session_id, payment_intent_id, amount, currency, status, created_at, completed_at
		 FROM purchases WHERE session_id = $1`, sessionID).
		Scan(&p.ID, &p.ProductID, &p.CustomerEmail, &p.CustomerName, &p.SessionID, &p.PaymentIntentID,
			&p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return &p, nil
}
