package handlers

import (
	"context"

	"funnel-svc/models"
)

// Store interfaces consumed by the handlers. The database package
// repositories satisfy them; tests inject fakes.

type ProductStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

type PurchaseStore interface {
	CreatePending(ctx context.Context, p *models.Purchase) error
	Complete(ctx context.Context, p *models.Purchase) (bool, error)
	MarkFailed(ctx context.Context, sessionID string) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Purchase, error)
}

type LeadStore interface {
	Upsert(ctx context.Context, l *models.Lead) error
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	List(ctx context.Context) ([]models.Lead, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
