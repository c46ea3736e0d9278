package database

import (
	"context"
	"database/sql"
	"errors"

	"funnel-svc/models"
)

// ProductRepo reads the ebook catalog. Products are reference data seeded
// by migration; there is no write path here.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, price, currency, cover_url, file_path, created_at
		 FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Currency, &p.CoverURL, &p.FilePath, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, price, currency, cover_url, file_path, created_at
		 FROM products ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Currency, &p.CoverURL, &p.FilePath, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
