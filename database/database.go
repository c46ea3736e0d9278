// Package database wires Postgres access: connection setup, schema
// migrations and the repositories for products, purchases and leads.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Sentinel errors surfaced to handlers so not-found can render distinctly
// from generic failures.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrLeadNotFound    = errors.New("lead not found")
)

// InitDB applies pending migrations and opens the connection pool.
func InitDB(databaseURL, migrationsPath string, logger *zap.Logger) (*sql.DB, error) {
	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migration instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("Database migrations applied")

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Connected to database")
	return db, nil
}
