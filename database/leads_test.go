package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"funnel-svc/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLeadUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewLeadRepo(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(sqlmock.AnyArg(), "prospect@example.com", "Prospect", "Acme", "book-download", models.LeadNew).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow("lead-1", models.LeadNew, now, now))

	lead := &models.Lead{
		Email:   "prospect@example.com",
		Name:    "Prospect",
		Company: "Acme",
		Source:  "book-download",
	}
	if err := repo.Upsert(context.Background(), lead); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if lead.ID != "lead-1" {
		t.Errorf("id = %q, want lead-1", lead.ID)
	}
	if lead.Status != models.LeadNew {
		t.Errorf("status = %q, want new", lead.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLeadUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewLeadRepo(db)

	mock.ExpectExec("UPDATE leads").
		WithArgs("missing", models.LeadContacted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "missing", models.LeadContacted)
	if !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("err = %v, want ErrLeadNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
