package database

import (
	"context"
	"testing"

	"funnel-svc/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func completedPurchase() *models.Purchase {
	return &models.Purchase{
		ProductID:       "ebook-1",
		CustomerEmail:   "buyer@example.com",
		SessionID:       "cs_1",
		PaymentIntentID: "pi_123",
		Amount:          4900,
		Currency:        "eur",
		Status:          models.PurchaseCompleted,
	}
}

func TestCompleteTransitionsPendingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPurchaseRepo(db)

	mock.ExpectExec("UPDATE purchases").
		WithArgs("cs_1", models.PurchaseCompleted, "pi_123", int64(4900), "eur", "buyer@example.com", models.PurchasePending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	first, err := repo.Complete(context.Background(), completedPurchase())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !first {
		t.Error("first = false, want true for the pending -> completed transition")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCompleteIsNoOpWhenAlreadyCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPurchaseRepo(db)

	// No pending row matches, and the insert conflicts on session_id.
	mock.ExpectExec("UPDATE purchases").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO purchases").
		WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.Complete(context.Background(), completedPurchase())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if first {
		t.Error("first = true on an already-completed session, want false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCompleteInsertsWhenPendingRowMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPurchaseRepo(db)

	mock.ExpectExec("UPDATE purchases").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO purchases").
		WithArgs(sqlmock.AnyArg(), "ebook-1", "buyer@example.com", "", "cs_1", "pi_123",
			int64(4900), "eur", models.PurchaseCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	first, err := repo.Complete(context.Background(), completedPurchase())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !first {
		t.Error("first = false, want true when the completed row is inserted fresh")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreatePendingAcceptsOffCatalogProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPurchaseRepo(db)

	// Checkout sells unknown product ids with client-supplied display
	// data; the ledger row is written with the id as given.
	p := &models.Purchase{
		ProductID:     "one-off-workshop",
		CustomerEmail: "buyer@example.com",
		SessionID:     "cs_9",
		Amount:        1500,
		Currency:      "eur",
	}
	mock.ExpectExec("INSERT INTO purchases").
		WithArgs(sqlmock.AnyArg(), "one-off-workshop", "buyer@example.com", "", "cs_9",
			int64(1500), "eur", models.PurchasePending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CreatePending(context.Background(), p); err != nil {
		t.Fatalf("CreatePending: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreatePendingIgnoresDuplicateSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPurchaseRepo(db)

	p := &models.Purchase{
		ProductID:     "ebook-1",
		CustomerEmail: "buyer@example.com",
		SessionID:     "cs_1",
		Amount:        4900,
		Currency:      "eur",
	}
	mock.ExpectExec("INSERT INTO purchases").
		WithArgs(sqlmock.AnyArg(), "ebook-1", "buyer@example.com", "", "cs_1",
			int64(4900), "eur", models.PurchasePending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.CreatePending(context.Background(), p); err != nil {
		t.Fatalf("CreatePending: %v", err)
	}
	if p.ID == "" {
		t.Error("CreatePending should assign an id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
