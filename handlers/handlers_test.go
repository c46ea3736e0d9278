package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"funnel-svc/config"
	"funnel-svc/database"
	"funnel-svc/mailer"
	"funnel-svc/models"
	"funnel-svc/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		BaseURL:         "https://example.com",
		DownloadBaseURL: "https://example.com/downloads",
		DefaultCurrency: "eur",
	}
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// fakeProvider is a scripted payment vendor.
type fakeProvider struct {
	created    *payment.CheckoutSession
	session    *payment.CheckoutSession
	createErr  error
	getErr     error
	lastParams payment.CheckoutParams
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error) {
	f.lastParams = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeProvider) GetCheckoutSession(_ context.Context, id string) (*payment.CheckoutSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.session, nil
}

// fakeProducts is an in-memory catalog.
type fakeProducts struct {
	byID map[string]*models.Product
	err  error
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProducts) List(_ context.Context) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

// fakePurchases records ledger calls and scripts the first-completion flag.
type fakePurchases struct {
	pending       []*models.Purchase
	completed     []*models.Purchase
	failed        []string
	completeFirst bool
	completeErr   error
}

func (f *fakePurchases) CreatePending(_ context.Context, p *models.Purchase) error {
	f.pending = append(f.pending, p)
	return nil
}

func (f *fakePurchases) Complete(_ context.Context, p *models.Purchase) (bool, error) {
	if f.completeErr != nil {
		return false, f.completeErr
	}
	f.completed = append(f.completed, p)
	return f.completeFirst, nil
}

func (f *fakePurchases) MarkFailed(_ context.Context, sessionID string) error {
	f.failed = append(f.failed, sessionID)
	return nil
}

func (f *fakePurchases) GetBySessionID(_ context.Context, sessionID string) (*models.Purchase, error) {
	for _, p := range f.completed {
		if p.SessionID == sessionID {
			return p, nil
		}
	}
	for _, p := range f.pending {
		if p.SessionID == sessionID {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

// fakeMailer captures sends.
type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "msg_123", nil
}

// fakePublisher captures events.
type fakePublisher struct {
	purchases []models.Purchase
	leads     []models.Lead
}

func (f *fakePublisher) PublishPurchaseCompleted(p models.Purchase) error {
	f.purchases = append(f.purchases, p)
	return nil
}

func (f *fakePublisher) PublishLeadCreated(l models.Lead) error {
	f.leads = append(f.leads, l)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

// fakeLeads is an in-memory lead store.
type fakeLeads struct {
	byID map[string]*models.Lead
	err  error
}

func (f *fakeLeads) Upsert(_ context.Context, l *models.Lead) error {
	if f.err != nil {
		return f.err
	}
	if l.ID == "" {
		l.ID = "lead-1"
	}
	now := time.Now()
	l.CreatedAt, l.UpdatedAt = now, now
	if f.byID == nil {
		f.byID = map[string]*models.Lead{}
	}
	f.byID[l.ID] = l
	return nil
}

func (f *fakeLeads) GetByID(_ context.Context, id string) (*models.Lead, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, database.ErrLeadNotFound
	}
	return l, nil
}

func (f *fakeLeads) List(_ context.Context) ([]models.Lead, error) {
	var out []models.Lead
	for _, l := range f.byID {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLeads) UpdateStatus(_ context.Context, id, status string) error {
	l, ok := f.byID[id]
	if !ok {
		return database.ErrLeadNotFound
	}
	l.Status = status
	return nil
}

func testLogger() *zap.Logger { return zap.NewNop() }

func testProduct() *models.Product {
	return &models.Product{
		ID:       "ebook-1",
		Title:    "Digital Success Mastery",
		Price:    4900,
		Currency: "eur",
		FilePath: "ebook-1.pdf",
	}
}
