// Package models defines the domain types shared across the service.
package models

import "time"

// Purchase statuses. A purchase moves pending -> completed (or failed)
// exactly once; both end states are terminal.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// Lead statuses, mutated by CRM actions.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadConverted = "converted"
	LeadClosed    = "closed"
)

// Product is immutable reference data for a sellable ebook.
// Price is stored in minor units (cents).
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Currency    string    `json:"currency"`
	CoverURL    string    `json:"coverUrl"`
	FilePath    string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Purchase is the ledger record for one checkout session. SessionID is
// unique in the store; that constraint is what makes fulfillment idempotent.
type Purchase struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"productId"`
	CustomerEmail   string     `json:"customerEmail"`
	CustomerName    string     `json:"customerName"`
	SessionID       string     `json:"sessionId"`
	PaymentIntentID string     `json:"paymentIntentId"`
	Amount          int64      `json:"amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// Lead is a funnel contact captured from the book download or chat entry
// points.
type Lead struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CheckoutRequest is the payload for creating a hosted payment session.
type CheckoutRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	CustomerName  string `json:"customerName"`
	Title         string `json:"title"`
	Price         string `json:"price" binding:"required"`
}

// CheckoutResponse carries the vendor-hosted redirect URL.
type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// VerifyRequest asks whether a checkout session has been paid.
type VerifyRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

// VerifyResponse reports the payment outcome. Success false with status
// "pending" is a valid intermediate state, not an error.
type VerifyResponse struct {
	Success     bool     `json:"success"`
	Status      string   `json:"status,omitempty"`
	DownloadURL string   `json:"downloadUrl,omitempty"`
	Product     *Product `json:"product,omitempty"`
}

// ConfirmationRequest is the payload for sending a fulfillment email.
type ConfirmationRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name"`
	ProductTitle string `json:"productTitle" binding:"required"`
	DownloadURL  string `json:"downloadUrl" binding:"required"`
}

// ConfirmationResponse reports the email send outcome.
type ConfirmationResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
}

// LeadRequest is the payload for capturing a lead.
type LeadRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Source  string `json:"source"`
}

// LeadStatusRequest mutates a lead's CRM status.
type LeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted converted closed"`
}

// LoginRequest authenticates the CRM dashboard.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}
