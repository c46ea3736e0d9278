package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"funnel-svc/config"
	"funnel-svc/database"
	"funnel-svc/models"
	"funnel-svc/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler creates hosted payment sessions for ebooks.
type CheckoutHandler struct {
	products  ProductStore
	purchases PurchaseStore
	provider  payment.Provider
	cfg       config.Config
	logger    *zap.Logger
}

func NewCheckoutHandler(products ProductStore, purchases PurchaseStore, provider payment.Provider, cfg config.Config, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		products:  products,
		purchases: purchases,
		provider:  provider,
		cfg:       cfg,
		logger:    logger,
	}
}

// CreateEbookPayment handles POST /api/create-ebook-payment. It parses the
// display price into minor units, prefers catalog metadata when the product
// is known, creates the vendor session and records a pending ledger row.
func (h *CheckoutHandler) CreateEbookPayment(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	amount, currency, err := models.ParsePrice(req.Price, h.cfg.DefaultCurrency)
	if err != nil {
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	ctx := c.Request.Context()
	title, description := req.Title, ""
	product, err := h.products.GetByID(ctx, req.ProductID)
	switch {
	case err == nil:
		title, description = product.Title, product.Description
		if product.Price > 0 {
			amount, currency = product.Price, product.Currency
		}
	case errors.Is(err, database.ErrProductNotFound):
		// Not in the catalog: sell it with the client-supplied display data.
		if title == "" {
			title = req.ProductID
		}
	default:
		h.logger.Error("Failed to load product", zap.String("product_id", req.ProductID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}

	base := strings.TrimRight(h.cfg.BaseURL, "/")
	// {CHECKOUT_SESSION_ID} is substituted by the vendor on redirect.
	successURL := fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}&product_id=%s",
		base, url.QueryEscape(req.ProductID))
	cancelURL := base + "/ebook"

	session, err := h.provider.CreateCheckoutSession(ctx, payment.CheckoutParams{
		ProductID:     req.ProductID,
		Title:         title,
		Description:   description,
		UnitAmount:    amount,
		Currency:      currency,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
	})
	if err != nil {
		h.logger.Error("Failed to create checkout session",
			zap.String("product_id", req.ProductID), zap.Error(err))
		writeError(c, http.StatusBadGateway, "payment_failed", "")
		return
	}

	pending := &models.Purchase{
		ProductID:     req.ProductID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		SessionID:     session.ID,
		Amount:        amount,
		Currency:      currency,
		Status:        models.PurchasePending,
	}
	if err := h.purchases.CreatePending(ctx, pending); err != nil {
		// Verification inserts a completed row when the pending one is
		// missing, so the session is still fulfillable. Log and continue.
		h.logger.Error("Failed to record pending purchase",
			zap.String("session_id", session.ID), zap.Error(err))
	}

	h.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("product_id", req.ProductID),
		zap.Int64("amount", amount),
		zap.String("currency", currency),
	)
	c.JSON(http.StatusOK, models.CheckoutResponse{URL: session.URL, SessionID: session.ID})
}
