package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"funnel-svc/config"
	"funnel-svc/database"
	"funnel-svc/events"
	"funnel-svc/mailer"
	"funnel-svc/models"
	"funnel-svc/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerifyHandler confirms payment for a checkout session and fulfills the
// purchase exactly once. The endpoint is safe to call repeatedly: the
// ledger's check-and-set gates the confirmation email and the published
// event behind the single pending -> completed transition.
type VerifyHandler struct {
	products  ProductStore
	purchases PurchaseStore
	provider  payment.Provider
	mail      mailer.Mailer
	publisher events.Publisher
	cfg       config.Config
	logger    *zap.Logger
}

func NewVerifyHandler(products ProductStore, purchases PurchaseStore, provider payment.Provider, mail mailer.Mailer, publisher events.Publisher, cfg config.Config, logger *zap.Logger) *VerifyHandler {
	return &VerifyHandler{
		products:  products,
		purchases: purchases,
		provider:  provider,
		mail:      mail,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// VerifyEbookPayment handles POST /api/verify-ebook-payment.
func (h *VerifyHandler) VerifyEbookPayment(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, apiErr := h.verify(c.Request.Context(), req.SessionID, req.ProductID)
	if apiErr != nil {
		writeAPIError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// verify runs the full verification flow. It is shared with the
// server-rendered success page.
func (h *VerifyHandler) verify(ctx context.Context, sessionID, productID string) (models.VerifyResponse, *apiError) {
	session, err := h.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		h.logger.Error("Failed to look up checkout session",
			zap.String("session_id", sessionID), zap.Error(err))
		return models.VerifyResponse{}, &apiError{http.StatusBadGateway, "payment_failed", ""}
	}

	if !session.Paid {
		if session.Expired {
			// The vendor gave up on the session; close out the ledger row.
			if err := h.purchases.MarkFailed(ctx, sessionID); err != nil {
				h.logger.Error("Failed to mark purchase failed",
					zap.String("session_id", sessionID), zap.Error(err))
			}
			return models.VerifyResponse{Success: false, Status: models.PurchaseFailed}, nil
		}
		// Valid intermediate state: the page polls until the vendor
		// reports paid. No writes happen here.
		return models.VerifyResponse{Success: false, Status: models.PurchasePending}, nil
	}

	product, err := h.products.GetByID(ctx, productID)
	if errors.Is(err, database.ErrProductNotFound) {
		return models.VerifyResponse{}, &apiError{http.StatusNotFound, "product_not_found", ""}
	}
	if err != nil {
		h.logger.Error("Failed to load product", zap.String("product_id", productID), zap.Error(err))
		return models.VerifyResponse{}, &apiError{http.StatusInternalServerError, "internal_error", ""}
	}

	amount, currency := session.AmountTotal, session.Currency
	if amount == 0 {
		amount, currency = product.Price, product.Currency
	}
	purchase := &models.Purchase{
		ProductID:       product.ID,
		CustomerEmail:   session.CustomerEmail,
		CustomerName:    session.CustomerName,
		SessionID:       sessionID,
		PaymentIntentID: session.PaymentIntentID,
		Amount:          amount,
		Currency:        currency,
		Status:          models.PurchaseCompleted,
	}

	first, err := h.purchases.Complete(ctx, purchase)
	if err != nil {
		h.logger.Error("Failed to complete purchase",
			zap.String("session_id", sessionID), zap.Error(err))
		return models.VerifyResponse{}, &apiError{http.StatusInternalServerError, "internal_error", ""}
	}

	downloadURL := strings.TrimRight(h.cfg.DownloadBaseURL, "/") + "/" + product.FilePath

	if first {
		h.fulfill(ctx, purchase, product, downloadURL)
	} else {
		h.logger.Info("Purchase already fulfilled, skipping notification",
			zap.String("session_id", sessionID))
	}

	return models.VerifyResponse{
		Success:     true,
		Status:      models.PurchaseCompleted,
		DownloadURL: downloadURL,
		Product:     product,
	}, nil
}

// fulfill sends the confirmation email and publishes the purchase event.
// Both are at-least-once side effects: failures are logged, never rolled
// back into the ledger.
func (h *VerifyHandler) fulfill(ctx context.Context, purchase *models.Purchase, product *models.Product, downloadURL string) {
	if purchase.CustomerEmail == "" {
		h.logger.Warn("No customer email on session, skipping confirmation",
			zap.String("session_id", purchase.SessionID))
	} else {
		msg, err := mailer.BuildConfirmation(purchase.CustomerEmail, purchase.CustomerName, product.Title, downloadURL)
		if err == nil {
			_, err = h.mail.Send(ctx, msg)
		}
		if err != nil {
			h.logger.Error("Failed to send confirmation email",
				zap.String("session_id", purchase.SessionID), zap.Error(err))
		} else {
			h.logger.Info("Confirmation email sent",
				zap.String("email", purchase.CustomerEmail),
				zap.String("session_id", purchase.SessionID))
		}
	}

	if err := h.publisher.PublishPurchaseCompleted(*purchase); err != nil {
		h.logger.Error("Failed to publish purchase event",
			zap.String("session_id", purchase.SessionID), zap.Error(err))
	}

	h.logger.Info("Purchase fulfilled",
		zap.String("session_id", purchase.SessionID),
		zap.String("product_id", purchase.ProductID),
		zap.Int64("amount", purchase.Amount),
		zap.String("currency", purchase.Currency),
	)
}
