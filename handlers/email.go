package handlers

import (
	"net/http"

	"funnel-svc/mailer"
	"funnel-svc/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmailHandler exposes the confirmation-email endpoint used by the funnel
// frontend directly (outside the verification flow).
type EmailHandler struct {
	mail   mailer.Mailer
	logger *zap.Logger
}

func NewEmailHandler(mail mailer.Mailer, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{mail: mail, logger: logger}
}

// SendEbookConfirmation handles POST /api/send-ebook-confirmation.
func (h *EmailHandler) SendEbookConfirmation(c *gin.Context) {
	var req models.ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	msg, err := mailer.BuildConfirmation(req.Email, req.Name, req.ProductTitle, req.DownloadURL)
	if err != nil {
		h.logger.Error("Failed to render confirmation email", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}

	id, err := h.mail.Send(c.Request.Context(), msg)
	if err != nil {
		h.logger.Error("Failed to send confirmation email",
			zap.String("email", req.Email), zap.Error(err))
		writeError(c, http.StatusBadGateway, "email_failed", "")
		return
	}

	h.logger.Info("Confirmation email sent", zap.String("email", req.Email))
	c.JSON(http.StatusOK, models.ConfirmationResponse{Success: true, MessageID: id})
}
