package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"funnel-svc/models"

	"github.com/gin-gonic/gin"
)

func newEmailRouter(mail *fakeMailer) *gin.Engine {
	h := NewEmailHandler(mail, testLogger())
	router := gin.New()
	router.POST("/api/send-ebook-confirmation", h.SendEbookConfirmation)
	return router
}

func TestSendEbookConfirmation(t *testing.T) {
	mail := &fakeMailer{}
	router := newEmailRouter(mail)

	w := performJSON(t, router, http.MethodPost, "/api/send-ebook-confirmation", models.ConfirmationRequest{
		Email:        "buyer@example.com",
		Name:         "Buyer",
		ProductTitle: "Digital Success Mastery",
		DownloadURL:  "https://example.com/downloads/ebook-1.pdf",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	var resp models.ConfirmationResponse
	decodeJSON(t, w, &resp)
	if !resp.Success || resp.MessageID != "msg_123" {
		t.Errorf("response = %+v, want success with message id", resp)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mail.sent))
	}
	msg := mail.sent[0]
	if msg.To != "buyer@example.com" {
		t.Errorf("recipient = %q, want buyer@example.com", msg.To)
	}
	if !strings.Contains(msg.HTML, "https://example.com/downloads/ebook-1.pdf") {
		t.Error("email body should contain the download link")
	}
	if !strings.Contains(msg.Subject, "Digital Success Mastery") {
		t.Errorf("subject = %q, want the product title", msg.Subject)
	}
}

func TestSendEbookConfirmationVendorFailure(t *testing.T) {
	router := newEmailRouter(&fakeMailer{err: errors.New("resend unavailable")})

	w := performJSON(t, router, http.MethodPost, "/api/send-ebook-confirmation", models.ConfirmationRequest{
		Email:        "buyer@example.com",
		ProductTitle: "Digital Success Mastery",
		DownloadURL:  "https://example.com/downloads/ebook-1.pdf",
	})

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestSendEbookConfirmationValidation(t *testing.T) {
	router := newEmailRouter(&fakeMailer{})

	w := performJSON(t, router, http.MethodPost, "/api/send-ebook-confirmation", models.ConfirmationRequest{
		Email: "not-an-email",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
