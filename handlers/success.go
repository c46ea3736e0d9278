package handlers

import (
	"html/template"
	"net/http"

	"funnel-svc/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The success page is server-rendered: it runs the same verification flow
// as the API endpoint and shows one of three states. The pending state
// auto-refreshes so a customer arriving before the vendor settles the
// payment eventually sees the download link.
var successTmpl = template.Must(template.New("success").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Payment confirmation</title>
    {{if .Pending}}<meta http-equiv="refresh" content="3" />{{end}}
  </head>
  <body style="font-family: sans-serif; max-width: 40rem; margin: 4rem auto;">
    {{if .Success}}
      <h1>Thank you for your purchase!</h1>
      <p>Your payment for <strong>{{.ProductTitle}}</strong> has been confirmed.
         A confirmation email is on its way.</p>
      <p><a href="{{.DownloadURL}}">Download your ebook</a></p>
    {{else if .Pending}}
      <h1>Confirming your payment&hellip;</h1>
      <p>This page refreshes automatically. Hang tight.</p>
    {{else}}
      <h1>We could not confirm your payment</h1>
      <p>{{.Message}}</p>
      <p>If you were charged, contact support with your session reference.</p>
    {{end}}
  </body>
</html>
`))

type successView struct {
	Success      bool
	Pending      bool
	ProductTitle string
	DownloadURL  string
	Message      string
}

// SuccessPage handles GET /success?session_id=...&product_id=...
func (h *VerifyHandler) SuccessPage(c *gin.Context) {
	sessionID := c.Query("session_id")
	productID := c.Query("product_id")
	if sessionID == "" || productID == "" {
		h.renderSuccess(c, http.StatusBadRequest, successView{
			Message: "Missing session or product reference.",
		})
		return
	}

	result, apiErr := h.verify(c.Request.Context(), sessionID, productID)
	switch {
	case apiErr != nil && apiErr.code == "product_not_found":
		h.renderSuccess(c, http.StatusNotFound, successView{
			Message: "The purchased product could not be found.",
		})
	case apiErr != nil:
		h.renderSuccess(c, http.StatusBadGateway, successView{
			Message: "Payment verification failed. Please try again shortly.",
		})
	case result.Status == models.PurchaseFailed:
		// Terminal state: no refresh, the session will never settle.
		h.renderSuccess(c, http.StatusOK, successView{
			Message: "The payment session expired before it was completed. Please start a new checkout.",
		})
	case !result.Success:
		h.renderSuccess(c, http.StatusOK, successView{Pending: true})
	default:
		h.renderSuccess(c, http.StatusOK, successView{
			Success:      true,
			ProductTitle: result.Product.Title,
			DownloadURL:  result.DownloadURL,
		})
	}
}

func (h *VerifyHandler) renderSuccess(c *gin.Context, status int, view successView) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := successTmpl.Execute(c.Writer, view); err != nil {
		h.logger.Error("Failed to render success page", zap.Error(err))
	}
}
