package handlers

import (
	"net/http"
	"time"

	"funnel-svc/config"
	"funnel-svc/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues tokens for the CRM dashboard. There is a single admin
// identity, checked against a bcrypt hash from configuration.
type AuthHandler struct {
	cfg    config.Config
	logger *zap.Logger
}

func NewAuthHandler(cfg config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, logger: logger}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		h.logger.Warn("Failed CRM login attempt", zap.String("client_ip", c.ClientIP()))
		writeError(c, http.StatusUnauthorized, "invalid_credentials", "")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}
