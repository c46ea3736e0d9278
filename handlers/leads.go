package handlers

import (
	"errors"
	"net/http"

	"funnel-svc/database"
	"funnel-svc/events"
	"funnel-svc/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LeadHandler captures funnel leads and serves the CRM endpoints.
type LeadHandler struct {
	leads     LeadStore
	publisher events.Publisher
	logger    *zap.Logger
}

func NewLeadHandler(leads LeadStore, publisher events.Publisher, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, publisher: publisher, logger: logger}
}

// CreateLead handles POST /api/leads. Re-submitting the same email for the
// same source refreshes the existing lead rather than duplicating it.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req models.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	source := req.Source
	if source == "" {
		source = "website"
	}
	lead := &models.Lead{
		Email:   req.Email,
		Name:    req.Name,
		Company: req.Company,
		Source:  source,
		Status:  models.LeadNew,
	}
	if err := h.leads.Upsert(c.Request.Context(), lead); err != nil {
		h.logger.Error("Failed to save lead", zap.String("email", req.Email), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}

	if err := h.publisher.PublishLeadCreated(*lead); err != nil {
		h.logger.Error("Failed to publish lead event", zap.String("email", req.Email), zap.Error(err))
	}

	h.logger.Info("Lead captured", zap.String("email", lead.Email), zap.String("source", lead.Source))
	c.JSON(http.StatusCreated, lead)
}

// ListLeads handles GET /api/leads (CRM, authenticated).
func (h *LeadHandler) ListLeads(c *gin.Context) {
	leads, err := h.leads.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list leads", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	c.JSON(http.StatusOK, leads)
}

// GetLead handles GET /api/leads/:id (CRM, authenticated).
func (h *LeadHandler) GetLead(c *gin.Context) {
	lead, err := h.leads.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrLeadNotFound) {
		writeError(c, http.StatusNotFound, "lead_not_found", "")
		return
	}
	if err != nil {
		h.logger.Error("Failed to load lead", zap.String("lead_id", c.Param("id")), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// UpdateLeadStatus handles PATCH /api/leads/:id/status (CRM, authenticated).
func (h *LeadHandler) UpdateLeadStatus(c *gin.Context) {
	var req models.LeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	id := c.Param("id")
	err := h.leads.UpdateStatus(c.Request.Context(), id, req.Status)
	if errors.Is(err, database.ErrLeadNotFound) {
		writeError(c, http.StatusNotFound, "lead_not_found", "")
		return
	}
	if err != nil {
		h.logger.Error("Failed to update lead status", zap.String("lead_id", id), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}
