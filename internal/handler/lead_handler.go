package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/service"
	"github.com/noah-isme/training-crm-api/pkg/response"
)

// LeadHandler exposes the sales pipeline.
type LeadHandler struct {
	leads *service.LeadService
}

// NewLeadHandler constructs LeadHandler.
func NewLeadHandler(leads *service.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// List godoc
// @Summary List leads
// @Tags Leads
// @Security BearerAuth
// @Produce json
// @Param search query string false "Matches name, email or source"
// @Param status query string false "New, Contacted, Meeting or Converted"
// @Success 200 {object} response.Envelope
// @Router /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	filter := models.LeadFilter{
		Search: c.Query("search"),
		Status: models.LeadStatus(c.Query("status")),
	}
	response.List(c, h.leads.List(c.Request.Context(), filter))
}

// Pipeline godoc
// @Summary Leads grouped by pipeline stage
// @Tags Leads
// @Security BearerAuth
// @Produce json
// @Param search query string false "Matches name, email or source"
// @Success 200 {object} response.Envelope
// @Router /leads/pipeline [get]
func (h *LeadHandler) Pipeline(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.leads.Pipeline(c.Request.Context(), c.Query("search")))
}

// Create godoc
// @Summary Capture a lead
// @Tags Leads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body service.CreateLeadRequest true "Lead payload"
// @Success 201 {object} response.Envelope
// @Router /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var req service.CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	lead, err := h.leads.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lead)
}

// Update godoc
// @Summary Update lead
// @Tags Leads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload body service.UpdateLeadRequest true "Lead payload"
// @Success 200 {object} response.Envelope
// @Router /leads/{id} [patch]
func (h *LeadHandler) Update(c *gin.Context) {
	var req service.UpdateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	lead, err := h.leads.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead)
}

// UpdateStatus godoc
// @Summary Move a lead to another stage
// @Tags Leads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload body service.UpdateLeadStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Router /leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateLeadStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	lead, err := h.leads.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead)
}

// Delete godoc
// @Summary Delete lead
// @Tags Leads
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param confirm query bool true "Must be true"
// @Success 204
// @Router /leads/{id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.leads.Delete(c.Request.Context(), c.Param("id"), deleteConfirmed(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
