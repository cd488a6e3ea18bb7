package handler

import (

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/service"
	"github.com/noah-isme/training-crm-api/pkg/response"
)

// StaffHandler exposes Director-only account management.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List godoc
// @Summary List staff accounts without their codes
// @Tags Staff
// @Security BearerAuth
// @Produce json
// @Param search query string false "Matches name or email"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	response.List(c, h.staff.List(c.Request.Context(), c.Query("search")))
}

// Create godoc
// @Summary Create a staff account
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body service.CreateStaffRequest true "Account payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req service.CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.staff.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// ResetCode godoc
// @Summary Replace a staff member's access code
// @Tags Staff
// @Security BearerAuth
// @Accept json
// @Param id path string true "Account ID"
// @Param payload body service.ResetStaffCodeRequest true "New code"
// @Success 204
// @Router /staff/{id}/code [put]
func (h *StaffHandler) ResetCode(c *gin.Context) {
	var req service.ResetStaffCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.staff.ResetCode(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a staff account
// @Tags Staff
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param confirm query bool true "Must be true"
// @Success 204
// @Router /staff/{id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	if err := h.staff.Delete(c.Request.Context(), c.Param("id"), deleteConfirmed(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
