package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/middleware"
	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/service"
	"github.com/noah-isme/training-crm-api/pkg/response"
)

// ScheduleHandler exposes the weekly timetable.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// List godoc
// @Summary List timetable entries sorted by day and time
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param day query string false "All (default) or a weekday name"
// @Param search query string false "Matches title, instructor or room"
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	day, err := service.ParseDay(c.Query("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.ScheduleFilter{Search: c.Query("search"), Day: day}
	response.List(c, h.schedule.List(c.Request.Context(), filter))
}

// ByDay godoc
// @Summary Timetable grouped by weekday with localized labels
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param search query string false "Matches title, instructor or room"
// @Param lang query string false "ky, ru or en"
// @Success 200 {object} response.Envelope
// @Router /schedule/by-day [get]
func (h *ScheduleHandler) ByDay(c *gin.Context) {
	days := h.schedule.ByDay(c.Request.Context(), c.Query("search"), middleware.LanguageFrom(c))
	response.JSON(c, http.StatusOK, days)
}

// Create godoc
// @Summary Add a class to the timetable
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.schedule.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update a timetable entry
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.UpdateScheduleRequest true "Entry payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/{id} [patch]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.UpdateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.schedule.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// Delete godoc
// @Summary Remove a timetable entry
// @Tags Schedule
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Param confirm query bool true "Must be true"
// @Success 204
// @Router /schedule/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedule.Delete(c.Request.Context(), c.Param("id"), deleteConfirmed(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
