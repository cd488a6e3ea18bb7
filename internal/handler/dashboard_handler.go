package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/dto"
	"github.com/noah-isme/training-crm-api/internal/locale"
	"github.com/noah-isme/training-crm-api/internal/middleware"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
	"github.com/noah-isme/training-crm-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, lang locale.Language) (*dto.DashboardResponse, bool, error)
}

type financeService interface {
	Pending(ctx context.Context) dto.PendingPaymentsResponse
}

// DashboardHandler serves the landing summary and payment analytics.
type DashboardHandler struct {
	dashboard dashboardService
	finance   financeService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard dashboardService, finance financeService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, finance: finance}
}

// Summary godoc
// @Summary Dashboard totals, today's classes and recent students
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param lang query string false "ky, ru or en"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.dashboard == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.dashboard.Summary(c.Request.Context(), middleware.LanguageFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, middleware.Meta(c, start))
}

// PendingPayments godoc
// @Summary Students with outstanding payments and the expected debt
// @Tags Finance
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /finance/pending [get]
func (h *DashboardHandler) PendingPayments(c *gin.Context) {
	if h.finance == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.finance.Pending(c.Request.Context()))
}
