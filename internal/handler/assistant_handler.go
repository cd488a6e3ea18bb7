package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/training-crm-api/internal/locale"
	"github.com/noah-isme/training-crm-api/internal/middleware"
	"github.com/noah-isme/training-crm-api/internal/service"
	"github.com/noah-isme/training-crm-api/pkg/response"
)

type assistantService interface {
	Ask(ctx context.Context, req service.AskRequest, lang locale.Language) (*service.AssistantReply, error)
	Suggestions(lang locale.Language) service.AssistantSuggestions
}

// AssistantHandler relays prompts to the AI advisor.
type AssistantHandler struct {
	assistant assistantService
}

// NewAssistantHandler constructs AssistantHandler.
func NewAssistantHandler(assistant assistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Ask godoc
// @Summary Ask the AI advisor
// @Description Provider failures are reported in-band with fallback=true.
// @Tags Assistant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body service.AskRequest true "Prompt"
// @Param lang query string false "ky, ru or en"
// @Success 200 {object} response.Envelope
// @Router /assistant/ask [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req service.AskRequest
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.assistant.Ask(c.Request.Context(), req, middleware.LanguageFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reply)
}

// Suggestions godoc
// @Summary Localized quick prompts
// @Tags Assistant
// @Security BearerAuth
// @Produce json
// @Param lang query string false "ky, ru or en"
// @Success 200 {object} response.Envelope
// @Router /assistant/suggestions [get]
func (h *AssistantHandler) Suggestions(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.assistant.Suggestions(middleware.LanguageFrom(c)))
}
