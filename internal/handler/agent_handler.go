package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"curator/internal/response"
	"curator/internal/service"
)

// AgentHandler exposes the AI analysis of articles.
type AgentHandler struct {
	summaries service.SummaryService
}

// NewAgentHandler creates an AI agent handler.
func NewAgentHandler(summaries service.SummaryService) *AgentHandler {
	return &AgentHandler{summaries: summaries}
}

// Analyze godoc
// @Summary Analyze an article with the AI agent
// @Description Returns a summary, the sentiment and the main topics of the article.
// @Tags ai-agent
// @Produce json
// @Security BearerAuth
// @Param article_id path int true "Article ID"
// @Success 200 {object} response.Envelope{data=service.Analysis}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /ai-agent/{article_id} [get]
func (h *AgentHandler) Analyze(c echo.Context) error {
	id, err := pathID(c, "article_id")
	if err != nil {
		return err
	}
	analysis, err := h.summaries.Analyze(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "Reply from AI agent", analysis)
}
