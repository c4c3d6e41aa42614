package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/pkg/response"
)

type insightService interface {
	List() []map[string]string
	Get(ctx context.Context, name string) (*models.InsightResult, error)
}

// InsightHandler exposes the dashboard summary charts.
type InsightHandler struct {
	insights insightService
}

// NewInsightHandler constructs InsightHandler.
func NewInsightHandler(insights insightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// List godoc
// @Summary List insights
// @Tags Insights
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /insights [get]
func (h *InsightHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.insights.List())
}

// Get godoc
// @Summary Compute insight
// @Tags Insights
// @Produce json
// @Param name path string true "students-per-course, status-distribution, active-by-level or courses-per-teacher"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /insights/{name} [get]
func (h *InsightHandler) Get(c *gin.Context) {
	result, err := h.insights.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
