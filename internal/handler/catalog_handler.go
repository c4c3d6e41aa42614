package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dataacademy-api/internal/dto"
	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/internal/service"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
	"github.com/noah-isme/dataacademy-api/pkg/response"
)

type catalogService interface {
	List() []models.CatalogInfo
	BuildRequest(query string, params map[string]string) (models.CatalogRequest, error)
	Run(ctx context.Context, req models.CatalogRequest) (*models.ResultSet, error)
}

type resultExporter interface {
	Render(result *models.ResultSet, format string) (*service.ExportFile, error)
}

// catalogParams are the query-string keys forwarded to the catalog.
var catalogParams = []string{"courseId", "title", "email", "teacherId"}

// CatalogHandler exposes the named analytical queries.
type CatalogHandler struct {
	catalog  catalogService
	exporter resultExporter
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog catalogService, exporter resultExporter) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, exporter: exporter}
}

// List godoc
// @Summary List catalog queries
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.List())
}

// Run godoc
// @Summary Run catalog query
// @Tags Catalog
// @Produce json
// @Param query path string true "Catalog key"
// @Param courseId query int false "Course ID (course-roster)"
// @Param title query string false "Title pattern with % wildcards (roster-by-title)"
// @Param email query string false "Student email (student-enrollments)"
// @Param teacherId query int false "Teacher ID (teacher-status-breakdown)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /catalog/{query} [get]
func (h *CatalogHandler) Run(c *gin.Context) {
	result, err := h.run(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"columns": result.Columns,
		"count":   result.RowCount,
	})
}

// Export godoc
// @Summary Export catalog query
// @Tags Catalog
// @Produce text/csv
// @Produce application/pdf
// @Param query path string true "Catalog key"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /catalog/{query}/export [get]
func (h *CatalogHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrUnavailable)
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err, "invalid export query"))
		return
	}
	result, err := h.run(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.Render(result, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func (h *CatalogHandler) run(c *gin.Context) (*models.ResultSet, error) {
	params := make(map[string]string, len(catalogParams))
	for _, key := range catalogParams {
		if value, ok := c.GetQuery(key); ok {
			params[key] = value
		}
	}
	req, err := h.catalog.BuildRequest(c.Param("query"), params)
	if err != nil {
		return nil, err
	}
	return h.catalog.Run(c.Request.Context(), req)
}
