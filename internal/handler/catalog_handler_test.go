package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/internal/service"
	appErrors "github.com/noah-isme/dataacademy-api/pkg/errors"
)

type fakeCatalogSrv struct {
	query  string
	params map[string]string
	ran    models.CatalogRequest
}

func (f *fakeCatalogSrv) List() []models.CatalogInfo {
	return []models.CatalogInfo{{Key: models.CatalogEnrollmentCounts, Description: models.CatalogEnrollmentCounts.Description()}}
}

func (f *fakeCatalogSrv) BuildRequest(query string, params map[string]string) (models.CatalogRequest, error) {
	f.query = query
	f.params = params
	if query != string(models.CatalogCourseRoster) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown catalog query")
	}
	return models.CourseRosterRequest{CourseID: 3}, nil
}

func (f *fakeCatalogSrv) Run(_ context.Context, req models.CatalogRequest) (*models.ResultSet, error) {
	f.ran = req
	rows := []models.RosterEntry{{StudentID: 1, FirstName: "Ada", LastName: "Lovelace"}}
	return models.NewResultSet(string(req.CatalogQuery()), req.CatalogQuery().Columns(), rows), nil
}

type fakeExporter struct {
	format string
}

func (f *fakeExporter) Render(result *models.ResultSet, format string) (*service.ExportFile, error) {
	f.format = format
	if format == "xml" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	return &service.ExportFile{Filename: result.Name + ".csv", ContentType: "text/csv", Data: []byte("student_id\n1\n")}, nil
}

func TestCatalogHandlerList(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/catalog", "")

	NewCatalogHandler(&fakeCatalogSrv{}, nil).List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[listEnvelope](t, rec)
	assert.Equal(t, string(models.CatalogEnrollmentCounts), body.Data[0]["key"])
}

func TestCatalogHandlerRunForwardsKnownParams(t *testing.T) {
	srv := &fakeCatalogSrv{}
	c, rec := newTestContext(http.MethodGet, "/catalog/course-roster?courseId=3&page=2", "", gin.Param{Key: "query", Value: "course-roster"})

	NewCatalogHandler(srv, nil).Run(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "course-roster", srv.query)
	assert.Equal(t, map[string]string{"courseId": "3"}, srv.params)
	assert.Equal(t, models.CourseRosterRequest{CourseID: 3}, srv.ran)
	body := decode[responseEnvelope](t, rec)
	assert.EqualValues(t, 1, body.Data["row_count"])
	assert.EqualValues(t, 1, body.Meta["count"])
}

func TestCatalogHandlerRunUnknownQuery(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/catalog/nope", "", gin.Param{Key: "query", Value: "nope"})

	NewCatalogHandler(&fakeCatalogSrv{}, nil).Run(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandlerExport(t *testing.T) {
	exporter := &fakeExporter{}
	c, rec := newTestContext(http.MethodGet, "/catalog/course-roster/export?courseId=3&format=csv", "", gin.Param{Key: "query", Value: "course-roster"})

	NewCatalogHandler(&fakeCatalogSrv{}, exporter).Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "course-roster.csv")
	assert.Equal(t, "student_id\n1\n", rec.Body.String())
}

func TestCatalogHandlerExportRejectsFormat(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/catalog/course-roster/export?courseId=3&format=xml", "", gin.Param{Key: "query", Value: "course-roster"})

	NewCatalogHandler(&fakeCatalogSrv{}, &fakeExporter{}).Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogHandlerExportWithoutExporter(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/catalog/course-roster/export", "", gin.Param{Key: "query", Value: "course-roster"})

	NewCatalogHandler(&fakeCatalogSrv{}, nil).Export(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
