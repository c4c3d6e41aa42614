package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/dataacademy-api/internal/service"
)

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(context.Context) error {
	return f.err
}

func TestMetricsHandlerReady(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/ready", "")
	NewMetricsHandler(nil, fakePinger{}).Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/ready", "")
	NewMetricsHandler(nil, fakePinger{err: errors.New("connection refused")}).Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsHandlerSummary(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordEnrollmentAttempt(service.EnrollmentResultCreated)
	metrics.RecordEnrollmentAttempt("duplicate_key")

	c, rec := newTestContext(http.MethodGet, "/metrics/summary", "")
	NewMetricsHandler(metrics, nil).Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[responseEnvelope](t, rec)
	assert.EqualValues(t, 1, body.Data["enrollments_created"])
	assert.EqualValues(t, 1, body.Data["enrollments_failed"])
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveDBQuery("course_overview", 0)

	c, rec := newTestContext(http.MethodGet, "/metrics", "")
	NewMetricsHandler(metrics, nil).Prometheus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `db_query_duration_seconds_count{query="course_overview"} 1`)
}

func TestMetricsHandlerWithoutService(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/metrics", "")
	NewMetricsHandler(nil, nil).Prometheus(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
