package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/catalog", http.StatusOK, 20*time.Millisecond)
	m.ObserveDBQuery("enrollment-counts", 10*time.Millisecond)
	m.RecordEnrollmentAttempt(EnrollmentResultCreated)
	m.RecordEnrollmentAttempt("duplicate_key")

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(1), snapshot.RequestsTotal)
	assert.InDelta(t, 20.0, snapshot.AverageRequestDurationMs, 0.01)
	assert.Equal(t, uint64(1), snapshot.DBQueryCount)
	assert.Equal(t, uint64(1), snapshot.EnrollmentsCreated)
	assert.Equal(t, uint64(1), snapshot.EnrollmentsFailed)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `enrollment_attempts_total{result="duplicate_key"} 1`))
	assert.True(t, strings.Contains(body, `db_query_duration_seconds_count{query="enrollment-counts"} 1`))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveDBQuery("x", time.Millisecond)
	m.RecordEnrollmentAttempt(EnrollmentResultCreated)
	assert.Zero(t, m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
