package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceProviderOperations(t *testing.T) {
	m := NewMetricsService()
	m.RecordProviderOperation("refresh_students", true)
	m.RecordProviderOperation("refresh_students", true)
	m.RecordProviderOperation("add_staff", false)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `provider_operations_total{op="refresh_students",outcome="success"} 2`)
	assert.Contains(t, body, `provider_operations_total{op="add_staff",outcome="failure"} 1`)
}

func TestMetricsServiceHandlerExposesSeries(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/state", http.StatusOK, 15*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordEditorSave(false)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `assignment_editor_saves_total{outcome="failure"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.RecordProviderOperation("x", true)
		m.RecordCacheOperation(false, 0)
		m.SetEditorSessions(3)
	})
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
