package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/service"
)

type readinessReporter interface {
	IsLoaded() bool
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics  *service.MetricsService
	provider readinessReporter
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, provider readinessReporter) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, provider: provider}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness probes.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports 200 once the data provider finished its initial load.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.provider == nil || !h.provider.IsLoaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
