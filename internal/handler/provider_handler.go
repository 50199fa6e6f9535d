package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/models"
	"github.com/YasmaniJob/beeclass/internal/service"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

type stateProvider interface {
	State() service.ProviderState
	Refresh(ctx context.Context, c service.Collection) bool
	RefreshAreas(ctx context.Context, level string) bool
	Areas() []models.CurricularArea
	Levels() []models.EducationalLevel
	GradeSections() []models.GradeSection
}

// ProviderHandler exposes the provider snapshot, refreshes and the read-only catalogs.
type ProviderHandler struct {
	provider stateProvider
}

// NewProviderHandler constructs ProviderHandler.
func NewProviderHandler(provider stateProvider) *ProviderHandler {
	return &ProviderHandler{provider: provider}
}

// State godoc
// @Summary Current provider snapshot
// @Tags Provider
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /state [get]
func (h *ProviderHandler) State(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.provider.State())
}

// Refresh godoc
// @Summary Reload one collection
// @Tags Provider
// @Produce json
// @Param collection path string true "Collection name (estudiantes, personal, ...)"
// @Param level query string false "Level filter for areasCurriculares"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /state/refresh/{collection} [post]
func (h *ProviderHandler) Refresh(c *gin.Context) {
	collection, ok := service.ParseCollection(c.Param("collection"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "colección desconocida"))
		return
	}
	ctx, collector := notifyingContext(c)
	var done bool
	if collection == service.CollectionAreas {
		done = h.provider.RefreshAreas(ctx, strings.TrimSpace(c.Query("level")))
	} else {
		done = h.provider.Refresh(ctx, collection)
	}
	response.Outcome(c, done, nil, collector.Items(), http.StatusBadGateway)
}

// Areas godoc
// @Summary Curricular areas with competencies and capacities
// @Tags Catalog
// @Produce json
// @Param level query string false "Educational level"
// @Success 200 {object} response.Envelope
// @Router /areas [get]
func (h *ProviderHandler) Areas(c *gin.Context) {
	areas := h.provider.Areas()
	level := strings.TrimSpace(c.Query("level"))
	if level == "" {
		response.JSON(c, http.StatusOK, areas)
		return
	}
	filtered := make([]models.CurricularArea, 0, len(areas))
	for _, a := range areas {
		if strings.EqualFold(a.Level, level) {
			filtered = append(filtered, a)
		}
	}
	response.JSON(c, http.StatusOK, filtered)
}

// Levels godoc
// @Summary Educational levels
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /levels [get]
func (h *ProviderHandler) Levels(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.provider.Levels())
}

// GradeSections godoc
// @Summary Grade and section catalog
// @Tags Catalog
// @Produce json
// @Param level query string false "Educational level"
// @Success 200 {object} response.Envelope
// @Router /grade-sections [get]
func (h *ProviderHandler) GradeSections(c *gin.Context) {
	sections := h.provider.GradeSections()
	level := strings.TrimSpace(c.Query("level"))
	if level == "" {
		response.JSON(c, http.StatusOK, sections)
		return
	}
	filtered := make([]models.GradeSection, 0, len(sections))
	for _, gs := range sections {
		if strings.EqualFold(gs.Level, level) {
			filtered = append(filtered, gs)
		}
	}
	response.JSON(c, http.StatusOK, filtered)
}
