package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/models"
	"github.com/YasmaniJob/beeclass/internal/service"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

type academicProvider interface {
	AddArea(ctx context.Context, req service.AreaRequest) (models.CurricularArea, bool)
	AddGradeSection(ctx context.Context, req service.GradeSectionRequest) (models.GradeSection, bool)
	DeleteGradeSection(ctx context.Context, id string) bool
	AddSession(ctx context.Context, in service.SessionInput) (models.LearningSession, bool)
	RecordGrade(ctx context.Context, in service.GradeInput) bool
	GradeRecords(filter models.GradeRecordFilter) []models.GradeRecord
}

// AcademicHandler manages the curricular catalog, learning sessions and grades.
type AcademicHandler struct {
	provider academicProvider
}

// NewAcademicHandler constructs AcademicHandler.
func NewAcademicHandler(provider academicProvider) *AcademicHandler {
	return &AcademicHandler{provider: provider}
}

// CreateArea godoc
// @Summary Create curricular area
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.AreaRequest true "Area with competencies"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /areas [post]
func (h *AcademicHandler) CreateArea(c *gin.Context) {
	var req service.AreaRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, collector := notifyingContext(c)
	area, ok := h.provider.AddArea(ctx, req)
	response.Outcome(c, ok, outcomeData(ok, area), collector.Items(), http.StatusInternalServerError)
}

// CreateGradeSection godoc
// @Summary Add grade and section to the catalog
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.GradeSectionRequest true "Grade section"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /grade-sections [post]
func (h *AcademicHandler) CreateGradeSection(c *gin.Context) {
	var req service.GradeSectionRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, collector := notifyingContext(c)
	gs, ok := h.provider.AddGradeSection(ctx, req)
	response.Outcome(c, ok, outcomeData(ok, gs), collector.Items(), http.StatusInternalServerError)
}

// DeleteGradeSection godoc
// @Summary Remove grade and section from the catalog
// @Tags Catalog
// @Produce json
// @Param id path string true "Grade section ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /grade-sections/{id} [delete]
func (h *AcademicHandler) DeleteGradeSection(c *gin.Context) {
	ctx, collector := notifyingContext(c)
	ok := h.provider.DeleteGradeSection(ctx, c.Param("id"))
	response.Outcome(c, ok, nil, collector.Items(), http.StatusInternalServerError)
}

// CreateSession godoc
// @Summary Plan a learning session
// @Tags Academic
// @Accept json
// @Produce json
// @Param payload body service.SessionInput true "Session"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions [post]
func (h *AcademicHandler) CreateSession(c *gin.Context) {
	var in service.SessionInput
	if !bindJSON(c, &in) {
		return
	}
	if in.StaffID == "" {
		in.StaffID = actorID(c)
	}
	ctx, collector := notifyingContext(c)
	session, ok := h.provider.AddSession(ctx, in)
	response.Outcome(c, ok, outcomeData(ok, session), collector.Items(), http.StatusInternalServerError)
}

// ListGrades godoc
// @Summary List grade records
// @Tags Academic
// @Produce json
// @Param grade query string false "Grade"
// @Param section query string false "Section"
// @Param period query string false "Period"
// @Param studentId query string false "Student ID"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *AcademicHandler) ListGrades(c *gin.Context) {
	records := h.provider.GradeRecords(models.GradeRecordFilter{
		Grade:     c.Query("grade"),
		Section:   c.Query("section"),
		Period:    c.Query("period"),
		StudentID: c.Query("studentId"),
	})
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"total": len(records)})
}

// RecordGrade godoc
// @Summary Record a competency grade
// @Tags Academic
// @Accept json
// @Produce json
// @Param payload body service.GradeInput true "Grade"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grades [post]
func (h *AcademicHandler) RecordGrade(c *gin.Context) {
	var in service.GradeInput
	if !bindJSON(c, &in) {
		return
	}
	in.ActorID = actorOr(c, in.ActorID)
	ctx, collector := notifyingContext(c)
	ok := h.provider.RecordGrade(ctx, in)
	response.Outcome(c, ok, nil, collector.Items(), http.StatusInternalServerError)
}
