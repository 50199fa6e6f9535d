package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/models"
	"github.com/YasmaniJob/beeclass/internal/service"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

type studentProvider interface {
	Students() []models.Student
	AddStudent(ctx context.Context, student *models.Student) bool
	UpdateStudent(ctx context.Context, student *models.Student) bool
	DeleteStudent(ctx context.Context, id string) bool
}

// StudentHandler exposes student endpoints backed by the data provider.
type StudentHandler struct {
	provider studentProvider
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(provider studentProvider) *StudentHandler {
	return &StudentHandler{provider: provider}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param grade query string false "Grade"
// @Param section query string false "Section"
// @Param search query string false "Search by name or document number"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Grade:   c.Query("grade"),
		Section: c.Query("section"),
		Search:  strings.ToLower(strings.TrimSpace(c.Query("search"))),
	}
	students := h.provider.Students()
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if filter.Grade != "" && s.Grade != filter.Grade {
			continue
		}
		if filter.Section != "" && s.Section != filter.Section {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.FullName()+" "+s.DocumentNumber), filter.Search) {
			continue
		}
		out = append(out, s)
	}
	response.JSON(c, http.StatusOK, out, map[string]interface{}{"total": len(out)})
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student := req.Model("")
	ctx, collector := notifyingContext(c)
	ok := h.provider.AddStudent(ctx, &student)
	response.Outcome(c, ok, outcomeData(ok, student), collector.Items(), http.StatusInternalServerError)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.StudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student := req.Model(c.Param("id"))
	ctx, collector := notifyingContext(c)
	ok := h.provider.UpdateStudent(ctx, &student)
	response.Outcome(c, ok, outcomeData(ok, student), collector.Items(), http.StatusInternalServerError)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	ctx, collector := notifyingContext(c)
	ok := h.provider.DeleteStudent(ctx, c.Param("id"))
	response.Outcome(c, ok, nil, collector.Items(), http.StatusInternalServerError)
}

func outcomeData(ok bool, data interface{}) interface{} {
	if !ok {
		return nil
	}
	return data
}
