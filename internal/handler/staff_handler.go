package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/models"
	"github.com/YasmaniJob/beeclass/internal/service"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

type staffProvider interface {
	Staff() []models.Staff
	StaffByID(id string) (models.Staff, bool)
	AddStaff(ctx context.Context, member *models.Staff) bool
	UpdateStaff(ctx context.Context, member *models.Staff) bool
	DeleteStaff(ctx context.Context, id string) bool
}

// StaffHandler exposes staff endpoints backed by the data provider.
type StaffHandler struct {
	provider staffProvider
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(provider staffProvider) *StaffHandler {
	return &StaffHandler{provider: provider}
}

// List godoc
// @Summary List staff with their assignments
// @Tags Staff
// @Produce json
// @Param role query string false "Staff role"
// @Success 200 {object} response.Envelope
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	staff := h.provider.Staff()
	role := models.StaffRole(c.Query("role"))
	if role == "" {
		response.JSON(c, http.StatusOK, staff, map[string]interface{}{"total": len(staff)})
		return
	}
	out := make([]models.Staff, 0, len(staff))
	for _, s := range staff {
		if s.Role == role {
			out = append(out, s)
		}
	}
	response.JSON(c, http.StatusOK, out, map[string]interface{}{"total": len(out)})
}

// Get godoc
// @Summary Staff member detail
// @Tags Staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	member, ok := h.provider.StaffByID(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "miembro del personal no encontrado"))
		return
	}
	response.JSON(c, http.StatusOK, member)
}

// Create godoc
// @Summary Create staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body service.StaffRequest true "Staff payload"
// @Success 200 {object} response.Envelope
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req service.StaffRequest
	if !bindJSON(c, &req) {
		return
	}
	member := req.Model("")
	ctx, collector := notifyingContext(c)
	ok := h.provider.AddStaff(ctx, &member)
	response.Outcome(c, ok, outcomeData(ok, member), collector.Items(), http.StatusInternalServerError)
}

// Update godoc
// @Summary Update staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param payload body service.StaffRequest true "Staff payload"
// @Success 200 {object} response.Envelope
// @Router /staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	var req service.StaffRequest
	if !bindJSON(c, &req) {
		return
	}
	member := req.Model(c.Param("id"))
	if current, found := h.provider.StaffByID(member.ID); found {
		member.Assignments = current.Assignments
	}
	ctx, collector := notifyingContext(c)
	ok := h.provider.UpdateStaff(ctx, &member)
	response.Outcome(c, ok, outcomeData(ok, member), collector.Items(), http.StatusInternalServerError)
}

// Delete godoc
// @Summary Delete staff member
// @Tags Staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /staff/{id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	ctx, collector := notifyingContext(c)
	ok := h.provider.DeleteStaff(ctx, c.Param("id"))
	response.Outcome(c, ok, nil, collector.Items(), http.StatusInternalServerError)
}
