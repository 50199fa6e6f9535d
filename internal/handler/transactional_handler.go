package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/service"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

type transactionalRecorder interface {
	RecordAttendance(ctx context.Context, in service.AttendanceInput) bool
	RecordIncident(ctx context.Context, in service.IncidentInput) bool
	RecordPermit(ctx context.Context, in service.PermitInput) bool
}

// TransactionalHandler appends attendance, incidents and permits to the event log.
type TransactionalHandler struct {
	recorder transactionalRecorder
}

// NewTransactionalHandler constructs TransactionalHandler.
func NewTransactionalHandler(recorder transactionalRecorder) *TransactionalHandler {
	return &TransactionalHandler{recorder: recorder}
}

// Attendance godoc
// @Summary Record attendance
// @Tags Transactional
// @Accept json
// @Produce json
// @Param payload body service.AttendanceInput true "Attendance mark"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /attendance [post]
func (h *TransactionalHandler) Attendance(c *gin.Context) {
	var in service.AttendanceInput
	if !bindJSON(c, &in) {
		return
	}
	in.ActorID = actorOr(c, in.ActorID)
	ctx, collector := notifyingContext(c)
	ok := h.recorder.RecordAttendance(ctx, in)
	response.Outcome(c, ok, nil, collector.Items(), http.StatusBadGateway)
}

// Incident godoc
// @Summary Record incident
// @Tags Transactional
// @Accept json
// @Produce json
// @Param payload body service.IncidentInput true "Incident"
// @Success 200 {object} response.Envelope
// @Router /incidents [post]
func (h *TransactionalHandler) Incident(c *gin.Context) {
	var in service.IncidentInput
	if !bindJSON(c, &in) {
		return
	}
	in.ActorID = actorOr(c, in.ActorID)
	ctx, collector := notifyingContext(c)
	ok := h.recorder.RecordIncident(ctx, in)
	response.Outcome(c, ok, nil, collector.Items(), http.StatusBadGateway)
}

// Permit godoc
// @Summary Record permit
// @Tags Transactional
// @Accept json
// @Produce json
// @Param payload body service.PermitInput true "Permit"
// @Success 200 {object} response.Envelope
// @Router /permits [post]
func (h *TransactionalHandler) Permit(c *gin.Context) {
	var in service.PermitInput
	if !bindJSON(c, &in) {
		return
	}
	in.ActorID = actorOr(c, in.ActorID)
	ctx, collector := notifyingContext(c)
	ok := h.recorder.RecordPermit(ctx, in)
	response.Outcome(c, ok, nil, collector.Items(), http.StatusBadGateway)
}

// actorOr prefers the authenticated user over a client supplied actor id.
func actorOr(c *gin.Context, fallback string) string {
	if id := actorID(c); id != "" {
		return id
	}
	return fallback
}
