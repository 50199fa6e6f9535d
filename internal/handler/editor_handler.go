package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YasmaniJob/beeclass/internal/service"
	"github.com/YasmaniJob/beeclass/pkg/response"
)

type editorSessions interface {
	Open(staffID string) (string, *service.AssignmentEditor, error)
	Get(id string) (*service.AssignmentEditor, error)
	Save(ctx context.Context, id string) (*service.AssignmentEditor, bool, error)
	Close(id string) bool
}

// SlotRequest toggles the tutor flag or auxiliary coverage of a section.
type SlotRequest struct {
	Grade   string `json:"grade" binding:"required"`
	Section string `json:"section" binding:"required"`
	Checked bool   `json:"checked"`
}

// SubjectRequest toggles one curricular area in a section.
type SubjectRequest struct {
	Grade   string `json:"grade" binding:"required"`
	Section string `json:"section" binding:"required"`
	AreaID  string `json:"areaId" binding:"required"`
	Checked bool   `json:"checked"`
}

// AreasRequest toggles every listed area of a section at once.
type AreasRequest struct {
	Grade   string   `json:"grade" binding:"required"`
	Section string   `json:"section" binding:"required"`
	AreaIDs []string `json:"areaIds" binding:"required,min=1"`
}

// EditorSessionView is returned by every editor endpoint.
type EditorSessionView struct {
	SessionID string             `json:"sessionId"`
	Editor    service.EditorView `json:"editor"`
}

// EditorHandler drives assignment editor sessions.
type EditorHandler struct {
	sessions editorSessions
}

// NewEditorHandler constructs EditorHandler.
func NewEditorHandler(sessions editorSessions) *EditorHandler {
	return &EditorHandler{sessions: sessions}
}

// Open godoc
// @Summary Open an assignment editor for a staff member
// @Tags Editor
// @Produce json
// @Param id path string true "Staff ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /staff/{id}/editor [post]
func (h *EditorHandler) Open(c *gin.Context) {
	id, editor, err := h.sessions.Open(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, EditorSessionView{SessionID: id, Editor: editor.View()})
}

// Get godoc
// @Summary Current editor state
// @Tags Editor
// @Produce json
// @Param sid path string true "Editor session ID"
// @Success 200 {object} response.Envelope
// @Router /editor/{sid} [get]
func (h *EditorHandler) Get(c *gin.Context) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, EditorSessionView{SessionID: c.Param("sid"), Editor: editor.View()})
}

// Tutor godoc
// @Summary Toggle tutor of a section
// @Tags Editor
// @Accept json
// @Produce json
// @Param sid path string true "Editor session ID"
// @Param payload body SlotRequest true "Section and flag"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /editor/{sid}/tutor [post]
func (h *EditorHandler) Tutor(c *gin.Context) {
	var req SlotRequest
	h.toggle(c, &req, func(ctx context.Context, e *service.AssignmentEditor) bool {
		return e.ToggleTutor(ctx, req.Grade, req.Section, req.Checked)
	})
}

// Subject godoc
// @Summary Toggle one curricular area of a section
// @Tags Editor
// @Accept json
// @Produce json
// @Param sid path string true "Editor session ID"
// @Param payload body SubjectRequest true "Section, area and flag"
// @Success 200 {object} response.Envelope
// @Router /editor/{sid}/subject [post]
func (h *EditorHandler) Subject(c *gin.Context) {
	var req SubjectRequest
	h.toggle(c, &req, func(ctx context.Context, e *service.AssignmentEditor) bool {
		return e.ToggleSubject(ctx, req.Grade, req.Section, req.AreaID, req.Checked)
	})
}

// Areas godoc
// @Summary Toggle every listed area of a section
// @Tags Editor
// @Accept json
// @Produce json
// @Param sid path string true "Editor session ID"
// @Param payload body AreasRequest true "Section and areas"
// @Success 200 {object} response.Envelope
// @Router /editor/{sid}/areas [post]
func (h *EditorHandler) Areas(c *gin.Context) {
	var req AreasRequest
	h.toggle(c, &req, func(ctx context.Context, e *service.AssignmentEditor) bool {
		return e.ToggleAllAreas(ctx, req.Grade, req.Section, req.AreaIDs)
	})
}

// Auxiliary godoc
// @Summary Toggle auxiliary coverage of a section
// @Tags Editor
// @Accept json
// @Produce json
// @Param sid path string true "Editor session ID"
// @Param payload body SlotRequest true "Section and flag"
// @Success 200 {object} response.Envelope
// @Router /editor/{sid}/auxiliary [post]
func (h *EditorHandler) Auxiliary(c *gin.Context) {
	var req SlotRequest
	h.toggle(c, &req, func(ctx context.Context, e *service.AssignmentEditor) bool {
		return e.ToggleAuxiliarySection(ctx, req.Grade, req.Section, req.Checked)
	})
}

// Save godoc
// @Summary Persist the edited assignments
// @Tags Editor
// @Produce json
// @Param sid path string true "Editor session ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /editor/{sid}/save [post]
func (h *EditorHandler) Save(c *gin.Context) {
	ctx, collector := notifyingContext(c)
	editor, ok, err := h.sessions.Save(ctx, c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Outcome(c, ok, EditorSessionView{SessionID: c.Param("sid"), Editor: editor.View()}, collector.Items(), http.StatusInternalServerError)
}

// Close godoc
// @Summary Discard an editor session
// @Tags Editor
// @Param sid path string true "Editor session ID"
// @Success 204
// @Router /editor/{sid} [delete]
func (h *EditorHandler) Close(c *gin.Context) {
	h.sessions.Close(c.Param("sid"))
	response.NoContent(c)
}

func (h *EditorHandler) editor(c *gin.Context) (*service.AssignmentEditor, bool) {
	editor, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return editor, true
}

func (h *EditorHandler) toggle(c *gin.Context, req interface{}, run func(context.Context, *service.AssignmentEditor) bool) {
	editor, ok := h.editor(c)
	if !ok {
		return
	}
	if !bindJSON(c, req) {
		return
	}
	ctx, collector := notifyingContext(c)
	done := run(ctx, editor)
	response.Outcome(c, done, EditorSessionView{SessionID: c.Param("sid"), Editor: editor.View()}, collector.Items(), http.StatusBadRequest)
}
