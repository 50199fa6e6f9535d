package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/notify"
)

type rosterSource interface {
	Staff() []models.Staff
	GradeSections() []models.GradeSection
}

type rosterWriter interface {
	SetAll(ctx context.Context, roster []models.Staff) error
}

// StaffSavedFunc is invoked after a successful save with the persisted staff member.
type StaffSavedFunc func(ctx context.Context, member models.Staff)

// SectionView is one section of the grouped editor view.
type SectionView struct {
	Section   string                `json:"section"`
	MainRole  models.AssignmentRole `json:"mainRole,omitempty"`
	Tutor     bool                  `json:"tutor"`
	Auxiliary bool                  `json:"auxiliary"`
	AreaIDs   []string              `json:"areaIds"`
}

// GradeView groups the sections a staff member covers inside one grade.
type GradeView struct {
	Grade    string        `json:"grade"`
	Sections []SectionView `json:"sections"`
}

// EditorView is what clients render for an open editor.
type EditorView struct {
	Staff       models.Staff        `json:"staff"`
	Assignments []models.Assignment `json:"assignments"`
	Grouped     []GradeView         `json:"grouped"`
	Dirty       bool                `json:"hasUnsavedChanges"`
	Saving      bool                `json:"saving"`
	Closed      bool                `json:"closed"`
}

// AssignmentEditor edits one staff member's assignment list on a private working copy and
// submits the whole roster when saved. The tutor uniqueness check reads the provider's last
// loaded roster, so two editors saving concurrently can still both claim the same section.
type AssignmentEditor struct {
	source   rosterSource
	writer   rosterWriter
	onSaved  StaffSavedFunc
	metrics  *MetricsService
	logger   *zap.Logger
	fallback notify.Notifier

	mu       sync.Mutex
	staff    models.Staff
	original []models.Assignment
	working  []models.Assignment
	saving   bool
	closed   bool
}

// NewAssignmentEditor opens an editor for member. The member's assignments become both the
// immutable original and the initial working copy.
func NewAssignmentEditor(member models.Staff, source rosterSource, writer rosterWriter, onSaved StaffSavedFunc, metrics *MetricsService, logger *zap.Logger) *AssignmentEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	original := models.CloneAssignments(member.Assignments)
	if original == nil {
		original = []models.Assignment{}
	}
	return &AssignmentEditor{
		source:   source,
		writer:   writer,
		onSaved:  onSaved,
		metrics:  metrics,
		logger:   logger.With(zap.String("staff_id", member.ID)),
		fallback: notify.NewLogNotifier(logger),
		staff:    member.Clone(),
		original: original,
		working:  models.CloneAssignments(original),
	}
}

// StaffID returns the edited staff member's ID.
func (e *AssignmentEditor) StaffID() string {
	return e.staff.ID
}

// ToggleTutor makes the staff member tutor of (grade, section) or reverts it to plain teacher.
// Claiming a section another staff member already tutors is rejected.
func (e *AssignmentEditor) ToggleTutor(ctx context.Context, grade, section string, checked bool) bool {
	return e.apply(ctx, "No se pudo asignar la tutoría", grade, section, func(v roleVariant, w *workingSet) error {
		if checked {
			if err := e.checkTutorFree(grade, section); err != nil {
				return err
			}
		}
		return v.toggleTutor(w, grade, section, checked)
	})
}

// ToggleSubject adds or removes the subject assignment for areaID in (grade, section).
func (e *AssignmentEditor) ToggleSubject(ctx context.Context, grade, section, areaID string, checked bool) bool {
	return e.apply(ctx, "No se pudo actualizar el área", grade, section, func(v roleVariant, w *workingSet) error {
		if areaID == "" {
			return appErrors.Clone(appErrors.ErrValidation, "el área es obligatoria")
		}
		return v.toggleSubject(w, grade, section, areaID, checked)
	})
}

// ToggleAllAreas assigns every area in areaIDs, or removes all subject assignments of the slot
// when every one of them is already assigned.
func (e *AssignmentEditor) ToggleAllAreas(ctx context.Context, grade, section string, areaIDs []string) bool {
	return e.apply(ctx, "No se pudieron actualizar las áreas", grade, section, func(v roleVariant, w *workingSet) error {
		return v.toggleAllAreas(w, grade, section, areaIDs)
	})
}

// ToggleAuxiliarySection adds or removes an auxiliary's coverage of (grade, section).
func (e *AssignmentEditor) ToggleAuxiliarySection(ctx context.Context, grade, section string, checked bool) bool {
	return e.apply(ctx, "No se pudo actualizar la sección", grade, section, func(v roleVariant, w *workingSet) error {
		return v.toggleAuxiliary(w, grade, section, checked)
	})
}

// apply runs one toggle against a scratch copy and commits it only when it succeeds.
func (e *AssignmentEditor) apply(ctx context.Context, failTitle, grade, section string, toggle func(roleVariant, *workingSet) error) bool {
	e.mu.Lock()
	err := e.usable()
	var catalog []models.GradeSection
	if err == nil {
		catalog = e.source.GradeSections()
		err = sectionInCatalog(catalog, grade, section)
	}
	if err == nil {
		w := &workingSet{staffID: e.staff.ID, list: models.CloneAssignments(e.working), catalog: catalog}
		if err = toggle(variantFor(e.staff.Role), w); err == nil {
			e.working = w.list
		}
	}
	e.mu.Unlock()

	if err != nil {
		appErr := normalizeError(err)
		e.logger.Debug("assignment toggle rejected", zap.String("grade", grade), zap.String("section", section), zap.String("code", appErr.Code))
		notify.From(ctx, e.fallback).Notify(notify.Failure(failTitle, appErr.Message).WithCode(appErr.Code))
		return false
	}
	return true
}

func (e *AssignmentEditor) usable() error {
	switch {
	case e.closed:
		return appErrors.Clone(appErrors.ErrEditorClosed, "el editor ya fue cerrado")
	case e.saving:
		return appErrors.Clone(appErrors.ErrSaveInProgress, "hay un guardado en curso")
	}
	return nil
}

// checkTutorFree scans the other staff members of the loaded roster for a tutor of the slot.
func (e *AssignmentEditor) checkTutorFree(grade, section string) error {
	for _, other := range e.source.Staff() {
		if other.ID == e.staff.ID {
			continue
		}
		for _, a := range other.Assignments {
			if a.InSlot(grade, section) && a.Role == models.AssignmentRoleTutor {
				return appErrors.Clone(appErrors.ErrTutorTaken,
					fmt.Sprintf("%s ya es tutor(a) de %s.", other.DisplayName(), slotLabel(grade, section)))
			}
		}
	}
	return nil
}

// Assignments returns a copy of the working list.
func (e *AssignmentEditor) Assignments() []models.Assignment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.CloneAssignments(e.working)
}

// HasUnsavedChanges compares the serialized working copy with the original.
func (e *AssignmentEditor) HasUnsavedChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirtyLocked()
}

func (e *AssignmentEditor) dirtyLocked() bool {
	working, err := json.Marshal(e.working)
	if err != nil {
		return true
	}
	original, err := json.Marshal(e.original)
	if err != nil {
		return true
	}
	return string(working) != string(original)
}

// Grouped returns the working copy as grade → section with the main role, tutor flag,
// auxiliary flag and assigned areas.
func (e *AssignmentEditor) Grouped() []GradeView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return groupAssignments(e.working)
}

// View returns everything a client needs to render the editor.
func (e *AssignmentEditor) View() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EditorView{
		Staff:       e.staff.Clone(),
		Assignments: models.CloneAssignments(e.working),
		Grouped:     groupAssignments(e.working),
		Dirty:       e.dirtyLocked(),
		Saving:      e.saving,
		Closed:      e.closed,
	}
}

// Closed reports whether a save succeeded and the editor is finished.
func (e *AssignmentEditor) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Save submits the full roster with this staff member's working copy in place. A clean editor
// closes without a network call. On failure the editor stays open with the working copy intact.
func (e *AssignmentEditor) Save(ctx context.Context) bool {
	notifier := notify.From(ctx, e.fallback)

	e.mu.Lock()
	if err := e.usable(); err != nil {
		e.mu.Unlock()
		appErr := normalizeError(err)
		notifier.Notify(notify.Failure("No se pudo guardar", appErr.Message).WithCode(appErr.Code))
		return false
	}
	if !e.dirtyLocked() {
		e.closed = true
		e.mu.Unlock()
		notifier.Notify(notify.Success("Sin cambios", "No había cambios por guardar."))
		return true
	}
	e.saving = true
	target := e.staff.Clone()
	target.Assignments = models.CloneAssignments(e.working)
	e.mu.Unlock()

	roster, err := buildRoster(e.source.Staff(), target)
	if err == nil {
		err = e.writer.SetAll(ctx, roster)
	}
	e.metrics.RecordEditorSave(err == nil)

	e.mu.Lock()
	e.saving = false
	if err != nil {
		e.mu.Unlock()
		appErr := normalizeError(err)
		e.logger.Warn("save assignments failed", zap.Error(err))
		notifier.Notify(notify.Failure("No se pudieron guardar las asignaciones", appErr.Message).WithCode(appErr.Code))
		return false
	}
	saved := sanitize(target)
	e.staff = saved.Clone()
	e.original = models.CloneAssignments(saved.Assignments)
	e.working = models.CloneAssignments(saved.Assignments)
	e.closed = true
	e.mu.Unlock()

	notifier.Notify(notify.Success("Asignaciones guardadas", fmt.Sprintf("Se actualizaron las asignaciones de %s.", saved.DisplayName())))
	if e.onSaved != nil {
		e.onSaved(ctx, saved)
	}
	return true
}

// buildRoster clones every other staff member, puts target in its place and sanitizes the
// result. A target missing from current was deleted while the editor was open.
func buildRoster(current []models.Staff, target models.Staff) ([]models.Staff, error) {
	roster := make([]models.Staff, 0, len(current))
	replaced := false
	for _, s := range current {
		if s.ID == target.ID {
			roster = append(roster, sanitize(target))
			replaced = true
			continue
		}
		roster = append(roster, sanitize(s))
	}
	if !replaced {
		return nil, appErrors.Clone(appErrors.ErrNotFound,
			fmt.Sprintf("%s ya no forma parte del personal", target.DisplayName()))
	}
	return roster, nil
}

// sanitize strips subject assignments from auxiliaries.
func sanitize(member models.Staff) models.Staff {
	out := member.Clone()
	if out.Role != models.StaffRoleAuxiliary {
		return out
	}
	kept := make([]models.Assignment, 0, len(out.Assignments))
	for _, a := range out.Assignments {
		if a.IsMain() {
			kept = append(kept, a)
		}
	}
	out.Assignments = kept
	return out
}

func groupAssignments(list []models.Assignment) []GradeView {
	type slot struct{ grade, section string }
	views := map[slot]*SectionView{}
	for _, a := range list {
		key := slot{a.Grade, a.Section}
		view, ok := views[key]
		if !ok {
			view = &SectionView{Section: a.Section, AreaIDs: []string{}}
			views[key] = view
		}
		if a.IsMain() {
			view.MainRole = a.Role
			view.Tutor = a.Role == models.AssignmentRoleTutor
			view.Auxiliary = a.Role == models.AssignmentRoleAuxiliary
			continue
		}
		view.AreaIDs = append(view.AreaIDs, *a.AreaID)
	}

	byGrade := map[string][]SectionView{}
	for key, view := range views {
		sort.Strings(view.AreaIDs)
		byGrade[key.grade] = append(byGrade[key.grade], *view)
	}
	grades := make([]string, 0, len(byGrade))
	for g := range byGrade {
		grades = append(grades, g)
	}
	sort.Strings(grades)

	out := make([]GradeView, 0, len(grades))
	for _, g := range grades {
		sections := byGrade[g]
		sort.Slice(sections, func(i, j int) bool { return sections[i].Section < sections[j].Section })
		out = append(out, GradeView{Grade: g, Sections: sections})
	}
	return out
}
