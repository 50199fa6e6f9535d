package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
)

// roleVariant holds the toggle behaviour that differs between teaching staff and auxiliaries.
// The editor resolves the variant once per toggle from the staff member's role.
type roleVariant interface {
	defaultRole() models.AssignmentRole
	toggleTutor(w *workingSet, grade, section string, checked bool) error
	toggleSubject(w *workingSet, grade, section, areaID string, checked bool) error
	toggleAllAreas(w *workingSet, grade, section string, areaIDs []string) error
	toggleAuxiliary(w *workingSet, grade, section string, checked bool) error
}

func variantFor(role models.StaffRole) roleVariant {
	if role == models.StaffRoleAuxiliary {
		return auxiliaryRole{}
	}
	return teachingRole{}
}

// workingSet is the editor's mutable copy of one staff member's assignments.
type workingSet struct {
	staffID string
	list    []models.Assignment
	catalog []models.GradeSection
}

func (w *workingSet) ensureMain(grade, section string, role models.AssignmentRole) int {
	var idx int
	w.list, idx = EnsureMainAssignment(w.list, w.staffID, grade, section, role, w.catalog)
	return idx
}

func (w *workingSet) remove(keep func(a models.Assignment) bool) {
	out := w.list[:0]
	for _, a := range w.list {
		if keep(a) {
			out = append(out, a)
		}
	}
	w.list = out
}

func (w *workingSet) subjectIndex(grade, section, areaID string) int {
	for i, a := range w.list {
		if a.InSlot(grade, section) && a.HasArea(areaID) {
			return i
		}
	}
	return -1
}

func (w *workingSet) addSubject(mainIdx int, areaID string) {
	main := w.list[mainIdx]
	area := areaID
	subject := models.Assignment{
		ID:             uuid.NewString(),
		StaffID:        w.staffID,
		GradeSectionID: cloneStringPtr(main.GradeSectionID),
		Grade:          main.Grade,
		Section:        main.Section,
		Role:           main.Role,
		AreaID:         &area,
		WeeklyHours:    cloneIntPtr(main.WeeklyHours),
	}
	w.list = append(w.list, subject)
}

// EnsureMainAssignment returns list with a main assignment for (grade, section) and that
// assignment's index. An existing main assignment is reused; otherwise one is appended with a
// new ID, defaultRole and the catalog reference for the pair.
func EnsureMainAssignment(list []models.Assignment, staffID, grade, section string, defaultRole models.AssignmentRole, catalog []models.GradeSection) ([]models.Assignment, int) {
	for i, a := range list {
		if a.IsMain() && a.InSlot(grade, section) {
			return list, i
		}
	}
	main := models.Assignment{
		ID:      uuid.NewString(),
		StaffID: staffID,
		Grade:   grade,
		Section: section,
		Role:    defaultRole,
	}
	for _, gs := range catalog {
		if gs.Grade == grade && gs.Section == section {
			id := gs.ID
			main.GradeSectionID = &id
			break
		}
	}
	list = append(list, main)
	return list, len(list) - 1
}

type teachingRole struct{}

func (teachingRole) defaultRole() models.AssignmentRole { return models.AssignmentRoleTeacher }

func (v teachingRole) toggleTutor(w *workingSet, grade, section string, checked bool) error {
	idx := w.ensureMain(grade, section, v.defaultRole())
	role := models.AssignmentRoleTeacher
	if checked {
		role = models.AssignmentRoleTutor
	}
	w.list[idx].Role = role
	for i := range w.list {
		if w.list[i].InSlot(grade, section) && !w.list[i].IsMain() {
			w.list[i].Role = role
		}
	}
	return nil
}

func (v teachingRole) toggleSubject(w *workingSet, grade, section, areaID string, checked bool) error {
	mainIdx := w.ensureMain(grade, section, v.defaultRole())
	existing := w.subjectIndex(grade, section, areaID)
	switch {
	case checked && existing < 0:
		w.addSubject(mainIdx, areaID)
	case !checked && existing >= 0:
		w.list = append(w.list[:existing], w.list[existing+1:]...)
	}
	return nil
}

func (v teachingRole) toggleAllAreas(w *workingSet, grade, section string, areaIDs []string) error {
	mainIdx := w.ensureMain(grade, section, v.defaultRole())
	if allAssigned(w, grade, section, areaIDs) {
		w.remove(func(a models.Assignment) bool { return !(a.InSlot(grade, section) && !a.IsMain()) })
		return nil
	}
	for _, id := range areaIDs {
		if w.subjectIndex(grade, section, id) < 0 {
			w.addSubject(mainIdx, id)
		}
	}
	return nil
}

func (teachingRole) toggleAuxiliary(*workingSet, string, string, bool) error {
	return appErrors.Clone(appErrors.ErrValidation, "la cobertura de auxiliar solo aplica al personal auxiliar")
}

type auxiliaryRole struct{}

func (auxiliaryRole) defaultRole() models.AssignmentRole { return models.AssignmentRoleAuxiliary }

func (auxiliaryRole) toggleTutor(*workingSet, string, string, bool) error {
	return appErrors.Clone(appErrors.ErrValidation, "el personal auxiliar no puede ser tutor")
}

// toggleSubject never adds a subject for an auxiliary. Checking one instead clears every
// non-auxiliary assignment of the slot.
func (v auxiliaryRole) toggleSubject(w *workingSet, grade, section, areaID string, checked bool) error {
	if checked {
		v.clearNonAuxiliary(w, grade, section)
	}
	w.ensureMain(grade, section, v.defaultRole())
	if existing := w.subjectIndex(grade, section, areaID); existing >= 0 {
		w.list = append(w.list[:existing], w.list[existing+1:]...)
	}
	return nil
}

func (v auxiliaryRole) toggleAllAreas(w *workingSet, grade, section string, _ []string) error {
	v.clearNonAuxiliary(w, grade, section)
	w.ensureMain(grade, section, v.defaultRole())
	return nil
}

func (v auxiliaryRole) toggleAuxiliary(w *workingSet, grade, section string, checked bool) error {
	if checked {
		w.ensureMain(grade, section, v.defaultRole())
		return nil
	}
	w.remove(func(a models.Assignment) bool { return !a.InSlot(grade, section) })
	return nil
}

func (auxiliaryRole) clearNonAuxiliary(w *workingSet, grade, section string) {
	w.remove(func(a models.Assignment) bool {
		return !(a.InSlot(grade, section) && (a.Role != models.AssignmentRoleAuxiliary || !a.IsMain()))
	})
}

func allAssigned(w *workingSet, grade, section string, areaIDs []string) bool {
	if len(areaIDs) == 0 {
		return false
	}
	for _, id := range areaIDs {
		if w.subjectIndex(grade, section, id) < 0 {
			return false
		}
	}
	return true
}

func slotLabel(grade, section string) string {
	return fmt.Sprintf("%s %s", grade, section)
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneIntPtr(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
