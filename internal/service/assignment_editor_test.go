package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/notify"
)

func loadedFixture(t *testing.T) *providerFixture {
	t.Helper()
	f := newProviderFixture()
	require.True(t, f.provider.Load(context.Background()))
	return f
}

func editorFor(t *testing.T, f *providerFixture, staffID string) *AssignmentEditor {
	t.Helper()
	member, ok := f.provider.StaffByID(staffID)
	require.True(t, ok)
	return NewAssignmentEditor(member, f.provider, f.staff, f.provider.StaffSaved, NewMetricsService(), nil)
}

func lastNote(t *testing.T, collector *notify.Collector) notify.Notification {
	t.Helper()
	items := collector.Items()
	require.NotEmpty(t, items)
	return items[len(items)-1]
}

func mainCount(list []models.Assignment, grade, section string) int {
	n := 0
	for _, a := range list {
		if a.IsMain() && a.InSlot(grade, section) {
			n++
		}
	}
	return n
}

func TestAssignmentEditorSubjectCreatesMainFromCatalog(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t2")
	ctx, collector := withCollector()

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	assert.Empty(t, collector.Items())

	list := editor.Assignments()
	require.Len(t, list, 2)
	main, subject := list[0], list[1]
	assert.True(t, main.IsMain())
	assert.Equal(t, models.AssignmentRoleTeacher, main.Role)
	require.NotNil(t, main.GradeSectionID)
	assert.Equal(t, "gs-3a", *main.GradeSectionID)
	assert.Equal(t, "t2", main.StaffID)
	assert.True(t, subject.HasArea("math"))
	assert.Equal(t, main.Role, subject.Role)
	require.NotNil(t, subject.GradeSectionID)
	assert.Equal(t, "gs-3a", *subject.GradeSectionID)
	assert.NotEqual(t, main.ID, subject.ID)
	assert.True(t, editor.HasUnsavedChanges())

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", false))
	assert.Len(t, editor.Assignments(), 1)
}

func TestAssignmentEditorKeepsSingleMainPerSection(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t1")
	ctx := context.Background()

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "com", true))
	require.True(t, editor.ToggleTutor(ctx, "3er Grado", "A", true))
	require.True(t, editor.ToggleAllAreas(ctx, "3er Grado", "A", []string{"math", "com"}))
	require.True(t, editor.ToggleTutor(ctx, "3er Grado", "A", false))
	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "B", "math", true))

	list := editor.Assignments()
	assert.Equal(t, 1, mainCount(list, "3er Grado", "A"))
	assert.Equal(t, 1, mainCount(list, "3er Grado", "B"))
	for _, a := range list {
		assert.Equal(t, models.AssignmentRoleTeacher, a.Role)
	}
}

func TestAssignmentEditorTutorPropagatesToSubjects(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t1")
	ctx := context.Background()

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	require.True(t, editor.ToggleTutor(ctx, "3er Grado", "A", true))
	for _, a := range editor.Assignments() {
		assert.Equal(t, models.AssignmentRoleTutor, a.Role)
	}

	// Subjects added after the tutor toggle inherit the main role.
	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "com", true))
	list := editor.Assignments()
	require.Len(t, list, 3)
	assert.Equal(t, models.AssignmentRoleTutor, list[2].Role)
}

func TestAssignmentEditorRejectsSecondTutor(t *testing.T) {
	f := loadedFixture(t)
	first := editorFor(t, f, "t1")
	ctx, collector := withCollector()

	require.True(t, first.ToggleTutor(ctx, "3er Grado", "A", true))
	require.True(t, first.Save(ctx))
	assert.True(t, first.Closed())
	assert.Equal(t, notify.VariantDefault, lastNote(t, collector).Variant)

	second := editorFor(t, f, "t2")
	ctx, collector = withCollector()
	require.True(t, second.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	before := second.Assignments()

	assert.False(t, second.ToggleTutor(ctx, "3er Grado", "A", true))
	note := lastNote(t, collector)
	assert.Equal(t, notify.VariantDestructive, note.Variant)
	assert.Equal(t, appErrors.ErrTutorTaken.Code, note.Code)
	assert.Contains(t, note.Description, "Rosa Huamán")
	assert.Contains(t, note.Description, "3er Grado A")
	assert.Equal(t, before, second.Assignments())

	// Another section is still free.
	assert.True(t, second.ToggleTutor(ctx, "3er Grado", "B", true))
}

func TestAssignmentEditorUntoggleTutorDoesNotCheckConflicts(t *testing.T) {
	f := loadedFixture(t)
	first := editorFor(t, f, "t1")
	ctx := context.Background()
	require.True(t, first.ToggleTutor(ctx, "3er Grado", "A", true))
	require.True(t, first.Save(ctx))

	second := editorFor(t, f, "t2")
	assert.True(t, second.ToggleTutor(ctx, "3er Grado", "A", false))
	list := second.Assignments()
	require.Len(t, list, 1)
	assert.Equal(t, models.AssignmentRoleTeacher, list[0].Role)
}

func TestAssignmentEditorToggleAllAreasRoundTrip(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t1")
	ctx := context.Background()
	areas := []string{"math", "com"}

	require.True(t, editor.ToggleAllAreas(ctx, "3er Grado", "A", areas))
	full := editor.Assignments()
	require.Len(t, full, 3)

	require.True(t, editor.ToggleAllAreas(ctx, "3er Grado", "A", areas))
	empty := editor.Assignments()
	require.Len(t, empty, 1)
	assert.True(t, empty[0].IsMain())

	require.True(t, editor.ToggleAllAreas(ctx, "3er Grado", "A", areas))
	again := editor.Assignments()
	require.Len(t, again, 3)
	assert.Equal(t, full[0], again[0])
}

func TestAssignmentEditorToggleAllAreasFillsGaps(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t1")
	ctx := context.Background()

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "com", true))
	require.True(t, editor.ToggleAllAreas(ctx, "3er Grado", "A", []string{"math", "com"}))

	grouped := editor.Grouped()
	require.Len(t, grouped, 1)
	require.Len(t, grouped[0].Sections, 1)
	assert.Equal(t, []string{"com", "math"}, grouped[0].Sections[0].AreaIDs)
}

func TestAssignmentEditorRejectsUnknownSection(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t1")
	ctx, collector := withCollector()

	assert.False(t, editor.ToggleSubject(ctx, "5to Grado", "Z", "math", true))
	assert.Equal(t, appErrors.ErrUnknownSection.Code, lastNote(t, collector).Code)
	assert.Empty(t, editor.Assignments())
	assert.False(t, editor.HasUnsavedChanges())
}

func TestAssignmentEditorAuxiliaryNeverHoldsSubjects(t *testing.T) {
	f := loadedFixture(t)
	area := "math"
	legacy := "gs-3a"
	aux := models.Staff{
		ID: "a1", Names: "Carmen", Surnames: "Flores", Role: models.StaffRoleAuxiliary,
		Assignments: []models.Assignment{
			{ID: "x1", StaffID: "a1", GradeSectionID: &legacy, Grade: "3er Grado", Section: "A", Role: models.AssignmentRoleTeacher},
			{ID: "x2", StaffID: "a1", GradeSectionID: &legacy, Grade: "3er Grado", Section: "A", Role: models.AssignmentRoleTeacher, AreaID: &area},
		},
	}
	editor := NewAssignmentEditor(aux, f.provider, f.staff, f.provider.StaffSaved, nil, nil)
	ctx, collector := withCollector()

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	list := editor.Assignments()
	require.Len(t, list, 1)
	assert.True(t, list[0].IsMain())
	assert.Equal(t, models.AssignmentRoleAuxiliary, list[0].Role)

	require.True(t, editor.ToggleAllAreas(ctx, "3er Grado", "B", []string{"math", "com"}))
	for _, a := range editor.Assignments() {
		assert.True(t, a.IsMain())
	}

	assert.False(t, editor.ToggleTutor(ctx, "3er Grado", "A", true))
	assert.Equal(t, appErrors.ErrValidation.Code, lastNote(t, collector).Code)

	require.True(t, editor.ToggleAuxiliarySection(ctx, "3er Grado", "B", false))
	require.True(t, editor.Save(ctx))

	require.Len(t, f.staff.setAllCalls, 1)
	var saved *models.Staff
	for i, s := range f.staff.setAllCalls[0] {
		if s.ID == "a1" {
			saved = &f.staff.setAllCalls[0][i]
		}
	}
	require.NotNil(t, saved)
	require.Len(t, saved.Assignments, 1)
	assert.Equal(t, "3er Grado", saved.Assignments[0].Grade)
	assert.Equal(t, "A", saved.Assignments[0].Section)
	assert.Nil(t, saved.Assignments[0].AreaID)
}

func TestAssignmentEditorTeacherCannotToggleAuxiliaryCoverage(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t1")
	ctx, collector := withCollector()

	assert.False(t, editor.ToggleAuxiliarySection(ctx, "3er Grado", "A", true))
	assert.Equal(t, appErrors.ErrValidation.Code, lastNote(t, collector).Code)
}

func TestAssignmentEditorSaveSubmitsWholeRoster(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t2")
	ctx, collector := withCollector()

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	require.True(t, editor.Save(ctx))

	require.Len(t, f.staff.setAllCalls, 1)
	roster := f.staff.setAllCalls[0]
	require.Len(t, roster, 2)
	assert.Equal(t, "t1", roster[0].ID)
	assert.Empty(t, roster[0].Assignments)
	assert.Equal(t, "t2", roster[1].ID)
	assert.Len(t, roster[1].Assignments, 2)

	items := collector.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Asignaciones guardadas", items[0].Title)
	assert.False(t, editor.HasUnsavedChanges())

	reloaded, ok := f.provider.StaffByID("t2")
	require.True(t, ok)
	assert.Len(t, reloaded.Assignments, 2)
	assert.Contains(t, f.cache.deleted, staffCachePattern)

	assert.False(t, editor.ToggleSubject(ctx, "3er Grado", "A", "com", true))
	assert.Equal(t, appErrors.ErrEditorClosed.Code, lastNote(t, collector).Code)
}

func TestAssignmentEditorCleanSaveSkipsWrite(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t1")
	ctx := context.Background()

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", false))
	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	assert.True(t, editor.HasUnsavedChanges())

	clean := editorFor(t, f, "t2")
	assert.False(t, clean.HasUnsavedChanges())
	require.True(t, clean.Save(ctx))
	assert.True(t, clean.Closed())
	assert.Empty(t, f.staff.setAllCalls)
}

func TestAssignmentEditorSaveFailureKeepsEditorOpen(t *testing.T) {
	f := loadedFixture(t)
	f.staff.setAllErr = errors.New("connection reset")
	editor := editorFor(t, f, "t1")
	ctx, collector := withCollector()

	require.True(t, editor.ToggleSubject(ctx, "3er Grado", "A", "math", true))
	working := editor.Assignments()

	assert.False(t, editor.Save(ctx))
	assert.False(t, editor.Closed())
	assert.True(t, editor.HasUnsavedChanges())
	assert.Equal(t, working, editor.Assignments())
	note := lastNote(t, collector)
	assert.Equal(t, notify.VariantDestructive, note.Variant)
	assert.Equal(t, appErrors.ErrInternal.Code, note.Code)

	reloaded, _ := f.provider.StaffByID("t1")
	assert.Empty(t, reloaded.Assignments)

	f.staff.setAllErr = nil
	assert.True(t, editor.Save(ctx))
}

func TestAssignmentEditorSaveAfterStaffDeleted(t *testing.T) {
	f := loadedFixture(t)
	editor := editorFor(t, f, "t2")
	require.True(t, f.provider.DeleteStaff(context.Background(), "t2"))
	ctx, collector := withCollector()

	require.True(t, editor.ToggleTutor(ctx, "3er Grado", "A", true))
	assert.False(t, editor.Save(ctx))

	assert.False(t, editor.Closed())
	assert.False(t, editor.View().Saving)
	assert.True(t, editor.HasUnsavedChanges())
	assert.Empty(t, f.staff.setAllCalls)
	note := lastNote(t, collector)
	assert.Equal(t, notify.VariantDestructive, note.Variant)
	assert.Equal(t, appErrors.ErrNotFound.Code, note.Code)
	_, ok := f.provider.StaffByID("t2")
	assert.False(t, ok)
}

func TestBuildRosterReplacesTarget(t *testing.T) {
	current := []models.Staff{
		{ID: "t1", Names: "Rosa", Role: models.StaffRoleTeacher},
		{ID: "t2", Names: "Luis", Role: models.StaffRoleTeacher},
	}
	math := "math"
	target := models.Staff{ID: "t2", Names: "Luis", Role: models.StaffRoleAuxiliary, Assignments: []models.Assignment{
		{ID: "a1", Grade: "3er Grado", Section: "A", Role: models.AssignmentRoleAuxiliary},
		{ID: "a2", Grade: "3er Grado", Section: "A", AreaID: &math, Role: models.AssignmentRoleTeacher},
	}}

	roster, err := buildRoster(current, target)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "t2", roster[1].ID)
	assert.Len(t, roster[1].Assignments, 1)

	_, err = buildRoster(current[:1], target)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAssignmentEditorRejectsChangesWhileSaving(t *testing.T) {
	f := loadedFixture(t)
	gate := make(chan struct{})
	f.staff.setAllGate = gate
	editor := editorFor(t, f, "t1")
	require.True(t, editor.ToggleSubject(context.Background(), "3er Grado", "A", "math", true))

	done := make(chan bool, 1)
	go func() { done <- editor.Save(context.Background()) }()
	require.Eventually(t, func() bool { return editor.View().Saving }, time.Second, 5*time.Millisecond)

	ctx, collector := withCollector()
	assert.False(t, editor.ToggleSubject(ctx, "3er Grado", "A", "com", true))
	assert.Equal(t, appErrors.ErrSaveInProgress.Code, lastNote(t, collector).Code)
	assert.False(t, editor.Save(ctx))
	assert.Equal(t, appErrors.ErrSaveInProgress.Code, lastNote(t, collector).Code)

	close(gate)
	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("save did not finish")
	}
	assert.Len(t, f.staff.setAllCalls, 1)
}

func TestGroupAssignmentsSortsGradesAndSections(t *testing.T) {
	math := "math"
	list := []models.Assignment{
		{Grade: "4to Grado", Section: "B", Role: models.AssignmentRoleTeacher},
		{Grade: "3er Grado", Section: "B", Role: models.AssignmentRoleTutor},
		{Grade: "3er Grado", Section: "B", Role: models.AssignmentRoleTutor, AreaID: &math},
		{Grade: "3er Grado", Section: "A", Role: models.AssignmentRoleAuxiliary},
	}

	grouped := groupAssignments(list)
	require.Len(t, grouped, 2)
	assert.Equal(t, "3er Grado", grouped[0].Grade)
	require.Len(t, grouped[0].Sections, 2)
	assert.Equal(t, "A", grouped[0].Sections[0].Section)
	assert.True(t, grouped[0].Sections[0].Auxiliary)
	assert.True(t, grouped[0].Sections[1].Tutor)
	assert.Equal(t, []string{"math"}, grouped[0].Sections[1].AreaIDs)
	assert.Equal(t, "4to Grado", grouped[1].Grade)
	assert.Equal(t, models.AssignmentRoleTeacher, grouped[1].Sections[0].MainRole)
}

func TestEnsureMainAssignmentReusesExisting(t *testing.T) {
	catalog := []models.GradeSection{{ID: "gs-3a", Grade: "3er Grado", Section: "A"}}

	list, idx := EnsureMainAssignment(nil, "t1", "3er Grado", "A", models.AssignmentRoleTeacher, catalog)
	require.Len(t, list, 1)
	assert.Equal(t, 0, idx)
	require.NotNil(t, list[0].GradeSectionID)
	assert.Equal(t, "gs-3a", *list[0].GradeSectionID)

	again, idx := EnsureMainAssignment(list, "t1", "3er Grado", "A", models.AssignmentRoleTutor, catalog)
	assert.Len(t, again, 1)
	assert.Equal(t, 0, idx)
	assert.Equal(t, models.AssignmentRoleTeacher, again[0].Role)

	_, idx = EnsureMainAssignment(again, "t1", "3er Grado", "B", models.AssignmentRoleTeacher, catalog)
	assert.Equal(t, 1, idx)
}
