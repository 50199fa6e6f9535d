package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/notify"
)

func TestDataProviderAddArea(t *testing.T) {
	f := loadedFixture(t)

	ctx, collector := withCollector()
	area, ok := f.provider.AddArea(ctx, AreaRequest{
		Name:  " Arte y Cultura ",
		Level: "primaria",
		Competencies: []CompetencyRequest{
			{Name: "Aprecia manifestaciones", Capacities: []string{"Percibe", "Contextualiza"}},
		},
	})
	require.True(t, ok)
	assert.Equal(t, "Arte y Cultura", area.Name)
	assert.NotEmpty(t, area.ID)
	require.Len(t, area.Competencies, 1)
	assert.Len(t, area.Competencies[0].Capacities, 2)
	assert.Len(t, f.provider.Areas(), 3)
	require.Len(t, collector.Items(), 1)
	assert.Equal(t, notify.VariantDefault, collector.Items()[0].Variant)

	ctx, collector = withCollector()
	_, ok = f.provider.AddArea(ctx, AreaRequest{Name: "Inglés", Level: "Superior"})
	assert.False(t, ok)
	assert.Equal(t, appErrors.ErrValidation.Code, collector.Items()[0].Code)

	ctx, collector = withCollector()
	_, ok = f.provider.AddArea(ctx, AreaRequest{Name: "Inglés", Level: "Primaria", Competencies: []CompetencyRequest{{Name: ""}}})
	assert.False(t, ok)
	assert.Equal(t, appErrors.ErrValidation.Code, collector.Items()[0].Code)
	assert.Len(t, f.provider.Areas(), 3)
}

func TestDataProviderGradeSectionCatalog(t *testing.T) {
	f := loadedFixture(t)

	ctx, collector := withCollector()
	_, ok := f.provider.AddGradeSection(ctx, GradeSectionRequest{Grade: "3er Grado", Section: "A", Level: "Primaria"})
	assert.False(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, collector.Items()[0].Code)

	gs, ok := f.provider.AddGradeSection(context.Background(), GradeSectionRequest{Grade: "4to Grado", Section: "A", Level: "Primaria"})
	require.True(t, ok)
	assert.NotEmpty(t, gs.ID)
	assert.Len(t, f.provider.GradeSections(), 3)

	ctx, collector = withCollector()
	assert.False(t, f.provider.DeleteGradeSection(ctx, "gs-3a"))
	assert.Equal(t, appErrors.ErrConflict.Code, collector.Items()[0].Code)
	assert.Len(t, f.catalog.sections, 3)

	require.True(t, f.provider.DeleteGradeSection(context.Background(), "gs-3b"))
	assert.Len(t, f.provider.GradeSections(), 2)

	ctx, collector = withCollector()
	assert.False(t, f.provider.DeleteGradeSection(ctx, "gs-9z"))
	assert.Equal(t, appErrors.ErrNotFound.Code, collector.Items()[0].Code)
}

func TestDataProviderAddSession(t *testing.T) {
	f := loadedFixture(t)
	valid := SessionInput{Title: "Fracciones", AreaID: "math", Grade: "3er Grado", Section: "A", Date: "2024-04-15", StaffID: "t1"}

	bad := valid
	bad.Date = "15/04/2024"
	ctx, collector := withCollector()
	_, ok := f.provider.AddSession(ctx, bad)
	assert.False(t, ok)
	assert.Equal(t, appErrors.ErrValidation.Code, collector.Items()[0].Code)

	bad = valid
	bad.AreaID = "art"
	ctx, collector = withCollector()
	_, ok = f.provider.AddSession(ctx, bad)
	assert.False(t, ok)
	assert.Equal(t, appErrors.ErrNotFound.Code, collector.Items()[0].Code)

	bad = valid
	bad.Section = "Z"
	ctx, collector = withCollector()
	_, ok = f.provider.AddSession(ctx, bad)
	assert.False(t, ok)
	assert.Equal(t, appErrors.ErrUnknownSection.Code, collector.Items()[0].Code)
	assert.Empty(t, f.sessions.sessions)

	session, ok := f.provider.AddSession(context.Background(), valid)
	require.True(t, ok)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "2024-04-15", session.Date.Format(isoDate))
	require.Len(t, f.provider.State().Sessions, 1)
	assert.Equal(t, "Fracciones", f.provider.State().Sessions[0].Title)
}

func TestDataProviderRecordGrade(t *testing.T) {
	f := loadedFixture(t)
	in := GradeInput{StudentID: "s1", CompetencyID: "c1", Grade: "3er Grado", Section: "A", Period: "I Bimestre", Value: " ad ", ActorID: "t1"}

	ctx, collector := withCollector()
	require.True(t, f.provider.RecordGrade(ctx, in))
	require.Len(t, f.grades.records, 2)
	assert.Equal(t, models.GradeAD, f.grades.records[1].Value)
	assert.Len(t, f.provider.State().Grades, 2)
	assert.Equal(t, notify.VariantDefault, collector.Items()[0].Variant)

	cases := map[string]struct {
		mutate func(*GradeInput)
		code   string
	}{
		"unknown value":   {func(g *GradeInput) { g.Value = "E" }, appErrors.ErrValidation.Code},
		"unknown student": {func(g *GradeInput) { g.StudentID = "s9" }, appErrors.ErrNotFound.Code},
		"other section":   {func(g *GradeInput) { g.Section = "B" }, appErrors.ErrValidation.Code},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			bad := in
			tc.mutate(&bad)
			ctx, collector := withCollector()
			assert.False(t, f.provider.RecordGrade(ctx, bad))
			require.Len(t, collector.Items(), 1)
			assert.Equal(t, tc.code, collector.Items()[0].Code)
		})
	}
	assert.Len(t, f.grades.records, 2)

	byPeriod := f.provider.GradeRecords(models.GradeRecordFilter{Period: "I Bimestre", StudentID: "s1"})
	assert.Len(t, byPeriod, 2)
	assert.Empty(t, f.provider.GradeRecords(models.GradeRecordFilter{Period: "II Bimestre"}))
}
