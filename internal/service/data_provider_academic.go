package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/notify"
)

// CompetencyRequest is one competency of a new area. Capacities keep their order.
type CompetencyRequest struct {
	Name       string   `json:"name" validate:"required"`
	Capacities []string `json:"capacities" validate:"dive,required"`
}

// AreaRequest holds the payload for creating a curricular area.
type AreaRequest struct {
	Name         string              `json:"name" validate:"required"`
	Level        string              `json:"level" validate:"required"`
	Competencies []CompetencyRequest `json:"competencies" validate:"dive"`
}

// GradeSectionRequest holds the payload for adding a pair to the catalog.
type GradeSectionRequest struct {
	Grade   string `json:"grade" validate:"required"`
	Section string `json:"section" validate:"required"`
	Level   string `json:"level" validate:"required"`
}

// SessionInput is a learning session planned by a teacher.
type SessionInput struct {
	Title        string  `json:"title" validate:"required"`
	AreaID       string  `json:"areaId" validate:"required"`
	CompetencyID *string `json:"competencyId"`
	Grade        string  `json:"grade" validate:"required"`
	Section      string  `json:"section" validate:"required"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	StaffID      string  `json:"staffId" validate:"required"`
}

// GradeInput is one competency grade for a student.
type GradeInput struct {
	StudentID    string  `json:"studentId" validate:"required"`
	SessionID    *string `json:"sessionId"`
	CompetencyID string  `json:"competencyId" validate:"required"`
	Grade        string  `json:"grade" validate:"required"`
	Section      string  `json:"section" validate:"required"`
	Period       string  `json:"period" validate:"required"`
	Value        string  `json:"value" validate:"required,oneof=AD A B C"`
	ActorID      string  `json:"actorId" validate:"required"`
}

// AddArea creates a curricular area with its competencies and reloads the areas.
func (p *DataProvider) AddArea(ctx context.Context, req AreaRequest) (models.CurricularArea, bool) {
	area := models.CurricularArea{Name: strings.TrimSpace(req.Name), Level: strings.TrimSpace(req.Level)}
	for _, c := range req.Competencies {
		comp := models.Competency{Name: strings.TrimSpace(c.Name), Capacities: make([]models.Capacity, 0, len(c.Capacities))}
		for _, desc := range c.Capacities {
			comp.Capacities = append(comp.Capacities, models.Capacity{Description: strings.TrimSpace(desc)})
		}
		area.Competencies = append(area.Competencies, comp)
	}
	err := p.validateInput(req)
	if err == nil {
		err = p.checkLevel(area.Level)
	}
	if err == nil {
		err = p.areas.Save(ctx, &area)
	}
	if err == nil {
		p.reloadAfterWrite(ctx, CollectionAreas)
	}
	ok := p.finish(ctx, "add_area", err,
		notify.Success("Área registrada", fmt.Sprintf("%s se agregó a %s.", area.Name, area.Level)),
		"No se pudo registrar el área curricular")
	return area, ok
}

// AddGradeSection adds a (grade, section) pair to the catalog and reloads it.
func (p *DataProvider) AddGradeSection(ctx context.Context, req GradeSectionRequest) (models.GradeSection, bool) {
	gs := models.GradeSection{
		Grade:   strings.TrimSpace(req.Grade),
		Section: strings.TrimSpace(req.Section),
		Level:   strings.TrimSpace(req.Level),
	}
	err := p.validateInput(req)
	if err == nil {
		err = p.checkLevel(gs.Level)
	}
	if err == nil {
		err = p.catalog.SaveGradeSection(ctx, &gs)
	}
	if err == nil {
		p.reloadAfterWrite(ctx, CollectionGradeSections)
	}
	ok := p.finish(ctx, "add_grade_section", err,
		notify.Success("Sección registrada", fmt.Sprintf("%s %s quedó disponible.", gs.Grade, gs.Section)),
		"No se pudo registrar la sección")
	return gs, ok
}

// DeleteGradeSection removes a pair from the catalog. Pairs with enrolled students are kept.
func (p *DataProvider) DeleteGradeSection(ctx context.Context, id string) bool {
	err := p.checkSectionEmpty(id)
	if err == nil {
		err = p.catalog.DeleteGradeSection(ctx, id)
	}
	if err == nil {
		p.reloadAfterWrite(ctx, CollectionGradeSections)
	}
	return p.finish(ctx, "delete_grade_section", err,
		notify.Success("Sección eliminada", "La sección se retiró del catálogo."),
		"No se pudo eliminar la sección")
}

// AddSession plans a learning session and reloads the sessions.
func (p *DataProvider) AddSession(ctx context.Context, in SessionInput) (models.LearningSession, bool) {
	session := models.LearningSession{
		Title:        strings.TrimSpace(in.Title),
		AreaID:       in.AreaID,
		CompetencyID: in.CompetencyID,
		Grade:        in.Grade,
		Section:      in.Section,
		StaffID:      in.StaffID,
	}
	err := p.validateInput(in)
	if err == nil {
		session.Date, err = time.Parse(isoDate, in.Date)
	}
	if err == nil {
		err = p.checkSection(in.Grade, in.Section)
	}
	if err == nil {
		err = p.checkArea(in.AreaID)
	}
	if err == nil {
		err = p.sessions.Save(ctx, &session)
	}
	if err == nil {
		p.reloadAfterWrite(ctx, CollectionSessions)
	}
	ok := p.finish(ctx, "add_session", err,
		notify.Success("Sesión registrada", fmt.Sprintf("%s programada para el %s.", session.Title, in.Date)),
		"No se pudo registrar la sesión")
	return session, ok
}

// RecordGrade stores a competency grade and reloads the grades.
func (p *DataProvider) RecordGrade(ctx context.Context, in GradeInput) bool {
	record := models.GradeRecord{
		StudentID:    in.StudentID,
		SessionID:    in.SessionID,
		CompetencyID: in.CompetencyID,
		Grade:        in.Grade,
		Section:      in.Section,
		Period:       strings.TrimSpace(in.Period),
		Value:        models.GradeValue(strings.ToUpper(strings.TrimSpace(in.Value))),
		ActorID:      in.ActorID,
	}
	in.Value = string(record.Value)
	err := p.validateInput(in)
	if err == nil {
		err = p.checkSection(in.Grade, in.Section)
	}
	if err == nil {
		err = p.checkStudentIn(in.StudentID, in.Grade, in.Section)
	}
	if err == nil {
		err = p.grades.Save(ctx, &record)
	}
	if err == nil {
		p.reloadAfterWrite(ctx, CollectionGrades)
	}
	return p.finish(ctx, "record_grade", err,
		notify.Success("Calificación registrada", fmt.Sprintf("Se registró %s para el periodo %s.", record.Value, record.Period)),
		"No se pudo registrar la calificación")
}

// GradeRecords returns the loaded grades matching filter.
func (p *DataProvider) GradeRecords(filter models.GradeRecordFilter) []models.GradeRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.GradeRecord, 0, len(p.state.Grades))
	for _, r := range p.state.Grades {
		if filter.Grade != "" && r.Grade != filter.Grade {
			continue
		}
		if filter.Section != "" && r.Section != filter.Section {
			continue
		}
		if filter.Period != "" && r.Period != filter.Period {
			continue
		}
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, r)
	}
	return models.CloneGradeRecords(out)
}

// checkLevel rejects a level missing from a non-empty level catalog.
func (p *DataProvider) checkLevel(level string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.state.Levels) == 0 {
		return nil
	}
	for _, l := range p.state.Levels {
		if strings.EqualFold(l.Name, level) {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("nivel educativo desconocido: %s", level))
}

func (p *DataProvider) checkArea(areaID string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.state.Areas) == 0 {
		return nil
	}
	for _, a := range p.state.Areas {
		if a.ID == areaID {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "el área curricular no existe")
}

func (p *DataProvider) checkStudentIn(studentID, grade, section string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.state.Students) == 0 {
		return nil
	}
	for _, s := range p.state.Students {
		if s.ID != studentID {
			continue
		}
		if s.Grade != grade || s.Section != section {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("el estudiante no pertenece a %s %s", grade, section))
		}
		return nil
	}
	return appErrors.Clone(appErrors.ErrNotFound, "el estudiante no existe")
}

func (p *DataProvider) checkSectionEmpty(id string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, gs := range p.state.GradeSections {
		if gs.ID != id {
			continue
		}
		for _, s := range p.state.Students {
			if s.Grade == gs.Grade && s.Section == gs.Section {
				return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s %s tiene estudiantes matriculados", gs.Grade, gs.Section))
			}
		}
		return nil
	}
	return nil
}
