package models

// EducationalLevel groups grades (Inicial, Primaria, Secundaria).
type EducationalLevel struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// GradeSection is one valid (grade, section) pair of the catalog.
type GradeSection struct {
	ID      string `db:"id" json:"id"`
	Grade   string `db:"grade" json:"grade"`
	Section string `db:"section" json:"section"`
	Level   string `db:"level" json:"level"`
}

// Capacity is an ordered descriptor inside a competency.
type Capacity struct {
	ID           string `db:"id" json:"id"`
	CompetencyID string `db:"competency_id" json:"-"`
	Description  string `db:"description" json:"description"`
	Position     int    `db:"position" json:"position"`
}

// Competency is an ordered competency of a curricular area.
type Competency struct {
	ID         string     `db:"id" json:"id"`
	AreaID     string     `db:"area_id" json:"-"`
	Name       string     `db:"name" json:"name"`
	Position   int        `db:"position" json:"position"`
	Capacities []Capacity `db:"-" json:"capacities"`
}

// CurricularArea is a subject area of an educational level.
type CurricularArea struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Level        string       `db:"level" json:"level"`
	Competencies []Competency `db:"-" json:"competencies"`
}

// Clone returns a deep copy of a including competencies and capacities.
func (a CurricularArea) Clone() CurricularArea {
	out := a
	if a.Competencies != nil {
		out.Competencies = make([]Competency, len(a.Competencies))
		for i, c := range a.Competencies {
			out.Competencies[i] = c
			if c.Capacities != nil {
				out.Competencies[i].Capacities = make([]Capacity, len(c.Capacities))
				copy(out.Competencies[i].Capacities, c.Capacities)
			}
		}
	}
	return out
}

// CloneAreas deep-copies a list of areas.
func CloneAreas(in []CurricularArea) []CurricularArea {
	if in == nil {
		return nil
	}
	out := make([]CurricularArea, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
