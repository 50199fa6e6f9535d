package models

import "time"

// LearningSession is a planned class session for an area in a section.
type LearningSession struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	AreaID       string    `db:"area_id" json:"areaId"`
	CompetencyID *string   `db:"competency_id" json:"competencyId,omitempty"`
	Grade        string    `db:"grade" json:"grade"`
	Section      string    `db:"section" json:"section"`
	StaffID      string    `db:"staff_id" json:"staffId"`
	Date         time.Time `db:"date" json:"date"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// GradeValue is the literal grading scale.
type GradeValue string

const (
	GradeAD GradeValue = "AD"
	GradeA  GradeValue = "A"
	GradeB  GradeValue = "B"
	GradeC  GradeValue = "C"
)

// GradeRecord is a competency grade given to a student.
type GradeRecord struct {
	ID           string     `db:"id" json:"id"`
	StudentID    string     `db:"student_id" json:"studentId"`
	SessionID    *string    `db:"session_id" json:"sessionId,omitempty"`
	CompetencyID string     `db:"competency_id" json:"competencyId"`
	Grade        string     `db:"grade" json:"grade"`
	Section      string     `db:"section" json:"section"`
	Period       string     `db:"period" json:"period"`
	Value        GradeValue `db:"value" json:"value"`
	ActorID      string     `db:"actor_id" json:"actorId"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// GradeRecordFilter narrows grade queries.
type GradeRecordFilter struct {
	Grade     string
	Section   string
	Period    string
	StudentID string
}

// CloneSessions deep-copies learning sessions.
func CloneSessions(in []LearningSession) []LearningSession {
	if in == nil {
		return nil
	}
	out := make([]LearningSession, len(in))
	for i, s := range in {
		out[i] = s
		out[i].CompetencyID = cloneString(s.CompetencyID)
	}
	return out
}

// CloneGradeRecords deep-copies grade records.
func CloneGradeRecords(in []GradeRecord) []GradeRecord {
	if in == nil {
		return nil
	}
	out := make([]GradeRecord, len(in))
	for i, r := range in {
		out[i] = r
		out[i].SessionID = cloneString(r.SessionID)
	}
	return out
}
