package models

import (
	"strings"
	"time"
)

// StaffRole is the institutional role of a staff member.
type StaffRole string

const (
	StaffRoleTeacher     StaffRole = "Docente"
	StaffRoleAuxiliary   StaffRole = "Auxiliar"
	StaffRoleAdmin       StaffRole = "Admin"
	StaffRoleDirector    StaffRole = "Director"
	StaffRoleCoordinator StaffRole = "Coordinador"
	StaffRoleSubDirector StaffRole = "Sub-director"
)

// Valid reports whether r is one of the known roles.
func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleTeacher, StaffRoleAuxiliary, StaffRoleAdmin, StaffRoleDirector, StaffRoleCoordinator, StaffRoleSubDirector:
		return true
	}
	return false
}

// AssignmentRole is the role a staff member holds inside one section.
type AssignmentRole string

const (
	AssignmentRoleTeacher   AssignmentRole = "Docente"
	AssignmentRoleTutor     AssignmentRole = "Docente y Tutor"
	AssignmentRoleAuxiliary AssignmentRole = "Auxiliar"
)

// Assignment places a staff member in a grade/section, optionally for one curricular area.
// An assignment without AreaID is the section's main assignment.
type Assignment struct {
	ID             string         `db:"id" json:"id"`
	StaffID        string         `db:"staff_id" json:"staffId"`
	GradeSectionID *string        `db:"grade_section_id" json:"gradeSectionId,omitempty"`
	Grade          string         `db:"grade" json:"grade"`
	Section        string         `db:"section" json:"section"`
	Role           AssignmentRole `db:"role" json:"role"`
	AreaID         *string        `db:"area_id" json:"areaId,omitempty"`
	WeeklyHours    *int           `db:"weekly_hours" json:"weeklyHours,omitempty"`
}

// IsMain reports whether a carries no subject area.
func (a Assignment) IsMain() bool {
	return a.AreaID == nil
}

// InSlot reports whether a belongs to grade/section.
func (a Assignment) InSlot(grade, section string) bool {
	return a.Grade == grade && a.Section == section
}

// HasArea reports whether a is the subject assignment for areaID.
func (a Assignment) HasArea(areaID string) bool {
	return a.AreaID != nil && *a.AreaID == areaID
}

// Staff is a teacher, auxiliary or directive member together with its assignments.
type Staff struct {
	ID             string       `db:"id" json:"id"`
	DocumentType   string       `db:"document_type" json:"documentType"`
	DocumentNumber string       `db:"document_number" json:"documentNumber"`
	Names          string       `db:"names" json:"names"`
	Surnames       string       `db:"surnames" json:"surnames"`
	Email          *string      `db:"email" json:"email,omitempty"`
	Phone          *string      `db:"phone" json:"phone,omitempty"`
	Role           StaffRole    `db:"role" json:"role"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
	Assignments    []Assignment `db:"-" json:"assignments"`
}

// DisplayName joins names and surnames.
func (s Staff) DisplayName() string {
	return strings.TrimSpace(s.Names + " " + s.Surnames)
}

// Clone returns a deep copy of s.
func (s Staff) Clone() Staff {
	out := s
	out.Email = cloneString(s.Email)
	out.Phone = cloneString(s.Phone)
	out.Assignments = CloneAssignments(s.Assignments)
	return out
}

// CloneAssignments deep-copies a list of assignments.
func CloneAssignments(in []Assignment) []Assignment {
	if in == nil {
		return nil
	}
	out := make([]Assignment, len(in))
	for i, a := range in {
		out[i] = a
		out[i].GradeSectionID = cloneString(a.GradeSectionID)
		out[i].AreaID = cloneString(a.AreaID)
		if a.WeeklyHours != nil {
			h := *a.WeeklyHours
			out[i].WeeklyHours = &h
		}
	}
	return out
}

// CloneStaff deep-copies a roster.
func CloneStaff(in []Staff) []Staff {
	if in == nil {
		return nil
	}
	out := make([]Staff, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
