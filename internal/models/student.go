package models

import "time"

// Student is an enrolled learner. Section membership comes from Grade+Section.
type Student struct {
	ID                      string    `db:"id" json:"id"`
	DocumentType            string    `db:"document_type" json:"documentType"`
	DocumentNumber          string    `db:"document_number" json:"documentNumber"`
	Names                   string    `db:"names" json:"names"`
	PaternalSurname         string    `db:"paternal_surname" json:"paternalSurname"`
	MaternalSurname         string    `db:"maternal_surname" json:"maternalSurname"`
	Grade                   string    `db:"grade" json:"grade"`
	Section                 string    `db:"section" json:"section"`
	SpecialNeeds            bool      `db:"special_needs" json:"specialNeeds"`
	SpecialNeedsDescription *string   `db:"special_needs_description" json:"specialNeedsDescription,omitempty"`
	CreatedAt               time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt               time.Time `db:"updated_at" json:"updatedAt"`
}

// FullName renders "Surnames, Names" the way rosters list students.
func (s Student) FullName() string {
	surnames := s.PaternalSurname
	if s.MaternalSurname != "" {
		surnames += " " + s.MaternalSurname
	}
	if surnames == "" {
		return s.Names
	}
	return surnames + ", " + s.Names
}

// StudentFilter narrows roster queries.
type StudentFilter struct {
	Grade   string
	Section string
	Search  string
}

// Clone returns a deep copy of s.
func (s Student) Clone() Student {
	out := s
	out.SpecialNeedsDescription = cloneString(s.SpecialNeedsDescription)
	return out
}

// CloneStudents deep-copies a roster.
func CloneStudents(in []Student) []Student {
	if in == nil {
		return nil
	}
	out := make([]Student, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
