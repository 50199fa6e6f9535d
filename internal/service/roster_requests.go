package service

import (
	"strings"

	"github.com/YasmaniJob/beeclass/internal/models"
)

// StudentRequest holds the payload for enrolling or editing a student.
type StudentRequest struct {
	DocumentType            string  `json:"documentType" validate:"required,max=20"`
	DocumentNumber          string  `json:"documentNumber" validate:"required,max=20"`
	Names                   string  `json:"names" validate:"required"`
	PaternalSurname         string  `json:"paternalSurname" validate:"required"`
	MaternalSurname         string  `json:"maternalSurname"`
	Grade                   string  `json:"grade" validate:"required"`
	Section                 string  `json:"section" validate:"required"`
	SpecialNeeds            bool    `json:"specialNeeds"`
	SpecialNeedsDescription *string `json:"specialNeedsDescription"`
}

// Model converts the request into a student with the given ID.
func (r StudentRequest) Model(id string) models.Student {
	return models.Student{
		ID:                      id,
		DocumentType:            strings.TrimSpace(r.DocumentType),
		DocumentNumber:          strings.TrimSpace(r.DocumentNumber),
		Names:                   strings.TrimSpace(r.Names),
		PaternalSurname:         strings.TrimSpace(r.PaternalSurname),
		MaternalSurname:         strings.TrimSpace(r.MaternalSurname),
		Grade:                   r.Grade,
		Section:                 r.Section,
		SpecialNeeds:            r.SpecialNeeds,
		SpecialNeedsDescription: r.SpecialNeedsDescription,
	}
}

func studentRequestOf(s models.Student) StudentRequest {
	return StudentRequest{
		DocumentType:            strings.TrimSpace(s.DocumentType),
		DocumentNumber:          strings.TrimSpace(s.DocumentNumber),
		Names:                   strings.TrimSpace(s.Names),
		PaternalSurname:         strings.TrimSpace(s.PaternalSurname),
		MaternalSurname:         s.MaternalSurname,
		Grade:                   s.Grade,
		Section:                 s.Section,
		SpecialNeeds:            s.SpecialNeeds,
		SpecialNeedsDescription: s.SpecialNeedsDescription,
	}
}

// StaffRequest holds the payload for registering or editing a staff member. Assignments are
// managed through the assignment editor.
type StaffRequest struct {
	DocumentType   string           `json:"documentType" validate:"required,max=20"`
	DocumentNumber string           `json:"documentNumber" validate:"required,max=20"`
	Names          string           `json:"names" validate:"required"`
	Surnames       string           `json:"surnames" validate:"required"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	Phone          *string          `json:"phone"`
	Role           models.StaffRole `json:"role" validate:"required"`
}

// Model converts the request into a staff member with the given ID.
func (r StaffRequest) Model(id string) models.Staff {
	return models.Staff{
		ID:             id,
		DocumentType:   strings.TrimSpace(r.DocumentType),
		DocumentNumber: strings.TrimSpace(r.DocumentNumber),
		Names:          strings.TrimSpace(r.Names),
		Surnames:       strings.TrimSpace(r.Surnames),
		Email:          r.Email,
		Phone:          r.Phone,
		Role:           r.Role,
	}
}

func staffRequestOf(s models.Staff) StaffRequest {
	return StaffRequest{
		DocumentType:   strings.TrimSpace(s.DocumentType),
		DocumentNumber: strings.TrimSpace(s.DocumentNumber),
		Names:          strings.TrimSpace(s.Names),
		Surnames:       strings.TrimSpace(s.Surnames),
		Email:          s.Email,
		Phone:          s.Phone,
		Role:           s.Role,
	}
}
