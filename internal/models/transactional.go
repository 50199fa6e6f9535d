package models

import "time"

// EventKind names a sheet of the transactional log.
type EventKind string

const (
	EventAttendance EventKind = "asistencia"
	EventIncident   EventKind = "incidentes"
	EventPermit     EventKind = "permisos"
)

// AttendanceStatus is the normalized lowercase attendance status.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "presente"
	AttendanceLate    AttendanceStatus = "tarde"
	AttendanceAbsent  AttendanceStatus = "falta"
	AttendancePermit  AttendanceStatus = "permiso"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendancePermit:
		return true
	}
	return false
}

// AttendanceRecord is one attendance mark, keyed by student and date.
type AttendanceRecord struct {
	StudentID    string           `json:"studentId"`
	Grade        string           `json:"grado"`
	Section      string           `json:"seccion"`
	Date         string           `json:"fecha"`
	Status       AttendanceStatus `json:"estado"`
	ActorID      string           `json:"registradoPor"`
	Observations string           `json:"observaciones,omitempty"`
	RegisteredAt time.Time        `json:"timestamp"`
}

// Incident is a disciplinary or wellbeing incident, keyed by student and creation time.
type Incident struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	Grade       string    `json:"grado"`
	Section     string    `json:"seccion"`
	Date        string    `json:"fecha"`
	Type        string    `json:"tipo"`
	Description string    `json:"descripcion"`
	ActorID     string    `json:"reportadoPor"`
	CreatedAt   time.Time `json:"timestamp"`
}

// Permit is an authorised absence, keyed by student and creation time.
type Permit struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Grade     string    `json:"grado"`
	Section   string    `json:"seccion"`
	Date      string    `json:"fecha"`
	StartDate string    `json:"fechaInicio"`
	EndDate   string    `json:"fechaFin"`
	Reason    string    `json:"motivo"`
	ActorID   string    `json:"registradoPor"`
	CreatedAt time.Time `json:"timestamp"`
}
