package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/YasmaniJob/beeclass/internal/models"
	"github.com/YasmaniJob/beeclass/internal/repository"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/eventlog"
	"github.com/YasmaniJob/beeclass/pkg/notify"
)

// Collection names a dataset held by the provider. Values match the JSON keys of ProviderState.
type Collection string

const (
	CollectionStudents      Collection = "estudiantes"
	CollectionStaff         Collection = "personal"
	CollectionAreas         Collection = "areasCurriculares"
	CollectionLevels        Collection = "nivelesEducativos"
	CollectionGradeSections Collection = "gradosSecciones"
	CollectionAttendance    Collection = "asistencias"
	CollectionIncidents     Collection = "incidentes"
	CollectionPermits       Collection = "permisos"
	CollectionSessions      Collection = "sesiones"
	CollectionGrades        Collection = "calificaciones"
)

// masterCollections are loaded by Load. Transactional collections are fetched on demand.
var masterCollections = []Collection{
	CollectionStudents, CollectionStaff, CollectionAreas, CollectionLevels,
	CollectionGradeSections, CollectionSessions, CollectionGrades,
}

var collectionLabels = map[Collection]string{
	CollectionStudents:      "estudiantes",
	CollectionStaff:         "miembros del personal",
	CollectionAreas:         "áreas curriculares",
	CollectionLevels:        "niveles educativos",
	CollectionGradeSections: "grados y secciones",
	CollectionAttendance:    "registros de asistencia",
	CollectionIncidents:     "incidentes",
	CollectionPermits:       "permisos",
	CollectionSessions:      "sesiones",
	CollectionGrades:        "calificaciones",
}

// ParseCollection validates a collection name coming from a URL.
func ParseCollection(raw string) (Collection, bool) {
	c := Collection(raw)
	_, ok := collectionLabels[c]
	return c, ok
}

const (
	staffCacheKey     = "personal:all"
	staffCachePattern = "personal:*"
)

type studentStore interface {
	FindAll(ctx context.Context) ([]models.Student, error)
	Save(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type staffStore interface {
	FindAll(ctx context.Context) ([]models.Staff, error)
	Save(ctx context.Context, member *models.Staff) error
	Update(ctx context.Context, member *models.Staff) error
	Delete(ctx context.Context, id string) error
}

type areaStore interface {
	FindAll(ctx context.Context, level string) ([]models.CurricularArea, error)
	Save(ctx context.Context, area *models.CurricularArea) error
}

type catalogStore interface {
	FindLevels(ctx context.Context) ([]models.EducationalLevel, error)
	FindGradeSections(ctx context.Context, level string) ([]models.GradeSection, error)
	SaveGradeSection(ctx context.Context, gs *models.GradeSection) error
	DeleteGradeSection(ctx context.Context, id string) error
}

type sessionStore interface {
	FindAll(ctx context.Context) ([]models.LearningSession, error)
	Save(ctx context.Context, session *models.LearningSession) error
}

type gradeRecordStore interface {
	FindAll(ctx context.Context) ([]models.GradeRecord, error)
	Save(ctx context.Context, record *models.GradeRecord) error
}

type transactionalLog interface {
	Append(ctx context.Context, kind models.EventKind, entry interface{}) error
	List(ctx context.Context, kind models.EventKind, dest interface{}) error
}

type readinessWaiter interface {
	Wait(ctx context.Context) error
}

// ProviderState is a point-in-time copy of everything the provider holds.
type ProviderState struct {
	IsLoaded      bool                      `json:"isLoaded"`
	Loading       map[Collection]bool       `json:"loading"`
	Students      []models.Student          `json:"estudiantes"`
	Staff         []models.Staff            `json:"personal"`
	Areas         []models.CurricularArea   `json:"areasCurriculares"`
	Levels        []models.EducationalLevel `json:"nivelesEducativos"`
	GradeSections []models.GradeSection     `json:"gradosSecciones"`
	Attendance    []models.AttendanceRecord `json:"asistencias"`
	Incidents     []models.Incident         `json:"incidentes"`
	Permits       []models.Permit           `json:"permisos"`
	Sessions      []models.LearningSession  `json:"sesiones"`
	Grades        []models.GradeRecord      `json:"calificaciones"`
}

// DataProviderParams groups constructor dependencies.
type DataProviderParams struct {
	Students      studentStore
	Staff         staffStore
	Areas         areaStore
	Catalog       catalogStore
	Sessions      sessionStore
	Grades        gradeRecordStore
	Log           transactionalLog
	Ready         readinessWaiter
	Cache         *CacheService
	Metrics       *MetricsService
	Logger        *zap.Logger
	StaffCacheTTL time.Duration
}

// DataProvider is the single source of truth for master data (relational store) and
// transactional data (event log). Writes go to the owning backend and are followed by a full
// reload of the affected collection; failed operations leave state untouched. Every public
// operation reports success as a bool and emits exactly one notification through the notifier
// attached to the context.
type DataProvider struct {
	students studentStore
	staff    staffStore
	areas    areaStore
	catalog  catalogStore
	sessions sessionStore
	grades   gradeRecordStore
	log      transactionalLog
	ready    readinessWaiter
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	fallback notify.Notifier
	validate *validator.Validate
	now      func() time.Time
	staffTTL time.Duration

	mu    sync.RWMutex
	state ProviderState
	loads map[Collection]*loadTracker

	// cacheMu orders staff cache writes against invalidations.
	cacheMu  sync.Mutex
	staffGen uint64
}

// loadTracker orders overlapping loads of one collection. A load only replaces the collection
// when no later-started load has already been applied.
type loadTracker struct {
	started uint64
	applied uint64
	running int
}

// NewDataProvider constructs an empty provider. Call Load to populate it.
func NewDataProvider(params DataProviderParams) *DataProvider {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataProvider{
		students: params.Students,
		staff:    params.Staff,
		areas:    params.Areas,
		catalog:  params.Catalog,
		sessions: params.Sessions,
		grades:   params.Grades,
		log:      params.Log,
		ready:    params.Ready,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		fallback: notify.NewLogNotifier(logger),
		validate: validator.New(),
		now:      time.Now,
		staffTTL: params.StaffCacheTTL,
		state:    ProviderState{Loading: map[Collection]bool{}},
		loads:    map[Collection]*loadTracker{},
	}
}

// Load waits for the app configuration and then loads every master collection once.
func (p *DataProvider) Load(ctx context.Context) bool {
	if p.ready != nil {
		if err := p.ready.Wait(ctx); err != nil {
			return p.finish(ctx, "load", err, notify.Notification{}, "No se pudo cargar la información")
		}
	}

	errs := make([]error, len(masterCollections))
	var wg sync.WaitGroup
	for i, c := range masterCollections {
		wg.Add(1)
		go func(i int, c Collection) {
			defer wg.Done()
			if _, err := p.load(ctx, c); err != nil {
				errs[i] = fmt.Errorf("%s: %w", c, err)
			}
		}(i, c)
	}
	wg.Wait()

	p.mu.Lock()
	p.state.IsLoaded = true
	p.mu.Unlock()

	return p.finish(ctx, "load", errors.Join(errs...),
		notify.Success("Datos cargados", "La información de la institución está lista."),
		"No se pudo cargar toda la información")
}

// IsLoaded reports whether the initial load has completed.
func (p *DataProvider) IsLoaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.IsLoaded
}

// Refresh reloads one collection, replacing it wholesale on success.
func (p *DataProvider) Refresh(ctx context.Context, c Collection) bool {
	label, ok := collectionLabels[c]
	if !ok {
		return p.finish(ctx, "refresh", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("colección desconocida: %s", c)), notify.Notification{}, "No se pudo actualizar")
	}
	n, err := p.load(ctx, c)
	return p.finish(ctx, "refresh_"+string(c), err,
		notify.Success("Datos actualizados", fmt.Sprintf("Se cargaron %d %s.", n, label)),
		fmt.Sprintf("No se pudieron cargar los %s", label))
}

// RefreshStudents reloads the student roster.
func (p *DataProvider) RefreshStudents(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionStudents)
}

// RefreshStaff reloads the staff roster, consulting the cache first.
func (p *DataProvider) RefreshStaff(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionStaff)
}

// RefreshAreas reloads curricular areas, optionally for a single level.
func (p *DataProvider) RefreshAreas(ctx context.Context, level string) bool {
	n, err := p.loadAreas(ctx, level)
	return p.finish(ctx, "refresh_"+string(CollectionAreas), err,
		notify.Success("Datos actualizados", fmt.Sprintf("Se cargaron %d %s.", n, collectionLabels[CollectionAreas])),
		"No se pudieron cargar las áreas curriculares")
}

// RefreshLevels reloads educational levels.
func (p *DataProvider) RefreshLevels(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionLevels)
}

// RefreshGradeSections reloads the grade/section catalog.
func (p *DataProvider) RefreshGradeSections(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionGradeSections)
}

// RefreshAttendance reloads attendance from the event log.
func (p *DataProvider) RefreshAttendance(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionAttendance)
}

// RefreshIncidents reloads incidents from the event log.
func (p *DataProvider) RefreshIncidents(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionIncidents)
}

// RefreshPermits reloads permits from the event log.
func (p *DataProvider) RefreshPermits(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionPermits)
}

// RefreshSessions reloads learning sessions.
func (p *DataProvider) RefreshSessions(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionSessions)
}

// RefreshGrades reloads grade records.
func (p *DataProvider) RefreshGrades(ctx context.Context) bool {
	return p.Refresh(ctx, CollectionGrades)
}

// AddStudent enrolls a student and reloads the roster. The assigned ID is written back.
func (p *DataProvider) AddStudent(ctx context.Context, student *models.Student) bool {
	err := p.validateInput(studentRequestOf(*student))
	if err == nil {
		err = p.checkSection(student.Grade, student.Section)
	}
	if err == nil {
		err = p.students.Save(ctx, student)
	}
	if err == nil {
		p.reloadAfterWrite(ctx, CollectionStudents)
	}
	return p.finish(ctx, "add_student", err,
		notify.Success("Estudiante registrado", fmt.Sprintf("%s fue matriculado en %s %s.", student.FullName(), student.Grade, student.Section)),
		"No se pudo registrar al estudiante")
}

// UpdateStudent saves changes to a student and reloads the roster.
func (p *DataProvider) UpdateStudent(ctx context.Context, student *models.Student) bool {
	err := p.validateInput(studentRequestOf(*student))
	if err == nil {
		err = p.checkSection(student.Grade, student.Section)
	}
	if err == nil {
		err = p.students.Update(ctx, student)
	}
	if err == nil {
		p.reloadAfterWrite(ctx, CollectionStudents)
	}
	return p.finish(ctx, "update_student", err,
		notify.Success("Estudiante actualizado", fmt.Sprintf("Los datos de %s se guardaron.", student.FullName())),
		"No se pudo actualizar al estudiante")
}

// DeleteStudent removes a student and reloads the roster.
func (p *DataProvider) DeleteStudent(ctx context.Context, id string) bool {
	err := p.students.Delete(ctx, id)
	if err == nil {
		p.reloadAfterWrite(ctx, CollectionStudents)
	}
	return p.finish(ctx, "delete_student", err,
		notify.Success("Estudiante eliminado", "El estudiante fue retirado de la matrícula."),
		"No se pudo eliminar al estudiante")
}

// AddStaff registers a staff member, invalidates the staff cache and reloads the roster.
func (p *DataProvider) AddStaff(ctx context.Context, member *models.Staff) bool {
	err := p.validateInput(staffRequestOf(*member))
	if err == nil {
		err = checkStaffRole(member.Role)
	}
	if err == nil {
		err = p.staff.Save(ctx, member)
	}
	if err == nil {
		p.reloadStaff(ctx)
	}
	return p.finish(ctx, "add_staff", err,
		notify.Success("Personal registrado", fmt.Sprintf("%s fue agregado como %s.", member.DisplayName(), member.Role)),
		"No se pudo registrar al miembro del personal")
}

// UpdateStaff saves a staff member, invalidates the staff cache and reloads the roster.
func (p *DataProvider) UpdateStaff(ctx context.Context, member *models.Staff) bool {
	err := p.validateInput(staffRequestOf(*member))
	if err == nil {
		err = checkStaffRole(member.Role)
	}
	if err == nil {
		err = p.staff.Update(ctx, member)
	}
	if err == nil {
		p.reloadStaff(ctx)
	}
	return p.finish(ctx, "update_staff", err,
		notify.Success("Personal actualizado", fmt.Sprintf("Los datos de %s se guardaron.", member.DisplayName())),
		"No se pudo actualizar al miembro del personal")
}

// DeleteStaff removes a staff member, invalidates the staff cache and reloads the roster.
func (p *DataProvider) DeleteStaff(ctx context.Context, id string) bool {
	err := p.staff.Delete(ctx, id)
	if err == nil {
		p.reloadStaff(ctx)
	}
	return p.finish(ctx, "delete_staff", err,
		notify.Success("Personal eliminado", "El miembro del personal fue dado de baja."),
		"No se pudo eliminar al miembro del personal")
}

// StaffSaved is called after the assignment editor persisted the roster. The editor has already
// notified the user, so this only invalidates the cache and reloads.
func (p *DataProvider) StaffSaved(ctx context.Context, member models.Staff) {
	p.logger.Info("staff roster saved", zap.String("staff_id", member.ID), zap.Int("assignments", len(member.Assignments)))
	p.reloadStaff(ctx)
}

// AttendanceInput is a single attendance mark to append to the log.
type AttendanceInput struct {
	StudentID    string `json:"studentId" validate:"required"`
	Grade        string `json:"grade" validate:"required"`
	Section      string `json:"section" validate:"required"`
	Date         string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status       string `json:"status" validate:"required"`
	ActorID      string `json:"actorId" validate:"required"`
	Observations string `json:"observations"`
}

// IncidentInput is an incident report to append to the log.
type IncidentInput struct {
	StudentID   string `json:"studentId" validate:"required"`
	Grade       string `json:"grade" validate:"required"`
	Section     string `json:"section" validate:"required"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`
	ActorID     string `json:"actorId" validate:"required"`
}

// PermitInput is an authorised absence to append to the log.
type PermitInput struct {
	StudentID string `json:"studentId" validate:"required"`
	Grade     string `json:"grade" validate:"required"`
	Section   string `json:"section" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required"`
	ActorID   string `json:"actorId" validate:"required"`
}

// RecordAttendance appends an attendance mark. Master collections are not reloaded.
func (p *DataProvider) RecordAttendance(ctx context.Context, in AttendanceInput) bool {
	now := p.now().UTC()
	record := models.AttendanceRecord{
		StudentID:    in.StudentID,
		Grade:        in.Grade,
		Section:      in.Section,
		Date:         dateOrToday(in.Date, now),
		Status:       models.AttendanceStatus(strings.ToLower(strings.TrimSpace(in.Status))),
		ActorID:      in.ActorID,
		Observations: strings.TrimSpace(in.Observations),
		RegisteredAt: now,
	}
	err := p.validateInput(in)
	if err == nil && !record.Status.Valid() {
		err = appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("estado de asistencia no válido: %s", in.Status))
	}
	if err == nil {
		err = p.appendEvent(ctx, models.EventAttendance, record)
	}
	if err == nil {
		p.mu.Lock()
		p.state.Attendance = append(p.state.Attendance, record)
		p.mu.Unlock()
	}
	return p.finish(ctx, "record_attendance", err,
		notify.Success("Asistencia registrada", fmt.Sprintf("Se registró %s para el %s.", record.Status, record.Date)),
		"No se pudo registrar la asistencia")
}

// RecordIncident appends an incident report.
func (p *DataProvider) RecordIncident(ctx context.Context, in IncidentInput) bool {
	now := p.now().UTC()
	incident := models.Incident{
		ID:          uuid.NewString(),
		StudentID:   in.StudentID,
		Grade:       in.Grade,
		Section:     in.Section,
		Date:        dateOrToday(in.Date, now),
		Type:        strings.ToLower(strings.TrimSpace(in.Type)),
		Description: strings.TrimSpace(in.Description),
		ActorID:     in.ActorID,
		CreatedAt:   now,
	}
	err := p.validateInput(in)
	if err == nil {
		err = p.appendEvent(ctx, models.EventIncident, incident)
	}
	if err == nil {
		p.mu.Lock()
		p.state.Incidents = append(p.state.Incidents, incident)
		p.mu.Unlock()
	}
	return p.finish(ctx, "record_incident", err,
		notify.Success("Incidente registrado", "El incidente quedó registrado."),
		"No se pudo registrar el incidente")
}

// RecordPermit appends a permit.
func (p *DataProvider) RecordPermit(ctx context.Context, in PermitInput) bool {
	now := p.now().UTC()
	permit := models.Permit{
		ID:        uuid.NewString(),
		StudentID: in.StudentID,
		Grade:     in.Grade,
		Section:   in.Section,
		Date:      now.Format(isoDate),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reason:    strings.TrimSpace(in.Reason),
		ActorID:   in.ActorID,
		CreatedAt: now,
	}
	err := p.validateInput(in)
	if err == nil && in.EndDate < in.StartDate {
		err = appErrors.Clone(appErrors.ErrValidation, "la fecha de fin no puede ser anterior a la de inicio")
	}
	if err == nil {
		err = p.appendEvent(ctx, models.EventPermit, permit)
	}
	if err == nil {
		p.mu.Lock()
		p.state.Permits = append(p.state.Permits, permit)
		p.mu.Unlock()
	}
	return p.finish(ctx, "record_permit", err,
		notify.Success("Permiso registrado", fmt.Sprintf("Permiso del %s al %s.", permit.StartDate, permit.EndDate)),
		"No se pudo registrar el permiso")
}

// State returns a deep copy of the provider state.
func (p *DataProvider) State() ProviderState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	loading := make(map[Collection]bool, len(p.state.Loading))
	for k, v := range p.state.Loading {
		loading[k] = v
	}
	return ProviderState{
		IsLoaded:      p.state.IsLoaded,
		Loading:       loading,
		Students:      models.CloneStudents(p.state.Students),
		Staff:         models.CloneStaff(p.state.Staff),
		Areas:         models.CloneAreas(p.state.Areas),
		Levels:        append([]models.EducationalLevel(nil), p.state.Levels...),
		GradeSections: append([]models.GradeSection(nil), p.state.GradeSections...),
		Attendance:    append([]models.AttendanceRecord(nil), p.state.Attendance...),
		Incidents:     append([]models.Incident(nil), p.state.Incidents...),
		Permits:       append([]models.Permit(nil), p.state.Permits...),
		Sessions:      models.CloneSessions(p.state.Sessions),
		Grades:        models.CloneGradeRecords(p.state.Grades),
	}
}

// Students returns a copy of the student roster.
func (p *DataProvider) Students() []models.Student {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return models.CloneStudents(p.state.Students)
}

// Staff returns a copy of the staff roster.
func (p *DataProvider) Staff() []models.Staff {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return models.CloneStaff(p.state.Staff)
}

// Areas returns a copy of the curricular areas.
func (p *DataProvider) Areas() []models.CurricularArea {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return models.CloneAreas(p.state.Areas)
}

// Levels returns a copy of the educational levels.
func (p *DataProvider) Levels() []models.EducationalLevel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.EducationalLevel(nil), p.state.Levels...)
}

// GradeSections returns a copy of the grade/section catalog.
func (p *DataProvider) GradeSections() []models.GradeSection {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.GradeSection(nil), p.state.GradeSections...)
}

// StaffByID returns a copy of one staff member from the roster.
func (p *DataProvider) StaffByID(id string) (models.Staff, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, s := range p.state.Staff {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return models.Staff{}, false
}

func (p *DataProvider) load(ctx context.Context, c Collection) (int, error) {
	switch c {
	case CollectionStudents:
		return p.loadStudents(ctx)
	case CollectionStaff:
		return p.loadStaff(ctx)
	case CollectionAreas:
		return p.loadAreas(ctx, "")
	case CollectionLevels:
		return loadInto(p, c, func() ([]models.EducationalLevel, error) { return p.catalog.FindLevels(ctx) },
			func(s *ProviderState, v []models.EducationalLevel) { s.Levels = v })
	case CollectionGradeSections:
		return loadInto(p, c, func() ([]models.GradeSection, error) { return p.catalog.FindGradeSections(ctx, "") },
			func(s *ProviderState, v []models.GradeSection) { s.GradeSections = v })
	case CollectionSessions:
		return loadInto(p, c, func() ([]models.LearningSession, error) { return p.sessions.FindAll(ctx) },
			func(s *ProviderState, v []models.LearningSession) { s.Sessions = v })
	case CollectionGrades:
		return loadInto(p, c, func() ([]models.GradeRecord, error) { return p.grades.FindAll(ctx) },
			func(s *ProviderState, v []models.GradeRecord) { s.Grades = v })
	case CollectionAttendance:
		return loadInto(p, c, func() ([]models.AttendanceRecord, error) {
			var out []models.AttendanceRecord
			err := p.listLog(ctx, models.EventAttendance, &out)
			return out, err
		}, func(s *ProviderState, v []models.AttendanceRecord) { s.Attendance = v })
	case CollectionIncidents:
		return loadInto(p, c, func() ([]models.Incident, error) {
			var out []models.Incident
			err := p.listLog(ctx, models.EventIncident, &out)
			return out, err
		}, func(s *ProviderState, v []models.Incident) { s.Incidents = v })
	case CollectionPermits:
		return loadInto(p, c, func() ([]models.Permit, error) {
			var out []models.Permit
			err := p.listLog(ctx, models.EventPermit, &out)
			return out, err
		}, func(s *ProviderState, v []models.Permit) { s.Permits = v })
	}
	return 0, fmt.Errorf("unknown collection %q", c)
}

// loadInto fetches a collection with the loading flag raised and replaces it only on success.
// A result older than one already applied is dropped.
func loadInto[T any](p *DataProvider, c Collection, fetch func() ([]T, error), assign func(*ProviderState, []T)) (int, error) {
	seq := p.beginLoad(c)
	items, err := fetch()

	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.loads[c]
	t.running--
	p.state.Loading[c] = t.running > 0
	if err != nil {
		return 0, err
	}
	if items == nil {
		items = []T{}
	}
	if seq > t.applied {
		assign(&p.state, items)
		t.applied = seq
	} else {
		p.logger.Debug("discarded stale load", zap.String("collection", string(c)), zap.Uint64("seq", seq), zap.Uint64("applied", t.applied))
	}
	return len(items), nil
}

func (p *DataProvider) beginLoad(c Collection) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.loads[c]
	if !ok {
		t = &loadTracker{}
		p.loads[c] = t
	}
	t.started++
	t.running++
	p.state.Loading[c] = true
	return t.started
}

func (p *DataProvider) loadStudents(ctx context.Context) (int, error) {
	return loadInto(p, CollectionStudents, func() ([]models.Student, error) {
		return p.students.FindAll(ctx)
	}, func(s *ProviderState, v []models.Student) { s.Students = v })
}

func (p *DataProvider) loadAreas(ctx context.Context, level string) (int, error) {
	return loadInto(p, CollectionAreas, func() ([]models.CurricularArea, error) {
		return p.areas.FindAll(ctx, level)
	}, func(s *ProviderState, v []models.CurricularArea) { s.Areas = v })
}

func (p *DataProvider) loadStaff(ctx context.Context) (int, error) {
	return loadInto(p, CollectionStaff, func() ([]models.Staff, error) {
		gen := p.staffCacheGen()
		var cached []models.Staff
		if hit, _ := p.cache.Get(ctx, staffCacheKey, &cached); hit {
			return cached, nil
		}
		staff, err := p.staff.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		p.cacheStaff(ctx, gen, staff)
		return staff, nil
	}, func(s *ProviderState, v []models.Staff) { s.Staff = v })
}

func (p *DataProvider) staffCacheGen() uint64 {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	return p.staffGen
}

// cacheStaff stores a roster read at generation gen unless the cache was invalidated since.
func (p *DataProvider) cacheStaff(ctx context.Context, gen uint64, staff []models.Staff) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if gen != p.staffGen {
		return
	}
	_ = p.cache.Set(ctx, staffCacheKey, staff, p.staffTTL)
}

func (p *DataProvider) invalidateStaffCache(ctx context.Context) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	p.staffGen++
	_ = p.cache.Invalidate(ctx, staffCachePattern)
}

func (p *DataProvider) reloadStaff(ctx context.Context) {
	p.invalidateStaffCache(ctx)
	p.reloadAfterWrite(ctx, CollectionStaff)
}

// reloadAfterWrite reloads a collection after a successful write. A failed reload keeps the
// previous copy and is only logged since the write itself succeeded.
func (p *DataProvider) reloadAfterWrite(ctx context.Context, c Collection) {
	if _, err := p.load(ctx, c); err != nil {
		p.logger.Warn("reload after write failed", zap.String("collection", string(c)), zap.Error(err))
	}
}

func (p *DataProvider) appendEvent(ctx context.Context, kind models.EventKind, entry interface{}) error {
	if p.log == nil {
		return eventlog.ErrNotConfigured
	}
	return p.log.Append(ctx, kind, entry)
}

func (p *DataProvider) listLog(ctx context.Context, kind models.EventKind, dest interface{}) error {
	if p.log == nil {
		return eventlog.ErrNotConfigured
	}
	return p.log.List(ctx, kind, dest)
}

func (p *DataProvider) validateInput(in interface{}) error {
	if err := p.validate.Struct(in); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "datos incompletos o con formato inválido")
	}
	return nil
}

// checkSection rejects a (grade, section) pair missing from a non-empty catalog.
func (p *DataProvider) checkSection(grade, section string) error {
	if strings.TrimSpace(grade) == "" || strings.TrimSpace(section) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "el grado y la sección son obligatorios")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sectionInCatalog(p.state.GradeSections, grade, section)
}

func sectionInCatalog(catalog []models.GradeSection, grade, section string) error {
	if len(catalog) == 0 {
		return nil
	}
	for _, gs := range catalog {
		if gs.Grade == grade && gs.Section == section {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrUnknownSection, fmt.Sprintf("%s %s no existe en el catálogo de grados y secciones", grade, section))
}

func checkStaffRole(role models.StaffRole) error {
	if !role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rol no válido: %s", role))
	}
	return nil
}

// finish records the outcome, logs failures and emits the single notification of an operation.
func (p *DataProvider) finish(ctx context.Context, op string, err error, success notify.Notification, failTitle string) bool {
	p.metrics.RecordProviderOperation(op, err == nil)
	notifier := notify.From(ctx, p.fallback)
	if err != nil {
		appErr := normalizeError(err)
		p.logger.Warn("provider operation failed", zap.String("op", op), zap.String("code", appErr.Code), zap.Error(err))
		notifier.Notify(notify.Failure(failTitle, appErr.Message).WithCode(appErr.Code))
		return false
	}
	notifier.Notify(success)
	return true
}

// normalizeError maps repository, transport and validation failures to a user-facing error.
func normalizeError(err error) *appErrors.Error {
	var appErr *appErrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "ya existe un registro con el mismo documento")
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "el registro no existe")
	case errors.Is(err, eventlog.ErrNotConfigured):
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "el registro transaccional no está configurado")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "el servidor tardó demasiado en responder")
	case errors.Is(err, eventlog.ErrRejected):
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "el registro transaccional rechazó la operación")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "ocurrió un error inesperado, intenta nuevamente")
	}
}

const isoDate = "2006-01-02"

func dateOrToday(date string, now time.Time) string {
	if date = strings.TrimSpace(date); date != "" {
		return date
	}
	return now.Format(isoDate)
}
