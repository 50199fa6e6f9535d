package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YasmaniJob/beeclass/internal/models"
	"github.com/YasmaniJob/beeclass/internal/repository"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/notify"
)

type studentRepoStub struct {
	mu        sync.Mutex
	students  []models.Student
	findErr   error
	saveErr   error
	findCalls int
	saves     int
}

func (s *studentRepoStub) FindAll(ctx context.Context) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return models.CloneStudents(s.students), nil
}

func (s *studentRepoStub) Save(ctx context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	s.students = append(s.students, *student)
	return nil
}

func (s *studentRepoStub) Update(ctx context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].ID == student.ID {
			s.students[i] = *student
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *studentRepoStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.students {
		if s.students[i].ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type staffRepoStub struct {
	mu          sync.Mutex
	staff       []models.Staff
	findErr     error
	setAllErr   error
	findCalls   int
	setAllCalls [][]models.Staff
	setAllGate  chan struct{}
	// afterFind runs once, after the next FindAll has read the roster.
	afterFind func()
}

func (s *staffRepoStub) FindAll(ctx context.Context) ([]models.Staff, error) {
	s.mu.Lock()
	s.findCalls++
	if s.findErr != nil {
		s.mu.Unlock()
		return nil, s.findErr
	}
	out := models.CloneStaff(s.staff)
	hook := s.afterFind
	s.afterFind = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (s *staffRepoStub) Save(ctx context.Context, member *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	s.staff = append(s.staff, member.Clone())
	return nil
}

func (s *staffRepoStub) Update(ctx context.Context, member *models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID == member.ID {
			s.staff[i] = member.Clone()
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *staffRepoStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID == id {
			s.staff = append(s.staff[:i], s.staff[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *staffRepoStub) SetAll(ctx context.Context, roster []models.Staff) error {
	if s.setAllGate != nil {
		<-s.setAllGate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setAllCalls = append(s.setAllCalls, models.CloneStaff(roster))
	if s.setAllErr != nil {
		return s.setAllErr
	}
	s.staff = models.CloneStaff(roster)
	return nil
}

type areaRepoStub struct {
	mu    sync.Mutex
	areas []models.CurricularArea
	level string
}

func (s *areaRepoStub) FindAll(ctx context.Context, level string) ([]models.CurricularArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	return models.CloneAreas(s.areas), nil
}

func (s *areaRepoStub) Save(ctx context.Context, area *models.CurricularArea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	area.ID = "area-" + strings.ToLower(area.Name)
	s.areas = append(s.areas, area.Clone())
	return nil
}

type catalogRepoStub struct {
	mu       sync.Mutex
	levels   []models.EducationalLevel
	sections []models.GradeSection
	err      error
}

func (s *catalogRepoStub) FindLevels(ctx context.Context) ([]models.EducationalLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.EducationalLevel(nil), s.levels...), s.err
}

func (s *catalogRepoStub) FindGradeSections(ctx context.Context, level string) ([]models.GradeSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GradeSection(nil), s.sections...), s.err
}

func (s *catalogRepoStub) SaveGradeSection(ctx context.Context, gs *models.GradeSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sections {
		if existing.Grade == gs.Grade && existing.Section == gs.Section {
			return repository.ErrDuplicate
		}
	}
	gs.ID = uuid.NewString()
	s.sections = append(s.sections, *gs)
	return nil
}

func (s *catalogRepoStub) DeleteGradeSection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sections {
		if s.sections[i].ID == id {
			s.sections = append(s.sections[:i], s.sections[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type sessionRepoStub struct {
	mu       sync.Mutex
	sessions []models.LearningSession
}

func (s *sessionRepoStub) FindAll(ctx context.Context) ([]models.LearningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneSessions(s.sessions), nil
}

func (s *sessionRepoStub) Save(ctx context.Context, session *models.LearningSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = uuid.NewString()
	s.sessions = append(s.sessions, *session)
	return nil
}

type gradeRecordRepoStub struct {
	mu      sync.Mutex
	records []models.GradeRecord
}

func (s *gradeRecordRepoStub) FindAll(ctx context.Context) ([]models.GradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneGradeRecords(s.records), nil
}

func (s *gradeRecordRepoStub) Save(ctx context.Context, record *models.GradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = uuid.NewString()
	s.records = append(s.records, *record)
	return nil
}

type loggedEvent struct {
	kind  models.EventKind
	entry interface{}
}

type eventLogStub struct {
	mu       sync.Mutex
	appended []loggedEvent
	err      error
	entries  map[models.EventKind]string
}

func (s *eventLogStub) Append(ctx context.Context, kind models.EventKind, entry interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.appended = append(s.appended, loggedEvent{kind: kind, entry: entry})
	return nil
}

func (s *eventLogStub) List(ctx context.Context, kind models.EventKind, dest interface{}) error {
	if s.err != nil {
		return s.err
	}
	raw, ok := s.entries[kind]
	if !ok {
		raw = "[]"
	}
	return json.Unmarshal([]byte(raw), dest)
}

type cacheRepoStub struct {
	mu       sync.Mutex
	items    map[string][]byte
	deleted  []string
	getCalls int
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{items: map[string][]byte{}}
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	raw, ok := s.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.items[key] = raw
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
	return nil
}

type providerFixture struct {
	provider *DataProvider
	students *studentRepoStub
	staff    *staffRepoStub
	areas    *areaRepoStub
	catalog  *catalogRepoStub
	sessions *sessionRepoStub
	grades   *gradeRecordRepoStub
	log      *eventLogStub
	cache    *cacheRepoStub
}

func newProviderFixture() *providerFixture {
	f := &providerFixture{
		students: &studentRepoStub{students: []models.Student{
			{ID: "s1", DocumentType: "DNI", DocumentNumber: "70000001", Names: "Ana", PaternalSurname: "Quispe", Grade: "3er Grado", Section: "A"},
		}},
		staff: &staffRepoStub{staff: []models.Staff{
			{ID: "t1", Names: "Rosa", Surnames: "Huamán", Role: models.StaffRoleTeacher, Assignments: []models.Assignment{}},
			{ID: "t2", Names: "Luis", Surnames: "Torres", Role: models.StaffRoleTeacher, Assignments: []models.Assignment{}},
		}},
		areas: &areaRepoStub{areas: []models.CurricularArea{
			{ID: "math", Name: "Matemática", Level: "Primaria", Competencies: []models.Competency{}},
			{ID: "com", Name: "Comunicación", Level: "Primaria", Competencies: []models.Competency{}},
		}},
		catalog: &catalogRepoStub{
			levels: []models.EducationalLevel{{ID: "l1", Name: "Primaria"}},
			sections: []models.GradeSection{
				{ID: "gs-3a", Grade: "3er Grado", Section: "A", Level: "Primaria"},
				{ID: "gs-3b", Grade: "3er Grado", Section: "B", Level: "Primaria"},
			},
		},
		sessions: &sessionRepoStub{},
		grades:   &gradeRecordRepoStub{records: []models.GradeRecord{{ID: "g1", StudentID: "s1", Grade: "3er Grado", Section: "A", Period: "I Bimestre", Value: models.GradeA}}},
		log:      &eventLogStub{entries: map[models.EventKind]string{}},
		cache:    newCacheRepoStub(),
	}
	f.provider = NewDataProvider(DataProviderParams{
		Students: f.students,
		Staff:    f.staff,
		Areas:    f.areas,
		Catalog:  f.catalog,
		Sessions: f.sessions,
		Grades:   f.grades,
		Log:      f.log,
		Cache:    NewCacheService(f.cache, nil, time.Minute, nil, true),
		Metrics:  NewMetricsService(),
	})
	f.provider.now = func() time.Time { return time.Date(2024, 4, 15, 13, 0, 0, 0, time.UTC) }
	return f
}

func withCollector() (context.Context, *notify.Collector) {
	collector := notify.NewCollector()
	return notify.WithNotifier(context.Background(), collector), collector
}

func TestDataProviderLoadWaitsForAppConfig(t *testing.T) {
	f := newProviderFixture()
	appConfig := NewAppConfigService(&appConfigRepoStub{cfg: &models.AppConfig{SchoolName: "IE 40001"}}, nil)
	f.provider.ready = appConfig

	ctx, collector := withCollector()
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.False(t, f.provider.Load(short))
	assert.False(t, f.provider.IsLoaded())
	require.Len(t, collector.Items(), 1)
	assert.Equal(t, notify.VariantDestructive, collector.Items()[0].Variant)

	require.NoError(t, appConfig.Init(context.Background()))
	ctx, collector = withCollector()
	require.True(t, f.provider.Load(ctx))
	require.Len(t, collector.Items(), 1)

	state := f.provider.State()
	assert.True(t, state.IsLoaded)
	assert.Len(t, state.Students, 1)
	assert.Len(t, state.Staff, 2)
	assert.Len(t, state.Areas, 2)
	assert.Len(t, state.GradeSections, 2)
	assert.Len(t, state.Grades, 1)
	assert.NotNil(t, state.Sessions)
	assert.False(t, state.Loading[CollectionStudents])
}

func TestDataProviderRefreshFailureKeepsState(t *testing.T) {
	f := newProviderFixture()
	require.True(t, f.provider.RefreshStudents(context.Background()))

	f.students.findErr = errors.New("connection refused")
	ctx, collector := withCollector()
	assert.False(t, f.provider.RefreshStudents(ctx))

	assert.Len(t, f.provider.Students(), 1)
	items := collector.Items()
	require.Len(t, items, 1)
	assert.Equal(t, notify.VariantDestructive, items[0].Variant)
	assert.Equal(t, appErrors.ErrInternal.Code, items[0].Code)
}

func TestDataProviderAddStudentRefreshesRoster(t *testing.T) {
	f := newProviderFixture()
	require.True(t, f.provider.RefreshGradeSections(context.Background()))
	calls := f.students.findCalls

	ctx, collector := withCollector()
	student := &models.Student{DocumentType: "DNI", DocumentNumber: "70000002", Names: "José", PaternalSurname: "Peña", Grade: "3er Grado", Section: "B"}
	require.True(t, f.provider.AddStudent(ctx, student))

	assert.NotEmpty(t, student.ID)
	assert.Equal(t, calls+1, f.students.findCalls)
	assert.Len(t, f.provider.Students(), 2)
	items := collector.Items()
	require.Len(t, items, 1)
	assert.Equal(t, notify.VariantDefault, items[0].Variant)
}

func TestDataProviderAddStudentRejectsUnknownSection(t *testing.T) {
	f := newProviderFixture()
	require.True(t, f.provider.RefreshGradeSections(context.Background()))

	ctx, collector := withCollector()
	ok := f.provider.AddStudent(ctx, &models.Student{DocumentType: "DNI", DocumentNumber: "70000003", Names: "Eva", PaternalSurname: "Salas", Grade: "3er Grado", Section: "Z"})

	assert.False(t, ok)
	assert.Zero(t, f.students.saves)
	require.Len(t, collector.Items(), 1)
	assert.Equal(t, appErrors.ErrUnknownSection.Code, collector.Items()[0].Code)
}

func TestDataProviderAddStudentDuplicate(t *testing.T) {
	f := newProviderFixture()
	f.students.saveErr = repository.ErrDuplicate
	calls := f.students.findCalls

	ctx, collector := withCollector()
	assert.False(t, f.provider.AddStudent(ctx, &models.Student{DocumentType: "DNI", DocumentNumber: "70000001", Names: "Ana", PaternalSurname: "Quispe", Grade: "3er Grado", Section: "A"}))

	assert.Equal(t, calls, f.students.findCalls)
	require.Len(t, collector.Items(), 1)
	assert.Equal(t, appErrors.ErrConflict.Code, collector.Items()[0].Code)
}

func TestDataProviderRosterWritesRequireDocument(t *testing.T) {
	f := newProviderFixture()
	require.True(t, f.provider.RefreshGradeSections(context.Background()))

	ctx, collector := withCollector()
	assert.False(t, f.provider.AddStudent(ctx, &models.Student{Grade: "3er Grado", Section: "A"}))
	assert.Zero(t, f.students.saves)
	require.Len(t, collector.Items(), 1)
	assert.Equal(t, appErrors.ErrValidation.Code, collector.Items()[0].Code)

	ctx, collector = withCollector()
	assert.False(t, f.provider.AddStaff(ctx, &models.Staff{Role: models.StaffRoleTeacher}))
	assert.Len(t, f.staff.staff, 2)
	require.Len(t, collector.Items(), 1)
	assert.Equal(t, appErrors.ErrValidation.Code, collector.Items()[0].Code)

	email := "no-es-correo"
	ctx, collector = withCollector()
	assert.False(t, f.provider.UpdateStaff(ctx, &models.Staff{ID: "t1", DocumentType: "DNI", DocumentNumber: "40000001", Names: "Rosa", Surnames: "Huamán", Email: &email, Role: models.StaffRoleTeacher}))
	assert.Equal(t, appErrors.ErrValidation.Code, collector.Items()[0].Code)
}

func TestDataProviderStaffCache(t *testing.T) {
	f := newProviderFixture()
	ctx := context.Background()

	require.True(t, f.provider.RefreshStaff(ctx))
	require.True(t, f.provider.RefreshStaff(ctx))
	assert.Equal(t, 1, f.staff.findCalls)
	assert.Contains(t, f.cache.items, staffCacheKey)

	member := &models.Staff{DocumentType: "DNI", DocumentNumber: "40000003", Names: "Carmen", Surnames: "Ríos", Role: models.StaffRoleAuxiliary}
	require.True(t, f.provider.AddStaff(ctx, member))
	assert.Equal(t, []string{staffCachePattern}, f.cache.deleted)
	assert.Equal(t, 2, f.staff.findCalls)
	assert.Len(t, f.provider.Staff(), 3)

	require.True(t, f.provider.DeleteStaff(ctx, member.ID))
	assert.Len(t, f.provider.Staff(), 2)
	assert.Len(t, f.cache.deleted, 2)
}

func TestDataProviderStaleRefreshDoesNotRevertWrite(t *testing.T) {
	f := loadedFixture(t)
	f.cache.items = map[string][]byte{}
	started, release := make(chan struct{}), make(chan struct{})
	f.staff.afterFind = func() {
		close(started)
		<-release
	}

	done := make(chan bool)
	go func() { done <- f.provider.RefreshStaff(context.Background()) }()
	<-started
	assert.True(t, f.provider.State().Loading[CollectionStaff])

	renamed := &models.Staff{ID: "t2", Names: "Luis", Surnames: "Renombrado", DocumentType: "DNI", DocumentNumber: "40000002", Role: models.StaffRoleTeacher}
	require.True(t, f.provider.UpdateStaff(context.Background(), renamed))
	assert.True(t, f.provider.State().Loading[CollectionStaff])

	close(release)
	require.True(t, <-done)
	assert.False(t, f.provider.State().Loading[CollectionStaff])

	member, ok := f.provider.StaffByID("t2")
	require.True(t, ok)
	assert.Equal(t, "Renombrado", member.Surnames)
	assert.Contains(t, string(f.cache.items[staffCacheKey]), "Renombrado")

	editor := editorFor(t, f, "t1")
	require.True(t, editor.ToggleTutor(context.Background(), "3er Grado", "A", true))
	require.True(t, editor.Save(context.Background()))
	roster := f.staff.setAllCalls[len(f.staff.setAllCalls)-1]
	for _, s := range roster {
		if s.ID == "t2" {
			assert.Equal(t, "Renombrado", s.Surnames)
		}
	}
}

func TestDataProviderUpdateStaffMissingAndStaffSaved(t *testing.T) {
	f := newProviderFixture()
	ctx, collector := withCollector()

	assert.False(t, f.provider.UpdateStaff(ctx, &models.Staff{ID: "nope", DocumentType: "DNI", DocumentNumber: "40000009", Names: "X", Surnames: "Y", Role: models.StaffRoleTeacher}))
	require.Len(t, collector.Items(), 1)
	assert.Equal(t, appErrors.ErrNotFound.Code, collector.Items()[0].Code)
	assert.Empty(t, f.cache.deleted)

	ctx, collector = withCollector()
	f.provider.StaffSaved(ctx, models.Staff{ID: "t1"})
	assert.Empty(t, collector.Items())
	assert.Equal(t, []string{staffCachePattern}, f.cache.deleted)
	assert.Len(t, f.provider.Staff(), 2)
}

func TestDataProviderAddStaffRejectsUnknownRole(t *testing.T) {
	f := newProviderFixture()
	ctx, collector := withCollector()
	assert.False(t, f.provider.AddStaff(ctx, &models.Staff{DocumentType: "DNI", DocumentNumber: "40000010", Names: "X", Surnames: "Y", Role: "Portero"}))
	assert.Equal(t, appErrors.ErrValidation.Code, collector.Items()[0].Code)
}

func TestDataProviderRecordAttendanceNormalizesStatus(t *testing.T) {
	f := newProviderFixture()
	calls := f.students.findCalls

	ctx, collector := withCollector()
	ok := f.provider.RecordAttendance(ctx, AttendanceInput{
		StudentID: "s1", Grade: "3er Grado", Section: "A", Status: " PRESENTE ", ActorID: "t1",
	})
	require.True(t, ok)

	require.Len(t, f.log.appended, 1)
	assert.Equal(t, models.EventAttendance, f.log.appended[0].kind)
	record := f.log.appended[0].entry.(models.AttendanceRecord)
	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.Equal(t, "2024-04-15", record.Date)
	assert.Equal(t, calls, f.students.findCalls)
	assert.Len(t, f.provider.State().Attendance, 1)
	assert.Len(t, collector.Items(), 1)
}

func TestDataProviderRecordAttendanceRejectsUnknownStatus(t *testing.T) {
	f := newProviderFixture()
	ctx, collector := withCollector()
	assert.False(t, f.provider.RecordAttendance(ctx, AttendanceInput{
		StudentID: "s1", Grade: "3er Grado", Section: "A", Status: "dormido", ActorID: "t1",
	}))
	assert.Empty(t, f.log.appended)
	assert.Equal(t, appErrors.ErrValidation.Code, collector.Items()[0].Code)
}

func TestDataProviderRecordPermitDateOrder(t *testing.T) {
	f := newProviderFixture()
	ctx, collector := withCollector()
	assert.False(t, f.provider.RecordPermit(ctx, PermitInput{
		StudentID: "s1", Grade: "3er Grado", Section: "A", StartDate: "2024-04-20", EndDate: "2024-04-18", Reason: "Salud", ActorID: "t1",
	}))
	assert.Empty(t, f.log.appended)
	assert.Len(t, collector.Items(), 1)

	ctx, _ = withCollector()
	require.True(t, f.provider.RecordPermit(ctx, PermitInput{
		StudentID: "s1", Grade: "3er Grado", Section: "A", StartDate: "2024-04-18", EndDate: "2024-04-20", Reason: "Salud", ActorID: "t1",
	}))
	assert.Equal(t, models.EventPermit, f.log.appended[0].kind)
}

func TestDataProviderRecordIncidentLogFailure(t *testing.T) {
	f := newProviderFixture()
	f.log.err = context.DeadlineExceeded
	ctx, collector := withCollector()
	assert.False(t, f.provider.RecordIncident(ctx, IncidentInput{
		StudentID: "s1", Grade: "3er Grado", Section: "A", Type: "Conducta", Description: "Pelea en el recreo", ActorID: "t1",
	}))
	assert.Empty(t, f.provider.State().Incidents)
	assert.Equal(t, appErrors.ErrUpstream.Code, collector.Items()[0].Code)
}

func TestDataProviderRefreshTransactional(t *testing.T) {
	f := newProviderFixture()
	f.log.entries[models.EventIncident] = `[{"id":"i1","studentId":"s1","tipo":"conducta"}]`

	require.True(t, f.provider.RefreshIncidents(context.Background()))
	assert.Len(t, f.provider.State().Incidents, 1)

	f.provider.log = nil
	ctx, collector := withCollector()
	assert.False(t, f.provider.RefreshPermits(ctx))
	assert.Equal(t, appErrors.ErrUnavailable.Code, collector.Items()[0].Code)
}

func TestDataProviderRefreshAreasByLevel(t *testing.T) {
	f := newProviderFixture()
	require.True(t, f.provider.RefreshAreas(context.Background(), "Primaria"))
	assert.Equal(t, "Primaria", f.areas.level)
	assert.Len(t, f.provider.Areas(), 2)
}

func TestDataProviderStateIsDeepCopy(t *testing.T) {
	f := newProviderFixture()
	f.staff.staff[0].Assignments = []models.Assignment{{ID: "a1", Grade: "3er Grado", Section: "A", Role: models.AssignmentRoleTutor}}
	require.True(t, f.provider.RefreshStaff(context.Background()))

	state := f.provider.State()
	state.Staff[0].Assignments[0].Role = models.AssignmentRoleTeacher
	state.Loading[CollectionStaff] = true

	member, ok := f.provider.StaffByID("t1")
	require.True(t, ok)
	assert.Equal(t, models.AssignmentRoleTutor, member.Assignments[0].Role)
	assert.False(t, f.provider.State().Loading[CollectionStaff])
}

func TestParseCollection(t *testing.T) {
	c, ok := ParseCollection("personal")
	assert.True(t, ok)
	assert.Equal(t, CollectionStaff, c)
	_, ok = ParseCollection("docentes")
	assert.False(t, ok)
}
