package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
)

type editorProvider interface {
	rosterSource
	StaffByID(id string) (models.Staff, bool)
	StaffSaved(ctx context.Context, member models.Staff)
}

// EditorSessionsParams groups dependencies for EditorSessions.
type EditorSessionsParams struct {
	Provider editorProvider
	Writer   rosterWriter
	Metrics  *MetricsService
	Logger   *zap.Logger
	TTL      time.Duration
}

type editorSession struct {
	editor   *AssignmentEditor
	lastSeen time.Time
}

// EditorSessions keeps open assignment editors addressable by an opaque ID. A session expires
// after TTL without being touched.
type EditorSessions struct {
	provider editorProvider
	writer   rosterWriter
	metrics  *MetricsService
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	items map[string]*editorSession
}

// NewEditorSessions constructs an empty session store.
func NewEditorSessions(params EditorSessionsParams) *EditorSessions {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &EditorSessions{
		provider: params.Provider,
		writer:   params.Writer,
		metrics:  params.Metrics,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*editorSession),
	}
}

// Open starts an editor over the provider's current copy of the staff member.
func (s *EditorSessions) Open(staffID string) (string, *AssignmentEditor, error) {
	member, ok := s.provider.StaffByID(staffID)
	if !ok {
		return "", nil, appErrors.Clone(appErrors.ErrNotFound, "el miembro del personal no existe")
	}
	editor := NewAssignmentEditor(member, s.provider, s.writer, s.provider.StaffSaved, s.metrics, s.logger)
	id := uuid.NewString()

	s.mu.Lock()
	s.items[id] = &editorSession{editor: editor, lastSeen: s.now()}
	count := len(s.items)
	s.mu.Unlock()

	s.metrics.SetEditorSessions(count)
	s.logger.Debug("assignment editor opened", zap.String("session_id", id), zap.String("staff_id", staffID))
	return id, editor, nil
}

// Get returns the editor for id and extends its lifetime.
func (s *EditorSessions) Get(id string) (*AssignmentEditor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "la sesión de edición no existe o expiró")
	}
	now := s.now()
	if now.Sub(session.lastSeen) > s.ttl {
		delete(s.items, id)
		s.metrics.SetEditorSessions(len(s.items))
		return nil, appErrors.Clone(appErrors.ErrNotFound, "la sesión de edición no existe o expiró")
	}
	session.lastSeen = now
	return session.editor, nil
}

// Save saves the editor behind id and drops the session once the editor closed.
func (s *EditorSessions) Save(ctx context.Context, id string) (*AssignmentEditor, bool, error) {
	editor, err := s.Get(id)
	if err != nil {
		return nil, false, err
	}
	ok := editor.Save(ctx)
	if editor.Closed() {
		s.Close(id)
	}
	return editor, ok, nil
}

// Close discards a session, saved or not.
func (s *EditorSessions) Close(id string) bool {
	s.mu.Lock()
	_, ok := s.items[id]
	delete(s.items, id)
	count := len(s.items)
	s.mu.Unlock()
	s.metrics.SetEditorSessions(count)
	return ok
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *EditorSessions) Sweep() int {
	s.mu.Lock()
	now := s.now()
	removed := 0
	for id, session := range s.items {
		if now.Sub(session.lastSeen) > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	count := len(s.items)
	s.mu.Unlock()

	s.metrics.SetEditorSessions(count)
	if removed > 0 {
		s.logger.Info("expired assignment editors removed", zap.Int("count", removed))
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *EditorSessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
