package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YasmaniJob/beeclass/internal/models"
)

// SessionRepository persists learning sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// FindAll returns every learning session, most recent first.
func (r *SessionRepository) FindAll(ctx context.Context) ([]models.LearningSession, error) {
	sessions := []models.LearningSession{}
	const query = `SELECT id, title, area_id, competency_id, grade, section, staff_id, date, created_at FROM learning_sessions ORDER BY date DESC, created_at DESC`
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list learning sessions: %w", err)
	}
	return sessions, nil
}

// Save inserts a learning session.
func (r *SessionRepository) Save(ctx context.Context, session *models.LearningSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO learning_sessions (id, title, area_id, competency_id, grade, section, staff_id, date, created_at)
        VALUES (:id, :title, :area_id, :competency_id, :grade, :section, :staff_id, :date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create learning session: %w", err)
	}
	return nil
}
