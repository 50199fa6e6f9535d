package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YasmaniJob/beeclass/internal/models"
)

// GradeRecordRepository persists competency grades.
type GradeRecordRepository struct {
	db *sqlx.DB
}

// NewGradeRecordRepository constructs a GradeRecordRepository.
func NewGradeRecordRepository(db *sqlx.DB) *GradeRecordRepository {
	return &GradeRecordRepository{db: db}
}

// FindAll lists every grade, most recent first.
func (r *GradeRecordRepository) FindAll(ctx context.Context) ([]models.GradeRecord, error) {
	builder := psql.Select("id", "student_id", "session_id", "competency_id", "grade", "section", "period", "value", "actor_id", "created_at").
		From("grade_records").
		OrderBy("created_at DESC")

	records := []models.GradeRecord{}
	if err := selectBuilt(ctx, r.db, &records, builder); err != nil {
		return nil, fmt.Errorf("list grade records: %w", err)
	}
	return records, nil
}

// Save inserts a grade. One value per student, competency and period.
func (r *GradeRecordRepository) Save(ctx context.Context, record *models.GradeRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO grade_records (id, student_id, session_id, competency_id, grade, section, period, value, actor_id, created_at)
        VALUES (:id, :student_id, :session_id, :competency_id, :grade, :section, :period, :value, :actor_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create grade record: %w", err)
	}
	return nil
}
