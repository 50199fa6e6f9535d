package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YasmaniJob/beeclass/internal/models"
)

const studentColumns = "id, document_type, document_number, names, paternal_surname, maternal_surname, grade, section, special_needs, special_needs_description, created_at, updated_at"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindAll returns every student ordered by grade, section and surnames.
func (r *StudentRepository) FindAll(ctx context.Context) ([]models.Student, error) {
	builder := psql.Select(studentColumns).From("students").
		OrderBy("grade", "section", "paternal_surname", "maternal_surname", "names")

	students := []models.Student{}
	if err := selectBuilt(ctx, r.db, &students, builder); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Save inserts a new student, assigning an ID when missing.
func (r *StudentRepository) Save(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, document_type, document_number, names, paternal_surname, maternal_surname, grade, section, special_needs, special_needs_description, created_at, updated_at)
        VALUES (:id, :document_type, :document_number, :names, :paternal_surname, :maternal_surname, :grade, :section, :special_needs, :special_needs_description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student. A missing row yields sql.ErrNoRows.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET document_type = :document_type, document_number = :document_number, names = :names,
        paternal_surname = :paternal_surname, maternal_surname = :maternal_surname, grade = :grade, section = :section,
        special_needs = :special_needs, special_needs_description = :special_needs_description, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a student. A missing row yields sql.ErrNoRows.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
