package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/YasmaniJob/beeclass/internal/models"
)

const (
	staffColumns      = "id, document_type, document_number, names, surnames, email, phone, role, created_at, updated_at"
	assignmentColumns = "id, staff_id, grade_section_id, grade, section, role, area_id, weekly_hours"
)

// StaffRepository persists staff members and their section assignments.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// FindAll returns the whole roster with assignments attached.
func (r *StaffRepository) FindAll(ctx context.Context) ([]models.Staff, error) {
	staff := []models.Staff{}
	if err := r.db.SelectContext(ctx, &staff, "SELECT "+staffColumns+" FROM staff ORDER BY surnames, names"); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, "SELECT "+assignmentColumns+" FROM staff_assignments ORDER BY grade, section, area_id NULLS FIRST"); err != nil {
		return nil, fmt.Errorf("list staff assignments: %w", err)
	}

	byStaff := make(map[string][]models.Assignment, len(staff))
	for _, a := range assignments {
		byStaff[a.StaffID] = append(byStaff[a.StaffID], a)
	}
	for i := range staff {
		staff[i].Assignments = byStaff[staff[i].ID]
		if staff[i].Assignments == nil {
			staff[i].Assignments = []models.Assignment{}
		}
	}
	return staff, nil
}

// Save inserts a staff member and its assignments.
func (r *StaffRepository) Save(ctx context.Context, member *models.Staff) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	return r.inTx(ctx, "create staff", func(tx *sqlx.Tx) error {
		const query = `INSERT INTO staff (id, document_type, document_number, names, surnames, email, phone, role, created_at, updated_at)
        VALUES (:id, :document_type, :document_number, :names, :surnames, :email, :phone, :role, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, member); err != nil {
			return err
		}
		return insertAssignments(ctx, tx, member)
	})
}

// Update rewrites a staff member's profile and replaces its assignments.
func (r *StaffRepository) Update(ctx context.Context, member *models.Staff) error {
	member.UpdatedAt = time.Now().UTC()
	return r.inTx(ctx, "update staff", func(tx *sqlx.Tx) error {
		const query = `UPDATE staff SET document_type = :document_type, document_number = :document_number, names = :names,
        surnames = :surnames, email = :email, phone = :phone, role = :role, updated_at = :updated_at WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, query, member)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM staff_assignments WHERE staff_id = $1", member.ID); err != nil {
			return err
		}
		return insertAssignments(ctx, tx, member)
	})
}

// Delete removes a staff member and its assignments.
func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, "delete staff", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM staff_assignments WHERE staff_id = $1", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM staff WHERE id = $1", id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// SetAll upserts every staff row of the roster and replaces all of their assignments in a single
// transaction. Staff absent from the roster are left untouched.
func (r *StaffRepository) SetAll(ctx context.Context, roster []models.Staff) error {
	if len(roster) == 0 {
		return nil
	}
	now := time.Now().UTC()
	ids := make([]string, 0, len(roster))
	for i := range roster {
		if roster[i].ID == "" {
			roster[i].ID = uuid.NewString()
		}
		if roster[i].CreatedAt.IsZero() {
			roster[i].CreatedAt = now
		}
		roster[i].UpdatedAt = now
		ids = append(ids, roster[i].ID)
	}

	return r.inTx(ctx, "set staff roster", func(tx *sqlx.Tx) error {
		const upsert = `INSERT INTO staff (id, document_type, document_number, names, surnames, email, phone, role, created_at, updated_at)
        VALUES (:id, :document_type, :document_number, :names, :surnames, :email, :phone, :role, :created_at, :updated_at)
        ON CONFLICT (id) DO UPDATE SET document_type = EXCLUDED.document_type, document_number = EXCLUDED.document_number,
        names = EXCLUDED.names, surnames = EXCLUDED.surnames, email = EXCLUDED.email, phone = EXCLUDED.phone,
        role = EXCLUDED.role, updated_at = EXCLUDED.updated_at`
		for i := range roster {
			if _, err := tx.NamedExecContext(ctx, upsert, &roster[i]); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM staff_assignments WHERE staff_id = ANY($1)", pq.Array(ids)); err != nil {
			return err
		}
		for i := range roster {
			if err := insertAssignments(ctx, tx, &roster[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *StaffRepository) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", op, err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	commit = true
	return nil
}

func insertAssignments(ctx context.Context, tx *sqlx.Tx, member *models.Staff) error {
	const query = `INSERT INTO staff_assignments (id, staff_id, grade_section_id, grade, section, role, area_id, weekly_hours)
        VALUES (:id, :staff_id, :grade_section_id, :grade, :section, :role, :area_id, :weekly_hours)`
	for i := range member.Assignments {
		a := &member.Assignments[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.StaffID = member.ID
		if _, err := tx.NamedExecContext(ctx, query, a); err != nil {
			return err
		}
	}
	return nil
}
