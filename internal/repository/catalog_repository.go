package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YasmaniJob/beeclass/internal/models"
)

// CatalogRepository serves educational levels and the grade/section catalog.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindLevels lists educational levels in their configured order.
func (r *CatalogRepository) FindLevels(ctx context.Context) ([]models.EducationalLevel, error) {
	levels := []models.EducationalLevel{}
	if err := r.db.SelectContext(ctx, &levels, "SELECT id, name FROM educational_levels ORDER BY position, name"); err != nil {
		return nil, fmt.Errorf("list educational levels: %w", err)
	}
	return levels, nil
}

// FindGradeSections lists the catalog, optionally restricted to one level.
func (r *CatalogRepository) FindGradeSections(ctx context.Context, level string) ([]models.GradeSection, error) {
	builder := psql.Select("id", "grade", "section", "level").From("grade_sections")
	if level != "" {
		builder = builder.Where(sq.Eq{"level": level})
	}
	sections := []models.GradeSection{}
	if err := selectBuilt(ctx, r.db, &sections, builder.OrderBy("level", "grade", "section")); err != nil {
		return nil, fmt.Errorf("list grade sections: %w", err)
	}
	return sections, nil
}

// SaveGradeSection adds a (grade, section) pair to the catalog.
func (r *CatalogRepository) SaveGradeSection(ctx context.Context, gs *models.GradeSection) error {
	if gs.ID == "" {
		gs.ID = uuid.NewString()
	}
	const query = `INSERT INTO grade_sections (id, grade, section, level) VALUES (:id, :grade, :section, :level)`
	if _, err := r.db.NamedExecContext(ctx, query, gs); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create grade section: %w", err)
	}
	return nil
}

// DeleteGradeSection removes a pair from the catalog.
func (r *CatalogRepository) DeleteGradeSection(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM grade_sections WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete grade section: %w", err)
	}
	return requireAffected(res)
}
