package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YasmaniJob/beeclass/internal/models"
)

// AreaRepository reads and writes curricular areas with their competencies and capacities.
type AreaRepository struct {
	db *sqlx.DB
}

// NewAreaRepository constructs an AreaRepository.
func NewAreaRepository(db *sqlx.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// FindAll returns areas of level (all levels when empty) with ordered competencies and capacities.
func (r *AreaRepository) FindAll(ctx context.Context, level string) ([]models.CurricularArea, error) {
	areaQuery := psql.Select("id", "name", "level").From("curricular_areas").OrderBy("level", "name")
	competencyQuery := psql.Select("c.id", "c.area_id", "c.name", "c.position").
		From("competencies c").
		Join("curricular_areas a ON a.id = c.area_id").
		OrderBy("c.area_id", "c.position")
	capacityQuery := psql.Select("cp.id", "cp.competency_id", "cp.description", "cp.position").
		From("capacities cp").
		Join("competencies c ON c.id = cp.competency_id").
		Join("curricular_areas a ON a.id = c.area_id").
		OrderBy("cp.competency_id", "cp.position")
	if level != "" {
		areaQuery = areaQuery.Where(sq.Eq{"level": level})
		competencyQuery = competencyQuery.Where(sq.Eq{"a.level": level})
		capacityQuery = capacityQuery.Where(sq.Eq{"a.level": level})
	}

	areas := []models.CurricularArea{}
	if err := selectBuilt(ctx, r.db, &areas, areaQuery); err != nil {
		return nil, fmt.Errorf("list curricular areas: %w", err)
	}
	var competencies []models.Competency
	if err := selectBuilt(ctx, r.db, &competencies, competencyQuery); err != nil {
		return nil, fmt.Errorf("list competencies: %w", err)
	}
	var capacities []models.Capacity
	if err := selectBuilt(ctx, r.db, &capacities, capacityQuery); err != nil {
		return nil, fmt.Errorf("list capacities: %w", err)
	}

	byCompetency := make(map[string][]models.Capacity)
	for _, cp := range capacities {
		byCompetency[cp.CompetencyID] = append(byCompetency[cp.CompetencyID], cp)
	}
	byArea := make(map[string][]models.Competency)
	for _, c := range competencies {
		c.Capacities = byCompetency[c.ID]
		if c.Capacities == nil {
			c.Capacities = []models.Capacity{}
		}
		byArea[c.AreaID] = append(byArea[c.AreaID], c)
	}
	for i := range areas {
		areas[i].Competencies = byArea[areas[i].ID]
		if areas[i].Competencies == nil {
			areas[i].Competencies = []models.Competency{}
		}
	}
	return areas, nil
}

// Save inserts an area together with its competencies and capacities. Positions follow slice order.
func (r *AreaRepository) Save(ctx context.Context, area *models.CurricularArea) error {
	if area.ID == "" {
		area.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create area: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "INSERT INTO curricular_areas (id, name, level) VALUES ($1, $2, $3)", area.ID, area.Name, area.Level); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create area: %w", err)
	}
	for i := range area.Competencies {
		c := &area.Competencies[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.AreaID = area.ID
		c.Position = i + 1
		if _, err := tx.ExecContext(ctx, "INSERT INTO competencies (id, area_id, name, position) VALUES ($1, $2, $3, $4)", c.ID, c.AreaID, c.Name, c.Position); err != nil {
			return fmt.Errorf("create competency: %w", err)
		}
		for j := range c.Capacities {
			cp := &c.Capacities[j]
			if cp.ID == "" {
				cp.ID = uuid.NewString()
			}
			cp.CompetencyID = c.ID
			cp.Position = j + 1
			if _, err := tx.ExecContext(ctx, "INSERT INTO capacities (id, competency_id, description, position) VALUES ($1, $2, $3, $4)", cp.ID, cp.CompetencyID, cp.Description, cp.Position); err != nil {
				return fmt.Errorf("create capacity: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create area: %w", err)
	}
	commit = true
	return nil
}

func selectBuilt(ctx context.Context, db *sqlx.DB, dest interface{}, builder sq.SelectBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, query, args...)
}
