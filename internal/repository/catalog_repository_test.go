package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YasmaniJob/beeclass/internal/models"
)

func TestCatalogRepositoryFindGradeSections(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, grade, section, level FROM grade_sections WHERE level = $1 ORDER BY level, grade, section")).
		WithArgs("Primaria").
		WillReturnRows(sqlmock.NewRows([]string{"id", "grade", "section", "level"}).
			AddRow("gs1", "3er Grado", "A", "Primaria").
			AddRow("gs2", "3er Grado", "B", "Primaria"))

	sections, err := repo.FindGradeSections(context.Background(), "Primaria")
	require.NoError(t, err)
	assert.Len(t, sections, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryFindLevels(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM educational_levels")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("l1", "Primaria"))

	levels, err := repo.FindLevels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.EducationalLevel{{ID: "l1", Name: "Primaria"}}, levels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositorySaveDuplicate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectExec("INSERT INTO grade_sections").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.SaveGradeSection(context.Background(), &models.GradeSection{Grade: "3er Grado", Section: "A", Level: "Primaria"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryDeleteGradeSection(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grade_sections WHERE id = $1")).
		WithArgs("gs-3a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grade_sections WHERE id = $1")).
		WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteGradeSection(context.Background(), "gs-3a"))
	assert.ErrorIs(t, repo.DeleteGradeSection(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
