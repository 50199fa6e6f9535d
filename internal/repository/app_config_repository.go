package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/YasmaniJob/beeclass/internal/models"
)

// App setting keys.
const (
	SettingSchoolName    = "school_name"
	SettingAcademicYear  = "academic_year"
	SettingEnabledLevels = "enabled_levels"
)

// AppConfigRepository reads institution-wide settings.
type AppConfigRepository struct {
	db *sqlx.DB
}

// NewAppConfigRepository constructs an AppConfigRepository.
func NewAppConfigRepository(db *sqlx.DB) *AppConfigRepository {
	return &AppConfigRepository{db: db}
}

// Load assembles the app configuration from key/value rows. Unknown keys are ignored.
func (r *AppConfigRepository) Load(ctx context.Context) (*models.AppConfig, error) {
	var settings []models.AppSetting
	if err := r.db.SelectContext(ctx, &settings, "SELECT key, value FROM app_settings"); err != nil {
		return nil, fmt.Errorf("load app settings: %w", err)
	}
	cfg := &models.AppConfig{EnabledLevels: []string{}}
	for _, s := range settings {
		switch s.Key {
		case SettingSchoolName:
			cfg.SchoolName = s.Value
		case SettingAcademicYear:
			cfg.AcademicYear = s.Value
		case SettingEnabledLevels:
			for _, level := range strings.Split(s.Value, ",") {
				if level = strings.TrimSpace(level); level != "" {
					cfg.EnabledLevels = append(cfg.EnabledLevels, level)
				}
			}
		}
	}
	return cfg, nil
}
