package models

// AppConfig holds institution-wide settings the rest of the data depends on.
type AppConfig struct {
	SchoolName    string   `json:"schoolName"`
	AcademicYear  string   `json:"academicYear"`
	EnabledLevels []string `json:"enabledLevels"`
}

// AppSetting is a single row of the app_settings table.
type AppSetting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}
