package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&Dictionary{},
		&Entry{},
		&ImportJob{},
		&LinkingJob{},
	}
}

// TableNames returns names of all tables in the order of AllModels.
func TableNames() []string {
	return []string{
		"dictionaries",
		"entries",
		"import_jobs",
		"linking_jobs",
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
