package db

import (
	"context"

	"github.com/gnames/dictmatrix/pkg/config"
	"gorm.io/gorm"
)

// Operator manages the connection to the job and entry store. It hides
// the difference between SQLite and PostgreSQL backends and exposes
// a GORM handle for the store and the schema manager.
type Operator interface {
	// Connect opens the database described by the configuration.
	Connect(context.Context, *config.Config) error

	// Close closes the database connection.
	Close() error

	// GORM returns the connected GORM handle, or nil before Connect.
	GORM() *gorm.DB

	// Driver returns the name of the connected backend.
	Driver() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables.
	// Used during schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
