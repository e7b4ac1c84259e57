// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/gnames/dictmatrix/internal/ioconfig"
	"github.com/gnames/dictmatrix/internal/iodb"
	"github.com/gnames/dictmatrix/internal/iofs"
	"github.com/gnames/dictmatrix/internal/ioschema"
	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/gnames/dictmatrix/pkg/db"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "dictmatrix_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// HomeDir points to a temporary directory, PostgreSQL settings can be
// given with DICTMATRIX_DATABASE_* environment variables. The database
// name is always TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig(t)
//	    // ... use cfg for database operations
//	}
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()
	home := t.TempDir()
	if err := iofs.EnsureDirs(home); err != nil {
		t.Fatalf("Failed to create test directories: %v", err)
	}

	cfg := config.New()
	var opts []config.Option
	if s := env("database.host"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := env("database.port"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if s := env("database.user"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := env("database.password"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	if s := env("database.ssl_mode"); s != "" {
		opts = append(opts, config.OptDatabaseSSLMode(s))
	}
	opts = append(opts,
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptHomeDir(home),
	)
	cfg.Update(opts)
	return cfg
}

func env(key string) string {
	return os.Getenv(ioconfig.EnvName(key))
}

// OpenSQLite connects to a fresh SQLite database in a temporary
// directory and creates the schema. The connection is closed when the
// test finishes.
func OpenSQLite(t *testing.T) (db.Operator, *config.Config) {
	t.Helper()
	ctx := context.Background()
	cfg := GetTestConfig(t)
	cfg.Update([]config.Option{config.OptDatabaseDriver(iodb.DriverSQLite)})

	op := iodb.NewOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		t.Fatalf("Failed to open SQLite database: %v", err)
	}
	t.Cleanup(func() { _ = op.Close() })

	if err := ioschema.NewManager(op).Create(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return op, cfg
}
