// Package iodb implements database connections for SQLite and
// PostgreSQL. This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/dictmatrix/pkg/config"
	"github.com/gnames/dictmatrix/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// registers the pure Go "sqlite" driver
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas make a file database usable by several processes.
const sqlitePragmas = "_pragma=busy_timeout(5000)" +
	"&_pragma=journal_mode(WAL)" +
	"&_pragma=foreign_keys(1)"

// operator implements db.Operator interface. PostgreSQL connections use
// a pgxpool, SQLite connections use the modernc driver.
type operator struct {
	driver string
	pool   *pgxpool.Pool
	sqlDB  *sql.DB
	gdb    *gorm.DB
}

// NewOperator creates a new database operator
// (without connecting).
func NewOperator() db.Operator {
	return &operator{}
}

// Connect opens the configured database and wraps it with GORM.
func (o *operator) Connect(ctx context.Context, cfg *config.Config) error {
	var err error
	switch cfg.Database.Driver {
	case DriverPostgres:
		err = o.connectPostgres(ctx, &cfg.Database)
	case DriverSQLite, "":
		err = o.connectSQLite(ctx, cfg.DatabasePath())
	default:
		return UnknownDriverError(cfg.Database.Driver)
	}
	if err != nil {
		return err
	}
	slog.Debug("Connected to database", "driver", o.driver)
	return nil
}

func (o *operator) connectPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)
	target := fmt.Sprintf("%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(DriverPostgres, target, err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(DriverPostgres, target, err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(DriverPostgres, target, err)
	}

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}),
		gormConfig(),
	)
	if err != nil {
		pool.Close()
		return ConnectionError(DriverPostgres, target, err)
	}

	o.driver = DriverPostgres
	o.pool = pool
	o.gdb = gdb
	return nil
}

func (o *operator) connectSQLite(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ConnectionError(DriverSQLite, path, err)
	}

	sqlDB, err := sql.Open(DriverSQLite, "file:"+path+"?"+sqlitePragmas)
	if err != nil {
		return ConnectionError(DriverSQLite, path, err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return ConnectionError(DriverSQLite, path, err)
	}

	gdb, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: DriverSQLite, Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		sqlDB.Close()
		return ConnectionError(DriverSQLite, path, err)
	}

	o.driver = DriverSQLite
	o.sqlDB = sqlDB
	o.gdb = gdb
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
}

// Close releases all database connections.
func (o *operator) Close() error {
	if o.pool != nil {
		o.pool.Close()
		o.pool = nil
	}
	if o.sqlDB != nil {
		err := o.sqlDB.Close()
		o.sqlDB = nil
		return err
	}
	return nil
}

// GORM returns the GORM handle of the connected database.
func (o *operator) GORM() *gorm.DB {
	return o.gdb
}

// Driver returns the name of the connected backend.
func (o *operator) Driver() string {
	return o.driver
}

// TableExists checks if a table exists in the current
// database.
func (o *operator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if o.gdb == nil {
		return false, NotConnectedError()
	}
	return o.gdb.WithContext(ctx).Migrator().HasTable(tableName), nil
}

// HasTables checks if the database has any tables.
func (o *operator) HasTables(
	ctx context.Context,
) (bool, error) {
	tables, err := o.tables(ctx)
	if err != nil {
		return false, err
	}
	return len(tables) > 0, nil
}

// DropAllTables drops all tables of the database.
func (o *operator) DropAllTables(ctx context.Context) error {
	tables, err := o.tables(ctx)
	if err != nil {
		return err
	}

	for _, table := range tables {
		if o.pool != nil {
			// CASCADE removes dependent objects
			q := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)
			if _, err = o.pool.Exec(ctx, q); err != nil {
				return DropTableError(table, err)
			}
			continue
		}
		if err = o.gdb.WithContext(ctx).Migrator().DropTable(table); err != nil {
			return DropTableError(table, err)
		}
	}
	slog.Info("Dropped tables", "count", len(tables))
	return nil
}

func (o *operator) tables(ctx context.Context) ([]string, error) {
	if o.gdb == nil {
		return nil, NotConnectedError()
	}
	tables, err := o.gdb.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, QueryTablesError(err)
	}
	return tables, nil
}
