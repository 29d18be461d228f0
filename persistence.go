package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Driver names a supported store backend
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// IsValid reports whether d is a supported driver
func (d Driver) IsValid() bool {
	switch d {
	case DriverSQLite, DriverPostgres:
		return true
	default:
		return false
	}
}

// OpenDB opens a bun database for the given driver and DSN
func OpenDB(driver Driver, dsn string) (*bun.DB, error) {
	switch driver {
	case DriverSQLite:
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// every connection to :memory: is a separate database
		if isMemoryDSN(dsn) {
			sqldb.SetMaxOpenConns(1)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres:
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// goose keeps its base FS, dialect and logger in package globals
var gooseMu sync.Mutex

// Migrate applies the embedded migrations for the database dialect
func Migrate(ctx context.Context, db *bun.DB, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	var gooseDialect, dir string
	switch db.Dialect().Name() {
	case dialect.SQLite:
		gooseDialect, dir = "sqlite3", "data/sql/migrations/sqlite"
	case dialect.PG:
		gooseDialect, dir = "postgres", "data/sql/migrations/postgres"
	default:
		return fmt.Errorf("no migrations for dialect %s", db.Dialect().Name())
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{logger: logger})

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

// gooseLogger routes goose output through Logger
type gooseLogger struct {
	logger Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf is reported as an error; the failing migration is returned to the caller by UpContext
func (g gooseLogger) Fatalf(format string, v ...any) {
	g.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
