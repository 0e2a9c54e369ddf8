package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/labgrade/internal/log"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migrator applies the grade history schema.
type Migrator struct {
	db     *sql.DB
	logger log.Logger
}

// NewMigrator creates a new migrator instance.
func NewMigrator(db *sql.DB, logger log.Logger) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = log.Noop
	}

	return &Migrator{
		db:     db,
		logger: logger.WithValues(log.Kv{"svc": "storage.SQLiteMigrator"}),
	}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "apply", "applied", (*migrate.Migrate).Up)
}

// Down reverts every applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "revert", "reverted", (*migrate.Migrate).Down)
}

// Version returns the current schema version, false when no migration has been applied.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	var (
		version uint
		ok      bool
	)
	err := m.with(ctx, func(inst *migrate.Migrate) error {
		v, dirty, err := inst.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not get schema version: %w", err)
		}
		if dirty {
			return fmt.Errorf("schema version %d is dirty", v)
		}
		version, ok = v, true
		return nil
	})

	return version, ok, err
}

func (m *Migrator) run(ctx context.Context, action, done string, fn func(*migrate.Migrate) error) error {
	return m.with(ctx, func(inst *migrate.Migrate) error {
		err := fn(inst)
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Debugf("Schema up to date, nothing to %s", action)
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not %s migrations: %w", action, err)
		}

		m.logger.Debugf("Migrations %s successfully", done)
		return nil
	})
}

// with runs fn with a migrate instance over the embedded migrations.
func (m *Migrator) with(ctx context.Context, fn func(*migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	driver, err := sqlite3.WithInstance(m.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return fmt.Errorf("could not create fs: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			m.logger.Errorf("could not close fs: %s", err)
		}
	}()

	inst, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	return fn(inst)
}
