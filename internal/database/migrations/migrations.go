package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/uptrace/bun"

	"my-calendar/internal/logger"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Runner applies the embedded schema migrations for one dialect.
type Runner struct {
	bunDB    *bun.DB
	driver   string
	logger   *logger.Logger
	migrator *migrate.Migrate
}

// NewRunner creates a runner for driver, which is "sqlite" or "postgres".
func NewRunner(bunDB *bun.DB, driver string, log *logger.Logger) *Runner {
	return &Runner{
		bunDB:  bunDB,
		driver: driver,
		logger: log,
	}
}

// Initialize prepares the migration system
func (r *Runner) Initialize() error {
	sqlDB := r.bunDB.DB

	var (
		dbDriver database.Driver
		err      error
	)
	switch r.driver {
	case "sqlite":
		dbDriver, err = sqlite.WithInstance(sqlDB, &sqlite.Config{})
	case "postgres":
		dbDriver, err = postgres.WithInstance(sqlDB, &postgres.Config{})
	default:
		return fmt.Errorf("unsupported migration driver: %s", r.driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migration driver: %w", r.driver, err)
	}

	source, err := iofs.New(files, r.driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, r.driver, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	r.migrator = migrator
	return nil
}

// RunMigrations applies every pending migration. Running it against an
// up-to-date schema is a no-op.
func (r *Runner) RunMigrations() error {
	if r.migrator == nil {
		if err := r.Initialize(); err != nil {
			return err
		}
	}

	version, dirty, err := r.migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		r.logger.Warn("DATABASE", fmt.Sprintf("Detected dirty migration at version %d, forcing", version))
		if err := r.migrator.Force(int(version)); err != nil {
			return fmt.Errorf("failed to fix dirty migration: %w", err)
		}
	}

	if err := r.migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, err = r.migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	r.logger.LogDatabase("UP", "events", fmt.Sprintf("schema at version %d", version))
	return nil
}

// MigrateDown rolls back all migrations
func (r *Runner) MigrateDown() error {
	if r.migrator == nil {
		if err := r.Initialize(); err != nil {
			return err
		}
	}

	if err := r.migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	r.logger.LogDatabase("DOWN", "events", "all migrations rolled back")
	return nil
}

// Version reports the applied schema version; ok is false before the first migration.
func (r *Runner) Version() (version uint, ok bool, err error) {
	if r.migrator == nil {
		if err := r.Initialize(); err != nil {
			return 0, false, err
		}
	}
	version, _, err = r.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, true, nil
}

// The migrator is never closed here: closing it would close the shared
// *sql.DB that the store keeps using.
