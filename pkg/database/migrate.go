package database

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/snehn77/Editor/db/migrations"
)

// MigratePostgres applies the embedded base-row and history schema.
func MigratePostgres(db *sqlx.DB) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("initialise postgres migrate driver: %w", err)
	}
	return runMigrations(migrations.Postgres, "postgres", "postgres", driver)
}

// MigrateDrafts applies the embedded draft store schema.
func MigrateDrafts(db *sqlx.DB) error {
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("initialise sqlite migrate driver: %w", err)
	}
	return runMigrations(migrations.Drafts, "drafts", "sqlite", driver)
}

func runMigrations(files fs.FS, dir, name string, driver database.Driver) error {
	sourceDriver, err := iofs.New(files, dir)
	if err != nil {
		return fmt.Errorf("load embedded %s migrations: %w", dir, err)
	}
	defer func() {
		_ = sourceDriver.Close()
	}()

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, name, driver)
	if err != nil {
		return fmt.Errorf("create %s migrator: %w", dir, err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply %s migrations: %w", dir, err)
	}

	return nil
}
