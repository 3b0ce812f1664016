package database

import (
	"embed"
	"errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrate(dbURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	dsn := strings.Replace(dbURL, "postgres://", "pgx5://", 1)
	return migrate.NewWithSourceInstance("iofs", src, dsn)
}

// MigrateUp applies every pending migration. Already up to date is not an error.
func MigrateUp(cfg *Config) error {
	return MigrateUpURL(cfg.URL())
}

// MigrateUpURL is MigrateUp for a postgres:// connection string.
func MigrateUpURL(dbURL string) error {
	m, err := newMigrate(dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// MigrateDown rolls back the given number of steps.
func MigrateDown(cfg *Config, steps int) error {
	m, err := newMigrate(cfg.URL())
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
