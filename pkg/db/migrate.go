package db

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"printify/pkg/config"
)

// DefaultMigrationsPath is used when no path is given.
const DefaultMigrationsPath = config.DefaultMigrationsPath

// MigrateConfig applies every pending up migration. It connects with
// DIRECT_URL when set.
func MigrateConfig(migrationsPath string, cfg config.Config) error {
	return run(migrationsPath, cfg, func(m *migrate.Migrate) error { return m.Up() })
}

// RollbackConfig reverts the given number of migrations.
func RollbackConfig(migrationsPath string, cfg config.Config, steps int) error {
	if steps < 1 {
		steps = 1
	}
	return run(migrationsPath, cfg, func(m *migrate.Migrate) error { return m.Steps(-steps) })
}

func run(migrationsPath string, cfg config.Config, fn func(*migrate.Migrate) error) error {
	if migrationsPath == "" {
		migrationsPath = DefaultMigrationsPath
	}
	m, err := migrate.New(migrationsPath, migrationConnString(cfg))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := fn(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	}
	return nil
}
