package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// RunMigrations áp dụng các migration "up" còn thiếu từ embedded FS
func RunMigrations(dsn string) error {
	log.Info().Msg("[MIGRATE] Running database migrations...")

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warn().Err(srcErr).Msg("[MIGRATE] Error closing migration source")
		}
		if dbErr != nil {
			log.Warn().Err(dbErr).Msg("[MIGRATE] Error closing migration database connection")
		}
	}()

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Warn().Err(err).Msg("[MIGRATE] Could not determine migration version")
		return nil
	}
	if dirty {
		return fmt.Errorf("database migration state is dirty at version %d", version)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		log.Info().Uint("version", version).Msg("[MIGRATE] No new migrations to apply")
	} else {
		log.Info().Uint("version", version).Msg("[MIGRATE] Migrations applied")
	}
	return nil
}
