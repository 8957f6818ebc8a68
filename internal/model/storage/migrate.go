package storage

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-ledger/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations run on their own connection: closing the migrate instance closes it.
func migratePostgres(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return errors.Wrap(err, "open migration database")
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return errors.Wrap(err, "create postgres migration driver")
	}
	return runMigrations("postgres", driver)
}

func migrateSQLite(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.Wrap(err, "open migration database")
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		_ = db.Close()
		return errors.Wrap(err, "create sqlite migration driver")
	}
	return runMigrations("sqlite", driver)
}

func runMigrations(name string, driver database.Driver) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "create iofs source")
	}

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return errors.Wrap(err, "create migrate instance")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Error("error closing migrations", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}
