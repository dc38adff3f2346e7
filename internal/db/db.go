package db

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/AdamBeresnev/shuttle-bracket/internal/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Open connects to the configured database. SQLite connections get foreign keys,
// a busy timeout and immediate transactions so that concurrent writers queue up
// instead of failing.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("error creating database directory: %w", err)
			}
		}
		conn, err = sqlx.Connect("sqlite3", SQLiteDSN(cfg.DSN))
	case config.DriverPostgres:
		conn, err = sqlx.Connect("postgres", cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	log.Info().Str("driver", cfg.Driver).Msg("Database connected")
	return conn, nil
}

// SQLiteDSN appends the connection parameters the stores rely on, keeping any the caller already set.
func SQLiteDSN(dsn string) string {
	params := []string{"_foreign_keys=on", "_busy_timeout=5000", "_txlock=immediate", "_journal_mode=WAL"}
	for _, p := range params {
		key := p[:strings.Index(p, "=")+1]
		if strings.Contains(dsn, key) {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + p
		} else {
			dsn += "?" + p
		}
	}
	return dsn
}

// RunMigrations applies the embedded migrations matching the connection's driver.
func RunMigrations(conn *sqlx.DB) error {
	var (
		driver database.Driver
		dir    string
		name   string
		err    error
	)

	switch conn.DriverName() {
	case "sqlite3":
		dir, name = "migrations/sqlite", "sqlite3"
		driver, err = sqlite3.WithInstance(conn.DB, &sqlite3.Config{})
	case "postgres":
		dir, name = "migrations/postgres", "postgres"
		driver, err = postgres.WithInstance(conn.DB, &postgres.Config{})
	default:
		return fmt.Errorf("no migrations for driver %s", conn.DriverName())
	}
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
