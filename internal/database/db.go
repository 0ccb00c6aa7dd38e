// Package database provides the PostgreSQL connection, embedded schema
// migrations and transaction helpers behind the guild repositories.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migrate "postgres" driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" database/sql driver
	_ "github.com/lib/pq"              // "postgres" database/sql driver
	"go.uber.org/zap"

	"github.com/parsascontentcorner/guildstore/internal/config"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
	logger     *zap.Logger
	migrateURL string
}

// NewDB creates a new database connection with connection pooling
func NewDB(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverPQ
	}

	sqlDB, err := sql.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sqlDB.SetConnMaxLifetime(lifetime)

	// Verify connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("driver", driver),
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.Name),
	)

	return &DB{
		DB:         sqlDB,
		logger:     logger,
		migrateURL: cfg.GetURL(),
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// Health checks the database health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// RunMigrations applies every pending embedded migration
func (db *DB) RunMigrations() error {
	return db.Migrate("up", nil)
}

// Migrate runs a golang-migrate command against the embedded migrations.
// Supported commands: "up", "down", "version", "force N".
func (db *DB) Migrate(command string, args []string) error {
	switch command {
	case "up", "down", "version", "force":
	default:
		return fmt.Errorf("unknown migrate command: %s (use: up, down, version, force)", command)
	}
	if command == "force" && len(args) == 0 {
		return fmt.Errorf("force requires a version number argument")
	}

	m, err := db.newMigrate()
	if err != nil {
		return err
	}
	defer closeMigrate(m, db.logger)
	m.Log = &migrateLogger{logger: db.logger}

	switch command {
	case "up":
		db.logger.Info("running database migrations")
		if err := m.Up(); err != nil {
			// ErrNoChange is not an error - it means we're already up to date
			if errors.Is(err, migrate.ErrNoChange) {
				db.logger.Info("database schema is already up to date")
				return nil
			}
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		db.logVersion(m)

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		db.logger.Info("all migrations rolled back")

	case "version":
		db.logVersion(m)

	case "force":
		var version int
		if _, err := fmt.Sscanf(args[0], "%d", &version); err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
		db.logger.Info("forced migration version", zap.Int("version", version))
	}

	return nil
}

// MigrationVersion reports the applied schema version
func (db *DB) MigrationVersion() (uint, bool, error) {
	m, err := db.newMigrate()
	if err != nil {
		return 0, false, err
	}
	defer closeMigrate(m, db.logger)
	return m.Version()
}

// newMigrate opens a dedicated migration connection so closing it never
// touches the shared pool.
func (db *DB) newMigrate() (*migrate.Migrate, error) {
	source, err := iofs.New(MigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, db.migrateURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func closeMigrate(m *migrate.Migrate, logger *zap.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		logger.Warn("failed to close migration resources",
			zap.NamedError("source_error", srcErr),
			zap.NamedError("database_error", dbErr),
		)
	}
}

func (db *DB) logVersion(m *migrate.Migrate) {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		db.logger.Info("no migrations have been applied yet")
	case err != nil:
		db.logger.Warn("failed to get migration version", zap.Error(err))
	default:
		db.logger.Info("database migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
	}
}

type migrateLogger struct {
	logger *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.Core().Enabled(zap.DebugLevel)
}
