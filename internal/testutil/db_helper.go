package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/parsascontentcorner/guildstore/internal/config"
	"github.com/parsascontentcorner/guildstore/internal/database"
)

// SetupTestDB creates a PostgreSQL TestContainer, runs migrations, and returns a database connection.
// Returns the DB connection, a cleanup function, and any error encountered.
//
// Usage:
//
//	db, cleanup, err := testutil.SetupTestDB(ctx)
//	require.NoError(t, err)
//	defer cleanup()
func SetupTestDB(ctx context.Context) (*database.DB, func(), error) {
	return SetupTestDBWithDriver(ctx, config.DriverPQ)
}

// SetupTestDBWithDriver is SetupTestDB with an explicit database/sql driver
func SetupTestDBWithDriver(ctx context.Context, driver string) (*database.DB, func(), error) {
	// Create PostgreSQL container
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	terminate := func() {
		_ = pgContainer.Terminate(ctx)
	}

	// Get connection details
	host, err := pgContainer.Host(ctx)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("failed to get container host: %w", err)
	}

	mappedPort, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	logger := zap.NewNop()

	cfg := &config.DatabaseConfig{
		Driver:       driver,
		Host:         host,
		Port:         mappedPort.Port(),
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	db, err := database.NewDB(cfg, logger)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Migrations are embedded, so the working directory does not matter
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		terminate()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close db", zap.Error(err))
		}
		terminate()
	}

	return db, cleanup, nil
}

// TruncateTables removes all data from all tables (except schema_migrations).
// Useful for cleaning up between tests without recreating the entire database.
func TruncateTables(ctx context.Context, db *database.DB) error {
	tables := []string{
		"guilds_text_channels",
		"guilds_voice_channels",
		"guilds_channels",
		"guilds_members",
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// CountRows returns the number of rows in table matching the channel or guild id column
func CountRows(ctx context.Context, db *database.DB, table, column string, id int64) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", table, column)
	if err := db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", table, err)
	}
	return n, nil
}

// IsActive reads the stored is_active flag of a channel
func IsActive(ctx context.Context, db *database.DB, channelID int64) (bool, error) {
	var active bool
	err := db.QueryRowContext(ctx, "SELECT is_active FROM guilds_channels WHERE id = $1", channelID).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("failed to read is_active: %w", err)
	}
	return active, nil
}
