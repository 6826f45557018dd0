package database_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"my-calendar/internal/config"
	"my-calendar/internal/database"
	"my-calendar/internal/database/migrations"
	"my-calendar/internal/logger"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	log := logger.NewLoggerWithWriter(io.Discard)

	bunDB, err := database.Open(ctx, config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, log)
	require.NoError(t, err)
	defer bunDB.Close()

	var count int
	err = bunDB.NewRaw("SELECT COUNT(*) FROM events").Scan(ctx, &count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	runner := migrations.NewRunner(bunDB, "sqlite", log)
	require.NoError(t, runner.RunMigrations(), "re-running migrations must be idempotent")

	version, ok, err := runner.Version()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(1), version)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, logger.NewLoggerWithWriter(io.Discard))
	assert.Error(t, err)
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	_, err := database.Open(context.Background(), config.DatabaseConfig{Driver: "postgres"}, logger.NewLoggerWithWriter(io.Discard))
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}
