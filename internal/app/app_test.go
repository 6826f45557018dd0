package app_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"my-calendar/internal/app"
	"my-calendar/internal/config"
	"my-calendar/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("GEO_DATASET_PATH", filepath.Join(t.TempDir(), "missing.csv"))
	t.Setenv("HTTP_CLIENT_TIMEOUT", "1s")
	return config.Load()
}

func TestNewWiresServiceAndRouter(t *testing.T) {
	cfg := testConfig(t)
	mr := miniredis.RunT(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()
	cfg.Kafka.Enabled = true
	cfg.Kafka.MockMode = true

	a, err := app.New(context.Background(), cfg, logger.NewLoggerWithWriter(io.Discard))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Redis)
	assert.NotNil(t, a.Producer)

	router := a.Router()
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{
		"name": "Wired", "date": "25-12-2023", "from": "10:00", "to": "11:00",
		"location": {"street": "1 George St", "suburb": "Sydney", "state": "NSW", "post-code": "2000"}
	}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetClockSharesServiceAndEnrichmentClock(t *testing.T) {
	a, err := app.New(context.Background(), testConfig(t), logger.NewLoggerWithWriter(io.Discard))
	require.NoError(t, err)
	defer a.Close()

	fixed := time.Date(2023, 12, 20, 9, 30, 0, 0, time.Local)
	a.SetClock(func() time.Time { return fixed })

	require.NotNil(t, a.Enricher)
	assert.Equal(t, fixed, a.Service.Now())
	assert.Equal(t, fixed, a.Enricher.Now())
	assert.Equal(t, 3, a.Enricher.DaysAhead(time.Date(2023, 12, 23, 0, 0, 0, 0, time.Local)))
}

func TestNewSurvivesUnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"

	a, err := app.New(context.Background(), cfg, logger.NewLoggerWithWriter(io.Discard))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Redis)
	assert.Nil(t, a.Producer)
}

func TestNewStoreOnly(t *testing.T) {
	a, err := app.NewStoreOnly(context.Background(), testConfig(t), logger.NewLoggerWithWriter(io.Discard))
	require.NoError(t, err)
	defer a.Close()

	stats, err := a.Service.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Nil(t, a.Handler)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = "127.0.0.1:0"

	a, err := app.New(context.Background(), cfg, logger.NewLoggerWithWriter(io.Discard))
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
