package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_PATH", "HOLIDAY_YEAR", "HTTP_CLIENT_TIMEOUT", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":5000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "mydb.db", cfg.Database.Path)
	assert.Equal(t, 2023, cfg.Enrichment.HolidayYearValue())
	assert.Equal(t, 10*time.Second, cfg.Enrichment.HTTPTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("HOLIDAY_YEAR", "event")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "0s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 0, cfg.Enrichment.HolidayYearValue())
	assert.Equal(t, time.Duration(0), cfg.Enrichment.HTTPTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Redis.Enabled)
}

func TestHolidayYearValueFallsBackOnGarbage(t *testing.T) {
	e := EnrichmentConfig{HolidayYear: "next-year"}
	assert.Equal(t, 2023, e.HolidayYearValue())

	e.HolidayYear = "2025"
	assert.Equal(t, 2025, e.HolidayYearValue())
}
