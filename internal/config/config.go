package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Enrichment EnrichmentConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	LogLevel   string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver      string
	Path        string
	PostgresDSN string
	MaxRetries  int
}

// HolidayYearFromEvent is the HOLIDAY_YEAR value that queries the event's own year.
const HolidayYearFromEvent = "event"

type EnrichmentConfig struct {
	HolidayAPIURL  string
	HolidayCountry string
	// HolidayYear is a four-digit year, or HolidayYearFromEvent.
	HolidayYear    string
	WeatherAPIURL  string
	GeoDatasetPath string
	HTTPTimeout    time.Duration
}

type RedisConfig struct {
	Enabled         bool
	Addr            string
	HolidayCacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Enabled  bool
	MockMode bool
	Topics   TopicConfig
}

type TopicConfig struct {
	EventCreated string
	EventUpdated string
	EventDeleted string
}

// All returns every configured topic.
func (t TopicConfig) All() []string {
	return []string{t.EventCreated, t.EventUpdated, t.EventDeleted}
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":5000"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:        getEnv("DB_PATH", "mydb.db"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
			MaxRetries:  getEnvInt("DB_MAX_RETRIES", 5),
		},
		Enrichment: EnrichmentConfig{
			HolidayAPIURL:  getEnv("HOLIDAY_API_URL", "https://date.nager.at/api/v2/publicholidays"),
			HolidayCountry: getEnv("HOLIDAY_COUNTRY", "AU"),
			HolidayYear:    getEnv("HOLIDAY_YEAR", "2023"),
			WeatherAPIURL:  getEnv("WEATHER_API_URL", "https://www.7timer.info/bin/civil.php"),
			GeoDatasetPath: getEnv("GEO_DATASET_PATH", "georef-australia-state-suburb.csv"),
			HTTPTimeout:    getEnvDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Enabled:         getEnvBool("REDIS_ENABLED", false),
			Addr:            getEnv("REDIS_ADDR", "localhost:6379"),
			HolidayCacheTTL: getEnvDuration("HOLIDAY_CACHE_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				EventCreated: getEnv("KAFKA_TOPIC_CREATED", "calendar.event.created"),
				EventUpdated: getEnv("KAFKA_TOPIC_UPDATED", "calendar.event.updated"),
				EventDeleted: getEnv("KAFKA_TOPIC_DELETED", "calendar.event.deleted"),
			},
		},
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}
}

// HolidayYearValue returns the fixed holiday year, or 0 when the year should
// be taken from each event's date.
func (e EnrichmentConfig) HolidayYearValue() int {
	if strings.EqualFold(e.HolidayYear, HolidayYearFromEvent) {
		return 0
	}
	year, err := strconv.Atoi(e.HolidayYear)
	if err != nil || year <= 0 {
		return 2023
	}
	return year
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
