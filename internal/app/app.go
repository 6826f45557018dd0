package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/uptrace/bun"

	"my-calendar/internal/config"
	"my-calendar/internal/database"
	"my-calendar/internal/enrichment"
	"my-calendar/internal/events/db"
	"my-calendar/internal/events/event_api"
	events "my-calendar/internal/events/service"
	"my-calendar/internal/kafka"
	"my-calendar/internal/logger"
)

// App owns every long-lived dependency of the calendar service.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *bun.DB
	Store    *db.DB
	Redis    *redis.Client
	Producer *kafka.Producer
	Enricher *enrichment.Service
	Service  *events.EventService
	Handler  *event_api.Handler
}

// New opens the store and wires the optional Redis cache and Kafka producer.
// Redis and Kafka failures are logged and the service runs without them.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a.DB = bunDB
	a.Store = &db.DB{Bun: bunDB}

	httpClient := &http.Client{Timeout: cfg.Enrichment.HTTPTimeout}

	var cache enrichment.HolidayCache
	if cfg.Redis.Enabled {
		client, err := enrichment.NewRedisClient(cfg.Redis.Addr, log)
		if err != nil {
			log.Warn("REDIS", "Holiday cache disabled")
		} else {
			a.Redis = client
			cache = enrichment.NewRedisHolidayCache(client, cfg.Redis.HolidayCacheTTL)
		}
	}

	a.Enricher = enrichment.NewService(
		enrichment.NewHolidayClient(cfg.Enrichment.HolidayAPIURL, cfg.Enrichment.HolidayCountry, httpClient, cache, log),
		enrichment.NewWeatherClient(cfg.Enrichment.WeatherAPIURL, httpClient),
		enrichment.LoadGeoTable(cfg.Enrichment.GeoDatasetPath, log),
		cfg.Enrichment.HolidayYearValue(),
		log,
	)

	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		a.Producer = newProducer(cfg.Kafka, log)
		publisher = kafka.NewEventPublisher(a.Producer, cfg.Kafka.Topics)
	}

	a.Service = events.NewEventService(a.Store, a.Enricher, publisher, log)
	a.SetClock(time.Now)
	a.Handler = event_api.NewHandler(a.Service, a.Store, log)
	return a, nil
}

// SetClock makes the statistics and the forecast window read the same clock.
func (a *App) SetClock(now func() time.Time) {
	if a.Service != nil {
		a.Service.Now = now
	}
	if a.Enricher != nil {
		a.Enricher.Now = now
	}
}

// NewStoreOnly opens the store without enrichment or messaging, for CLI
// commands that only read events.
func NewStoreOnly(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	store := &db.DB{Bun: bunDB}
	return &App{
		Config:  cfg,
		Logger:  log,
		DB:      bunDB,
		Store:   store,
		Service: events.NewEventService(store, nil, nil, log),
	}, nil
}

func newProducer(cfg config.KafkaConfig, log *logger.Logger) *kafka.Producer {
	if cfg.MockMode {
		log.Info("KAFKA", "Kafka mock mode enabled, notifications are only logged")
		return kafka.NewMockProducer(log)
	}

	log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers %v", cfg.Brokers))
	if err := kafka.EnsureTopicsExist(cfg.Brokers, cfg.Topics.All(), log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}
	return kafka.NewProducer(cfg.Brokers, log)
}

func (a *App) Router() http.Handler {
	return event_api.NewRouter(a.Handler, a.Logger)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         a.Config.Server.Port,
		Handler:      a.Router(),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP", fmt.Sprintf("🚀 Calendar service running on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.Logger.Info("HTTP", "✅ Calendar service shutdown complete")
	return nil
}

// Close releases the store, Redis and Kafka connections.
func (a *App) Close() {
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			a.Logger.Warn("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("DATABASE", fmt.Sprintf("Failed to close database: %v", err))
		}
	}
}
