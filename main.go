package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"my-calendar/internal/app"
	"my-calendar/internal/config"
	"my-calendar/internal/logger"
)

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Calendar Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)
	logger.Info("CONFIG", fmt.Sprintf("Store driver %s, holiday year %s, Redis %t, Kafka %t",
		cfg.Database.Driver, cfg.Enrichment.HolidayYear, cfg.Redis.Enabled, cfg.Kafka.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("APP", fmt.Sprintf("Failed to initialise service: %v", err))
	}
	defer a.Close()

	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	if err := a.Serve(ctx); err != nil {
		logger.Error("HTTP", err.Error())
	}
}
