package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brightvolt/backoffice-backend/internal/catalog"
	"github.com/brightvolt/backoffice-backend/internal/cron"
	"github.com/brightvolt/backoffice-backend/pkg/config"
	"github.com/brightvolt/backoffice-backend/pkg/db"
	"github.com/brightvolt/backoffice-backend/pkg/env"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
	"github.com/brightvolt/backoffice-backend/pkg/metrics"
	"github.com/brightvolt/backoffice-backend/pkg/migrate"
	"github.com/brightvolt/backoffice-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(env.File()); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock := cron.NewRedisLock(redisClient, uuid.NewString(), cfg.Inventory.ReconcileInterval)

	sweep, err := cron.NewStockStatusJob(
		catalog.NewRepository(dbClient.DB()),
		logg,
		cfg.Inventory.ReconcileInterval,
		cfg.Inventory.ReconcileBatch,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock status job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()
	if err := registry.Register(sweep); err != nil {
		logg.Error(context.Background(), "failed to register stock status job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(registry, lock, logg, metricsCollector)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	service.Start(ctx)
	<-ctx.Done()
	service.Stop()

	logg.Info(ctx, "cron worker shutting down gracefully")
}
