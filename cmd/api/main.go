package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/brightvolt/backoffice-backend/api/controllers"
	"github.com/brightvolt/backoffice-backend/api/routes"
	"github.com/brightvolt/backoffice-backend/internal/catalog"
	"github.com/brightvolt/backoffice-backend/internal/ledger"
	"github.com/brightvolt/backoffice-backend/internal/locations"
	"github.com/brightvolt/backoffice-backend/internal/reports"
	"github.com/brightvolt/backoffice-backend/internal/suppliers"
	"github.com/brightvolt/backoffice-backend/pkg/config"
	"github.com/brightvolt/backoffice-backend/pkg/db"
	"github.com/brightvolt/backoffice-backend/pkg/env"
	"github.com/brightvolt/backoffice-backend/pkg/logger"
	"github.com/brightvolt/backoffice-backend/pkg/migrate"
	"github.com/brightvolt/backoffice-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(env.File()); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	gdb := dbClient.DB()
	catalogRepo := catalog.NewRepository(gdb)
	ledgerRepo := ledger.NewRepository(gdb)
	locationRepo := locations.NewRepository(gdb)
	supplierRepo := suppliers.NewRepository(gdb)

	catalogService, err := catalog.NewService(catalogRepo, locationRepo, ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	ledgerService, err := ledger.NewService(dbClient, ledgerRepo, catalogRepo, locationRepo, supplierRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}
	locationService, err := locations.NewService(locationRepo, ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create location service", err)
		os.Exit(1)
	}
	supplierService, err := suppliers.NewService(supplierRepo, ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier service", err)
		os.Exit(1)
	}
	reportService, err := reports.NewService(reports.NewRepository(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			readiness,
			catalogService,
			ledgerService,
			locationService,
			supplierService,
			reportService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
