package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/superinternet/portal-api/internal/api"
	"github.com/superinternet/portal-api/internal/core/ports"
	"github.com/superinternet/portal-api/internal/core/service"
	"github.com/superinternet/portal-api/internal/infrastructure/config"
	"github.com/superinternet/portal-api/internal/infrastructure/db/memory"
	mongodb "github.com/superinternet/portal-api/internal/infrastructure/db/mongo"
	redisdb "github.com/superinternet/portal-api/internal/infrastructure/db/redis"
	billingworker "github.com/superinternet/portal-api/internal/worker/billing"
	"github.com/superinternet/portal-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := api.Deps{
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	}

	// Snapshot store selection. Only the configured backend is connected.
	var store ports.SnapshotStore
	switch cfg.StoreBackend {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		store = mongodb.NewSnapshotStore(db, log)
		deps.Mongo = db
	case "memory":
		store = memory.NewSnapshotStore()
	default:
		rdb, err := redisdb.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		store = redisdb.NewSnapshotStore(rdb, log)
		deps.Redis = rdb
	}

	directory := service.NewDirectory(store, cfg.JWTSecret, 24*time.Hour, log)
	if err := directory.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("directory initialisation failed")
	}

	deps.Directory = directory
	deps.Contracts = service.NewContracts(directory, log)
	deps.Billing = service.NewBilling(directory, log)
	deps.Messaging = service.NewMessaging(directory, log)

	sweeper := billingworker.NewSweeper(deps.Billing, cfg.Billing.SweepInterval, log)
	go sweeper.Start(ctx)

	e := api.NewRouter(deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("portal API started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
