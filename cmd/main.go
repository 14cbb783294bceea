package main

import (
	"context"

	"github.com/mvallespi/cargobid/internal/auction/application"
	"github.com/mvallespi/cargobid/internal/auction/domain"
	"github.com/mvallespi/cargobid/internal/auction/infra/dispatch"
	"github.com/mvallespi/cargobid/internal/auction/infra/httpapi"
	"github.com/mvallespi/cargobid/internal/auction/infra/repository/memory"
	"github.com/mvallespi/cargobid/internal/auction/infra/repository/postgres"
	"github.com/mvallespi/cargobid/internal/scheduler"
	"github.com/mvallespi/cargobid/internal/shared/config"
	"github.com/mvallespi/cargobid/internal/shared/db"
	"github.com/mvallespi/cargobid/internal/shared/db/migrations"
	"github.com/mvallespi/cargobid/internal/shared/httpserver"
	"github.com/mvallespi/cargobid/internal/shared/logger"
	"github.com/mvallespi/cargobid/internal/shared/websocket"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting cargobid server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store domain.Store
	switch cfg.StoreBackend {
	case "memory":
		log.Info("Using in-memory store")
		store = memory.NewStore()
	default:
		log.Info("Running database migrations...")
		if err := migrations.RunMigrations(); err != nil {
			log.Fatal("Database migration failed", zap.Error(err))
		}
		pool, err := db.GetPostgresDBPool(ctx)
		if err != nil {
			log.Fatal("Database connection failed", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.NewStore(pool)
	}

	policy := domain.PolicyLowest
	if cfg.WinnerPolicy == "lowest_unique" {
		policy = domain.PolicyLowestUnique
	}

	service := application.NewAuctionService(store, domain.SystemClock{}, application.Config{
		MinAuctionDuration: cfg.MinAuctionDuration,
		MaxAuctionDuration: cfg.MaxAuctionDuration,
		ReopenGraceWindow:  cfg.ReopenGraceWindow,
		SweepBatchSize:     cfg.SweepBatchSize,
		Policy:             policy,
	})

	hub := websocket.NewHub()
	go hub.Run(ctx)
	dispatcher := dispatch.NewHubDispatcher(hub)

	sched := scheduler.New(service, dispatcher,
		cfg.SweepInterval, cfg.SweepRetryAttempts, cfg.SweepRetryBackoff)
	go sched.Run(ctx)

	server := httpserver.NewServer()
	httpapi.NewHandler(service, dispatcher, hub).Register(server.App())

	if err := server.Start(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
