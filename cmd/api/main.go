package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/capkeeperhq/capkeeper-backend/api/routes"
	"github.com/capkeeperhq/capkeeper-backend/internal/capledger"
	"github.com/capkeeperhq/capkeeper-backend/internal/contracts"
	"github.com/capkeeperhq/capkeeper-backend/internal/draftpicks"
	"github.com/capkeeperhq/capkeeper-backend/internal/history"
	"github.com/capkeeperhq/capkeeper-backend/internal/leagues"
	"github.com/capkeeperhq/capkeeper-backend/internal/trades"
	"github.com/capkeeperhq/capkeeper-backend/pkg/config"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db"
	"github.com/capkeeperhq/capkeeper-backend/pkg/env"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
	"github.com/capkeeperhq/capkeeper-backend/pkg/migrate"
	"github.com/capkeeperhq/capkeeper-backend/pkg/outbox"
	"github.com/capkeeperhq/capkeeper-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
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

	gormDB := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	leagueService, err := leagues.NewService(leagues.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create leagues service", err)
		os.Exit(1)
	}

	contractRepo := contracts.NewRepository(gormDB)
	pickRepo := draftpicks.NewRepository(gormDB)
	ledgerRepo := capledger.NewRepository(gormDB)

	ledgerService, err := capledger.NewService(ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cap ledger service", err)
		os.Exit(1)
	}

	capService, err := contracts.NewService(contractRepo, ledgerRepo, leagueService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cap service", err)
		os.Exit(1)
	}

	historyService, err := history.NewService(history.NewRepository(gormDB), leagueService, contractRepo, pickRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create history service", err)
		os.Exit(1)
	}

	tradeService, err := trades.NewService(
		trades.NewRepository(gormDB),
		dbClient,
		outboxService,
		leagueService,
		contractRepo,
		pickRepo,
		ledgerService,
		ledgerRepo,
		capService,
		historyService,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create trade service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, tradeService, capService, historyService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
