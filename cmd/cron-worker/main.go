package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capkeeperhq/capkeeper-backend/internal/capledger"
	"github.com/capkeeperhq/capkeeper-backend/internal/contracts"
	"github.com/capkeeperhq/capkeeper-backend/internal/cron"
	"github.com/capkeeperhq/capkeeper-backend/internal/draftpicks"
	"github.com/capkeeperhq/capkeeper-backend/internal/history"
	"github.com/capkeeperhq/capkeeper-backend/internal/leagues"
	"github.com/capkeeperhq/capkeeper-backend/internal/trades"
	"github.com/capkeeperhq/capkeeper-backend/pkg/config"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db"
	"github.com/capkeeperhq/capkeeper-backend/pkg/env"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
	"github.com/capkeeperhq/capkeeper-backend/pkg/metrics"
	"github.com/capkeeperhq/capkeeper-backend/pkg/migrate"
	"github.com/capkeeperhq/capkeeper-backend/pkg/outbox"
	"github.com/capkeeperhq/capkeeper-backend/pkg/redis"
)

const lockKeyFormat = "ck:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

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

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	expirationJob, err := cron.NewTradeExpirationJob(tradeService, metricsCollector, logg, cfg.Cron.ExpirationSweepBatch)
	if err != nil {
		logg.Error(context.Background(), "failed to create trade expiration job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(expirationJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.ExpirationSweepInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	go serveMetrics(ctx, logg, env.Get("METRICS_PORT", cfg.Cron.MetricsPort))

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func serveMetrics(ctx context.Context, logg *logger.Logger, port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
