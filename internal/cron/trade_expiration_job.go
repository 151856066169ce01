package cron

import (
	"context"
	"fmt"

	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
	"github.com/capkeeperhq/capkeeper-backend/pkg/metrics"
)

const (
	tradeExpirationJobName = "trade-expiration"
	defaultExpirationBatch = 100
	maxExpirationSweeps    = 50
)

// tradeExpirer flips stale pending trades to expired in batches.
type tradeExpirer interface {
	ExpireStale(ctx context.Context, batchSize int) (int, error)
}

// TradeExpirationJob sweeps pending trades whose expiration has passed.
// Expiration is a passive field on the trade row; this job is the active
// process that transitions it.
type TradeExpirationJob struct {
	trades    tradeExpirer
	metrics   *metrics.CronJobMetrics
	logg      *logger.Logger
	batchSize int
}

// NewTradeExpirationJob builds the expiration sweep job.
func NewTradeExpirationJob(trades tradeExpirer, m *metrics.CronJobMetrics, logg *logger.Logger, batchSize int) (*TradeExpirationJob, error) {
	if trades == nil {
		return nil, fmt.Errorf("trades service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if batchSize <= 0 {
		batchSize = defaultExpirationBatch
	}
	return &TradeExpirationJob{trades: trades, metrics: m, logg: logg, batchSize: batchSize}, nil
}

// Name identifies the job in logs and metrics.
func (j *TradeExpirationJob) Name() string {
	return tradeExpirationJobName
}

// Run drains full batches until a sweep comes back short. The sweep cap keeps
// a pathological backlog from pinning the worker for a whole cycle.
func (j *TradeExpirationJob) Run(ctx context.Context) error {
	total := 0
	for sweep := 0; sweep < maxExpirationSweeps; sweep++ {
		count, err := j.trades.ExpireStale(ctx, j.batchSize)
		total += count
		if count > 0 && j.metrics != nil {
			j.metrics.AddExpiredTrades(count)
		}
		if err != nil {
			j.logTotal(ctx, total)
			return fmt.Errorf("expire stale trades: %w", err)
		}
		if count < j.batchSize {
			break
		}
	}
	j.logTotal(ctx, total)
	return nil
}

func (j *TradeExpirationJob) logTotal(ctx context.Context, total int) {
	logCtx := j.logg.WithField(ctx, "expired_trades", total)
	j.logg.Info(logCtx, "expiration sweep finished")
}
