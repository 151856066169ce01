package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/capkeeperhq/capkeeper-backend/api/responses"
	"github.com/capkeeperhq/capkeeper-backend/pkg/config"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CapKeeper-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis before reporting ready. A nil
// dependency is skipped so partial wiring in tests stays healthy.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP pinger, redisP pinger) http.HandlerFunc {
	deps := map[string]pinger{
		"database": dbP,
		"redis":    redisP,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		w.Header().Set("X-CapKeeper-Env", cfg.App.Env)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
