package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/capkeeperhq/capkeeper-backend/api/controllers"
	"github.com/capkeeperhq/capkeeper-backend/api/middleware"
	"github.com/capkeeperhq/capkeeper-backend/internal/contracts"
	"github.com/capkeeperhq/capkeeper-backend/internal/history"
	"github.com/capkeeperhq/capkeeper-backend/internal/trades"
	"github.com/capkeeperhq/capkeeper-backend/pkg/config"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
	pkgredis "github.com/capkeeperhq/capkeeper-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	tradeService trades.Service,
	capService contracts.Service,
	historyService history.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisP pkgredis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	var idemStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/trades", func(r chi.Router) {
			r.Post("/", controllers.TradePropose(tradeService, logg))
			r.Get("/", controllers.TradeList(tradeService, logg))
			r.Get("/{tradeId}", controllers.TradeGet(tradeService, logg))
			r.Post("/{tradeId}/respond", controllers.TradeRespond(tradeService, logg))
			r.Post("/{tradeId}/approve", controllers.TradeApprove(tradeService, logg))
			r.Post("/{tradeId}/votes", controllers.TradeVote(tradeService, logg))
			r.Post("/{tradeId}/cancel", controllers.TradeCancel(tradeService, logg))
			r.Post("/{tradeId}/withdraw", controllers.TradeWithdraw(tradeService, logg))
		})

		r.Get("/teams/{teamId}/cap", controllers.TeamCapSummary(capService, logg))
		r.Get("/leagues/{leagueId}/history", controllers.LeagueTradeHistory(historyService, logg))
	})

	return r
}
