package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/api/responses"
	"github.com/capkeeperhq/capkeeper-backend/api/validators"
	"github.com/capkeeperhq/capkeeper-backend/internal/history"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
)

type tradeHistoryResponse struct {
	ID            uuid.UUID       `json:"id"`
	LeagueID      uuid.UUID       `json:"league_id"`
	TradeID       uuid.UUID       `json:"trade_id"`
	TradeNumber   string          `json:"trade_number"`
	Year          int             `json:"year"`
	TeamAName     string          `json:"team_a_name"`
	TeamBName     string          `json:"team_b_name"`
	TeamAReceived json.RawMessage `json:"team_a_received"`
	TeamBReceived json.RawMessage `json:"team_b_received"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toTradeHistoryResponse(record models.TradeHistoryRecord) tradeHistoryResponse {
	return tradeHistoryResponse{
		ID:            record.ID,
		LeagueID:      record.LeagueID,
		TradeID:       record.TradeID,
		TradeNumber:   record.TradeNumber,
		Year:          record.Year,
		TeamAName:     record.TeamAName,
		TeamBName:     record.TeamBName,
		TeamAReceived: record.TeamAReceived,
		TeamBReceived: record.TeamBReceived,
		CreatedAt:     record.CreatedAt,
	}
}

// LeagueTradeHistory returns the completed-trade records for a league,
// newest first.
func LeagueTradeHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "history service unavailable"))
			return
		}

		leagueID, err := uuid.Parse(chi.URLParam(r, "leagueId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid league id"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		records, err := svc.ListByLeague(ctx, leagueID, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := make([]tradeHistoryResponse, 0, len(records))
		for _, record := range records {
			out = append(out, toTradeHistoryResponse(record))
		}
		responses.WriteSuccess(w, out)
	}
}
