package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/api/responses"
	"github.com/capkeeperhq/capkeeper-backend/internal/contracts"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
)

// TeamCapSummary returns a team's cap position for one year. The year
// defaults to the current calendar year when omitted.
func TeamCapSummary(svc contracts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cap service unavailable"))
			return
		}

		teamID, err := uuid.Parse(chi.URLParam(r, "teamId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid team id"))
			return
		}

		year := time.Now().Year()
		if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil || value < 2000 || value > 2100 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "year must be a four digit year"))
				return
			}
			year = value
		}

		summary, err := svc.CapSummary(ctx, teamID, year)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
