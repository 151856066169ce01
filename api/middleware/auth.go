package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/capkeeperhq/capkeeper-backend/api/responses"
	pkgAuth "github.com/capkeeperhq/capkeeper-backend/pkg/auth"
	"github.com/capkeeperhq/capkeeper-backend/pkg/config"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxCommissioner, claims.IsCommissioner)
			if claims.ActiveTeamID != nil {
				ctx = context.WithValue(ctx, ctxTeamID, claims.ActiveTeamID.String())
			}
			if claims.LeagueID != nil {
				ctx = context.WithValue(ctx, ctxLeagueID, claims.LeagueID.String())
			}

			if logg != nil {
				fields := map[string]any{
					"user_id": claims.UserID.String(),
				}
				if claims.ActiveTeamID != nil {
					fields["team_id"] = claims.ActiveTeamID.String()
				}
				if claims.LeagueID != nil {
					fields["league_id"] = claims.LeagueID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
