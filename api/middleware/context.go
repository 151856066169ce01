package middleware

import "context"

type contextKey string

const (
	ctxUserID       contextKey = "user_id"
	ctxTeamID       contextKey = "team_id"
	ctxLeagueID     contextKey = "league_id"
	ctxCommissioner contextKey = "is_commissioner"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func TeamIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxTeamID).(string); ok {
		return v
	}
	return ""
}

func LeagueIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxLeagueID).(string); ok {
		return v
	}
	return ""
}

func IsCommissionerFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxCommissioner).(bool); ok {
		return v
	}
	return false
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithTeamID injects the acting team identifier into the context for downstream handlers.
func WithTeamID(ctx context.Context, teamID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTeamID, teamID)
}

// WithLeagueID injects the league identifier into the context.
func WithLeagueID(ctx context.Context, leagueID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLeagueID, leagueID)
}

// WithCommissioner marks the acting user as a commissioner for downstream handlers.
func WithCommissioner(ctx context.Context, isCommissioner bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCommissioner, isCommissioner)
}
