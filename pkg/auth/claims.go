package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID         uuid.UUID
	ActiveTeamID   *uuid.UUID
	LeagueID       *uuid.UUID
	IsCommissioner bool
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID         uuid.UUID  `json:"user_id"`
	ActiveTeamID   *uuid.UUID `json:"active_team_id,omitempty"`
	LeagueID       *uuid.UUID `json:"league_id,omitempty"`
	IsCommissioner bool       `json:"is_commissioner,omitempty"`
	jwt.RegisteredClaims
}
