package trades

import (
	"time"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
)

// AssetInput is the tagged-variant form of one asset movement. Kind selects
// which payload fields must be set; the resolver rejects mixed or missing
// payloads before anything is persisted.
type AssetInput struct {
	Kind        enums.TradeAssetKind `json:"kind"`
	FromTeamID  uuid.UUID            `json:"from_team_id"`
	ToTeamID    uuid.UUID            `json:"to_team_id"`
	ContractID  *uuid.UUID           `json:"contract_id,omitempty"`
	DraftPickID *uuid.UUID           `json:"draft_pick_id,omitempty"`
	AmountCents *int                 `json:"amount_cents,omitempty"`
	CapYear     *int                 `json:"cap_year,omitempty"`
}

// ProposeInput carries a full trade proposal.
type ProposeInput struct {
	LeagueID       uuid.UUID
	ProposerTeamID uuid.UUID
	TeamIDs        []uuid.UUID
	Assets         []AssetInput
	ExpiresIn      string
	Notes          *string
	ActorUserID    uuid.UUID
}

// RespondDecision is a participant's answer to a pending trade.
type RespondDecision string

const (
	RespondDecisionAccept RespondDecision = "accept"
	RespondDecisionReject RespondDecision = "reject"
)

// RespondInput carries one participant's accept or reject.
type RespondInput struct {
	TradeID     uuid.UUID
	TeamID      uuid.UUID
	Decision    RespondDecision
	ActorUserID uuid.UUID
}

// ApproveInput carries a commissioner sign-off.
type ApproveInput struct {
	TradeID            uuid.UUID
	CommissionerTeamID uuid.UUID
	ActorUserID        uuid.UUID
}

// VoteInput carries one non-participant team's vote on an accepted trade.
type VoteInput struct {
	TradeID     uuid.UUID
	VoterTeamID uuid.UUID
	Value       enums.TradeVoteValue
	ActorUserID uuid.UUID
}

// VoteResult reports the tallies after a vote lands.
type VoteResult struct {
	VotesFor       int               `json:"votes_for"`
	VotesAgainst   int               `json:"votes_against"`
	VetoThreshold  int               `json:"veto_threshold"`
	EligibleVoters int               `json:"eligible_voters"`
	Status         enums.TradeStatus `json:"status"`
}

// ListFilters describe the inputs supported by the trade list.
type ListFilters struct {
	Status       *enums.TradeStatus
	ViewerTeamID *uuid.UUID
	Limit        int
}

// expirationOffsets is the fixed vocabulary for trade expiration windows.
var expirationOffsets = map[string]time.Duration{
	"1h":  time.Hour,
	"24h": 24 * time.Hour,
	"2d":  48 * time.Hour,
	"1w":  7 * 24 * time.Hour,
}

const defaultExpiresIn = "24h"

func resolveExpiresIn(value string) (time.Duration, error) {
	if value == "" {
		value = defaultExpiresIn
	}
	offset, ok := expirationOffsets[value]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "expires_in must be one of 1h, 24h, 2d, 1w")
	}
	return offset, nil
}
