package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/api/middleware"
	"github.com/capkeeperhq/capkeeper-backend/api/responses"
	"github.com/capkeeperhq/capkeeper-backend/api/validators"
	"github.com/capkeeperhq/capkeeper-backend/internal/trades"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
)

type proposeTradePayload struct {
	TeamIDs   []uuid.UUID         `json:"team_ids" validate:"required,min=2"`
	Assets    []trades.AssetInput `json:"assets" validate:"required,min=1"`
	ExpiresIn string              `json:"expires_in,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
}

type respondTradePayload struct {
	Decision string `json:"decision" validate:"required,oneof=accept reject"`
}

type voteTradePayload struct {
	Value string `json:"value" validate:"required,oneof=approve veto"`
}

type tradeParticipantResponse struct {
	TeamID      uuid.UUID               `json:"team_id"`
	Status      enums.ParticipantStatus `json:"status"`
	RespondedAt *time.Time              `json:"responded_at,omitempty"`
}

type tradeAssetResponse struct {
	Kind        enums.TradeAssetKind `json:"kind"`
	FromTeamID  uuid.UUID            `json:"from_team_id"`
	ToTeamID    uuid.UUID            `json:"to_team_id"`
	ContractID  *uuid.UUID           `json:"contract_id,omitempty"`
	DraftPickID *uuid.UUID           `json:"draft_pick_id,omitempty"`
	AmountCents *int                 `json:"amount_cents,omitempty"`
	CapYear     *int                 `json:"cap_year,omitempty"`
}

type tradeResponse struct {
	ID                           uuid.UUID                  `json:"id"`
	LeagueID                     uuid.UUID                  `json:"league_id"`
	Status                       enums.TradeStatus          `json:"status"`
	ApprovalMode                 enums.TradeApprovalMode    `json:"approval_mode"`
	RequiresCommissionerApproval bool                       `json:"requires_commissioner_approval"`
	RequiresLeagueVote           bool                       `json:"requires_league_vote"`
	VoteDeadline                 *time.Time                 `json:"vote_deadline,omitempty"`
	ProposerTeamID               uuid.UUID                  `json:"proposer_team_id"`
	Notes                        *string                    `json:"notes,omitempty"`
	ExpiresAt                    time.Time                  `json:"expires_at"`
	VotesFor                     int                        `json:"votes_for"`
	VotesAgainst                 int                        `json:"votes_against"`
	ApprovedBy                   *uuid.UUID                 `json:"approved_by,omitempty"`
	ApprovedAt                   *time.Time                 `json:"approved_at,omitempty"`
	Participants                 []tradeParticipantResponse `json:"participants"`
	Assets                       []tradeAssetResponse       `json:"assets"`
	CreatedAt                    time.Time                  `json:"created_at"`
	UpdatedAt                    time.Time                  `json:"updated_at"`
}

func toTradeResponse(trade *models.Trade) tradeResponse {
	resp := tradeResponse{
		ID:                           trade.ID,
		LeagueID:                     trade.LeagueID,
		Status:                       trade.Status,
		ApprovalMode:                 trade.ApprovalMode,
		RequiresCommissionerApproval: trade.Approval.RequiresCommissionerApproval,
		RequiresLeagueVote:           trade.Approval.RequiresLeagueVote,
		VoteDeadline:                 trade.Approval.VoteDeadline,
		ProposerTeamID:               trade.ProposerTeamID,
		Notes:                        trade.Notes,
		ExpiresAt:                    trade.ExpiresAt,
		VotesFor:                     trade.VotesFor,
		VotesAgainst:                 trade.VotesAgainst,
		ApprovedBy:                   trade.ApprovedBy,
		ApprovedAt:                   trade.ApprovedAt,
		Participants:                 make([]tradeParticipantResponse, 0, len(trade.Participants)),
		Assets:                       make([]tradeAssetResponse, 0, len(trade.Assets)),
		CreatedAt:                    trade.CreatedAt,
		UpdatedAt:                    trade.UpdatedAt,
	}
	for _, participant := range trade.Participants {
		resp.Participants = append(resp.Participants, tradeParticipantResponse{
			TeamID:      participant.TeamID,
			Status:      participant.Status,
			RespondedAt: participant.RespondedAt,
		})
	}
	for _, asset := range trade.Assets {
		resp.Assets = append(resp.Assets, tradeAssetResponse{
			Kind:        asset.Kind,
			FromTeamID:  asset.FromTeamID,
			ToTeamID:    asset.ToTeamID,
			ContractID:  asset.ContractID,
			DraftPickID: asset.DraftPickID,
			AmountCents: asset.AmountCents,
			CapYear:     asset.CapYear,
		})
	}
	return resp
}

func callerIdentity(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	ctx := r.Context()
	userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	teamRaw := middleware.TeamIDFromContext(ctx)
	if teamRaw == "" {
		return userID, uuid.Nil, nil
	}
	teamID, err := uuid.Parse(teamRaw)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid team context")
	}
	return userID, teamID, nil
}

func tradeIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "tradeId")
	tradeID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trade id")
	}
	return tradeID, nil
}

// TradePropose creates a pending trade between the caller's team and the
// listed counterparties.
func TradePropose(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade service unavailable"))
			return
		}

		userID, teamID, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if teamID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "team context missing"))
			return
		}

		leagueID, err := uuid.Parse(middleware.LeagueIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "league context missing"))
			return
		}

		var payload proposeTradePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trade, err := svc.Propose(ctx, trades.ProposeInput{
			LeagueID:       leagueID,
			ProposerTeamID: teamID,
			TeamIDs:        payload.TeamIDs,
			Assets:         payload.Assets,
			ExpiresIn:      payload.ExpiresIn,
			Notes:          payload.Notes,
			ActorUserID:    userID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toTradeResponse(trade))
	}
}

// TradeRespond records the caller team's accept or reject on a pending trade.
func TradeRespond(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade service unavailable"))
			return
		}

		userID, teamID, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if teamID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "team context missing"))
			return
		}

		tradeID, err := tradeIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload respondTradePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trade, err := svc.Respond(ctx, trades.RespondInput{
			TradeID:     tradeID,
			TeamID:      teamID,
			Decision:    trades.RespondDecision(payload.Decision),
			ActorUserID: userID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toTradeResponse(trade))
	}
}

// TradeApprove finalizes an accepted trade on a commissioner's sign-off.
func TradeApprove(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade service unavailable"))
			return
		}

		userID, teamID, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if teamID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "team context missing"))
			return
		}

		tradeID, err := tradeIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trade, err := svc.ApproveAsCommissioner(ctx, trades.ApproveInput{
			TradeID:            tradeID,
			CommissionerTeamID: teamID,
			ActorUserID:        userID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toTradeResponse(trade))
	}
}

// TradeVote records the caller team's approve or veto on an accepted trade.
func TradeVote(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade service unavailable"))
			return
		}

		userID, teamID, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if teamID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "team context missing"))
			return
		}

		tradeID, err := tradeIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload voteTradePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Vote(ctx, trades.VoteInput{
			TradeID:     tradeID,
			VoterTeamID: teamID,
			Value:       enums.TradeVoteValue(payload.Value),
			ActorUserID: userID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TradeCancel cancels a pending trade.
func TradeCancel(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade service unavailable"))
			return
		}

		userID, _, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		tradeID, err := tradeIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Cancel(ctx, tradeID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cancelled": true})
	}
}

// TradeWithdraw withdraws a pending trade; only the proposing team may do so.
func TradeWithdraw(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade service unavailable"))
			return
		}

		userID, teamID, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if teamID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "team context missing"))
			return
		}

		tradeID, err := tradeIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Withdraw(ctx, tradeID, teamID, userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"withdrawn": true})
	}
}

// TradeList returns the trades of a league, newest first. Pending trades are
// hidden from non-participants when the caller has a team context.
func TradeList(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade service unavailable"))
			return
		}

		leagueRaw := strings.TrimSpace(r.URL.Query().Get("league_id"))
		if leagueRaw == "" {
			leagueRaw = middleware.LeagueIDFromContext(ctx)
		}
		leagueID, err := uuid.Parse(leagueRaw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "league context missing"))
			return
		}

		filters := trades.ListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.TradeStatus(raw)
			if !status.IsValid() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown trade status").WithDetails(map[string]any{"status": raw}))
				return
			}
			filters.Status = &status
		}
		viewerRaw := strings.TrimSpace(r.URL.Query().Get("viewer_team_id"))
		if viewerRaw == "" {
			viewerRaw = middleware.TeamIDFromContext(ctx)
		}
		if viewerRaw != "" {
			viewerID, err := uuid.Parse(viewerRaw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid viewer team id"))
				return
			}
			filters.ViewerTeamID = &viewerID
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filters.Limit = limit

		list, err := svc.List(ctx, leagueID, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out := make([]tradeResponse, 0, len(list))
		for i := range list {
			out = append(out, toTradeResponse(&list[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// TradeGet returns a single trade with its participants, assets, and votes.
func TradeGet(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trade service unavailable"))
			return
		}

		tradeID, err := tradeIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		trade, err := svc.Get(ctx, tradeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toTradeResponse(trade))
	}
}
