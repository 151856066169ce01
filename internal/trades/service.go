package trades

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/internal/capledger"
	"github.com/capkeeperhq/capkeeper-backend/internal/contracts"
	"github.com/capkeeperhq/capkeeper-backend/internal/draftpicks"
	"github.com/capkeeperhq/capkeeper-backend/internal/history"
	"github.com/capkeeperhq/capkeeper-backend/internal/leagues"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
	"github.com/capkeeperhq/capkeeper-backend/pkg/logger"
	"github.com/capkeeperhq/capkeeper-backend/pkg/outbox"
)

const defaultVoteWindowHours = 24

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the trade lifecycle operations.
type Service interface {
	Propose(ctx context.Context, input ProposeInput) (*models.Trade, error)
	Respond(ctx context.Context, input RespondInput) (*models.Trade, error)
	ApproveAsCommissioner(ctx context.Context, input ApproveInput) (*models.Trade, error)
	Vote(ctx context.Context, input VoteInput) (*VoteResult, error)
	Cancel(ctx context.Context, tradeID, actorUserID uuid.UUID) error
	Withdraw(ctx context.Context, tradeID, teamID, actorUserID uuid.UUID) error
	List(ctx context.Context, leagueID uuid.UUID, filters ListFilters) ([]models.Trade, error)
	Get(ctx context.Context, tradeID uuid.UUID) (*models.Trade, error)
	ExpireStale(ctx context.Context, batchSize int) (int, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	outbox     outboxPublisher
	leagues    leagues.Service
	contracts  contracts.Repository
	picks      draftpicks.Repository
	ledger     capledger.Service
	ledgerRepo capledger.Repository
	resolver   *assetResolver
	history    history.Service
	logg       *logger.Logger
}

// TradeLifecycleEvent is the outbox payload emitted on every trade status change.
type TradeLifecycleEvent struct {
	TradeID        uuid.UUID         `json:"trade_id"`
	LeagueID       uuid.UUID         `json:"league_id"`
	Status         enums.TradeStatus `json:"status"`
	ProposerTeamID uuid.UUID         `json:"proposer_team_id"`
	VotesFor       int               `json:"votes_for"`
	VotesAgainst   int               `json:"votes_against"`
}

// NewService builds the trade lifecycle service with its dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	outboxSvc outboxPublisher,
	leagueSvc leagues.Service,
	contractRepo contracts.Repository,
	pickRepo draftpicks.Repository,
	ledgerSvc capledger.Service,
	ledgerRepo capledger.Repository,
	capSvc contracts.Service,
	historySvc history.Service,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("trades repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if leagueSvc == nil {
		return nil, fmt.Errorf("leagues service required")
	}
	if contractRepo == nil {
		return nil, fmt.Errorf("contracts repository required")
	}
	if pickRepo == nil {
		return nil, fmt.Errorf("draft picks repository required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("cap ledger service required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("cap ledger repository required")
	}
	if capSvc == nil {
		return nil, fmt.Errorf("cap summary service required")
	}
	if historySvc == nil {
		return nil, fmt.Errorf("history service required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		outbox:     outboxSvc,
		leagues:    leagueSvc,
		contracts:  contractRepo,
		picks:      pickRepo,
		ledger:     ledgerSvc,
		ledgerRepo: ledgerRepo,
		resolver:   newAssetResolver(contractRepo, pickRepo, capSvc),
		history:    historySvc,
		logg:       logg,
	}, nil
}

func (s *service) Propose(ctx context.Context, input ProposeInput) (*models.Trade, error) {
	if input.LeagueID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "league id required")
	}
	if input.ProposerTeamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposer team id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	offset, err := resolveExpiresIn(input.ExpiresIn)
	if err != nil {
		return nil, err
	}

	teamIDs := dedupeTeamIDs(input.TeamIDs)
	if len(teamIDs) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade requires at least two distinct teams")
	}
	if !containsTeam(teamIDs, input.ProposerTeamID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposer must be a trade participant")
	}

	league, err := s.leagues.GetLeague(ctx, input.LeagueID)
	if err != nil {
		return nil, err
	}

	teams := make(map[uuid.UUID]*models.Team, len(teamIDs))
	for _, teamID := range teamIDs {
		team, err := s.leagues.GetTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if team.LeagueID != league.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("team %s is not in this league", team.Name))
		}
		teams[teamID] = team
	}

	if err := s.resolver.Validate(ctx, league, teams, input.Assets); err != nil {
		return nil, err
	}

	now := time.Now()
	trade := &models.Trade{
		LeagueID:       league.ID,
		Status:         enums.TradeStatusPending,
		ApprovalMode:   league.ApprovalMode,
		Approval:       approvalSnapshotFor(league.ApprovalMode),
		ProposerTeamID: input.ProposerTeamID,
		Notes:          input.Notes,
		ExpiresAt:      now.Add(offset),
	}
	for _, teamID := range teamIDs {
		participant := models.TradeParticipant{
			TeamID: teamID,
			Status: enums.ParticipantStatusPending,
		}
		if teamID == input.ProposerTeamID {
			respondedAt := now
			participant.Status = enums.ParticipantStatusAccepted
			participant.RespondedAt = &respondedAt
		}
		trade.Participants = append(trade.Participants, participant)
	}
	for _, asset := range input.Assets {
		trade.Assets = append(trade.Assets, models.TradeAsset{
			FromTeamID:  asset.FromTeamID,
			ToTeamID:    asset.ToTeamID,
			Kind:        asset.Kind,
			ContractID:  asset.ContractID,
			DraftPickID: asset.DraftPickID,
			AmountCents: asset.AmountCents,
			CapYear:     asset.CapYear,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateTrade(ctx, trade)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create trade")
		}
		trade = created
		return s.emitLifecycle(ctx, tx, enums.EventTradeProposed, trade, enums.TradeStatusPending,
			buildActor(input.ActorUserID, input.ProposerTeamID))
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *service) Respond(ctx context.Context, input RespondInput) (*models.Trade, error) {
	if input.TradeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade id required")
	}
	if input.TeamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Decision != RespondDecisionAccept && input.Decision != RespondDecisionReject {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be accept or reject")
	}

	var (
		expired  bool
		executed *models.Trade
		actor    = buildActor(input.ActorUserID, input.TeamID)
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		trade, err := s.lockTrade(ctx, repo, input.TradeID)
		if err != nil {
			return err
		}

		now := time.Now()
		if trade.Status == enums.TradeStatusPending && trade.IsExpired(now) {
			if err := repo.UpdateTrade(ctx, trade.ID, map[string]any{"status": enums.TradeStatusExpired}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire trade")
			}
			expired = true
			return s.emitLifecycle(ctx, tx, enums.EventTradeExpired, trade, enums.TradeStatusExpired, actor)
		}
		if trade.Status != enums.TradeStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade is not open for responses")
		}

		if input.Decision == RespondDecisionReject {
			rows, err := repo.UpdateParticipantStatusGuarded(ctx, trade.ID, input.TeamID,
				enums.ParticipantStatusPending, enums.ParticipantStatusRejected, now)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject participant")
			}
			if rows == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "not a participant or already responded")
			}
			if err := repo.UpdateTrade(ctx, trade.ID, map[string]any{"status": enums.TradeStatusRejected}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject trade")
			}
			return s.emitLifecycle(ctx, tx, enums.EventTradeRejected, trade, enums.TradeStatusRejected, actor)
		}

		rows, err := repo.UpdateParticipantStatusGuarded(ctx, trade.ID, input.TeamID,
			enums.ParticipantStatusPending, enums.ParticipantStatusAccepted, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept participant")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "not a participant or already responded")
		}

		pending, err := repo.CountPendingParticipants(ctx, trade.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending participants")
		}
		if pending > 0 {
			return nil
		}

		league, err := s.leagues.GetLeague(ctx, trade.LeagueID)
		if err != nil {
			return err
		}

		if !trade.Approval.RequiresCommissionerApproval && !trade.Approval.RequiresLeagueVote {
			if err := s.executeTrade(ctx, tx, trade, league); err != nil {
				return err
			}
			if err := repo.UpdateTrade(ctx, trade.ID, map[string]any{"status": enums.TradeStatusCompleted}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete trade")
			}
			executed = trade
			return s.emitLifecycle(ctx, tx, enums.EventTradeCompleted, trade, enums.TradeStatusCompleted, actor)
		}

		updates := map[string]any{"status": enums.TradeStatusAccepted}
		if trade.Approval.RequiresLeagueVote {
			hours := league.VoteWindowHours
			if hours <= 0 {
				hours = defaultVoteWindowHours
			}
			updates["vote_deadline"] = now.Add(time.Duration(hours) * time.Hour)
		}
		if err := repo.UpdateTrade(ctx, trade.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark trade accepted")
		}
		return s.emitLifecycle(ctx, tx, enums.EventTradeAccepted, trade, enums.TradeStatusAccepted, actor)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "trade has expired")
	}
	if executed != nil {
		s.recordHistory(ctx, executed)
	}
	return s.Get(ctx, input.TradeID)
}

func (s *service) ApproveAsCommissioner(ctx context.Context, input ApproveInput) (*models.Trade, error) {
	if input.TradeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade id required")
	}
	if input.CommissionerTeamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commissioner team id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	trade, err := s.Get(ctx, input.TradeID)
	if err != nil {
		return nil, err
	}
	isCommissioner, err := s.leagues.IsCommissioner(ctx, trade.LeagueID, input.CommissionerTeamID)
	if err != nil {
		return nil, err
	}
	if !isCommissioner {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "approval requires a commissioner of this league")
	}

	actor := buildActor(input.ActorUserID, input.CommissionerTeamID)
	var executed *models.Trade
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := s.lockTrade(ctx, repo, input.TradeID)
		if err != nil {
			return err
		}
		if locked.Status != enums.TradeStatusAccepted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade is not awaiting approval")
		}
		if !locked.Approval.RequiresCommissionerApproval && !locked.Approval.RequiresLeagueVote {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade does not require approval")
		}
		if locked.Approval.RequiresLeagueVote && !locked.Approval.RequiresCommissionerApproval {
			// A vote-mode trade stays open to vetoes until the deadline;
			// the commissioner only finalizes once the window has closed.
			if locked.Approval.VoteDeadline != nil && time.Now().Before(*locked.Approval.VoteDeadline) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "vote window is still open")
			}
		}

		league, err := s.leagues.GetLeague(ctx, locked.LeagueID)
		if err != nil {
			return err
		}
		if err := s.executeTrade(ctx, tx, locked, league); err != nil {
			return err
		}
		now := time.Now()
		updates := map[string]any{
			"status":      enums.TradeStatusCompleted,
			"approved_by": input.CommissionerTeamID,
			"approved_at": now,
		}
		if err := repo.UpdateTrade(ctx, locked.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete trade")
		}
		executed = locked
		return s.emitLifecycle(ctx, tx, enums.EventTradeCompleted, locked, enums.TradeStatusCompleted, actor)
	})
	if err != nil {
		return nil, err
	}
	if executed != nil {
		s.recordHistory(ctx, executed)
	}
	return s.Get(ctx, input.TradeID)
}

func (s *service) Vote(ctx context.Context, input VoteInput) (*VoteResult, error) {
	if input.TradeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade id required")
	}
	if input.VoterTeamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voter team id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Value.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vote must be approve or veto")
	}

	actor := buildActor(input.ActorUserID, input.VoterTeamID)
	var result VoteResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		trade, err := s.lockTrade(ctx, repo, input.TradeID)
		if err != nil {
			return err
		}
		if trade.Status != enums.TradeStatusAccepted || !trade.Approval.RequiresLeagueVote {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade is not open for voting")
		}
		now := time.Now()
		if trade.Approval.VoteDeadline != nil && now.After(*trade.Approval.VoteDeadline) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vote window has closed")
		}
		for _, participant := range trade.Participants {
			if participant.TeamID == input.VoterTeamID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "participants cannot vote on their own trade")
			}
		}
		team, err := s.leagues.GetTeam(ctx, input.VoterTeamID)
		if err != nil {
			return err
		}
		if team.LeagueID != trade.LeagueID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "team is not in this league")
		}

		votesFor := trade.VotesFor
		votesAgainst := trade.VotesAgainst

		existing, err := repo.FindVote(ctx, trade.ID, input.VoterTeamID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := &models.TradeVote{
				TradeID: trade.ID,
				TeamID:  input.VoterTeamID,
				Value:   input.Value,
				VotedAt: now,
			}
			if err := repo.CreateVote(ctx, vote); err != nil {
				if db.IsUniqueViolation(err, "idx_trade_votes_trade_team") {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "vote already recorded")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record vote")
			}
			if input.Value == enums.TradeVoteApprove {
				votesFor++
			} else {
				votesAgainst++
			}
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing vote")
		case existing.Value != input.Value:
			// Switching sides corrects both tallies, not just the new one.
			if err := repo.UpdateVote(ctx, existing.ID, input.Value, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vote")
			}
			if input.Value == enums.TradeVoteApprove {
				votesFor++
				votesAgainst--
			} else {
				votesFor--
				votesAgainst++
			}
		}

		if votesFor != trade.VotesFor || votesAgainst != trade.VotesAgainst {
			updates := map[string]any{"votes_for": votesFor, "votes_against": votesAgainst}
			if err := repo.UpdateTrade(ctx, trade.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tallies")
			}
		}
		trade.VotesFor = votesFor
		trade.VotesAgainst = votesAgainst

		league, err := s.leagues.GetLeague(ctx, trade.LeagueID)
		if err != nil {
			return err
		}
		eligible := eligibleVoters(league.TotalRosters, len(trade.Participants))
		threshold := vetoThreshold(eligible, league.VetoFraction)

		status := trade.Status
		if votesAgainst >= threshold {
			if err := repo.UpdateTrade(ctx, trade.ID, map[string]any{"status": enums.TradeStatusRejected}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "veto trade")
			}
			status = enums.TradeStatusRejected
			if err := s.emitLifecycle(ctx, tx, enums.EventTradeVetoed, trade, status, actor); err != nil {
				return err
			}
		}

		result = VoteResult{
			VotesFor:       votesFor,
			VotesAgainst:   votesAgainst,
			VetoThreshold:  threshold,
			EligibleVoters: eligible,
			Status:         status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Cancel kills a pending trade. Any authenticated caller may cancel; the
// missing ownership check is long-standing product behavior.
func (s *service) Cancel(ctx context.Context, tradeID, actorUserID uuid.UUID) error {
	if tradeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "trade id required")
	}
	if actorUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		trade, err := s.lockTrade(ctx, repo, tradeID)
		if err != nil {
			return err
		}
		if trade.Status != enums.TradeStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending trades can be cancelled")
		}
		if err := repo.UpdateTrade(ctx, trade.ID, map[string]any{"status": enums.TradeStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel trade")
		}
		return s.emitLifecycle(ctx, tx, enums.EventTradeCancelled, trade, enums.TradeStatusCancelled,
			buildActor(actorUserID, uuid.Nil))
	})
}

func (s *service) Withdraw(ctx context.Context, tradeID, teamID, actorUserID uuid.UUID) error {
	if tradeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "trade id required")
	}
	if teamID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "team id required")
	}
	if actorUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		trade, err := s.lockTrade(ctx, repo, tradeID)
		if err != nil {
			return err
		}
		if trade.Status != enums.TradeStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending trades can be withdrawn")
		}
		if trade.ProposerTeamID != teamID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the proposer may withdraw a trade")
		}
		if err := repo.UpdateTrade(ctx, trade.ID, map[string]any{"status": enums.TradeStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "withdraw trade")
		}
		return s.emitLifecycle(ctx, tx, enums.EventTradeCancelled, trade, enums.TradeStatusCancelled,
			buildActor(actorUserID, teamID))
	})
}

func (s *service) List(ctx context.Context, leagueID uuid.UUID, filters ListFilters) ([]models.Trade, error) {
	if leagueID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "league id required")
	}
	trades, err := s.repo.ListTrades(ctx, leagueID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trades")
	}
	return trades, nil
}

func (s *service) Get(ctx context.Context, tradeID uuid.UUID) (*models.Trade, error) {
	if tradeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade id required")
	}
	trade, err := s.repo.FindTrade(ctx, tradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trade not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trade")
	}
	return trade, nil
}

// ExpireStale sweeps pending trades whose expiration has passed. Each flip is
// its own transaction so one bad row cannot block the rest of the batch.
func (s *service) ExpireStale(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	now := time.Now()
	stale, err := s.repo.FindExpiredPending(ctx, now, batchSize)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find expired trades")
	}

	expired := 0
	var errs error
	for _, trade := range stale {
		trade := trade
		var flipped bool
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			rows, err := repo.UpdateTradeStatusGuarded(ctx, trade.ID, enums.TradeStatusPending, enums.TradeStatusExpired)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire trade")
			}
			if rows == 0 {
				return nil
			}
			flipped = true
			return s.emitLifecycle(ctx, tx, enums.EventTradeExpired, &trade, enums.TradeStatusExpired, nil)
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if flipped {
			expired++
		}
	}
	return expired, errs
}

func (s *service) lockTrade(ctx context.Context, repo Repository, tradeID uuid.UUID) (*models.Trade, error) {
	trade, err := repo.FindTradeForUpdate(ctx, tradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trade not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trade")
	}
	return trade, nil
}

func (s *service) emitLifecycle(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, trade *models.Trade, status enums.TradeStatus, actor *outbox.ActorRef) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateTrade,
		AggregateID:   trade.ID,
		Version:       1,
		Actor:         actor,
		Data: TradeLifecycleEvent{
			TradeID:        trade.ID,
			LeagueID:       trade.LeagueID,
			Status:         status,
			ProposerTeamID: trade.ProposerTeamID,
			VotesFor:       trade.VotesFor,
			VotesAgainst:   trade.VotesAgainst,
		},
	})
}

// recordHistory runs after the executing transaction commits. The trade is
// already completed; a history failure is logged and swallowed.
func (s *service) recordHistory(ctx context.Context, trade *models.Trade) {
	if _, err := s.history.Record(ctx, trade); err != nil && s.logg != nil {
		logCtx := s.logg.WithTradeID(ctx, trade.ID.String())
		s.logg.Error(logCtx, "trade history record failed", err)
	}
}

func buildActor(userID, teamID uuid.UUID) *outbox.ActorRef {
	actor := &outbox.ActorRef{UserID: userID}
	if teamID != uuid.Nil {
		team := teamID
		actor.TeamID = &team
	}
	return actor
}

func dedupeTeamIDs(teamIDs []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(teamIDs))
	var out []uuid.UUID
	for _, id := range teamIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsTeam(teamIDs []uuid.UUID, target uuid.UUID) bool {
	for _, id := range teamIDs {
		if id == target {
			return true
		}
	}
	return false
}
