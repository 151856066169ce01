package contracts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/internal/capledger"
	"github.com/capkeeperhq/capkeeper-backend/internal/leagues"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
)

// CapSummary is the cap position of one team for one year.
type CapSummary struct {
	TeamID                uuid.UUID `json:"team_id"`
	Year                  int       `json:"year"`
	CapLimitCents         int64     `json:"cap_limit_cents"`
	CommittedSalaryCents  int64     `json:"committed_salary_cents"`
	LedgerAdjustmentCents int64     `json:"ledger_adjustment_cents"`
	DeadMoneyCents        int64     `json:"dead_money_cents"`
	CapRoomCents          int64     `json:"cap_room_cents"`
}

// Service computes cap summaries from active contracts and the cap ledger.
type Service interface {
	CapSummary(ctx context.Context, teamID uuid.UUID, year int) (*CapSummary, error)
	CapRoom(ctx context.Context, teamID uuid.UUID, year int) (int64, error)
}

type service struct {
	repo    Repository
	ledger  capledger.Repository
	leagues leagues.Service
}

// NewService wires a contract cap service with its read dependencies.
func NewService(repo Repository, ledger capledger.Repository, leagueSvc leagues.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contracts repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("cap ledger repository required")
	}
	if leagueSvc == nil {
		return nil, fmt.Errorf("leagues service required")
	}
	return &service{repo: repo, ledger: ledger, leagues: leagueSvc}, nil
}

// CapSummary computes a team's cap position for a year. Cap room is the cap
// limit minus committed salary minus all ledger adjustments for that year;
// dead money already lives inside the ledger sum and is broken out for display.
func (s *service) CapSummary(ctx context.Context, teamID uuid.UUID, year int) (*CapSummary, error) {
	if teamID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id required")
	}

	team, err := s.leagues.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	league, err := s.leagues.GetLeague(ctx, team.LeagueID)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		year = league.CurrentSeason
	}

	committed, err := s.repo.SumActiveSalaries(ctx, teamID, year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum contract salaries")
	}
	adjustments, err := s.ledger.SumForTeamYear(ctx, teamID, year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum ledger entries")
	}
	deadMoney, err := s.ledger.SumDeadMoney(ctx, teamID, year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum dead money")
	}

	capLimit := int64(league.SalaryCapCents)
	return &CapSummary{
		TeamID:                teamID,
		Year:                  year,
		CapLimitCents:         capLimit,
		CommittedSalaryCents:  committed,
		LedgerAdjustmentCents: adjustments,
		DeadMoneyCents:        deadMoney,
		CapRoomCents:          capLimit - committed - adjustments,
	}, nil
}

func (s *service) CapRoom(ctx context.Context, teamID uuid.UUID, year int) (int64, error) {
	summary, err := s.CapSummary(ctx, teamID, year)
	if err != nil {
		return 0, err
	}
	return summary.CapRoomCents, nil
}
