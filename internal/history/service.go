package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/internal/contracts"
	"github.com/capkeeperhq/capkeeper-backend/internal/draftpicks"
	"github.com/capkeeperhq/capkeeper-backend/internal/leagues"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
	"github.com/capkeeperhq/capkeeper-backend/pkg/pagination"
)

// ReceivedItem is one line of the display projection for a completed trade.
type ReceivedItem struct {
	Kind        enums.TradeAssetKind `json:"kind"`
	Description string               `json:"description"`
	AmountCents int                  `json:"amountCents,omitempty"`
	CapYear     int                  `json:"capYear,omitempty"`
}

// Service builds and serves trade history records. Record is best effort and
// runs after the executing transaction has committed; a failure here never
// unwinds the trade itself.
type Service interface {
	Record(ctx context.Context, trade *models.Trade) (*models.TradeHistoryRecord, error)
	ListByLeague(ctx context.Context, leagueID uuid.UUID, limit int) ([]models.TradeHistoryRecord, error)
}

type service struct {
	repo      Repository
	leagues   leagues.Service
	contracts contracts.Repository
	picks     draftpicks.Repository
}

// NewService wires a trade history service with its dependencies.
func NewService(repo Repository, leagueSvc leagues.Service, contractRepo contracts.Repository, pickRepo draftpicks.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository required")
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
	return &service{repo: repo, leagues: leagueSvc, contracts: contractRepo, picks: pickRepo}, nil
}

// Record snapshots a completed trade into a display record. The trade must
// carry its participants and assets; the record covers the first two
// participants in creation order.
func (s *service) Record(ctx context.Context, trade *models.Trade) (*models.TradeHistoryRecord, error) {
	if trade == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade required")
	}
	if len(trade.Participants) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade has fewer than two participants")
	}

	league, err := s.leagues.GetLeague(ctx, trade.LeagueID)
	if err != nil {
		return nil, err
	}
	year := league.CurrentSeason

	teamA := trade.Participants[0]
	teamB := trade.Participants[1]
	teamAName, err := s.teamName(ctx, teamA.TeamID)
	if err != nil {
		return nil, err
	}
	teamBName, err := s.teamName(ctx, teamB.TeamID)
	if err != nil {
		return nil, err
	}

	var teamAItems, teamBItems []ReceivedItem
	for _, asset := range trade.Assets {
		item, err := s.describeAsset(ctx, league.CurrentSeason, asset)
		if err != nil {
			return nil, err
		}
		switch asset.ToTeamID {
		case teamA.TeamID:
			teamAItems = append(teamAItems, item)
		case teamB.TeamID:
			teamBItems = append(teamBItems, item)
		}
	}

	teamAReceived, err := marshalItems(teamAItems)
	if err != nil {
		return nil, err
	}
	teamBReceived, err := marshalItems(teamBItems)
	if err != nil {
		return nil, err
	}

	number, err := s.nextTradeNumber(ctx, trade.LeagueID, year)
	if err != nil {
		return nil, err
	}

	record := &models.TradeHistoryRecord{
		LeagueID:      trade.LeagueID,
		TradeID:       trade.ID,
		TradeNumber:   number,
		Year:          year,
		TeamAName:     teamAName,
		TeamBName:     teamBName,
		TeamAReceived: teamAReceived,
		TeamBReceived: teamBReceived,
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert trade history record")
	}
	return record, nil
}

func (s *service) ListByLeague(ctx context.Context, leagueID uuid.UUID, limit int) ([]models.TradeHistoryRecord, error) {
	if leagueID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "league id required")
	}
	limit = pagination.NormalizeLimit(limit)
	records, err := s.repo.ListByLeague(ctx, leagueID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trade history")
	}
	return records, nil
}

// nextTradeNumber formats the league-scoped sequence as YY.NN, where NN is the
// count of recorded trades in that league and year plus one.
func (s *service) nextTradeNumber(ctx context.Context, leagueID uuid.UUID, year int) (string, error) {
	count, err := s.repo.CountByLeagueYear(ctx, leagueID, year)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count trade history records")
	}
	return fmt.Sprintf("%02d.%02d", year%100, count+1), nil
}

func (s *service) teamName(ctx context.Context, teamID uuid.UUID) (string, error) {
	team, err := s.leagues.GetTeam(ctx, teamID)
	if err != nil {
		return "", err
	}
	return team.Name, nil
}

func (s *service) describeAsset(ctx context.Context, currentSeason int, asset models.TradeAsset) (ReceivedItem, error) {
	switch asset.Kind {
	case enums.TradeAssetKindContract:
		if asset.ContractID == nil {
			return ReceivedItem{}, pkgerrors.New(pkgerrors.CodeValidation, "contract asset missing contract id")
		}
		contract, err := s.contracts.FindContract(ctx, *asset.ContractID)
		if err != nil {
			return ReceivedItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract for history")
		}
		return ReceivedItem{
			Kind: asset.Kind,
			Description: fmt.Sprintf("%s (%s, %s, %d yrs)",
				contract.PlayerName, contract.Position, formatCents(contract.SalaryCents), contract.YearsLeft(currentSeason)),
			AmountCents: contract.SalaryCents,
		}, nil
	case enums.TradeAssetKindDraftPick:
		if asset.DraftPickID == nil {
			return ReceivedItem{}, pkgerrors.New(pkgerrors.CodeValidation, "pick asset missing pick id")
		}
		pick, err := s.picks.FindPick(ctx, *asset.DraftPickID)
		if err != nil {
			return ReceivedItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft pick for history")
		}
		desc := fmt.Sprintf("%d Round %d", pick.Season, pick.Round)
		if pick.PickNumber != nil {
			desc = fmt.Sprintf("%s Pick %d", desc, *pick.PickNumber)
		}
		if pick.OriginalTeamID != asset.FromTeamID {
			originalName, err := s.teamName(ctx, pick.OriginalTeamID)
			if err == nil {
				desc = fmt.Sprintf("%s (via %s)", desc, originalName)
			}
		}
		return ReceivedItem{Kind: asset.Kind, Description: desc}, nil
	case enums.TradeAssetKindCapSpace:
		if asset.AmountCents == nil || asset.CapYear == nil {
			return ReceivedItem{}, pkgerrors.New(pkgerrors.CodeValidation, "cap space asset missing amount or year")
		}
		return ReceivedItem{
			Kind:        asset.Kind,
			Description: fmt.Sprintf("%s cap space (%d)", formatCents(*asset.AmountCents), *asset.CapYear),
			AmountCents: *asset.AmountCents,
			CapYear:     *asset.CapYear,
		}, nil
	default:
		return ReceivedItem{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown asset kind")
	}
}

func marshalItems(items []ReceivedItem) (json.RawMessage, error) {
	if items == nil {
		items = []ReceivedItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal history items")
	}
	return raw, nil
}

func formatCents(cents int) string {
	dollars := float64(cents) / 100
	switch {
	case dollars >= 1_000_000:
		return fmt.Sprintf("$%.2fM", dollars/1_000_000)
	case dollars >= 1_000:
		return fmt.Sprintf("$%.1fK", dollars/1_000)
	default:
		return fmt.Sprintf("$%.2f", dollars)
	}
}
