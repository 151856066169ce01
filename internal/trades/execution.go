package trades

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
)

// capCheck identifies one team/year whose cap room must survive execution.
type capCheck struct {
	teamID uuid.UUID
	year   int
}

// executeTrade applies every asset movement inside the caller's transaction.
// Ownership moves use guarded updates so a row that changed hands since
// proposal aborts the whole execution, and cap room is re-validated after the
// ledger entries land. Any error rolls the entire transaction back.
func (s *service) executeTrade(ctx context.Context, tx *gorm.DB, trade *models.Trade, league *models.League) error {
	contractRepo := s.contracts.WithTx(tx)
	pickRepo := s.picks.WithTx(tx)

	var entries []models.CapLedgerEntry
	checks := map[capCheck]struct{}{}
	tradeID := trade.ID

	for _, asset := range trade.Assets {
		switch asset.Kind {
		case enums.TradeAssetKindContract:
			if asset.ContractID == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "contract asset missing contract id")
			}
			contract, err := contractRepo.FindContract(ctx, *asset.ContractID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract for execution")
			}
			rows, err := contractRepo.ReassignOwner(ctx, contract.ID, asset.FromTeamID, asset.ToTeamID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reassign contract")
			}
			if rows == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("contract for %s changed hands since proposal", contract.PlayerName))
			}

			year := league.CurrentSeason
			contractID := contract.ID
			entries = append(entries,
				models.CapLedgerEntry{
					LeagueID:    league.ID,
					TeamID:      asset.FromTeamID,
					Year:        year,
					Type:        enums.CapTransactionContractTradedOut,
					AmountCents: -contract.SalaryCents,
					Description: fmt.Sprintf("traded out %s", contract.PlayerName),
					ContractID:  &contractID,
					TradeID:     &tradeID,
				},
				models.CapLedgerEntry{
					LeagueID:    league.ID,
					TeamID:      asset.ToTeamID,
					Year:        year,
					Type:        enums.CapTransactionContractTradedIn,
					AmountCents: contract.SalaryCents,
					Description: fmt.Sprintf("traded in %s", contract.PlayerName),
					ContractID:  &contractID,
					TradeID:     &tradeID,
				},
			)
			checks[capCheck{teamID: asset.ToTeamID, year: year}] = struct{}{}

		case enums.TradeAssetKindDraftPick:
			if asset.DraftPickID == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "pick asset missing pick id")
			}
			rows, err := pickRepo.ReassignOwner(ctx, *asset.DraftPickID, asset.FromTeamID, asset.ToTeamID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reassign draft pick")
			}
			if rows == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "draft pick changed hands since proposal")
			}

		case enums.TradeAssetKindCapSpace:
			if asset.AmountCents == nil || asset.CapYear == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cap space asset missing amount or year")
			}
			amount := *asset.AmountCents
			year := *asset.CapYear
			// The source team absorbs the hit; the destination gets the relief.
			entries = append(entries,
				models.CapLedgerEntry{
					LeagueID:    league.ID,
					TeamID:      asset.FromTeamID,
					Year:        year,
					Type:        enums.CapTransactionTradeCapHit,
					AmountCents: amount,
					Description: fmt.Sprintf("absorbed cap space for %d", year),
					TradeID:     &tradeID,
				},
				models.CapLedgerEntry{
					LeagueID:    league.ID,
					TeamID:      asset.ToTeamID,
					Year:        year,
					Type:        enums.CapTransactionTradeCapCredit,
					AmountCents: -amount,
					Description: fmt.Sprintf("received cap space for %d", year),
					TradeID:     &tradeID,
				},
			)
			checks[capCheck{teamID: asset.FromTeamID, year: year}] = struct{}{}

		default:
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("unknown asset kind %q", asset.Kind))
		}
	}

	if err := s.ledger.Append(ctx, tx, entries); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append cap ledger entries")
	}

	for check := range checks {
		room, err := s.capRoomInTx(ctx, tx, league, check.teamID, check.year)
		if err != nil {
			return err
		}
		if room < 0 {
			team, lookupErr := s.leagues.GetTeam(ctx, check.teamID)
			if lookupErr != nil {
				team = nil
			}
			return capRoomError(team, check.year)
		}
	}
	return nil
}

// capRoomInTx recomputes a team's cap room under the executing transaction so
// the check sees this trade's own mutations.
func (s *service) capRoomInTx(ctx context.Context, tx *gorm.DB, league *models.League, teamID uuid.UUID, year int) (int64, error) {
	committed, err := s.contracts.WithTx(tx).SumActiveSalaries(ctx, teamID, year)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum contract salaries")
	}
	adjustments, err := s.ledgerRepo.WithTx(tx).SumForTeamYear(ctx, teamID, year)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum ledger entries")
	}
	return int64(league.SalaryCapCents) - committed - adjustments, nil
}
