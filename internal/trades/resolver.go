package trades

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/internal/contracts"
	"github.com/capkeeperhq/capkeeper-backend/internal/draftpicks"
	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
	pkgerrors "github.com/capkeeperhq/capkeeper-backend/pkg/errors"
)

// supportedCapYearSpan is how many seasons beyond the current one accept cap
// space movements.
const supportedCapYearSpan = 2

// assetResolver validates a proposal's asset movements before any row exists.
// It is pure validation; execution re-checks ownership and cap room under the
// executing transaction.
type assetResolver struct {
	contracts contracts.Repository
	picks     draftpicks.Repository
	capSvc    contracts.Service
}

func newAssetResolver(contractRepo contracts.Repository, pickRepo draftpicks.Repository, capSvc contracts.Service) *assetResolver {
	return &assetResolver{contracts: contractRepo, picks: pickRepo, capSvc: capSvc}
}

// Validate rejects the whole proposal on the first violation. Teams must
// already be verified as league members by the caller; the map provides names
// for error messages.
func (r *assetResolver) Validate(ctx context.Context, league *models.League, teams map[uuid.UUID]*models.Team, assets []AssetInput) error {
	if len(assets) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "trade requires at least one asset")
	}

	for _, asset := range assets {
		if asset.FromTeamID == asset.ToTeamID {
			return pkgerrors.New(pkgerrors.CodeValidation, "asset source and destination must differ")
		}
		if _, ok := teams[asset.FromTeamID]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "asset source team is not a trade participant")
		}
		if _, ok := teams[asset.ToTeamID]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "asset destination team is not a trade participant")
		}

		switch asset.Kind {
		case enums.TradeAssetKindContract:
			if err := r.validateContract(ctx, league, teams, asset); err != nil {
				return err
			}
		case enums.TradeAssetKindDraftPick:
			if err := r.validatePick(ctx, asset); err != nil {
				return err
			}
		case enums.TradeAssetKindCapSpace:
			if err := validateCapSpace(league, asset); err != nil {
				return err
			}
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown asset kind %q", asset.Kind))
		}
	}
	return nil
}

func (r *assetResolver) validateContract(ctx context.Context, league *models.League, teams map[uuid.UUID]*models.Team, asset AssetInput) error {
	if asset.ContractID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "contract asset requires contract_id")
	}
	contract, err := r.contracts.FindContract(ctx, *asset.ContractID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contract not found")
	}
	if contract.LeagueID != league.ID {
		return pkgerrors.New(pkgerrors.CodeValidation, "contract belongs to a different league")
	}
	if contract.TeamID != asset.FromTeamID {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("contract for %s is not owned by the stated source team", contract.PlayerName))
	}
	if contract.Status != enums.ContractStatusActive {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("contract for %s is not active", contract.PlayerName))
	}

	room, err := r.capSvc.CapRoom(ctx, asset.ToTeamID, league.CurrentSeason)
	if err != nil {
		return err
	}
	if room < int64(contract.SalaryCents) {
		return capRoomError(teams[asset.ToTeamID], league.CurrentSeason)
	}
	return nil
}

func (r *assetResolver) validatePick(ctx context.Context, asset AssetInput) error {
	if asset.DraftPickID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "draft pick asset requires draft_pick_id")
	}
	pick, err := r.picks.FindPick(ctx, *asset.DraftPickID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "draft pick not found")
	}
	if pick.OwnerTeamID != asset.FromTeamID {
		return pkgerrors.New(pkgerrors.CodeValidation, "draft pick is not owned by the stated source team")
	}
	return nil
}

// Cap space is synthetic, so there is no ownership to check; only the amount
// and the target ledger year are validated.
func validateCapSpace(league *models.League, asset AssetInput) error {
	if asset.AmountCents == nil || *asset.AmountCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cap space amount must be positive")
	}
	if asset.CapYear == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cap space asset requires cap_year")
	}
	year := *asset.CapYear
	if year < league.CurrentSeason || year > league.CurrentSeason+supportedCapYearSpan {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cap_year must be between %d and %d", league.CurrentSeason, league.CurrentSeason+supportedCapYearSpan))
	}
	return nil
}

func capRoomError(team *models.Team, year int) error {
	name := "destination team"
	if team != nil {
		name = team.Name
	}
	return pkgerrors.New(pkgerrors.CodeCapRoom,
		fmt.Sprintf("trade puts %s over the cap in %d", name, year))
}
