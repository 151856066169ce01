package contracts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// Repository manages persistence for player contracts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindContract(ctx context.Context, id uuid.UUID) (*models.PlayerContract, error)
	FindActiveByTeam(ctx context.Context, teamID uuid.UUID) ([]models.PlayerContract, error)
	SumActiveSalaries(ctx context.Context, teamID uuid.UUID, year int) (int64, error)
	ReassignOwner(ctx context.Context, contractID, fromTeamID, toTeamID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a contracts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindContract(ctx context.Context, id uuid.UUID) (*models.PlayerContract, error) {
	var contract models.PlayerContract
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repository) FindActiveByTeam(ctx context.Context, teamID uuid.UUID) ([]models.PlayerContract, error) {
	var contracts []models.PlayerContract
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND status = ?", teamID, enums.ContractStatusActive).
		Order("created_at ASC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// SumActiveSalaries totals the salaries an active roster commits against the
// cap for the given year. A contract counts while its end season has not
// passed the year in question.
func (r *repository) SumActiveSalaries(ctx context.Context, teamID uuid.UUID, year int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.PlayerContract{}).
		Select("COALESCE(SUM(salary_cents), 0)").
		Where("team_id = ? AND status = ? AND end_season >= ?", teamID, enums.ContractStatusActive, year).
		Scan(&total).Error
	return total, err
}

// ReassignOwner moves the contract to the destination team only if the source
// team still owns it. The rows-affected result lets callers detect a lost
// race instead of silently double-transferring.
func (r *repository) ReassignOwner(ctx context.Context, contractID, fromTeamID, toTeamID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PlayerContract{}).
		Where("id = ? AND team_id = ? AND status = ?", contractID, fromTeamID, enums.ContractStatusActive).
		Updates(map[string]any{
			"team_id": toTeamID,
			"status":  enums.ContractStatusActive,
		})
	return res.RowsAffected, res.Error
}
