package draftpicks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
)

// Repository manages persistence for draft picks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error)
	FindByOwner(ctx context.Context, ownerTeamID uuid.UUID) ([]models.DraftPick, error)
	ReassignOwner(ctx context.Context, pickID, fromTeamID, toTeamID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a draft pick repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error) {
	var pick models.DraftPick
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pick).Error; err != nil {
		return nil, err
	}
	return &pick, nil
}

func (r *repository) FindByOwner(ctx context.Context, ownerTeamID uuid.UUID) ([]models.DraftPick, error) {
	var picks []models.DraftPick
	err := r.db.WithContext(ctx).
		Where("owner_team_id = ?", ownerTeamID).
		Order("season ASC, round ASC").
		Find(&picks).Error
	if err != nil {
		return nil, err
	}
	return picks, nil
}

// ReassignOwner moves the pick to the destination team only if the source team
// still owns it, so concurrent executions cannot double-transfer a pick.
func (r *repository) ReassignOwner(ctx context.Context, pickID, fromTeamID, toTeamID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DraftPick{}).
		Where("id = ? AND owner_team_id = ?", pickID, fromTeamID).
		Update("owner_team_id", toTeamID)
	return res.RowsAffected, res.Error
}
