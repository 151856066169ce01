package leagues

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
)

// Repository loads league settings and team rows for the trade engine.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	FindTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a leagues repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	var league models.League
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&league).Error; err != nil {
		return nil, err
	}
	return &league, nil
}

func (r *repository) FindTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}
