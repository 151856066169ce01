package history

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
)

// Repository persists denormalized trade history records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, record *models.TradeHistoryRecord) error
	CountByLeagueYear(ctx context.Context, leagueID uuid.UUID, year int) (int64, error)
	ListByLeague(ctx context.Context, leagueID uuid.UUID, limit int) ([]models.TradeHistoryRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a trade history repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, record *models.TradeHistoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) CountByLeagueYear(ctx context.Context, leagueID uuid.UUID, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TradeHistoryRecord{}).
		Where("league_id = ? AND year = ?", leagueID, year).
		Count(&count).Error
	return count, err
}

func (r *repository) ListByLeague(ctx context.Context, leagueID uuid.UUID, limit int) ([]models.TradeHistoryRecord, error) {
	var records []models.TradeHistoryRecord
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
