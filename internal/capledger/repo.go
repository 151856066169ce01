package capledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// capAdjustingTypes are the entry types that move a team's cap room directly.
// Contract transfer records are zero-sum audit rows; the salary they describe
// is already counted through current contract ownership.
var capAdjustingTypes = []enums.CapTransactionType{
	enums.CapTransactionTradeCapHit,
	enums.CapTransactionTradeCapCredit,
	enums.CapTransactionDeadMoney,
}

// Repository manages the append-only cap ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, entries []models.CapLedgerEntry) error
	ListByTeamYear(ctx context.Context, teamID uuid.UUID, year int) ([]models.CapLedgerEntry, error)
	ListByTrade(ctx context.Context, tradeID uuid.UUID) ([]models.CapLedgerEntry, error)
	SumForTeamYear(ctx context.Context, teamID uuid.UUID, year int) (int64, error)
	SumDeadMoney(ctx context.Context, teamID uuid.UUID, year int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cap ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, entries []models.CapLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) ListByTeamYear(ctx context.Context, teamID uuid.UUID, year int) ([]models.CapLedgerEntry, error) {
	var entries []models.CapLedgerEntry
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND year = ?", teamID, year).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByTrade(ctx context.Context, tradeID uuid.UUID) ([]models.CapLedgerEntry, error) {
	var entries []models.CapLedgerEntry
	err := r.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SumForTeamYear totals the cap-adjusting entries for a team/year.
func (r *repository) SumForTeamYear(ctx context.Context, teamID uuid.UUID, year int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.CapLedgerEntry{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("team_id = ? AND year = ? AND type IN ?", teamID, year, capAdjustingTypes).
		Scan(&total).Error
	return total, err
}

func (r *repository) SumDeadMoney(ctx context.Context, teamID uuid.UUID, year int) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.CapLedgerEntry{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("team_id = ? AND year = ? AND type = ?", teamID, year, enums.CapTransactionDeadMoney).
		Scan(&total).Error
	return total, err
}
