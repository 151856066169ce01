package trades

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
	"github.com/capkeeperhq/capkeeper-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a trades repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	if err := r.db.WithContext(ctx).Create(trade).Error; err != nil {
		return nil, err
	}
	return trade, nil
}

func (r *repository) FindTrade(ctx context.Context, tradeID uuid.UUID) (*models.Trade, error) {
	var trade models.Trade
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Assets").
		Preload("Votes").
		Where("id = ?", tradeID).
		First(&trade).Error
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// FindTradeForUpdate locks the trade row so concurrent lifecycle calls on the
// same trade serialize. Associations are loaded after the lock is held.
func (r *repository) FindTradeForUpdate(ctx context.Context, tradeID uuid.UUID) (*models.Trade, error) {
	var trade models.Trade
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", tradeID).
		First(&trade).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Order("created_at ASC").
		Find(&trade.Participants).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Find(&trade.Assets).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Find(&trade.Votes).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *repository) CountPendingParticipants(ctx context.Context, tradeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TradeParticipant{}).
		Where("trade_id = ? AND status = ?", tradeID, enums.ParticipantStatusPending).
		Count(&count).Error
	return count, err
}

// UpdateParticipantStatusGuarded flips one participant row only when it is
// still in the expected state. A zero rows-affected result means the caller
// is not a participant or has already responded.
func (r *repository) UpdateParticipantStatusGuarded(ctx context.Context, tradeID, teamID uuid.UUID, from, to enums.ParticipantStatus, respondedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TradeParticipant{}).
		Where("trade_id = ? AND team_id = ? AND status = ?", tradeID, teamID, from).
		Updates(map[string]any{
			"status":       to,
			"responded_at": respondedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateTrade(ctx context.Context, tradeID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("id = ?", tradeID).
		Updates(updates).Error
}

func (r *repository) UpdateTradeStatusGuarded(ctx context.Context, tradeID uuid.UUID, from, to enums.TradeStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("id = ? AND status = ?", tradeID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *repository) FindVote(ctx context.Context, tradeID, teamID uuid.UUID) (*models.TradeVote, error) {
	var vote models.TradeVote
	err := r.db.WithContext(ctx).
		Where("trade_id = ? AND team_id = ?", tradeID, teamID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *repository) CreateVote(ctx context.Context, vote *models.TradeVote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *repository) UpdateVote(ctx context.Context, voteID uuid.UUID, value enums.TradeVoteValue, votedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.TradeVote{}).
		Where("id = ?", voteID).
		Updates(map[string]any{
			"value":    value,
			"voted_at": votedAt,
		}).Error
}

// ListTrades returns a league's trades newest first. When a viewer team is
// supplied, pending trades are restricted to ones that team participates in;
// without a viewer the caller sees everything.
func (r *repository) ListTrades(ctx context.Context, leagueID uuid.UUID, filters ListFilters) ([]models.Trade, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Trade{}).
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Assets").
		Where("trades.league_id = ?", leagueID)

	if filters.Status != nil {
		query = query.Where("trades.status = ?", *filters.Status)
	}
	if filters.ViewerTeamID != nil {
		query = query.Where(
			"trades.status <> ? OR EXISTS (SELECT 1 FROM trade_participants tp WHERE tp.trade_id = trades.id AND tp.team_id = ?)",
			enums.TradeStatusPending, *filters.ViewerTeamID,
		)
	}

	limit := pagination.NormalizeLimit(filters.Limit)

	var trades []models.Trade
	err := query.Order("trades.created_at DESC").Limit(limit).Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *repository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", enums.TradeStatusPending, cutoff).
		Order("expires_at ASC").
		Limit(limit).
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}
