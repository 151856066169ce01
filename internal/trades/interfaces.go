package trades

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// Repository defines persistence operations for the trade lifecycle tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error)
	FindTrade(ctx context.Context, tradeID uuid.UUID) (*models.Trade, error)
	FindTradeForUpdate(ctx context.Context, tradeID uuid.UUID) (*models.Trade, error)
	CountPendingParticipants(ctx context.Context, tradeID uuid.UUID) (int64, error)
	UpdateParticipantStatusGuarded(ctx context.Context, tradeID, teamID uuid.UUID, from, to enums.ParticipantStatus, respondedAt time.Time) (int64, error)
	UpdateTrade(ctx context.Context, tradeID uuid.UUID, updates map[string]any) error
	UpdateTradeStatusGuarded(ctx context.Context, tradeID uuid.UUID, from, to enums.TradeStatus) (int64, error)
	FindVote(ctx context.Context, tradeID, teamID uuid.UUID) (*models.TradeVote, error)
	CreateVote(ctx context.Context, vote *models.TradeVote) error
	UpdateVote(ctx context.Context, voteID uuid.UUID, value enums.TradeVoteValue, votedAt time.Time) error
	ListTrades(ctx context.Context, leagueID uuid.UUID, filters ListFilters) ([]models.Trade, error)
	FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Trade, error)
}
