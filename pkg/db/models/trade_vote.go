package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// TradeVote is a non-participant team's position on an accepted trade.
// Unique per (trade, team); a re-vote overwrites the prior row.
type TradeVote struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TradeID   uuid.UUID            `gorm:"column:trade_id;type:uuid;not null;uniqueIndex:idx_trade_votes_trade_team"`
	TeamID    uuid.UUID            `gorm:"column:team_id;type:uuid;not null;uniqueIndex:idx_trade_votes_trade_team"`
	Value     enums.TradeVoteValue `gorm:"column:value;type:trade_vote_value_enum;not null"`
	VotedAt   time.Time            `gorm:"column:voted_at;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
}
