package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// TradeParticipant is one team's standing within a trade. The proposer's row
// is created already accepted.
type TradeParticipant struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TradeID     uuid.UUID               `gorm:"column:trade_id;type:uuid;not null;uniqueIndex:idx_trade_participants_trade_team"`
	TeamID      uuid.UUID               `gorm:"column:team_id;type:uuid;not null;uniqueIndex:idx_trade_participants_trade_team"`
	Status      enums.ParticipantStatus `gorm:"column:status;type:participant_status_enum;not null;default:'pending'"`
	RespondedAt *time.Time              `gorm:"column:responded_at"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
}
