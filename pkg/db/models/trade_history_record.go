package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TradeHistoryRecord is a denormalized display projection of a completed
// trade. It is derived from the trade's assets at execution time and is never
// the source of truth for cap or ownership state.
type TradeHistoryRecord struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeagueID      uuid.UUID       `gorm:"column:league_id;type:uuid;not null"`
	TradeID       uuid.UUID       `gorm:"column:trade_id;type:uuid;not null;uniqueIndex"`
	TradeNumber   string          `gorm:"column:trade_number;not null"`
	Year          int             `gorm:"column:year;not null"`
	TeamAName     string          `gorm:"column:team_a_name;not null"`
	TeamBName     string          `gorm:"column:team_b_name;not null"`
	TeamAReceived json.RawMessage `gorm:"column:team_a_received;type:jsonb;not null"`
	TeamBReceived json.RawMessage `gorm:"column:team_b_received;type:jsonb;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
