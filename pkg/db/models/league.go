package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// League holds the settings the trade engine reads when a trade is proposed.
// Approval-mode fields are snapshotted onto the trade row at proposal time;
// editing them later never changes an in-flight trade.
type League struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string                  `gorm:"column:name;not null"`
	CurrentSeason   int                     `gorm:"column:current_season;not null"`
	TotalRosters    int                     `gorm:"column:total_rosters;not null"`
	SalaryCapCents  int                     `gorm:"column:salary_cap_cents;not null"`
	ApprovalMode    enums.TradeApprovalMode `gorm:"column:trade_approval_mode;type:trade_approval_mode_enum;not null;default:'auto'"`
	VoteWindowHours int                     `gorm:"column:vote_window_hours;not null;default:24"`
	VetoFraction    float64                 `gorm:"column:veto_fraction;not null;default:0.5"`
	Teams           []Team                  `gorm:"foreignKey:LeagueID"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
