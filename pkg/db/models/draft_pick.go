package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick is a future rookie draft selection. OwnerTeamID moves when the pick
// is traded; OriginalTeamID never changes and names the pick for display.
type DraftPick struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeagueID       uuid.UUID `gorm:"column:league_id;type:uuid;not null"`
	Season         int       `gorm:"column:season;not null"`
	Round          int       `gorm:"column:round;not null"`
	PickNumber     *int      `gorm:"column:pick_number"`
	OriginalTeamID uuid.UUID `gorm:"column:original_team_id;type:uuid;not null"`
	OwnerTeamID    uuid.UUID `gorm:"column:owner_team_id;type:uuid;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
