package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is one franchise in a league.
type Team struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeagueID       uuid.UUID `gorm:"column:league_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	OwnerUserID    uuid.UUID `gorm:"column:owner_user_id;type:uuid;not null"`
	IsCommissioner bool      `gorm:"column:is_commissioner;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
