package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// PlayerContract binds a player salary to a team through its end season.
// Trades reassign team_id; the contract itself stays intact.
type PlayerContract struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeagueID    uuid.UUID            `gorm:"column:league_id;type:uuid;not null"`
	TeamID      uuid.UUID            `gorm:"column:team_id;type:uuid;not null"`
	PlayerName  string               `gorm:"column:player_name;not null"`
	Position    string               `gorm:"column:position;not null"`
	SalaryCents int                  `gorm:"column:salary_cents;not null"`
	TotalYears  int                  `gorm:"column:total_years;not null"`
	EndSeason   int                  `gorm:"column:end_season;not null"`
	Status      enums.ContractStatus `gorm:"column:status;type:contract_status_enum;not null;default:'active'"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// YearsLeft reports how many seasons remain on the contract as of the given season.
func (c PlayerContract) YearsLeft(currentSeason int) int {
	left := c.EndSeason - currentSeason + 1
	if left < 0 {
		return 0
	}
	return left
}
