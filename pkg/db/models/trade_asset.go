package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// TradeAsset is one movement inside a trade. Kind discriminates which payload
// columns are populated: ContractID for contracts, DraftPickID for picks,
// AmountCents+CapYear for cap space.
type TradeAsset struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TradeID     uuid.UUID            `gorm:"column:trade_id;type:uuid;not null"`
	FromTeamID  uuid.UUID            `gorm:"column:from_team_id;type:uuid;not null"`
	ToTeamID    uuid.UUID            `gorm:"column:to_team_id;type:uuid;not null"`
	Kind        enums.TradeAssetKind `gorm:"column:kind;type:trade_asset_kind_enum;not null"`
	ContractID  *uuid.UUID           `gorm:"column:contract_id;type:uuid"`
	DraftPickID *uuid.UUID           `gorm:"column:draft_pick_id;type:uuid"`
	AmountCents *int                 `gorm:"column:amount_cents"`
	CapYear     *int                 `gorm:"column:cap_year"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
