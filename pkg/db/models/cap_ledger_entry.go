package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// CapLedgerEntry records one immutable cap-affecting event for a team and year.
// A team's effective cap usage for a year is the sum of its active contract
// salaries plus the sum of its ledger entries for that year.
type CapLedgerEntry struct {
	ID          uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeagueID    uuid.UUID                `gorm:"column:league_id;type:uuid;not null"`
	TeamID      uuid.UUID                `gorm:"column:team_id;type:uuid;not null"`
	Year        int                      `gorm:"column:year;not null"`
	Type        enums.CapTransactionType `gorm:"column:type;type:cap_transaction_type_enum;not null"`
	AmountCents int                      `gorm:"column:amount_cents;not null"`
	Description string                   `gorm:"column:description;not null"`
	ContractID  *uuid.UUID               `gorm:"column:contract_id;type:uuid"`
	TradeID     *uuid.UUID               `gorm:"column:trade_id;type:uuid"`
	CreatedAt   time.Time                `gorm:"column:created_at;autoCreateTime"`
}
