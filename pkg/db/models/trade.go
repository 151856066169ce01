package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

// TradeApprovalSnapshot freezes the league's approval policy onto the trade at
// proposal time so later settings edits cannot change an in-flight trade.
type TradeApprovalSnapshot struct {
	RequiresCommissionerApproval bool       `gorm:"column:requires_commissioner_approval;not null;default:false"`
	RequiresLeagueVote           bool       `gorm:"column:requires_league_vote;not null;default:false"`
	VoteDeadline                 *time.Time `gorm:"column:vote_deadline"`
}

// Trade is the root row of the trade lifecycle. Rows are never deleted;
// terminal states are retained for audit and history.
type Trade struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LeagueID       uuid.UUID               `gorm:"column:league_id;type:uuid;not null"`
	Status         enums.TradeStatus       `gorm:"column:status;type:trade_status_enum;not null;default:'pending'"`
	ApprovalMode   enums.TradeApprovalMode `gorm:"column:approval_mode;type:trade_approval_mode_enum;not null"`
	Approval       TradeApprovalSnapshot   `gorm:"embedded"`
	ProposerTeamID uuid.UUID               `gorm:"column:proposer_team_id;type:uuid;not null"`
	Notes          *string                 `gorm:"column:notes"`
	ExpiresAt      time.Time               `gorm:"column:expires_at;not null"`
	VotesFor       int                     `gorm:"column:votes_for;not null;default:0"`
	VotesAgainst   int                     `gorm:"column:votes_against;not null;default:0"`
	ApprovedBy     *uuid.UUID              `gorm:"column:approved_by;type:uuid"`
	ApprovedAt     *time.Time              `gorm:"column:approved_at"`
	Participants   []TradeParticipant      `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE"`
	Assets         []TradeAsset            `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE"`
	Votes          []TradeVote             `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// IsExpired reports whether the trade's expiration timestamp has passed.
// Expiration is a passive field; callers decide when to act on it.
func (t Trade) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
