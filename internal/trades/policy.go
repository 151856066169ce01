package trades

import (
	"math"

	"github.com/capkeeperhq/capkeeper-backend/pkg/db/models"
	"github.com/capkeeperhq/capkeeper-backend/pkg/enums"
)

const defaultVetoFraction = 0.5

// approvalSnapshotFor freezes the league's approval policy onto a new trade.
// The vote deadline stays nil until the trade reaches accepted; the voting
// window opens at acceptance time, not proposal time.
func approvalSnapshotFor(mode enums.TradeApprovalMode) models.TradeApprovalSnapshot {
	switch mode {
	case enums.TradeApprovalModeCommissioner:
		return models.TradeApprovalSnapshot{RequiresCommissionerApproval: true}
	case enums.TradeApprovalModeLeagueVote:
		return models.TradeApprovalSnapshot{RequiresLeagueVote: true}
	default:
		return models.TradeApprovalSnapshot{}
	}
}

// eligibleVoters counts the league teams that may vote: everyone except the
// trade's participants.
func eligibleVoters(totalRosters, participantCount int) int {
	eligible := totalRosters - participantCount
	if eligible < 0 {
		return 0
	}
	return eligible
}

// vetoThreshold is the minimum veto count that rejects the trade. The
// fraction falls back to one half when the league has no usable setting.
func vetoThreshold(eligible int, fraction float64) int {
	if fraction <= 0 {
		fraction = defaultVetoFraction
	}
	return int(math.Ceil(float64(eligible) * fraction))
}
