package enums

import "fmt"

// TradeApprovalMode selects how an all-accepted trade reaches execution.
type TradeApprovalMode string

const (
	TradeApprovalModeAuto         TradeApprovalMode = "auto"
	TradeApprovalModeCommissioner TradeApprovalMode = "commissioner"
	TradeApprovalModeLeagueVote   TradeApprovalMode = "league_vote"
)

var validTradeApprovalModes = []TradeApprovalMode{
	TradeApprovalModeAuto,
	TradeApprovalModeCommissioner,
	TradeApprovalModeLeagueVote,
}

// String implements fmt.Stringer.
func (m TradeApprovalMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known TradeApprovalMode.
func (m TradeApprovalMode) IsValid() bool {
	for _, candidate := range validTradeApprovalModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseTradeApprovalMode converts raw input into a TradeApprovalMode.
func ParseTradeApprovalMode(value string) (TradeApprovalMode, error) {
	for _, candidate := range validTradeApprovalModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade approval mode %q", value)
}
