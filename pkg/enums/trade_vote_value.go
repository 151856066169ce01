package enums

import "fmt"

// TradeVoteValue is a non-participant team's position on an accepted trade.
type TradeVoteValue string

const (
	TradeVoteApprove TradeVoteValue = "approve"
	TradeVoteVeto    TradeVoteValue = "veto"
)

var validTradeVoteValues = []TradeVoteValue{
	TradeVoteApprove,
	TradeVoteVeto,
}

// String implements fmt.Stringer.
func (v TradeVoteValue) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TradeVoteValue.
func (v TradeVoteValue) IsValid() bool {
	for _, candidate := range validTradeVoteValues {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseTradeVoteValue converts raw input into a TradeVoteValue.
func ParseTradeVoteValue(value string) (TradeVoteValue, error) {
	for _, candidate := range validTradeVoteValues {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade vote value %q", value)
}
