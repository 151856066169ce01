package enums

import "fmt"

// TradeAssetKind discriminates the payload carried by a trade asset.
type TradeAssetKind string

const (
	TradeAssetKindContract  TradeAssetKind = "contract"
	TradeAssetKindDraftPick TradeAssetKind = "draft_pick"
	TradeAssetKindCapSpace  TradeAssetKind = "cap_space"
)

var validTradeAssetKinds = []TradeAssetKind{
	TradeAssetKindContract,
	TradeAssetKindDraftPick,
	TradeAssetKindCapSpace,
}

// String implements fmt.Stringer.
func (k TradeAssetKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TradeAssetKind.
func (k TradeAssetKind) IsValid() bool {
	for _, candidate := range validTradeAssetKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTradeAssetKind converts raw input into a TradeAssetKind.
func ParseTradeAssetKind(value string) (TradeAssetKind, error) {
	for _, candidate := range validTradeAssetKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade asset kind %q", value)
}
