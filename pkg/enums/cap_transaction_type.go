package enums

import "fmt"

// CapTransactionType maps to the cap_transaction_type_enum enum in Postgres.
type CapTransactionType string

const (
	CapTransactionContractTradedOut CapTransactionType = "contract_traded_out"
	CapTransactionContractTradedIn  CapTransactionType = "contract_traded_in"
	CapTransactionTradeCapHit       CapTransactionType = "trade_cap_hit"
	CapTransactionTradeCapCredit    CapTransactionType = "trade_cap_credit"
	CapTransactionDeadMoney         CapTransactionType = "dead_money"
)

var validCapTransactionTypes = []CapTransactionType{
	CapTransactionContractTradedOut,
	CapTransactionContractTradedIn,
	CapTransactionTradeCapHit,
	CapTransactionTradeCapCredit,
	CapTransactionDeadMoney,
}

// IsValid reports whether the value matches the canonical cap transaction enum.
func (t CapTransactionType) IsValid() bool {
	for _, candidate := range validCapTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseCapTransactionType converts raw input into CapTransactionType.
func ParseCapTransactionType(value string) (CapTransactionType, error) {
	for _, candidate := range validCapTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cap transaction type %q", value)
}
