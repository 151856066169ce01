package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateTrade          OutboxAggregateType = "trade"
	AggregateContract       OutboxAggregateType = "contract"
	AggregateDraftPick      OutboxAggregateType = "draft_pick"
	AggregateCapLedgerEntry OutboxAggregateType = "cap_ledger_entry"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateTrade,
	AggregateContract,
	AggregateDraftPick,
	AggregateCapLedgerEntry,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventTradeProposed  OutboxEventType = "trade_proposed"
	EventTradeAccepted  OutboxEventType = "trade_accepted"
	EventTradeCompleted OutboxEventType = "trade_completed"
	EventTradeRejected  OutboxEventType = "trade_rejected"
	EventTradeCancelled OutboxEventType = "trade_cancelled"
	EventTradeExpired   OutboxEventType = "trade_expired"
	EventTradeVetoed    OutboxEventType = "trade_vetoed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventTradeProposed,
	EventTradeAccepted,
	EventTradeCompleted,
	EventTradeRejected,
	EventTradeCancelled,
	EventTradeExpired,
	EventTradeVetoed,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
