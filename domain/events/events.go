package events

import "xpslots/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeLedgerReset       EventType = "ledger_reset"
	EventTypeRoundResolved     EventType = "round_resolved"
	EventTypePurchaseCompleted EventType = "purchase_completed"
	EventTypeCashoutRequested  EventType = "cashout_requested"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted after a ledger mutation has been persisted
type BalanceChangeEvent struct {
	Identity          string                   `json:"identity"`
	TransactionID     string                   `json:"transactionId"`
	Kind              entities.TransactionKind `json:"kind"`
	ChangeAmount      int64                    `json:"changeAmount"`
	OldBalance        int64                    `json:"oldBalance"`
	NewBalance        int64                    `json:"newBalance"`
	ExternalReference string                   `json:"externalReference,omitempty"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// LedgerResetEvent is emitted when an administrator wipes a ledger
type LedgerResetEvent struct {
	Identity   string `json:"identity"`
	OldBalance int64  `json:"oldBalance"`
}

func (e LedgerResetEvent) Type() EventType {
	return EventTypeLedgerReset
}

// RoundResolvedEvent is emitted once a round has been fully settled
type RoundResolvedEvent struct {
	Identity string               `json:"identity"`
	Bet      int64                `json:"bet"`
	Result   entities.RoundResult `json:"result"`
	Payout   int64                `json:"payout"`
	Symbols  []string             `json:"symbols"`
	Balance  int64                `json:"balance"`
}

func (e RoundResolvedEvent) Type() EventType {
	return EventTypeRoundResolved
}

// PurchaseCompletedEvent is emitted when a paid purchase has been credited
type PurchaseCompletedEvent struct {
	Identity  string `json:"identity"`
	PaymentID string `json:"paymentId"`
	PackageID string `json:"packageId"`
	XPAmount  int64  `json:"xpAmount"`
}

func (e PurchaseCompletedEvent) Type() EventType {
	return EventTypePurchaseCompleted
}

// CashoutRequestedEvent is emitted after XP has been debited for a cashout so a
// downstream settler can send the funds
type CashoutRequestedEvent struct {
	Identity      string `json:"identity"`
	TransactionID string `json:"transactionId"`
	XP            int64  `json:"xp"`
	NetCents      int64  `json:"netCents"`
	FeeCents      int64  `json:"feeCents"`
}

func (e CashoutRequestedEvent) Type() EventType {
	return EventTypeCashoutRequested
}
