package infrastructure

import (
	"fmt"

	"xpslots/domain/events"
)

const (
	SubjectBalanceChanged    = "xpslots.ledger.balance_changed"
	SubjectLedgerReset       = "xpslots.ledger.reset"
	SubjectRoundResolved     = "xpslots.round.resolved"
	SubjectPurchaseCompleted = "xpslots.purchase.completed"
	SubjectCashoutRequested  = "xpslots.cashout.requested"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return SubjectBalanceChanged
	case events.EventTypeLedgerReset:
		return SubjectLedgerReset
	case events.EventTypeRoundResolved:
		return SubjectRoundResolved
	case events.EventTypePurchaseCompleted:
		return SubjectPurchaseCompleted
	case events.EventTypeCashoutRequested:
		return SubjectCashoutRequested
	default:
		return fmt.Sprintf("xpslots.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectBalanceChanged,
		SubjectLedgerReset,
		SubjectRoundResolved,
		SubjectPurchaseCompleted,
		SubjectCashoutRequested,
	}
}
