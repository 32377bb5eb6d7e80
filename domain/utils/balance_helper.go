package utils

import (
	"xpslots/domain/entities"
	"xpslots/domain/events"
	"xpslots/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// PublishBalanceChange emits the BalanceChangeEvent for a persisted ledger transaction.
// Publish failures are logged and never undo the ledger change.
func PublishBalanceChange(eventPublisher interfaces.EventPublisher, identity string, tx entities.Transaction, oldBalance, newBalance int64) {
	event := events.BalanceChangeEvent{
		Identity:          identity,
		TransactionID:     tx.ID,
		Kind:              tx.Kind,
		ChangeAmount:      tx.Amount,
		OldBalance:        oldBalance,
		NewBalance:        newBalance,
		ExternalReference: tx.ExternalReference,
	}
	log.WithFields(log.Fields{
		"identity":      event.Identity,
		"transactionID": event.TransactionID,
		"kind":          event.Kind,
		"oldBalance":    event.OldBalance,
		"newBalance":    event.NewBalance,
		"changeAmount":  event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")

	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}
}
