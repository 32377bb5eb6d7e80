package services

import (
	"context"
	"errors"
	"fmt"

	"xpslots/domain/entities"
	"xpslots/domain/events"
	"xpslots/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type cashoutService struct {
	ledger       interfaces.LedgerService
	newPublisher interfaces.TransactionalEventPublisherFactory
}

// NewCashoutService creates a new cashout service
func NewCashoutService(ledger interfaces.LedgerService, newPublisher interfaces.TransactionalEventPublisherFactory) interfaces.CashoutService {
	return &cashoutService{
		ledger:       ledger,
		newPublisher: newPublisher,
	}
}

// Quote prices a cashout. The fee is rounded to the nearest cent, halves up.
func (s *cashoutService) Quote(xp int64) (*entities.CashoutQuote, error) {
	if xp <= 0 {
		return nil, entities.ErrInvalidAmount
	}
	if xp < entities.MinCashoutXP {
		return nil, fmt.Errorf("%w: minimum is %d XP", entities.ErrBelowMinimumCashout, entities.MinCashoutXP)
	}

	gross := entities.XPToUSDCents(xp)
	fee := (gross*entities.CashoutFeePercent + 50) / 100

	return &entities.CashoutQuote{
		XP:         xp,
		GrossCents: gross,
		FeeCents:   fee,
		NetCents:   gross - fee,
	}, nil
}

func (s *cashoutService) Cashout(ctx context.Context, identity string, xp int64) (*entities.CashoutResult, error) {
	quote, err := s.Quote(xp)
	if err != nil {
		return nil, err
	}

	publisher := s.newPublisher()
	ledger, err := s.ledger.WithEventPublisher(publisher).Debit(ctx, identity, xp, entities.TransactionKindCashout)
	if err != nil {
		publisher.Discard()
		if errors.Is(err, entities.ErrInsufficientBalance) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to debit cashout: %w", err)
	}

	txID := ledger.Transactions[0].ID
	if err := publisher.Publish(events.CashoutRequestedEvent{
		Identity:      identity,
		TransactionID: txID,
		XP:            xp,
		NetCents:      quote.NetCents,
		FeeCents:      quote.FeeCents,
	}); err != nil {
		log.WithError(err).Error("Failed to publish cashout requested event")
	}
	if err := publisher.Flush(ctx); err != nil {
		log.WithError(err).Error("Failed to flush cashout events")
	}

	log.WithFields(log.Fields{
		"identity":      identity,
		"xp":            xp,
		"net":           entities.FormatUSDCents(quote.NetCents),
		"transactionID": txID,
	}).Info("Cashout requested")

	return &entities.CashoutResult{
		Quote:         quote,
		TransactionID: txID,
		Ledger:        ledger,
	}, nil
}
