package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/events"
	"xpslots/domain/interfaces"
	"xpslots/domain/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// LedgerKeyPrefix namespaces ledger records in the key-value store
const LedgerKeyPrefix = "user_xp_state_"

// LedgerKey returns the storage key of an identity's ledger
func LedgerKey(identity string) string {
	return LedgerKeyPrefix + identity
}

type ledgerService struct {
	store          interfaces.KeyValueStore
	locks          *utils.KeyedMutex
	eventPublisher interfaces.EventPublisher
	metrics        interfaces.MetricsRecorder
	now            func() time.Time
	newID          func() string

	// heldIdentity is set on views created inside WithinUnitOfWork, whose caller
	// already holds that identity's lock
	heldIdentity string
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store interfaces.KeyValueStore, eventPublisher interfaces.EventPublisher, metrics interfaces.MetricsRecorder) interfaces.LedgerService {
	return &ledgerService{
		store:          store,
		locks:          utils.NewKeyedMutex(),
		eventPublisher: eventPublisher,
		metrics:        metrics,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          uuid.NewString,
	}
}

func (s *ledgerService) WithEventPublisher(publisher interfaces.EventPublisher) interfaces.LedgerService {
	view := *s
	view.eventPublisher = publisher
	return &view
}

func (s *ledgerService) Load(ctx context.Context, identity string) (*entities.Ledger, error) {
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	ledger, err := s.read(ctx, identity)
	if err != nil {
		log.WithFields(log.Fields{
			"identity": identity,
			"error":    err,
		}).Warn("Failed to read ledger, serving a fresh ledger")
		return entities.NewLedger(), nil
	}
	return ledger, nil
}

func (s *ledgerService) Credit(ctx context.Context, identity string, amount int64, kind entities.TransactionKind, externalReference string) (*entities.Ledger, error) {
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, entities.ErrInvalidAmount
	}
	if !kind.IsCredit() {
		return nil, fmt.Errorf("%w: %s is not a credit", entities.ErrInvalidTransactionKind, kind)
	}

	tx := entities.Transaction{
		ID:                s.newID(),
		Kind:              kind,
		Amount:            amount,
		Timestamp:         s.now(),
		ExternalReference: externalReference,
	}

	return s.mutate(ctx, identity, []entities.Transaction{tx}, func(ledger *entities.Ledger) error {
		return ledger.ApplyCredit(tx)
	})
}

func (s *ledgerService) Debit(ctx context.Context, identity string, amount int64, kind entities.TransactionKind) (*entities.Ledger, error) {
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, entities.ErrInvalidAmount
	}
	if !kind.IsDebit() {
		return nil, fmt.Errorf("%w: %s is not a debit", entities.ErrInvalidTransactionKind, kind)
	}

	tx := entities.Transaction{
		ID:        s.newID(),
		Kind:      kind,
		Amount:    -amount,
		Timestamp: s.now(),
	}

	return s.mutate(ctx, identity, []entities.Transaction{tx}, func(ledger *entities.Ledger) error {
		if err := ledger.ApplyDebit(tx); err != nil {
			return fmt.Errorf("%w: have %d, need %d", err, ledger.Balance, amount)
		}
		return nil
	})
}

// SettleRound records a round's bet and any winnings with a single write
func (s *ledgerService) SettleRound(ctx context.Context, identity string, bet, payout int64) (*entities.Ledger, error) {
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}
	if bet <= 0 || payout < 0 {
		return nil, entities.ErrInvalidAmount
	}

	now := s.now()
	txs := []entities.Transaction{{
		ID:        s.newID(),
		Kind:      entities.TransactionKindBet,
		Amount:    -bet,
		Timestamp: now,
	}}
	if payout > 0 {
		txs = append(txs, entities.Transaction{
			ID:        s.newID(),
			Kind:      entities.TransactionKindWin,
			Amount:    payout,
			Timestamp: now,
		})
	}

	return s.mutate(ctx, identity, txs, func(ledger *entities.Ledger) error {
		if err := ledger.ApplyDebit(txs[0]); err != nil {
			return fmt.Errorf("%w: have %d, need %d", err, ledger.Balance, bet)
		}
		if payout > 0 {
			return ledger.ApplyCredit(txs[1])
		}
		return nil
	})
}

func (s *ledgerService) WithinUnitOfWork(ctx context.Context, identity string, uow interfaces.UnitOfWork, fn func(stores interfaces.TransactionalStores, ledger interfaces.LedgerService) error) error {
	if err := entities.ValidateIdentity(identity); err != nil {
		return err
	}

	unlock := s.lock(identity)
	defer unlock()

	return uow.Do(ctx, func(stores interfaces.TransactionalStores) error {
		view := *s
		view.store = stores.Ledgers
		view.heldIdentity = identity
		return fn(stores, &view)
	})
}

func (s *ledgerService) HasSufficientBalance(ctx context.Context, identity string, amount int64) (bool, error) {
	if amount < 0 {
		return false, entities.ErrInvalidAmount
	}
	ledger, err := s.Load(ctx, identity)
	if err != nil {
		return false, err
	}
	return ledger.HasSufficientBalance(amount), nil
}

func (s *ledgerService) Reset(ctx context.Context, identity string) (*entities.Ledger, error) {
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	unlock := s.lock(identity)
	defer unlock()

	var oldBalance int64
	if current, err := s.read(ctx, identity); err == nil {
		oldBalance = current.Balance
	}

	ledger := entities.NewLedger()
	if err := s.write(ctx, identity, ledger); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"identity":   identity,
		"oldBalance": oldBalance,
	}).Info("Ledger reset")

	if err := s.eventPublisher.Publish(events.LedgerResetEvent{Identity: identity, OldBalance: oldBalance}); err != nil {
		log.WithError(err).Error("Failed to publish ledger reset event")
	}

	return ledger, nil
}

func (s *ledgerService) lock(identity string) func() {
	if identity == s.heldIdentity {
		return func() {}
	}
	return s.locks.Lock(identity)
}

// mutate applies a change to the identity's ledger under its lock and persists it
// in one write before the change is returned or announced
func (s *ledgerService) mutate(ctx context.Context, identity string, txs []entities.Transaction, apply func(*entities.Ledger) error) (*entities.Ledger, error) {
	unlock := s.lock(identity)
	defer unlock()

	current, err := s.read(ctx, identity)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := apply(next); err != nil {
		return nil, err
	}

	if err := s.write(ctx, identity, next); err != nil {
		return nil, err
	}

	balance := current.Balance
	for _, tx := range txs {
		s.metrics.RecordLedgerTransaction(string(tx.Kind))
		utils.PublishBalanceChange(s.eventPublisher, identity, tx, balance, balance+tx.Amount)
		balance += tx.Amount
	}

	return next, nil
}

// read returns the stored ledger, a fresh ledger when the record is absent or
// malformed, or an error when the store itself fails
func (s *ledgerService) read(ctx context.Context, identity string) (*entities.Ledger, error) {
	raw, found, err := s.store.Get(ctx, LedgerKey(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	if !found {
		return entities.NewLedger(), nil
	}

	ledger, err := entities.DecodeLedger(raw)
	if err != nil {
		if errors.Is(err, entities.ErrMalformedLedger) {
			log.WithFields(log.Fields{
				"identity": identity,
				"error":    err,
			}).Warn("Discarding malformed ledger record")
			return entities.NewLedger(), nil
		}
		return nil, err
	}
	return ledger, nil
}

func (s *ledgerService) write(ctx context.Context, identity string, ledger *entities.Ledger) error {
	data, err := entities.EncodeLedger(ledger)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, LedgerKey(identity), data); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	return nil
}
