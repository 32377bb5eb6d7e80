package interfaces

import (
	"context"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher holds events until Flush or Discard is called
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

// TransactionalEventPublisherFactory creates a fresh transactional publisher per unit of work
type TransactionalEventPublisherFactory func() TransactionalEventPublisher

// MetricsRecorder receives domain measurements
type MetricsRecorder interface {
	RecordLedgerTransaction(kind string)
	RecordRound(result string, bet, payout int64)
	RecordPaymentPoll(status string, attempts int)
}

// RandomSource draws uniformly distributed integers in [0, n)
type RandomSource interface {
	Intn(n int) int
}

// LedgerService defines the interface for per-identity XP ledgers
type LedgerService interface {
	// Load returns the persisted ledger or a fresh zeroed ledger
	Load(ctx context.Context, identity string) (*entities.Ledger, error)

	// Credit adds a purchase or win to the ledger and returns the updated ledger
	Credit(ctx context.Context, identity string, amount int64, kind entities.TransactionKind, externalReference string) (*entities.Ledger, error)

	// Debit removes a bet or cashout from the ledger and returns the updated ledger
	Debit(ctx context.Context, identity string, amount int64, kind entities.TransactionKind) (*entities.Ledger, error)

	// SettleRound debits a round's bet and credits its payout in a single write,
	// so the round is recorded in full or not at all
	SettleRound(ctx context.Context, identity string, bet, payout int64) (*entities.Ledger, error)

	// WithinUnitOfWork runs fn while holding the identity's lock. Writes made through
	// the ledger passed to fn go through the unit of work's stores and persist
	// together with fn's other writes.
	WithinUnitOfWork(ctx context.Context, identity string, uow UnitOfWork, fn func(stores TransactionalStores, ledger LedgerService) error) error

	// HasSufficientBalance checks if the ledger balance covers amount
	HasSufficientBalance(ctx context.Context, identity string, amount int64) (bool, error)

	// Reset zeroes the ledger and clears its history. Administrative use only.
	Reset(ctx context.Context, identity string) (*entities.Ledger, error)

	// WithEventPublisher returns a view of the ledger that publishes to publisher
	// while sharing the same storage and per-identity locks
	WithEventPublisher(publisher EventPublisher) LedgerService
}

// RoundResolver defines the interface for playing slot rounds
type RoundResolver interface {
	PlayRound(ctx context.Context, identity string, bet int64, catalog []entities.Token) (*entities.Round, error)
}

// PoolTracker accumulates shared prize pool statistics
type PoolTracker interface {
	RecordRound(round *entities.Round)
	Snapshot() entities.PoolSnapshot
}

// PaymentGateway is the external hosted payment service
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, request entities.PaymentRequest) (*entities.PaymentResult, error)
	GetPaymentStatus(ctx context.Context, paymentID string, testnet bool) (entities.PaymentStatus, error)
}

// PaymentPoller waits for an external payment to reach a terminal status
type PaymentPoller interface {
	PollStatus(ctx context.Context, paymentID string, testnet bool, maxAttempts int, interval time.Duration) (entities.PaymentStatus, error)
}

// PurchaseService defines the interface for buying XP packages
type PurchaseService interface {
	BuyPackage(ctx context.Context, identity string, packageID string) (*entities.PurchaseResult, error)
	ConfirmPurchase(ctx context.Context, paymentID string) (*entities.PurchaseResult, error)
	ResumePending(ctx context.Context) (int, error)
	ListPurchases(ctx context.Context, identity string, limit int) ([]*entities.Purchase, error)
}

// CashoutService defines the interface for converting XP back to dollars
type CashoutService interface {
	Quote(xp int64) (*entities.CashoutQuote, error)
	Cashout(ctx context.Context, identity string, xp int64) (*entities.CashoutResult, error)
}
