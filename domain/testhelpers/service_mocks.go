package testhelpers

import (
	"context"
	"sync"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/events"
	"xpslots/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// RecordingEventPublisher keeps every published event in order
type RecordingEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *RecordingEventPublisher) Publish(event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the published events
func (r *RecordingEventPublisher) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// Types returns the type of every published event in order
func (r *RecordingEventPublisher) Types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]events.EventType, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.Type())
	}
	return types
}

// NoopMetricsRecorder discards all measurements
type NoopMetricsRecorder struct{}

func (NoopMetricsRecorder) RecordLedgerTransaction(kind string)           {}
func (NoopMetricsRecorder) RecordRound(result string, bet, payout int64)  {}
func (NoopMetricsRecorder) RecordPaymentPoll(status string, attempts int) {}

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Load(ctx context.Context, identity string) (*entities.Ledger, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ledger), args.Error(1)
}

func (m *MockLedgerService) Credit(ctx context.Context, identity string, amount int64, kind entities.TransactionKind, externalReference string) (*entities.Ledger, error) {
	args := m.Called(ctx, identity, amount, kind, externalReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ledger), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, identity string, amount int64, kind entities.TransactionKind) (*entities.Ledger, error) {
	args := m.Called(ctx, identity, amount, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ledger), args.Error(1)
}

func (m *MockLedgerService) SettleRound(ctx context.Context, identity string, bet, payout int64) (*entities.Ledger, error) {
	args := m.Called(ctx, identity, bet, payout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ledger), args.Error(1)
}

// WithinUnitOfWork runs fn through uow with the mock as the ledger view
func (m *MockLedgerService) WithinUnitOfWork(ctx context.Context, identity string, uow interfaces.UnitOfWork, fn func(stores interfaces.TransactionalStores, ledger interfaces.LedgerService) error) error {
	args := m.Called(ctx, identity)
	if err := args.Error(0); err != nil {
		return err
	}
	return uow.Do(ctx, func(stores interfaces.TransactionalStores) error {
		return fn(stores, m)
	})
}

func (m *MockLedgerService) HasSufficientBalance(ctx context.Context, identity string, amount int64) (bool, error) {
	args := m.Called(ctx, identity, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerService) Reset(ctx context.Context, identity string) (*entities.Ledger, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ledger), args.Error(1)
}

// WithEventPublisher returns the mock itself so expectations stay in one place
func (m *MockLedgerService) WithEventPublisher(publisher interfaces.EventPublisher) interfaces.LedgerService {
	return m
}

// MockRoundResolver is a mock implementation of RoundResolver
type MockRoundResolver struct {
	mock.Mock
}

func (m *MockRoundResolver) PlayRound(ctx context.Context, identity string, bet int64, catalog []entities.Token) (*entities.Round, error) {
	args := m.Called(ctx, identity, bet, catalog)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Round), args.Error(1)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) InitiatePayment(ctx context.Context, request entities.PaymentRequest) (*entities.PaymentResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentResult), args.Error(1)
}

func (m *MockPaymentGateway) GetPaymentStatus(ctx context.Context, paymentID string, testnet bool) (entities.PaymentStatus, error) {
	args := m.Called(ctx, paymentID, testnet)
	return args.Get(0).(entities.PaymentStatus), args.Error(1)
}

// MockPaymentPoller is a mock implementation of PaymentPoller
type MockPaymentPoller struct {
	mock.Mock
}

func (m *MockPaymentPoller) PollStatus(ctx context.Context, paymentID string, testnet bool, maxAttempts int, interval time.Duration) (entities.PaymentStatus, error) {
	args := m.Called(ctx, paymentID, testnet, maxAttempts, interval)
	return args.Get(0).(entities.PaymentStatus), args.Error(1)
}

// MockPurchaseService is a mock implementation of PurchaseService
type MockPurchaseService struct {
	mock.Mock
}

func (m *MockPurchaseService) BuyPackage(ctx context.Context, identity string, packageID string) (*entities.PurchaseResult, error) {
	args := m.Called(ctx, identity, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PurchaseResult), args.Error(1)
}

func (m *MockPurchaseService) ConfirmPurchase(ctx context.Context, paymentID string) (*entities.PurchaseResult, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PurchaseResult), args.Error(1)
}

func (m *MockPurchaseService) ResumePending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPurchaseService) ListPurchases(ctx context.Context, identity string, limit int) ([]*entities.Purchase, error) {
	args := m.Called(ctx, identity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Purchase), args.Error(1)
}

// MockCashoutService is a mock implementation of CashoutService
type MockCashoutService struct {
	mock.Mock
}

func (m *MockCashoutService) Quote(xp int64) (*entities.CashoutQuote, error) {
	args := m.Called(xp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CashoutQuote), args.Error(1)
}

func (m *MockCashoutService) Cashout(ctx context.Context, identity string, xp int64) (*entities.CashoutResult, error) {
	args := m.Called(ctx, identity, xp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CashoutResult), args.Error(1)
}

// BufferedEventPublisher holds events and forwards them to Target on Flush
type BufferedEventPublisher struct {
	Target   interfaces.EventPublisher
	pending  []events.Event
	Flushes  int
	Discards int
}

func (b *BufferedEventPublisher) Publish(event events.Event) error {
	b.pending = append(b.pending, event)
	return nil
}

func (b *BufferedEventPublisher) Flush(ctx context.Context) error {
	b.Flushes++
	for _, event := range b.pending {
		if err := b.Target.Publish(event); err != nil {
			return err
		}
	}
	b.pending = nil
	return nil
}

func (b *BufferedEventPublisher) Discard() {
	b.Discards++
	b.pending = nil
}

// NewBufferedPublisherFactory returns a factory of publishers that forward to target on Flush
func NewBufferedPublisherFactory(target interfaces.EventPublisher) interfaces.TransactionalEventPublisherFactory {
	return func() interfaces.TransactionalEventPublisher {
		return &BufferedEventPublisher{Target: target}
	}
}

// DirectUnitOfWork runs work straight against Stores and counts the runs whose
// work failed and would have been rolled back
type DirectUnitOfWork struct {
	Stores     interfaces.TransactionalStores
	Runs       int
	RolledBack int
}

func (u *DirectUnitOfWork) Do(ctx context.Context, work func(stores interfaces.TransactionalStores) error) error {
	u.Runs++
	if err := work(u.Stores); err != nil {
		u.RolledBack++
		return err
	}
	return nil
}
