package testhelpers

import (
	"context"
	"sync"

	"xpslots/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockKeyValueStore is a mock implementation of KeyValueStore
type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// FakeKeyValueStore is a map-backed KeyValueStore for state-based tests.
// When SetErr is non-nil every Set fails with it and stores nothing.
type FakeKeyValueStore struct {
	mu     sync.Mutex
	values map[string][]byte
	Writes int
	SetErr error
}

// NewFakeKeyValueStore creates an empty FakeKeyValueStore
func NewFakeKeyValueStore() *FakeKeyValueStore {
	return &FakeKeyValueStore{values: make(map[string][]byte)}
}

func (f *FakeKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (f *FakeKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.values[key] = append([]byte(nil), value...)
	f.Writes++
	return nil
}

// Raw returns the stored bytes for key
func (f *FakeKeyValueStore) Raw(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

// MockPurchaseRepository is a mock implementation of PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Create(ctx context.Context, purchase *entities.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) GetByPaymentID(ctx context.Context, paymentID string) (*entities.Purchase, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) Transition(ctx context.Context, paymentID string, from, to entities.PaymentStatus) (bool, error) {
	args := m.Called(ctx, paymentID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) ListByIdentity(ctx context.Context, identity string, limit int) ([]*entities.Purchase, error) {
	args := m.Called(ctx, identity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListPending(ctx context.Context) ([]*entities.Purchase, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Purchase), args.Error(1)
}
