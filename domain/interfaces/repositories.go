package interfaces

import (
	"context"

	"xpslots/domain/entities"
)

// KeyValueStore is the durable backend for serialized ledger records
type KeyValueStore interface {
	// Get returns the value stored under key; found is false when the key is absent
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error
}

// PurchaseRepository defines the interface for purchase data access
type PurchaseRepository interface {
	// Create inserts a new purchase; returns ErrPurchaseAlreadyExists for a duplicate payment ID
	Create(ctx context.Context, purchase *entities.Purchase) error

	// GetByPaymentID returns the purchase or ErrPurchaseNotFound
	GetByPaymentID(ctx context.Context, paymentID string) (*entities.Purchase, error)

	// Transition moves a purchase from one status to another.
	// Returns false when the purchase was not in the expected status.
	Transition(ctx context.Context, paymentID string, from, to entities.PaymentStatus) (bool, error)

	// ListByIdentity returns the most recent purchases of an identity
	ListByIdentity(ctx context.Context, identity string, limit int) ([]*entities.Purchase, error)

	// ListPending returns all purchases still awaiting payment confirmation
	ListPending(ctx context.Context) ([]*entities.Purchase, error)
}

// TransactionalStores are the stores available inside a unit of work
type TransactionalStores struct {
	Purchases PurchaseRepository
	Ledgers   KeyValueStore
}

// UnitOfWork runs work whose writes through stores either all persist or, when
// work returns an error, none do
type UnitOfWork interface {
	Do(ctx context.Context, work func(stores TransactionalStores) error) error
}
