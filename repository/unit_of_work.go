package repository

import (
	"context"
	"fmt"
	"sync"

	"xpslots/database"
	"xpslots/domain/entities"
	"xpslots/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type postgresUnitOfWork struct {
	db *database.DB
}

// NewUnitOfWork creates a unit of work backed by a PostgreSQL transaction
func NewUnitOfWork(db *database.DB) interfaces.UnitOfWork {
	return &postgresUnitOfWork{db: db}
}

func (u *postgresUnitOfWork) Do(ctx context.Context, work func(stores interfaces.TransactionalStores) error) error {
	return u.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return work(interfaces.TransactionalStores{
			Purchases: NewPurchaseRepositoryWithTx(tx),
			Ledgers:   NewLedgerStoreWithTx(tx),
		})
	})
}

// bufferedUnitOfWork stages writes in memory and applies them to the underlying
// stores only after the work succeeds
type bufferedUnitOfWork struct {
	mu        sync.Mutex
	purchases interfaces.PurchaseRepository
	ledgers   interfaces.KeyValueStore
}

// NewBufferedUnitOfWork creates a unit of work for stores without transactions,
// such as the in-memory backend
func NewBufferedUnitOfWork(purchases interfaces.PurchaseRepository, ledgers interfaces.KeyValueStore) interfaces.UnitOfWork {
	return &bufferedUnitOfWork{purchases: purchases, ledgers: ledgers}
}

func (u *bufferedUnitOfWork) Do(ctx context.Context, work func(stores interfaces.TransactionalStores) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	purchases := &stagedPurchases{PurchaseRepository: u.purchases, statuses: make(map[string]entities.PaymentStatus)}
	ledgers := &stagedStore{base: u.ledgers, values: make(map[string][]byte)}

	if err := work(interfaces.TransactionalStores{Purchases: purchases, Ledgers: ledgers}); err != nil {
		return err
	}

	for _, t := range purchases.transitions {
		ok, err := u.purchases.Transition(ctx, t.paymentID, t.from, t.to)
		if err != nil {
			return fmt.Errorf("failed to apply purchase transition: %w", err)
		}
		if !ok {
			return fmt.Errorf("purchase %s changed status during the unit of work", t.paymentID)
		}
	}
	for _, key := range ledgers.order {
		if err := u.ledgers.Set(ctx, key, ledgers.values[key]); err != nil {
			return fmt.Errorf("failed to apply ledger write: %w", err)
		}
	}
	return nil
}

type stagedTransition struct {
	paymentID string
	from, to  entities.PaymentStatus
}

// stagedPurchases records transitions instead of applying them. Other calls go
// straight to the embedded repository.
type stagedPurchases struct {
	interfaces.PurchaseRepository
	statuses    map[string]entities.PaymentStatus
	transitions []stagedTransition
}

func (p *stagedPurchases) GetByPaymentID(ctx context.Context, paymentID string) (*entities.Purchase, error) {
	purchase, err := p.PurchaseRepository.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if status, ok := p.statuses[paymentID]; ok {
		purchase.Status = status
	}
	return purchase, nil
}

func (p *stagedPurchases) Transition(ctx context.Context, paymentID string, from, to entities.PaymentStatus) (bool, error) {
	current, err := p.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return false, err
	}
	if current.Status != from {
		return false, nil
	}
	p.statuses[paymentID] = to
	p.transitions = append(p.transitions, stagedTransition{paymentID: paymentID, from: from, to: to})
	return true, nil
}

type stagedStore struct {
	base   interfaces.KeyValueStore
	values map[string][]byte
	order  []string
}

func (s *stagedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if value, ok := s.values[key]; ok {
		return append([]byte(nil), value...), true, nil
	}
	return s.base.Get(ctx, key)
}

func (s *stagedStore) Set(ctx context.Context, key string, value []byte) error {
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}
