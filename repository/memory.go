package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"xpslots/domain/entities"
	"xpslots/domain/interfaces"
)

type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates a process-local key-value store. Data is lost on restart.
func NewMemoryStore() interfaces.KeyValueStore {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

type memoryPurchaseRepository struct {
	mu        sync.RWMutex
	purchases map[string]entities.Purchase
}

// NewMemoryPurchaseRepository creates a process-local purchase repository
func NewMemoryPurchaseRepository() interfaces.PurchaseRepository {
	return &memoryPurchaseRepository{purchases: make(map[string]entities.Purchase)}
}

func (r *memoryPurchaseRepository) Create(ctx context.Context, purchase *entities.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.purchases[purchase.PaymentID]; exists {
		return fmt.Errorf("%w: %s", entities.ErrPurchaseAlreadyExists, purchase.PaymentID)
	}
	r.purchases[purchase.PaymentID] = *purchase
	return nil
}

func (r *memoryPurchaseRepository) GetByPaymentID(ctx context.Context, paymentID string) (*entities.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	purchase, ok := r.purchases[paymentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrPurchaseNotFound, paymentID)
	}
	return &purchase, nil
}

func (r *memoryPurchaseRepository) Transition(ctx context.Context, paymentID string, from, to entities.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	purchase, ok := r.purchases[paymentID]
	if !ok || purchase.Status != from {
		return false, nil
	}
	purchase.Status = to
	purchase.CompletedAt = nil
	if to == entities.PaymentStatusCompleted {
		now := time.Now().UTC()
		purchase.CompletedAt = &now
	}
	r.purchases[paymentID] = purchase
	return true, nil
}

func (r *memoryPurchaseRepository) ListByIdentity(ctx context.Context, identity string, limit int) ([]*entities.Purchase, error) {
	purchases := r.filter(func(p entities.Purchase) bool { return p.Identity == identity })
	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].CreatedAt.After(purchases[j].CreatedAt)
	})
	if limit > 0 && len(purchases) > limit {
		purchases = purchases[:limit]
	}
	return purchases, nil
}

func (r *memoryPurchaseRepository) ListPending(ctx context.Context) ([]*entities.Purchase, error) {
	purchases := r.filter(func(p entities.Purchase) bool { return p.Status == entities.PaymentStatusPending })
	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].CreatedAt.Before(purchases[j].CreatedAt)
	})
	return purchases, nil
}

func (r *memoryPurchaseRepository) filter(keep func(entities.Purchase) bool) []*entities.Purchase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entities.Purchase, 0)
	for _, purchase := range r.purchases {
		if keep(purchase) {
			p := purchase
			result = append(result, &p)
		}
	}
	return result
}
