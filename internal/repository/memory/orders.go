// Package memory keeps orders and extra service selections in process. It
// backs the service when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]signup.Order
	now    func() time.Time
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]signup.Order), now: time.Now}
}

func (r *OrderRepository) Create(_ context.Context, o *signup.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[o.ID]; exists {
		return fmt.Errorf("order %s already exists: %w", o.ID, xerrors.ErrInvalidInput)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.now().UTC()
	}
	cp := *o
	if o.Address != nil {
		addr := *o.Address
		cp.Address = &addr
	}
	r.orders[o.ID] = cp
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*signup.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &o, nil
}

func (r *OrderRepository) ListByCase(_ context.Context, caseID string) ([]signup.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []signup.Order{}
	for _, o := range r.orders {
		if o.CaseID == caseID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders, nil
}
