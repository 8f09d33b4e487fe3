package memory

import (
	"context"
	"sync"
	"time"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
)

type SelectionRepository struct {
	mu    sync.RWMutex
	saved map[string]signup.SavedSelection
	now   func() time.Time
}

func NewSelectionRepository() *SelectionRepository {
	return &SelectionRepository{saved: make(map[string]signup.SavedSelection), now: time.Now}
}

// SaveSelection replaces any earlier selection for the order.
func (r *SelectionRepository) SaveSelection(_ context.Context, orderID string, sel signup.ExtraServicesSelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saved[orderID] = signup.SavedSelection{
		OrderID:   orderID,
		Selection: copySelection(sel),
		SavedAt:   r.now().UTC(),
	}
	return nil
}

func (r *SelectionRepository) FindSelection(_ context.Context, orderID string) (*signup.SavedSelection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	saved, ok := r.saved[orderID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	saved.Selection = copySelection(saved.Selection)
	return &saved, nil
}

func copySelection(sel signup.ExtraServicesSelection) signup.ExtraServicesSelection {
	out := signup.ExtraServicesSelection{
		ContactMeServices: append([]signup.ContactMeService{}, sel.ContactMeServices...),
	}
	if sel.BixiaNara != nil {
		b := *sel.BixiaNara
		out.BixiaNara = &b
	}
	if sel.RealtimeMeter != nil {
		m := *sel.RealtimeMeter
		out.RealtimeMeter = &m
	}
	return out
}
