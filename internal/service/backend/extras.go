// internal/service/backend/extras.go
package backend

import (
	"context"
	"fmt"
	"time"

	"signup-service/internal/domain/signup"
)

// Extras price list, SEK.
const (
	BixiaNaraMonthlySEK     = 29
	RealtimeMeterOneTimeSEK = 695
	RealtimeMeterMonthlySEK = 19
)

// SelectionRepository persists the extras chosen after signing.
type SelectionRepository interface {
	SaveSelection(ctx context.Context, orderID string, sel signup.ExtraServicesSelection) error
}

type ExtrasService struct {
	repo  SelectionRepository
	delay time.Duration
}

func NewExtrasService(repo SelectionRepository, latency time.Duration) *ExtrasService {
	return &ExtrasService{repo: repo, delay: latency * 7 / 8}
}

// Save records the selection for an order.
func (s *ExtrasService) Save(ctx context.Context, orderID string, sel signup.ExtraServicesSelection) error {
	if err := wait(ctx, s.delay); err != nil {
		return err
	}
	if sel.ContactMeServices == nil {
		sel.ContactMeServices = []signup.ContactMeService{}
	}
	if err := s.repo.SaveSelection(ctx, orderID, sel); err != nil {
		return fmt.Errorf("save extra services for order %s: %w", orderID, err)
	}
	return nil
}
