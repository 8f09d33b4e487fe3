// internal/domain/signup/repository.go
package signup

import "context"

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByCase(ctx context.Context, caseID string) ([]Order, error)
}

type SelectionRepository interface {
	SaveSelection(ctx context.Context, orderID string, sel ExtraServicesSelection) error
	FindSelection(ctx context.Context, orderID string) (*SavedSelection, error)
}
