// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, case_id, customer_type, scenario, product_id, product_name, address, start_date, email, phone, created_at`

func (r *OrderRepository) scanOrderRow(scanner interface {
	Scan(dest ...interface{}) error
}) (*signup.Order, error) {
	var o signup.Order
	var addressJSON []byte
	var startDate *time.Time

	err := scanner.Scan(
		&o.ID, &o.CaseID, &o.CustomerType, &o.Scenario, &o.ProductID, &o.ProductName,
		&addressJSON, &startDate, &o.Email, &o.Phone, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(addressJSON) > 0 {
		var addr signup.Address
		if err := json.Unmarshal(addressJSON, &addr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal address: %w", err)
		}
		o.Address = &addr
	}
	if startDate != nil {
		o.StartDate = startDate.Format("2006-01-02")
	}
	return &o, nil
}

// Create inserts a new order. The order id is chosen by the caller.
func (r *OrderRepository) Create(ctx context.Context, o *signup.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	var addressJSON []byte
	if o.Address != nil {
		var err error
		addressJSON, err = json.Marshal(o.Address)
		if err != nil {
			return fmt.Errorf("failed to marshal address: %w", err)
		}
	}

	var startDate *time.Time
	if o.StartDate != "" {
		d, err := time.Parse("2006-01-02", o.StartDate)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", o.StartDate, xerrors.ErrInvalidInput)
		}
		startDate = &d
	}

	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := r.db.QueryRow(
		ctx, query,
		o.ID, o.CaseID, o.CustomerType, o.Scenario, o.ProductID, o.ProductName,
		addressJSON, startDate, o.Email, o.Phone, createdAt,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*signup.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := r.scanOrderRow(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return o, nil
}

// ListByCase returns the orders of a case, oldest first.
func (r *OrderRepository) ListByCase(ctx context.Context, caseID string) ([]signup.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE case_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []signup.Order{}
	for rows.Next() {
		o, err := r.scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
