// internal/repository/postgres/selection_repo.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// SelectionRepository stores the extra services chosen for an order. Saving
// again replaces the previous selection.
type SelectionRepository struct {
	db *pgxpool.Pool
}

func NewSelectionRepository(db *pgxpool.Pool) *SelectionRepository {
	return &SelectionRepository{db: db}
}

func (r *SelectionRepository) SaveSelection(ctx context.Context, orderID string, sel signup.ExtraServicesSelection) error {
	query := `
		INSERT INTO extra_services_selections (
			order_id, bixia_nara_selected, bixia_nara_county, realtime_meter_selected, contact_me_services, saved_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (order_id) DO UPDATE SET
			bixia_nara_selected = EXCLUDED.bixia_nara_selected,
			bixia_nara_county = EXCLUDED.bixia_nara_county,
			realtime_meter_selected = EXCLUDED.realtime_meter_selected,
			contact_me_services = EXCLUDED.contact_me_services,
			saved_at = NOW()
	`

	var county sql.NullString
	bixia := false
	if sel.BixiaNara != nil {
		bixia = sel.BixiaNara.Selected
		county = sql.NullString{String: sel.BixiaNara.County, Valid: sel.BixiaNara.County != ""}
	}
	realtime := sel.RealtimeMeter != nil && sel.RealtimeMeter.Selected

	services := make([]string, 0, len(sel.ContactMeServices))
	for _, s := range sel.ContactMeServices {
		services = append(services, string(s))
	}

	if _, err := r.db.Exec(ctx, query, orderID, bixia, county, realtime, pq.Array(services)); err != nil {
		return fmt.Errorf("failed to save extra services selection: %w", err)
	}
	return nil
}

func (r *SelectionRepository) FindSelection(ctx context.Context, orderID string) (*signup.SavedSelection, error) {
	query := `
		SELECT order_id, bixia_nara_selected, bixia_nara_county, realtime_meter_selected, contact_me_services, saved_at
		FROM extra_services_selections
		WHERE order_id = $1
	`

	var (
		saved    signup.SavedSelection
		bixia    bool
		county   sql.NullString
		realtime bool
		services []string
	)
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&saved.OrderID, &bixia, &county, &realtime, pq.Array(&services), &saved.SavedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find extra services selection: %w", err)
	}

	saved.Selection = signup.ExtraServicesSelection{
		BixiaNara:         &signup.BixiaNara{Selected: bixia, County: county.String},
		RealtimeMeter:     &signup.RealtimeMeter{Selected: realtime},
		ContactMeServices: make([]signup.ContactMeService, 0, len(services)),
	}
	for _, s := range services {
		saved.Selection.ContactMeServices = append(saved.Selection.ContactMeServices, signup.ContactMeService(s))
	}
	return &saved, nil
}
