package memory

import (
	"context"
	"testing"
	"time"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	addr := &signup.Address{Street: "Storgatan", Number: "1", PostalCode: "11122", City: "Stockholm"}
	first := &signup.Order{ID: "ORD-B", CaseID: "case-1", ProductID: "2", Address: addr, CreatedAt: base.Add(time.Minute)}
	second := &signup.Order{ID: "ORD-A", CaseID: "case-1", ProductID: "3", CreatedAt: base.Add(2 * time.Minute)}
	other := &signup.Order{ID: "ORD-C", CaseID: "case-2", ProductID: "1"}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))
	assert.False(t, other.CreatedAt.IsZero())

	err := repo.Create(ctx, &signup.Order{ID: "ORD-A", CaseID: "case-9"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	addr.Street = "Changed"
	got, err := repo.FindByID(ctx, "ORD-B")
	require.NoError(t, err)
	assert.Equal(t, "Storgatan", got.Address.Street)

	_, err = repo.FindByID(ctx, "ORD-X")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	list, err := repo.ListByCase(ctx, "case-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ORD-B", list[0].ID)
	assert.Equal(t, "ORD-A", list[1].ID)

	list, err = repo.ListByCase(ctx, "case-404")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestSelectionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSelectionRepository()
	repo.now = func() time.Time { return time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC) }

	_, err := repo.FindSelection(ctx, "ORD-1")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	sel := signup.ExtraServicesSelection{
		BixiaNara:         &signup.BixiaNara{Selected: true, County: "Uppsala län"},
		ContactMeServices: []signup.ContactMeService{signup.ServiceSolar},
	}
	require.NoError(t, repo.SaveSelection(ctx, "ORD-1", sel))
	sel.BixiaNara.County = "Gotlands län"

	saved, err := repo.FindSelection(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", saved.OrderID)
	assert.Equal(t, "Uppsala län", saved.Selection.BixiaNara.County)
	assert.Nil(t, saved.Selection.RealtimeMeter)
	assert.Equal(t, []signup.ContactMeService{signup.ServiceSolar}, saved.Selection.ContactMeServices)
	assert.Equal(t, 11, saved.SavedAt.Hour())

	require.NoError(t, repo.SaveSelection(ctx, "ORD-1", signup.ExtraServicesSelection{
		RealtimeMeter: &signup.RealtimeMeter{Selected: true},
	}))
	saved, err = repo.FindSelection(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Nil(t, saved.Selection.BixiaNara)
	assert.True(t, saved.Selection.RealtimeMeter.Selected)
	assert.Empty(t, saved.Selection.ContactMeServices)
}
