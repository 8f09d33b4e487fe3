package flow

import (
	"context"
	"testing"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"
	"signup-service/internal/service/apilog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAddresses(t *testing.T) {
	fx := newFixture(t)
	lookup := NewLookup(fx.engine)
	ctx := context.Background()
	id := fx.create(t, signup.CustomerTypePrivate)

	res, err := lookup.SearchAddresses(ctx, id, "stor")
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "Storgatan", res[0].Street)
	assert.LessOrEqual(t, len(res), 15)

	res, err = lookup.SearchAddresses(ctx, id, "s")
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Equal(t, 2, fx.entries(id, apilog.EndpointAddresses))

	_, err = fx.overrides.Set(ctx, id, signup.DevOverrides{AddressResult: "ERROR"})
	require.NoError(t, err)
	_, err = lookup.SearchAddresses(ctx, id, "stor")
	assert.ErrorIs(t, err, xerrors.ErrBackendUnavailable)

	_, err = fx.overrides.Set(ctx, id, signup.DevOverrides{AddressResult: "NONE"})
	require.NoError(t, err)
	res, err = lookup.SearchAddresses(ctx, id, "stor")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestApartmentsNeedAnApartmentBuilding(t *testing.T) {
	fx := newFixture(t)
	lookup := NewLookup(fx.engine)
	ctx := context.Background()

	numbers, err := lookup.Apartments(ctx, "case-1", storgatan)
	require.NoError(t, err)
	assert.Len(t, numbers, 12)
	assert.Equal(t, "1001", numbers[0])
	assert.Equal(t, "1303", numbers[11])
	assert.Equal(t, 1, fx.entries("case-1", apilog.EndpointApartments))

	_, err = lookup.Apartments(ctx, "case-1", lulea)
	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "address.type")
}

func TestCompanyPreviewLeavesCaseAlone(t *testing.T) {
	fx := newFixture(t)
	lookup := NewLookup(fx.engine)
	ctx := context.Background()
	id := fx.create(t, signup.CustomerTypeCompany)

	info, err := lookup.Company(ctx, id, "5560123456")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp AB", info.CompanyName)
	assert.Empty(t, fx.open(t, id).State().Company.CompanyName)

	_, err = lookup.Company(ctx, id, "123")
	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "orgNr")

	_, err = lookup.Company(ctx, id, "5561234567")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestLookupProducts(t *testing.T) {
	fx := newFixture(t)
	lookup := NewLookup(fx.engine)

	ids := func(ps []signup.Product) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	assert.NotContains(t, ids(lookup.Products(signup.SE1, false, false)), "1")
	assert.Contains(t, ids(lookup.Products(signup.SE1, false, true)), "1")
	assert.NotContains(t, ids(lookup.Products(signup.SE3, true, false)), "1")
	assert.Contains(t, ids(lookup.Products(signup.SE3, true, false)), "c1")
}
