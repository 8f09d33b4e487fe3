package catalog

import (
	"testing"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ps []signup.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestPrivateCatalogPerRegion(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "d1", "d2", "d3"}, ids(Products(Query{Region: signup.SE3})))
	assert.Equal(t, []string{"2", "3", "d2", "d3"}, ids(Products(Query{Region: signup.SE1})))
	assert.Equal(t, []string{"1", "2", "3", "d1", "d2", "d3"}, ids(Products(Query{Region: signup.SE2, IncludeRestrictedFast: true})))
}

func TestCompanyCatalogHidesFixed(t *testing.T) {
	assert.Equal(t, []string{"2", "3", "c1", "d2", "d3", "cd1"}, ids(Products(Query{Region: signup.SE4, Company: true})))
}

func TestPricesAreRegional(t *testing.T) {
	se3, err := Find(Query{Region: signup.SE3}, "2")
	require.NoError(t, err)
	se4, err := Find(Query{Region: signup.SE4}, "2")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("95.50").Equal(se3.PricePerKwh))
	assert.True(t, decimal.RequireFromString("105").Equal(se4.PricePerKwh))

	unknown, err := Find(Query{Region: "SE9"}, "2")
	require.NoError(t, err)
	assert.True(t, se3.PricePerKwh.Equal(unknown.PricePerKwh))
}

func TestFindUnavailable(t *testing.T) {
	_, err := Find(Query{Region: signup.SE1}, "1")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestAlternativesAreUndiscounted(t *testing.T) {
	assert.Equal(t, []string{"2", "3"}, ids(Alternatives(signup.SE2)))
}
