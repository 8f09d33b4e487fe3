// internal/service/flow/lookup.go
package flow

import (
	"context"
	"errors"
	"fmt"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"
	"signup-service/internal/service/apilog"
	"signup-service/internal/service/backend"
	"signup-service/internal/service/catalog"

	"go.uber.org/zap"
)

type AddressSearcher interface {
	Search(ctx context.Context, query, override string) ([]signup.Address, error)
	Apartments(ctx context.Context, addr signup.Address) ([]string, error)
}

// Lookup serves the read-only backend queries the screens make while the
// customer types. Nothing here changes the case.
type Lookup struct {
	*Engine
}

func NewLookup(e *Engine) *Lookup {
	return &Lookup{Engine: e}
}

// Products lists the catalog for a region.
func (l *Lookup) Products(region signup.Elomrade, company, includeFast bool) []signup.Product {
	return catalog.Products(catalog.Query{Region: region, Company: company, IncludeRestrictedFast: includeFast})
}

// SearchAddresses runs the address search with the case's address override.
// A failing search surfaces as ErrBackendUnavailable.
func (l *Lookup) SearchAddresses(ctx context.Context, caseID, query string) ([]signup.Address, error) {
	if l.deps.Addresses == nil {
		return nil, xerrors.ErrBackendUnavailable
	}
	override := l.overrides(ctx, caseID).AddressResult

	res, err := apilog.Do(ctx, l.deps.Recorder, apilog.Call{
		CaseID:   caseID,
		Endpoint: apilog.EndpointAddresses,
		Type:     apilog.TypeAddressSearch,
		Request:  map[string]string{"query": query},
	}, func(ctx context.Context) ([]signup.Address, error) {
		return l.deps.Addresses.Search(ctx, query, override)
	})
	if err != nil {
		l.logger.Warn("address search failed", zap.String("case_id", caseID), zap.Error(err))
		if errors.Is(err, backend.ErrAddressLookup) {
			return nil, fmt.Errorf("%w: %s", xerrors.ErrBackendUnavailable, backend.ErrAddressLookup.Error())
		}
		return nil, err
	}
	return res, nil
}

// Apartments lists the apartment numbers of an apartment building.
func (l *Lookup) Apartments(ctx context.Context, caseID string, addr signup.Address) ([]string, error) {
	if addr.Type != signup.AddressTypeApartment {
		return nil, validation.FieldErrors{"address.type": "Adressen är inte en lägenhet"}
	}
	if l.deps.Addresses == nil {
		return nil, xerrors.ErrBackendUnavailable
	}
	return apilog.Do(ctx, l.deps.Recorder, apilog.Call{
		CaseID:   caseID,
		Endpoint: apilog.EndpointApartments,
		Type:     apilog.TypeAddressDetails,
		Request:  addr,
	}, func(ctx context.Context) ([]string, error) {
		return l.deps.Addresses.Apartments(ctx, addr)
	})
}

// Company looks up a company without attaching it to the case.
func (l *Lookup) Company(ctx context.Context, caseID, orgNr string) (signup.CompanyInfo, error) {
	if err := validation.Field("orgNr", orgNr, "required,orgnr"); err != nil {
		return signup.CompanyInfo{}, err
	}
	orgNr = backend.FormatOrgNr(orgNr)
	return apilog.Do(ctx, l.deps.Recorder, apilog.Call{
		CaseID:   caseID,
		Endpoint: apilog.EndpointCompany + "/" + orgNr,
		Type:     apilog.TypeCompanySearch,
		Request:  map[string]string{"orgNr": orgNr},
	}, func(ctx context.Context) (signup.CompanyInfo, error) {
		return l.deps.Companies.Lookup(ctx, orgNr)
	})
}
