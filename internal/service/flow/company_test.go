package flow

import (
	"context"
	"testing"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"
	"signup-service/internal/service/navigation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var facilityAddress = signup.Address{
	Street: "Industrivägen", Number: "4", PostalCode: "17148", City: "Solna",
	Type: signup.AddressTypeVilla, Elomrade: signup.SE3,
}

// toLoop takes a company case through product, gatekeeper and lookup.
func (fx *fixture) toLoop(t *testing.T, orgNr string) string {
	t.Helper()
	id := fx.create(t, signup.CustomerTypeCompany)
	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.SelectProduct(ctx, c, signup.SelectProductRequest{ProductID: "c1"})
	})
	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.Gatekeeper(ctx, c, signup.GatekeeperRequest{Size: signup.CompanySizeSmall})
	})
	out := fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.LookupCompany(ctx, c, signup.CompanyLookupRequest{OrgNr: orgNr})
	})
	require.Equal(t, string(signup.CompanyStepFacilitiesLoop), out.Step)
	return id
}

func (fx *fixture) confirmFacility(t *testing.T, id string, index, kwh int) Outcome {
	t.Helper()
	out := fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.ConfirmFacilityAddress(ctx, c, signup.FacilityAddressRequest{Index: index, Address: facilityAddress})
	})
	require.Equal(t, "FACILITIES_LOOP:PRODUCT", out.View)
	return fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.ConfirmFacilityProduct(ctx, c, signup.FacilityProductRequest{Index: index, AnnualConsumption: kwh})
	})
}

var agreement = signup.CompanyAgreementRequest{
	InvoiceAddress:    signup.InvoiceOther,
	InvoiceReference:  "Kostnadsställe 12",
	StartDate:         "2026-04-01",
	TermsAccepted:     true,
	AuthorityDeclared: true,
}

func TestGatekeeperRefersLargerCompanies(t *testing.T) {
	fx := newFixture(t)
	id := fx.create(t, signup.CustomerTypeCompany)

	out := fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.View(ctx, c, string(signup.CompanyStepGatekeeper))
	})
	assert.Equal(t, string(signup.CompanyStepProductSelect), out.Step)
	assert.Equal(t, navigation.ReasonMissingProduct, out.Reason)

	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.SelectProduct(ctx, c, signup.SelectProductRequest{ProductID: "c1"})
	})
	out = fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.Gatekeeper(ctx, c, signup.GatekeeperRequest{Size: signup.CompanySizeLarge})
	})
	assert.Equal(t, string(signup.CompanyStepGatekeeper), out.Step)
	gate := out.Screen.(GatekeeperScreen)
	assert.True(t, gate.Blocked)
	assert.Equal(t, CompanySalesPhone, gate.Phone)

	out = fx.do(t, id, fx.company.Back)
	assert.Equal(t, string(signup.CompanyStepProductSelect), out.Step)
	assert.Empty(t, fx.open(t, id).Session().Company.BlockedSize)
}

func TestLargerCompanyCannotLookUp(t *testing.T) {
	fx := newFixture(t)
	id := fx.create(t, signup.CustomerTypeCompany)
	lookup := func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.LookupCompany(ctx, c, signup.CompanyLookupRequest{OrgNr: "5560123456"})
	}

	err := fx.fail(t, id, lookup)
	assert.Equal(t, validation.FieldErrors{"step": msgStepUnavailable}, fieldErrors(t, err))

	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.SelectProduct(ctx, c, signup.SelectProductRequest{ProductID: "c1"})
	})
	err = fx.fail(t, id, lookup)
	assert.Equal(t, validation.FieldErrors{"step": msgStepUnavailable}, fieldErrors(t, err))

	out := fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.Gatekeeper(ctx, c, signup.GatekeeperRequest{Size: signup.CompanySizeLarge})
	})
	assert.Equal(t, signup.CompanySizeLarge, out.State.Company.Size)

	err = fx.fail(t, id, lookup)
	assert.Equal(t, validation.FieldErrors{"step": msgStepUnavailable}, fieldErrors(t, err))
	assert.Empty(t, fx.open(t, id).State().Company.CompanyName)

	err = fx.fail(t, id, fx.company.AddFacility)
	assert.Contains(t, fieldErrors(t, err), "step")

	for _, step := range []signup.CompanyFlowStep{signup.CompanyStepSearch, signup.CompanyStepFacilitiesLoop} {
		out = fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
			return fx.company.View(ctx, c, string(step))
		})
		assert.Equal(t, string(signup.CompanyStepGatekeeper), out.Step, step)
		assert.Equal(t, navigation.ReasonGatekeeper, out.Reason, step)
	}

	out = fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.Gatekeeper(ctx, c, signup.GatekeeperRequest{Size: signup.CompanySizeSmall})
	})
	assert.Equal(t, string(signup.CompanyStepSearch), out.Step)
	out = fx.do(t, id, lookup)
	assert.Equal(t, string(signup.CompanyStepFacilitiesLoop), out.Step)
}

func TestCompanyFixedPriceIsNotOffered(t *testing.T) {
	fx := newFixture(t)
	id := fx.create(t, signup.CustomerTypeCompany)
	err := fx.fail(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.SelectProduct(ctx, c, signup.SelectProductRequest{ProductID: "1"})
	})
	assert.Contains(t, fieldErrors(t, err), "productId")
}

func TestUnknownCompanyStaysOnSearch(t *testing.T) {
	fx := newFixture(t)
	id := fx.create(t, signup.CustomerTypeCompany)
	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.SelectProduct(ctx, c, signup.SelectProductRequest{ProductID: "c1"})
	})
	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.Gatekeeper(ctx, c, signup.GatekeeperRequest{Size: signup.CompanySizeSmall})
	})

	out := fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.LookupCompany(ctx, c, signup.CompanyLookupRequest{OrgNr: "5561234567"})
	})
	assert.Equal(t, string(signup.CompanyStepSearch), out.Step)
	assert.Equal(t, msgCompanyNotFound, out.Message)
	assert.Empty(t, out.State.Company.CompanyName)

	out = fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.View(ctx, c, string(signup.CompanyStepFacilitiesLoop))
	})
	assert.Equal(t, string(signup.CompanyStepSearch), out.Step)
	assert.Equal(t, navigation.ReasonMissingCompany, out.Reason)
}

func TestSingleFacilityIsLinear(t *testing.T) {
	fx := newFixture(t)
	id := fx.toLoop(t, "5560123456")

	out := fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.View(ctx, c, string(signup.CompanyStepFacilitiesLoop))
	})
	assert.Equal(t, "FACILITIES_LOOP:ADDRESS", out.View)
	assert.Equal(t, "Acme Corp AB", out.State.Company.CompanyName)
	assert.Equal(t, "556012-3456", out.State.Company.OrgNr)
	require.Len(t, out.State.Company.Facilities, 1)

	_, err := fx.company.ConfirmFacilityProduct(context.Background(), fx.open(t, id), signup.FacilityProductRequest{Index: 0})
	assert.ErrorIs(t, err, xerrors.ErrInvalidAction)

	out = fx.confirmFacility(t, id, 0, 0)
	assert.Equal(t, "FACILITIES_LOOP:DONE", out.View)
	scr := out.Screen.(FacilitiesScreen)
	assert.True(t, scr.AllConfigured)
	assert.Equal(t, 25000, scr.TotalKwh)
	assert.Equal(t, "25125", scr.EstimatedYearlySEK.String())

	err = fx.fail(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.CompleteFacilities(ctx, c, signup.CompanyAgreementRequest{})
	})
	fe := fieldErrors(t, err)
	assert.Contains(t, fe, "termsAccepted")
	assert.Contains(t, fe, "authorityDeclared")
	assert.NotContains(t, fe, "facilities")
	assert.NotContains(t, fe, "secondarySigner")

	out = fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.CompleteFacilities(ctx, c, agreement)
	})
	assert.True(t, out.Screen.(FacilitiesScreen).Completed)
	cc := out.State.Company
	assert.True(t, cc.TermsAccepted)
	assert.True(t, cc.AuthorityDeclared)
	assert.Equal(t, signup.InvoiceOther, cc.InvoiceAddress)
	assert.Equal(t, "Kostnadsställe 12", cc.InvoiceReference)
	assert.Equal(t, "2026-04-01", cc.StartDate)

	err = fx.fail(t, id, fx.company.AddFacility)
	assert.ErrorIs(t, err, xerrors.ErrInvalidAction)
}

func TestFacilityHub(t *testing.T) {
	fx := newFixture(t)
	id := fx.toLoop(t, "556012-3456")

	out := fx.do(t, id, fx.company.AddFacility)
	assert.Equal(t, "FACILITIES_LOOP:ADDRESS", out.View)
	assert.Equal(t, 1, out.Screen.(FacilitiesScreen).Index)
	assert.False(t, out.Screen.(FacilitiesScreen).Linear)

	out = fx.do(t, id, fx.company.Back)
	assert.Equal(t, "FACILITIES_LOOP:HUB", out.View)

	err := fx.fail(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.ConfigureFacility(ctx, c, signup.FacilityIndexRequest{Index: 5})
	})
	assert.Equal(t, validation.FieldErrors{"index": "Okänd anläggning"}, fieldErrors(t, err))

	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.ConfigureFacility(ctx, c, signup.FacilityIndexRequest{Index: 1})
	})
	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.ConfirmFacilityAddress(ctx, c, signup.FacilityAddressRequest{Index: 1, Address: facilityAddress})
	})
	out = fx.do(t, id, fx.company.Back)
	assert.Equal(t, "FACILITIES_LOOP:ADDRESS", out.View)

	out = fx.confirmFacility(t, id, 1, 40000)
	assert.Equal(t, "FACILITIES_LOOP:HUB", out.View)
	assert.False(t, out.Screen.(FacilitiesScreen).AllConfigured)

	err = fx.fail(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.CompleteFacilities(ctx, c, agreement)
	})
	assert.Contains(t, fieldErrors(t, err), "facilities")

	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.ConfigureFacility(ctx, c, signup.FacilityIndexRequest{Index: 0})
	})
	out = fx.confirmFacility(t, id, 0, 0)
	scr := out.Screen.(FacilitiesScreen)
	assert.Equal(t, "FACILITIES_LOOP:HUB", out.View)
	assert.True(t, scr.AllConfigured)
	assert.Equal(t, 65000, scr.TotalKwh)
	assert.Equal(t, "65325", scr.EstimatedYearlySEK.String())

	out = fx.do(t, id, fx.company.Back)
	assert.Equal(t, string(signup.CompanyStepSearch), out.Step)
}

func TestDualSignatoryNeedsSecondSigner(t *testing.T) {
	fx := newFixture(t)
	id := fx.toLoop(t, "5561112222")
	fx.confirmFacility(t, id, 0, 0)

	err := fx.fail(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.CompleteFacilities(ctx, c, agreement)
	})
	assert.Equal(t, validation.FieldErrors{"secondarySigner": "Företaget kräver två firmatecknare"}, fieldErrors(t, err))

	req := agreement
	req.SecondarySigner = &signup.Signer{Name: "Berit Bengtsson", Email: "berit@example.com"}
	out := fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.CompleteFacilities(ctx, c, req)
	})
	require.NotNil(t, out.State.Company.SecondarySigner)
	assert.Equal(t, "Berit Bengtsson", out.State.Company.SecondarySigner.Name)
}

func TestPrivateActionsOnCompanyCase(t *testing.T) {
	fx := newFixture(t)
	id := fx.create(t, signup.CustomerTypeCompany)
	err := fx.fail(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.private.SelectProduct(ctx, c, signup.SelectProductRequest{ProductID: "2"})
	})
	assert.ErrorIs(t, err, xerrors.ErrWrongFlow)

	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.company.View(ctx, c, "")
	})
	assert.Equal(t, "company", fx.steps.last().Flow)
}
