package navigation

import (
	"testing"

	"signup-service/internal/domain/signup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func privateState(mut func(p *signup.PrivateCase)) signup.CaseState {
	s := signup.InitialState(signup.CustomerTypePrivate)
	if mut != nil {
		mut(s.Private)
	}
	return s
}

func withProduct(p *signup.PrivateCase) {
	p.SelectedProduct = &signup.Product{ID: "rorligt", Type: signup.ProductTypeVariable}
}

var storgatan = &signup.Address{Street: "Storgatan", Number: "1", PostalCode: "11122", City: "Stockholm"}

func withAddress(p *signup.PrivateCase) {
	withProduct(p)
	p.SelectedAddress = storgatan
}

func identified(p *signup.PrivateCase) {
	withAddress(p)
	p.Scenario = signup.ScenarioNew
	p.IsAuthenticated = true
	p.Personnummer = "198501010000"
}

func withDetails(p *signup.PrivateCase) {
	identified(p)
	p.StartDate = "2026-04-01"
	p.Customer.Email = "kund@example.com"
	p.Customer.Phone = "0701234567"
}

func existingCustomer(p *signup.PrivateCase) {
	withProduct(p)
	p.Customer.IsExistingCustomer = true
}

func TestResolvePrivateEmptyAndUnknownParams(t *testing.T) {
	s := privateState(withProduct)

	res := ResolvePrivate("", s)
	assert.Equal(t, signup.StepProductSelect, res.Step)
	assert.Nil(t, res.Redirect)

	for _, param := range []string{"BOGUS", "identify", "RISK", "DETAILS "} {
		res = ResolvePrivate(param, s)
		assert.Equal(t, signup.StepProductSelect, res.Step, param)
		require.NotNil(t, res.Redirect, param)
		assert.Equal(t, signup.StepProductSelect, *res.Redirect)
		assert.Equal(t, ReasonUnknownStep, res.Reason)
	}
}

func TestResolvePrivateLegacyRiskInfo(t *testing.T) {
	// legacy links redirect even when later guards would fire
	res := ResolvePrivate("RISK_INFO", privateState(nil))
	assert.Equal(t, signup.StepTerms, res.Step)
	require.NotNil(t, res.Redirect)
	assert.Equal(t, signup.StepTerms, *res.Redirect)
	assert.Equal(t, ReasonLegacyStep, res.Reason)
}

func TestResolvePrivateRequiresProduct(t *testing.T) {
	s := privateState(nil)
	for _, step := range signup.PrivateFlowSteps[1:] {
		res := ResolvePrivate(string(step), s)
		assert.Equal(t, signup.StepProductSelect, res.Step, step)
		assert.NotNil(t, res.Redirect, step)
	}

	res := ResolvePrivate("PRODUCT_SELECT", s)
	assert.Nil(t, res.Redirect)
}

func TestResolvePrivatePriceConflictHoldsOnIdentify(t *testing.T) {
	s := privateState(func(p *signup.PrivateCase) {
		withAddress(p)
		p.IsPriceConflict = true
	})

	for _, step := range []signup.PrivateFlowStep{signup.StepProductSelect, signup.StepAddressSearch, signup.StepIdentify} {
		assert.Nil(t, ResolvePrivate(string(step), s).Redirect, step)
	}
	for _, step := range []signup.PrivateFlowStep{signup.StepDetails, signup.StepTerms, signup.StepSigning} {
		res := ResolvePrivate(string(step), s)
		assert.Equal(t, signup.StepIdentify, res.Step, step)
		assert.Equal(t, ReasonPriceConflict, res.Reason)
	}
}

func TestResolvePrivateMoveOfferNeedsContext(t *testing.T) {
	addr := &signup.Address{Street: "Storgatan", Number: "1", PostalCode: "11122", City: "Stockholm"}

	res := ResolvePrivate("MOVE_OFFER", privateState(func(p *signup.PrivateCase) {
		identified(p)
		p.Scenario = signup.ScenarioSwitch
		p.SelectedAddress = addr
		p.Customer.RegisteredAddress = addr
	}))
	assert.Equal(t, signup.StepIdentify, res.Step)
	assert.Equal(t, ReasonMoveContext, res.Reason)

	res = ResolvePrivate("MOVE_OFFER", privateState(func(p *signup.PrivateCase) {
		identified(p)
		p.Scenario = signup.ScenarioMove
		p.SelectedAddress = addr
	}))
	assert.Equal(t, signup.StepIdentify, res.Step)

	res = ResolvePrivate("MOVE_OFFER", privateState(func(p *signup.PrivateCase) {
		identified(p)
		p.Scenario = signup.ScenarioMove
		p.SelectedAddress = addr
		p.Customer.RegisteredAddress = addr
	}))
	assert.Equal(t, signup.StepMoveOffer, res.Step)
	assert.Nil(t, res.Redirect)

	res = ResolvePrivate("MOVE_OFFER", privateState(func(p *signup.PrivateCase) {
		withProduct(p)
		p.Scenario = signup.ScenarioMove
		p.SelectedAddress = addr
		p.Customer.RegisteredAddress = addr
	}))
	assert.Equal(t, signup.StepIdentify, res.Step)
	assert.Equal(t, ReasonNotIdentified, res.Reason)
}

func TestResolvePrivateContractStepsNeedEarlierSteps(t *testing.T) {
	cases := []struct {
		name   string
		state  func(p *signup.PrivateCase)
		step   signup.PrivateFlowStep
		want   signup.PrivateFlowStep
		reason string
	}{
		{"identify without address", withProduct, signup.StepIdentify, signup.StepAddressSearch, ReasonMissingAddress},
		{"signing without address", withProduct, signup.StepSigning, signup.StepAddressSearch, ReasonMissingAddress},
		{"details before identify", withAddress, signup.StepDetails, signup.StepIdentify, ReasonNotIdentified},
		{"terms before identify", withAddress, signup.StepTerms, signup.StepIdentify, ReasonNotIdentified},
		{"terms before details", identified, signup.StepTerms, signup.StepDetails, ReasonMissingDetails},
		{"signing before details", identified, signup.StepSigning, signup.StepDetails, ReasonMissingDetails},
		{"signing before terms", withDetails, signup.StepSigning, signup.StepTerms, ReasonTermsPending},
		{"details without start date", func(p *signup.PrivateCase) {
			withDetails(p)
			p.StartDate = ""
		}, signup.StepTerms, signup.StepDetails, ReasonMissingDetails},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ResolvePrivate(string(tc.step), privateState(tc.state))
			assert.Equal(t, tc.want, res.Step)
			require.NotNil(t, res.Redirect)
			assert.Equal(t, tc.want, *res.Redirect)
			assert.Equal(t, tc.reason, res.Reason)
		})
	}

	assert.Nil(t, ResolvePrivate("IDENTIFY", privateState(withAddress)).Redirect)
	assert.Nil(t, ResolvePrivate("DETAILS", privateState(identified)).Redirect)
	assert.Nil(t, ResolvePrivate("TERMS", privateState(withDetails)).Redirect)
	assert.Nil(t, ResolvePrivate("SIGNING", privateState(func(p *signup.PrivateCase) {
		withDetails(p)
		p.TermsAccepted = true
	})).Redirect)

	// the order and extras steps are not guarded by the contract steps
	assert.Nil(t, ResolvePrivate("CONFIRMATION", privateState(withProduct)).Redirect)
	assert.Nil(t, ResolvePrivate("APP_DOWNLOAD", privateState(withProduct)).Redirect)
	assert.Nil(t, res.Redirect)
}

func TestResolvePrivateExtrasCascade(t *testing.T) {
	newCustomer := privateState(withProduct)
	for _, step := range []string{"EXTRA_BIXIA_NARA", "EXTRA_REALTIME_METER", "EXTRA_CONTACT"} {
		res := ResolvePrivate(step, newCustomer)
		assert.Equal(t, signup.StepAppDownload, res.Step, step)
		assert.Equal(t, ReasonIneligible, res.Reason)
	}

	ownsBixia := privateState(func(p *signup.PrivateCase) {
		existingCustomer(p)
		p.Customer.ExtraServices = &signup.ExtraServices{BixiaNara: &signup.BixiaNara{Selected: true}}
	})
	res := ResolvePrivate("EXTRA_BIXIA_NARA", ownsBixia)
	assert.Equal(t, signup.StepExtraRealtimeMeter, res.Step)

	assert.Nil(t, ResolvePrivate("EXTRA_CONTACT", ownsBixia).Redirect)
}

func TestResolvePrivateIsIdempotent(t *testing.T) {
	states := []signup.CaseState{
		privateState(nil),
		privateState(withProduct),
		privateState(func(p *signup.PrivateCase) { withProduct(p); p.IsPriceConflict = true }),
		privateState(existingCustomer),
		privateState(withAddress),
		privateState(identified),
		privateState(withDetails),
		privateState(func(p *signup.PrivateCase) {
			withDetails(p)
			p.Scenario = signup.ScenarioMove
			p.Customer.RegisteredAddress = storgatan
		}),
	}
	params := []string{"", "RISK_INFO", "nope"}
	for _, s := range signup.PrivateFlowSteps {
		params = append(params, string(s))
	}

	for _, st := range states {
		for _, param := range params {
			first := ResolvePrivate(param, st)
			if param == signup.LegacyStepRiskInfo {
				continue
			}
			again := ResolvePrivate(string(first.Step), st)
			assert.Equal(t, first.Step, again.Step, param)
			assert.Nil(t, again.Redirect, param)
		}
	}
}

func TestResolvePrivateStopSuspendsNavigation(t *testing.T) {
	s := privateState(func(p *signup.PrivateCase) {
		p.Stop = signup.Stop{IsStopped: true, Reason: signup.StopCannotDeliver}
	})
	res := ResolvePrivate("DETAILS", s)
	assert.True(t, res.Stopped)
	assert.Equal(t, signup.StopCannotDeliver, res.StopReason)
	assert.Nil(t, res.Redirect)
}

func TestEligibility(t *testing.T) {
	assert.Equal(t, Eligibility{ContactServicesToOffer: []signup.ContactMeService{}}, EligibilityFor(&signup.PrivateCase{}))

	owned := &signup.ExtraServices{
		BixiaNara:         &signup.BixiaNara{Selected: true},
		RealtimeMeter:     &signup.RealtimeMeter{Selected: true},
		ContactMeServices: signup.ContactMeServices,
	}
	p := &signup.PrivateCase{Customer: signup.CustomerProfile{IsExistingCustomer: true, ExtraServices: owned}}
	e := EligibilityFor(p)
	assert.False(t, e.OfferAnyDirect())
	assert.Empty(t, e.ContactServicesToOffer)
	assert.False(t, e.ShowContactExtras)
	assert.Equal(t, signup.StepAppDownload, e.FirstExtraStep())

	p.MoveChoice = signup.MoveNewOnNewAddress
	e = EligibilityFor(p)
	assert.True(t, e.OfferBixiaNara)
	assert.True(t, e.OfferRealtimeMeter)
	assert.Equal(t, signup.ContactMeServices, e.ContactServicesToOffer)
	assert.Equal(t, signup.StepExtraBixiaNara, e.FirstExtraStep())
}

func TestBackPrivate(t *testing.T) {
	addr := &signup.Address{Street: "A", Number: "1", PostalCode: "1", City: "X"}
	move := &signup.PrivateCase{Scenario: signup.ScenarioMove, SelectedAddress: addr, Customer: signup.CustomerProfile{RegisteredAddress: addr}}
	plain := &signup.PrivateCase{Scenario: signup.ScenarioNew}

	assert.Equal(t, BackTarget{Step: signup.StepDetails, SubStep: signup.DetailsDate}, BackPrivate(signup.StepDetails, signup.DetailsContact, plain))
	assert.Equal(t, signup.StepMoveOffer, BackPrivate(signup.StepDetails, signup.DetailsDate, move).Step)
	assert.Equal(t, signup.StepIdentify, BackPrivate(signup.StepDetails, signup.DetailsDate, plain).Step)
	assert.Equal(t, BackTarget{Step: signup.StepDetails, SubStep: signup.DetailsContact}, BackPrivate(signup.StepTerms, "", plain))
	assert.True(t, BackPrivate(signup.StepConfirmation, "", plain).Blocked)
	assert.Equal(t, signup.StepConfirmation, BackPrivate(signup.StepAppDownload, "", plain).Step)

	existing := &signup.PrivateCase{Customer: signup.CustomerProfile{IsExistingCustomer: true}}
	assert.Equal(t, signup.StepExtraRealtimeMeter, BackPrivate(signup.StepAppDownload, "", existing).Step)
	assert.Equal(t, signup.StepExtraBixiaNara, BackPrivate(signup.StepExtraRealtimeMeter, "", existing).Step)
}

func TestResolveCompany(t *testing.T) {
	s := signup.InitialState(signup.CustomerTypeCompany)

	assert.Equal(t, signup.CompanyStepProductSelect, ResolveCompany("", s).Step)
	assert.Equal(t, ReasonUnknownStep, ResolveCompany("x", s).Reason)
	assert.Equal(t, ReasonMissingProduct, ResolveCompany("SEARCH", s).Reason)

	s.Company.SelectedProduct = &signup.Product{ID: "forvaltat"}
	assert.Nil(t, ResolveCompany("GATEKEEPER", s).Redirect)
	for _, size := range []signup.CompanySize{"", signup.CompanySizeMedium, signup.CompanySizeLarge} {
		s.Company.Size = size
		for _, step := range []string{"SEARCH", "FACILITIES_LOOP"} {
			res := ResolveCompany(step, s)
			assert.Equal(t, signup.CompanyStepGatekeeper, res.Step, step)
			assert.Equal(t, ReasonGatekeeper, res.Reason, step)
		}
	}

	s.Company.Size = signup.CompanySizeSmall
	assert.Nil(t, ResolveCompany("SEARCH", s).Redirect)
	res := ResolveCompany("FACILITIES_LOOP", s)
	assert.Equal(t, signup.CompanyStepSearch, res.Step)
	assert.Equal(t, ReasonMissingCompany, res.Reason)

	s.Company.CompanyName = "Acme AB"
	assert.Nil(t, ResolveCompany("FACILITIES_LOOP", s).Redirect)

	prev, ok := BackCompany(signup.CompanyStepSearch)
	assert.True(t, ok)
	assert.Equal(t, signup.CompanyStepGatekeeper, prev)
	_, ok = BackCompany(signup.CompanyStepProductSelect)
	assert.False(t, ok)
}
