// internal/service/navigation/eligibility.go
package navigation

import "signup-service/internal/domain/signup"

// Eligibility describes which post-signing offers a private case may see.
type Eligibility struct {
	OfferBixiaNara         bool                      `json:"offerBixiaNara"`
	OfferRealtimeMeter     bool                      `json:"offerRealtimeMeter"`
	ContactServicesToOffer []signup.ContactMeService `json:"contactServicesToOffer"`
	ShowContactExtras      bool                      `json:"showContactExtras"`
}

// OfferAnyDirect reports whether at least one direct upsell step is shown.
func (e Eligibility) OfferAnyDirect() bool {
	return e.OfferBixiaNara || e.OfferRealtimeMeter
}

// EligibilityFor derives the upsell offers from the customer profile. Only
// existing customers get offers. Services already owned on the current
// agreement are skipped, except when the customer opens a new contract on a
// new address, where everything is offered again.
func EligibilityFor(p *signup.PrivateCase) Eligibility {
	out := Eligibility{ContactServicesToOffer: []signup.ContactMeService{}}
	if p == nil || !p.Customer.IsExistingCustomer {
		return out
	}

	owned := p.Customer.ExtraServices
	if p.MoveChoice == signup.MoveNewOnNewAddress {
		owned = nil
	}

	out.OfferBixiaNara = !owned.HasBixiaNara()
	out.OfferRealtimeMeter = !owned.HasRealtimeMeter()
	for _, s := range signup.ContactMeServices {
		if !owned.HasContactMe(s) {
			out.ContactServicesToOffer = append(out.ContactServicesToOffer, s)
		}
	}
	out.ShowContactExtras = out.OfferAnyDirect() || len(out.ContactServicesToOffer) > 0
	return out
}

// FirstExtraStep is where CONFIRMATION continues to.
func (e Eligibility) FirstExtraStep() signup.PrivateFlowStep {
	switch {
	case e.OfferBixiaNara:
		return signup.StepExtraBixiaNara
	case e.OfferRealtimeMeter:
		return signup.StepExtraRealtimeMeter
	}
	return signup.StepAppDownload
}

// AfterBixiaNara is the step following the Bixia-nära offer.
func (e Eligibility) AfterBixiaNara() signup.PrivateFlowStep {
	if e.OfferRealtimeMeter {
		return signup.StepExtraRealtimeMeter
	}
	return signup.StepAppDownload
}
