// internal/service/navigation/back.go
package navigation

import "signup-service/internal/domain/signup"

// BackTarget is where the back action leads. Blocked is set on steps that
// cannot be left backwards.
type BackTarget struct {
	Step    signup.PrivateFlowStep
	SubStep signup.DetailsSubStep
	Blocked bool
}

// BackPrivate returns the previous screen for the private flow. DETAILS has two
// sub-steps, so the current one is part of the input.
func BackPrivate(step signup.PrivateFlowStep, sub signup.DetailsSubStep, p *signup.PrivateCase) BackTarget {
	e := EligibilityFor(p)

	switch step {
	case signup.StepAddressSearch:
		return BackTarget{Step: signup.StepProductSelect}
	case signup.StepIdentify:
		return BackTarget{Step: signup.StepAddressSearch}
	case signup.StepMoveOffer:
		return BackTarget{Step: signup.StepIdentify}
	case signup.StepDetails:
		if sub == signup.DetailsContact {
			return BackTarget{Step: signup.StepDetails, SubStep: signup.DetailsDate}
		}
		if p != nil && HasMoveContext(p) {
			return BackTarget{Step: signup.StepMoveOffer}
		}
		return BackTarget{Step: signup.StepIdentify}
	case signup.StepTerms:
		return BackTarget{Step: signup.StepDetails, SubStep: signup.DetailsContact}
	case signup.StepSigning:
		return BackTarget{Step: signup.StepTerms}
	case signup.StepExtraBixiaNara:
		return BackTarget{Step: signup.StepConfirmation}
	case signup.StepExtraRealtimeMeter:
		if e.OfferBixiaNara {
			return BackTarget{Step: signup.StepExtraBixiaNara}
		}
		return BackTarget{Step: signup.StepConfirmation}
	case signup.StepAppDownload:
		switch {
		case e.OfferRealtimeMeter:
			return BackTarget{Step: signup.StepExtraRealtimeMeter}
		case e.OfferBixiaNara:
			return BackTarget{Step: signup.StepExtraBixiaNara}
		}
		return BackTarget{Step: signup.StepConfirmation}
	case signup.StepExtraContact:
		return BackTarget{Step: signup.StepAppDownload}
	}
	// PRODUCT_SELECT has nowhere to go; CONFIRMATION is a completion checkpoint.
	return BackTarget{Step: step, SubStep: sub, Blocked: true}
}

var companyBack = map[signup.CompanyFlowStep]signup.CompanyFlowStep{
	signup.CompanyStepGatekeeper:     signup.CompanyStepProductSelect,
	signup.CompanyStepSearch:         signup.CompanyStepGatekeeper,
	signup.CompanyStepFacilitiesLoop: signup.CompanyStepSearch,
}

// BackCompany returns the previous company step and false on the first step.
func BackCompany(step signup.CompanyFlowStep) (signup.CompanyFlowStep, bool) {
	prev, ok := companyBack[step]
	if !ok {
		return step, false
	}
	return prev, true
}

// StopBack is the exit from the stop screen: address problems go back to the
// address search, everything else back to identification.
func StopBack(reason signup.StopReason) signup.PrivateFlowStep {
	if reason == signup.StopCannotDeliver {
		return signup.StepAddressSearch
	}
	return signup.StepIdentify
}
