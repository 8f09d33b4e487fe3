// internal/service/navigation/private.go
package navigation

import "signup-service/internal/domain/signup"

// Resolution is the outcome of resolving a requested private step against the
// case. Redirect is set when the rendered step differs from the request and
// the client should rewrite its step parameter.
type Resolution struct {
	Step       signup.PrivateFlowStep  `json:"step"`
	Redirect   *signup.PrivateFlowStep `json:"redirect,omitempty"`
	Reason     string                  `json:"reason,omitempty"`
	Stopped    bool                    `json:"stopped"`
	StopReason signup.StopReason       `json:"stopReason,omitempty"`
}

// Redirect reasons, also used as metric labels.
const (
	ReasonLegacyStep     = "legacy_step"
	ReasonUnknownStep    = "unknown_step"
	ReasonMissingProduct = "missing_product"
	ReasonMissingAddress = "missing_address"
	ReasonNotIdentified  = "not_identified"
	ReasonMissingDetails = "missing_details"
	ReasonTermsPending   = "terms_not_accepted"
	ReasonPriceConflict  = "price_conflict"
	ReasonMoveContext    = "missing_move_context"
	ReasonIneligible     = "ineligible_offer"
	ReasonMissingCompany = "missing_company"
	ReasonGatekeeper     = "gatekeeper_not_passed"
)

type privateGuard struct {
	reason   string
	redirect func(step signup.PrivateFlowStep, p *signup.PrivateCase, e Eligibility) (signup.PrivateFlowStep, bool)
}

// privateGuards is evaluated in order; the first guard that fires moves the
// step and the table is walked again from the top.
var privateGuards = []privateGuard{
	{ReasonMissingProduct, requireProduct},
	{ReasonMissingAddress, requireAddress},
	{ReasonPriceConflict, holdOnPriceConflict},
	{ReasonNotIdentified, requireIdentity},
	{ReasonMoveContext, requireMoveContext},
	{ReasonMissingDetails, requireDetails},
	{ReasonTermsPending, requireTerms},
	{ReasonIneligible, skipIneligibleOffer},
}

// contractStep reports whether step is on the way to a signature. Steps after
// SIGNING are opened by an order or by the duplicate-contract stop instead.
func contractStep(step signup.PrivateFlowStep) bool {
	return step.After(signup.StepProductSelect) && !step.After(signup.StepSigning)
}

func requireAddress(step signup.PrivateFlowStep, p *signup.PrivateCase, _ Eligibility) (signup.PrivateFlowStep, bool) {
	if contractStep(step) && step.After(signup.StepAddressSearch) && p.SelectedAddress == nil {
		return signup.StepAddressSearch, true
	}
	return step, false
}

func requireIdentity(step signup.PrivateFlowStep, p *signup.PrivateCase, _ Eligibility) (signup.PrivateFlowStep, bool) {
	if contractStep(step) && step.After(signup.StepIdentify) && !p.IsAuthenticated {
		return signup.StepIdentify, true
	}
	return step, false
}

// HasDetails reports whether DETAILS has been completed.
func HasDetails(p *signup.PrivateCase) bool {
	return p.StartDate != "" && p.Customer.Email != "" && p.Customer.Phone != ""
}

func requireDetails(step signup.PrivateFlowStep, p *signup.PrivateCase, _ Eligibility) (signup.PrivateFlowStep, bool) {
	if contractStep(step) && step.After(signup.StepDetails) && !HasDetails(p) {
		return signup.StepDetails, true
	}
	return step, false
}

func requireTerms(step signup.PrivateFlowStep, p *signup.PrivateCase, _ Eligibility) (signup.PrivateFlowStep, bool) {
	if step == signup.StepSigning && !p.TermsAccepted {
		return signup.StepTerms, true
	}
	return step, false
}

func requireProduct(step signup.PrivateFlowStep, p *signup.PrivateCase, _ Eligibility) (signup.PrivateFlowStep, bool) {
	if step != signup.StepProductSelect && p.SelectedProduct == nil {
		return signup.StepProductSelect, true
	}
	return step, false
}

// holdOnPriceConflict keeps the customer on IDENTIFY, where the conflict is
// resolved, until the price change is accepted.
func holdOnPriceConflict(step signup.PrivateFlowStep, p *signup.PrivateCase, _ Eligibility) (signup.PrivateFlowStep, bool) {
	if p.IsPriceConflict && step.After(signup.StepIdentify) {
		return signup.StepIdentify, true
	}
	return step, false
}

func requireMoveContext(step signup.PrivateFlowStep, p *signup.PrivateCase, _ Eligibility) (signup.PrivateFlowStep, bool) {
	if step == signup.StepMoveOffer && !HasMoveContext(p) {
		return signup.StepIdentify, true
	}
	return step, false
}

func skipIneligibleOffer(step signup.PrivateFlowStep, _ *signup.PrivateCase, e Eligibility) (signup.PrivateFlowStep, bool) {
	switch {
	case step == signup.StepExtraBixiaNara && !e.OfferBixiaNara:
		return e.AfterBixiaNara(), true
	case step == signup.StepExtraRealtimeMeter && !e.OfferRealtimeMeter:
		return signup.StepAppDownload, true
	case step == signup.StepExtraContact && !e.ShowContactExtras:
		return signup.StepAppDownload, true
	}
	return step, false
}

// HasMoveContext reports whether the move offer has what it needs: a move
// scenario plus both the registered and the selected address.
func HasMoveContext(p *signup.PrivateCase) bool {
	return p.Scenario == signup.ScenarioMove &&
		p.SelectedAddress != nil &&
		p.Customer.RegisteredAddress != nil
}

// ResolvePrivate maps the raw step parameter to the step that may be shown for
// the case. It is pure and idempotent: resolving the returned step again gives
// the same step without a redirect.
func ResolvePrivate(param string, cs signup.CaseState) Resolution {
	first := signup.StepProductSelect
	if !cs.IsPrivate() {
		return Resolution{Step: first}
	}
	p := cs.Private

	requested := signup.PrivateFlowStep(param)

	if p.Stop.IsStopped {
		step := requested
		if !step.Valid() {
			step = first
		}
		return Resolution{Step: step, Stopped: true, StopReason: p.Stop.Reason}
	}

	if param == signup.LegacyStepRiskInfo {
		return redirectTo(signup.StepTerms, ReasonLegacyStep)
	}
	if param == "" {
		return Resolution{Step: first}
	}
	if !requested.Valid() {
		return redirectTo(first, ReasonUnknownStep)
	}

	elig := EligibilityFor(p)
	step, reason := requested, ""
	for i, n := 0, len(privateGuards)+1; i < n; i++ {
		moved := false
		for _, g := range privateGuards {
			next, fired := g.redirect(step, p, elig)
			if fired {
				if reason == "" {
					reason = g.reason
				}
				step, moved = next, true
				break
			}
		}
		if !moved {
			break
		}
	}

	if step == requested {
		return Resolution{Step: step}
	}
	return redirectTo(step, reason)
}

func redirectTo(step signup.PrivateFlowStep, reason string) Resolution {
	target := step
	return Resolution{Step: step, Redirect: &target, Reason: reason}
}
