// internal/service/navigation/company.go
package navigation

import "signup-service/internal/domain/signup"

type CompanyResolution struct {
	Step     signup.CompanyFlowStep  `json:"step"`
	Redirect *signup.CompanyFlowStep `json:"redirect,omitempty"`
	Reason   string                  `json:"reason,omitempty"`
}

// ResolveCompany maps the companyStep parameter to the step that may be shown.
func ResolveCompany(param string, cs signup.CaseState) CompanyResolution {
	first := signup.CompanyStepProductSelect
	if !cs.IsCompany() {
		return CompanyResolution{Step: first}
	}
	c := cs.Company

	requested := signup.CompanyFlowStep(param)
	if param == "" {
		return CompanyResolution{Step: first}
	}
	if !requested.Valid() {
		return companyRedirect(first, ReasonUnknownStep)
	}

	switch {
	case requested != first && c.SelectedProduct == nil:
		return companyRedirect(first, ReasonMissingProduct)
	case requested.After(signup.CompanyStepGatekeeper) && c.Size != signup.CompanySizeSmall:
		return companyRedirect(signup.CompanyStepGatekeeper, ReasonGatekeeper)
	case requested == signup.CompanyStepFacilitiesLoop && c.CompanyName == "":
		return companyRedirect(signup.CompanyStepSearch, ReasonMissingCompany)
	}
	return CompanyResolution{Step: requested}
}

func companyRedirect(step signup.CompanyFlowStep, reason string) CompanyResolution {
	target := step
	return CompanyResolution{Step: step, Redirect: &target, Reason: reason}
}
