// internal/service/scenario/classifier.go
package scenario

import (
	"context"

	"signup-service/internal/domain/signup"
)

// Request carries what classification needs. Override fields come from the
// developer panel and are empty in normal operation.
type Request struct {
	NationalID       string         `json:"nationalId"`
	Address          signup.Address `json:"address"`
	ScenarioOverride string         `json:"scenarioOverride,omitempty"`
	ConsentOverride  string         `json:"consentOverride,omitempty"`
	ExtrasOverride   []string       `json:"extrasOverride,omitempty"`
}

type Response struct {
	Scenario               signup.Scenario        `json:"scenario"`
	Customer               signup.CustomerProfile `json:"customer"`
	CurrentContractAddress *signup.Address        `json:"currentContractAddress,omitempty"`
	StopReason             signup.StopReason      `json:"stopReason,omitempty"`
}

// Classifier decides which signup scenario applies to a person at an address.
type Classifier interface {
	Determine(ctx context.Context, req Request) (Response, error)
}

// MaskNationalID keeps the birth date and hides the last four digits.
func MaskNationalID(id string) string {
	if len(id) <= 8 {
		return "****"
	}
	return id[:8] + "****"
}

// LoggedRequest is the form of the request written to API logs.
func (r Request) LoggedRequest() Request {
	out := r
	out.NationalID = MaskNationalID(r.NationalID)
	return out
}
