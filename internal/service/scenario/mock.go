// internal/service/scenario/mock.go
package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"

	"golang.org/x/crypto/blake2b"
)

type kind string

const (
	kindNew           kind = "NY"
	kindMove          kind = "FLYTT"
	kindSwitch        kind = "BYTE"
	kindSwitchUnbound kind = "BYTE_NO_BINDING"
	kindDuplicate     kind = "EXTRA"
	kindPending       kind = "PENDING_CASE"
	kindCannotDeliver kind = "CANNOT_DELIVER"
)

var overrideKinds = map[string]kind{
	"NY_KUND":         kindNew,
	"FLYTT":           kindMove,
	"BYTE":            kindSwitch,
	"BYTE_NO_BINDING": kindSwitchUnbound,
	"EXTRA":           kindDuplicate,
	"PENDING_CASE":    kindPending,
	"CANNOT_DELIVER":  kindCannotDeliver,
}

// Test identities end in one of these suffixes.
var suffixKinds = []struct {
	suffix string
	kind   kind
}{
	{"0000", kindNew},
	{"1111", kindMove},
	{"2222", kindSwitch},
	{"3333", kindSwitchUnbound},
	{"4444", kindDuplicate},
}

// moveFromAddress is the registered address of the canned moving customer.
var moveFromAddress = signup.Address{
	Street:     "Birger Jarlsgatan",
	Number:     "10",
	PostalCode: "11145",
	City:       "Stockholm",
	Type:       signup.AddressTypeApartment,
	Elomrade:   signup.SE3,
}

// Mock is a deterministic stand-in for the CRM scenario service.
type Mock struct {
	latency time.Duration
	now     func() time.Time
}

func NewMock(latency time.Duration, now func() time.Time) *Mock {
	if now == nil {
		now = time.Now
	}
	return &Mock{latency: latency, now: now}
}

// Determine classifies the request. The same national ID and address always
// give the same answer.
func (m *Mock) Determine(ctx context.Context, req Request) (Response, error) {
	id := validation.Digits(req.NationalID)
	if !validation.IsNationalID(id) {
		return Response{}, fmt.Errorf("classify: %w", xerrors.ErrInvalidInput)
	}

	if m.latency > 0 {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-time.After(m.latency):
		}
	}

	k := classify(id, req.Address, req.ScenarioOverride)
	resp := m.build(k, req)

	if resp.StopReason == "" && !req.Address.Elomrade.Valid() {
		resp.StopReason = signup.StopCannotDeliver
	}
	return resp, nil
}

func classify(id string, addr signup.Address, override string) kind {
	if k, ok := overrideKinds[override]; ok {
		return k
	}
	for _, s := range suffixKinds {
		if strings.HasSuffix(id, s.suffix) {
			return s.kind
		}
	}
	switch bucket(id, addr) {
	case 6, 7:
		return kindSwitch
	case 8:
		return kindMove
	case 9:
		return kindSwitchUnbound
	}
	return kindNew
}

// bucket spreads identities over ten buckets, stable per person and address.
func bucket(id string, addr signup.Address) int {
	sum := blake2b.Sum256([]byte(id + "|" + addr.Key()))
	return int(sum[0]) % 10
}

func (m *Mock) build(k kind, req Request) Response {
	selected := req.Address
	consent := mockConsent(req.ConsentOverride)
	extras := mockExtras(req.ExtrasOverride)

	switch k {
	case kindMove:
		from := moveFromAddress
		return Response{
			Scenario: signup.ScenarioMove,
			Customer: signup.CustomerProfile{
				IsExistingCustomer: true,
				Name:               "Flytt Flyttsson",
				Email:              "flytt@example.com",
				Phone:              "070-1111111",
				RegisteredAddress:  &from,
				ExtraServices:      extras,
				MarketingConsent:   &consent,
			},
			CurrentContractAddress: &from,
		}
	case kindSwitch, kindSwitchUnbound, kindDuplicate:
		resp := Response{
			Scenario: signup.ScenarioSwitch,
			Customer: signup.CustomerProfile{
				IsExistingCustomer: true,
				Name:               "Stanna Kvarsson",
				Email:              "stanna@example.com",
				Phone:              "070-2222222",
				RegisteredAddress:  &selected,
				FacilityID:         "735999222222222222",
				ContractEndDate:    m.now().AddDate(0, 0, 90).Format("2006-01-02"),
				ExtraServices:      extras,
				MarketingConsent:   &consent,
			},
			CurrentContractAddress: &selected,
		}
		if k == kindSwitchUnbound {
			resp.Customer.Name = "Stanna Utanbindning"
			resp.Customer.Email = "stanna.utan@example.com"
			resp.Customer.Phone = "070-3333333"
			resp.Customer.FacilityID = "735999333333333333"
			resp.Customer.ContractEndDate = ""
		}
		if k == kindDuplicate {
			resp.Scenario = signup.ScenarioExtra
			resp.StopReason = signup.StopDuplicateSameContract
		}
		return resp
	}

	resp := Response{
		Scenario: signup.ScenarioNew,
		Customer: signup.CustomerProfile{
			Name:              "Ny Kundsson",
			RegisteredAddress: &selected,
			MarketingConsent:  &signup.MarketingConsent{},
		},
	}
	switch k {
	case kindPending:
		resp.StopReason = signup.StopPendingCase
	case kindCannotDeliver:
		resp.StopReason = signup.StopCannotDeliver
	}
	return resp
}

func mockConsent(override string) signup.MarketingConsent {
	if override == "NO_CONSENT" {
		return signup.MarketingConsent{}
	}
	return signup.MarketingConsent{Email: true, SMS: true}
}

// mockExtras turns the panel's list of owned extras into a profile entry.
func mockExtras(owned []string) *signup.ExtraServices {
	out := &signup.ExtraServices{
		BixiaNara:         &signup.BixiaNara{},
		RealtimeMeter:     &signup.RealtimeMeter{},
		ContactMeServices: []signup.ContactMeService{},
	}
	for _, name := range owned {
		switch name {
		case "BIXIA_NARA":
			out.BixiaNara = &signup.BixiaNara{Selected: true, County: "Stockholms län"}
		case "REALTIME_METER":
			out.RealtimeMeter.Selected = true
		default:
			if s := signup.ContactMeService(name); s.Valid() {
				out.ContactMeServices = append(out.ContactMeServices, s)
			}
		}
	}
	return out
}
