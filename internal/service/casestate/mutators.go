// internal/service/casestate/mutators.go
package casestate

import (
	"fmt"

	"signup-service/internal/domain/signup"
)

// Each mutator is a pure transform of the case. Mutators for one variant return
// the state unchanged when the case holds the other variant, so a late action
// from a previous flow cannot leak into a new one.

func onPrivate(s signup.CaseState, fn func(p *signup.PrivateCase)) signup.CaseState {
	if !s.IsPrivate() {
		return s
	}
	next := s.Clone()
	fn(next.Private)
	return next
}

func onCompany(s signup.CaseState, fn func(c *signup.CompanyCase)) signup.CaseState {
	if !s.IsCompany() {
		return s
	}
	next := s.Clone()
	fn(next.Company)
	return next
}

// SetCustomerType discards the case and starts the chosen variant from scratch.
func SetCustomerType(_ signup.CaseState, t signup.CustomerType) signup.CaseState {
	return signup.InitialState(t)
}

// Reset returns the initial value of the active variant.
func Reset(s signup.CaseState) signup.CaseState {
	if s.CustomerType == signup.CustomerTypeCompany {
		return signup.InitialState(signup.CustomerTypeCompany)
	}
	return signup.InitialState(signup.CustomerTypePrivate)
}

func SelectProduct(s signup.CaseState, p signup.Product) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.SelectedProduct = &p
	})
}

// SetAddress stores the chosen address. A change of price region with a product
// already selected raises a price conflict; the first region never conflicts.
func SetAddress(s signup.CaseState, addr signup.Address, details *signup.ApartmentDetails) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.IsPriceConflict = c.SelectedProduct != nil &&
			addr.Elomrade != "" && c.Elomrade != "" &&
			addr.Elomrade != c.Elomrade

		if addr.Elomrade != "" {
			c.Elomrade = addr.Elomrade
		}

		housing := signup.HousingVilla
		if addr.Type == signup.AddressTypeApartment {
			housing = signup.HousingApartment
		}
		ad := signup.AddressDetails{HousingType: housing, ApartmentNumber: addr.ApartmentNumber}
		if details != nil {
			if details.Number != "" {
				ad.ApartmentNumber = details.Number
			}
			ad.Co = details.Co
		}
		addr.ApartmentNumber = ad.ApartmentNumber

		c.SelectedAddress = &addr
		c.AddressDetails = ad
		c.Invoice = nil
	})
}

func SetAuthenticated(s signup.CaseState, personnummer string, method signup.IDMethod) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.Personnummer = personnummer
		c.IDMethod = method
		c.IsAuthenticated = true
	})
}

// SetCustomerScenario folds a classification into the case. Choices made on
// the previous scenario's path are cleared.
func SetCustomerScenario(s signup.CaseState, scenario signup.Scenario, profile signup.CustomerProfile, currentContract *signup.Address) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.Scenario = scenario
		c.Customer = profile.Clone()
		if currentContract != nil {
			cc := *currentContract
			c.CurrentContractAddress = &cc
		} else {
			c.CurrentContractAddress = nil
		}
		c.MoveChoice = ""
		c.FacilityHandling = nil
		c.Invoice = nil

		consent := signup.MarketingConsent{}
		if profile.MarketingConsent != nil {
			consent = *profile.MarketingConsent
		}
		c.Customer.MarketingConsent = &consent
		c.MarketingConsent = consent
	})
}

func SetCurrentContractAddress(s signup.CaseState, addr *signup.Address) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		if addr == nil {
			c.CurrentContractAddress = nil
			return
		}
		cp := *addr
		c.CurrentContractAddress = &cp
	})
}

func SetMoveChoice(s signup.CaseState, choice signup.MoveChoice) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.MoveChoice = choice
	})
}

func SetFacilityHandling(s signup.CaseState, fh *signup.FacilityHandling) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		if fh == nil {
			c.FacilityHandling = nil
			return
		}
		cp := *fh
		c.FacilityHandling = &cp
	})
}

func SetInvoice(s signup.CaseState, inv *signup.Invoice) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.Invoice = inv.Clone()
	})
}

// CustomerDetails is the contact step's output. StartDateMode accepts the
// wire value SPECIFIC and stores it as CHOOSE_DATE.
type CustomerDetails struct {
	Email         string
	Phone         string
	StartDate     string
	StartDateMode string
}

func SetCustomerDetails(s signup.CaseState, d CustomerDetails) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.StartDate = d.StartDate
		c.StartDateMode = signup.StartDateEarliest
		if d.StartDateMode == "SPECIFIC" || d.StartDateMode == string(signup.StartDateChooseDate) {
			c.StartDateMode = signup.StartDateChooseDate
		}
		c.Customer.Email = d.Email
		c.Customer.Phone = d.Phone
	})
}

func SetElomrade(s signup.CaseState, e signup.Elomrade) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.Elomrade = e
	})
}

func ResolvePriceConflict(s signup.CaseState) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.IsPriceConflict = false
	})
}

// Consents is a partial update; nil fields keep their current value.
type Consents struct {
	Terms     *bool
	Risk      *bool
	Marketing *signup.MarketingConsent
}

// SetConsents applies a partial consent update. Marketing consent declared by
// CRM stays granted.
func SetConsents(s signup.CaseState, in Consents) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		if in.Terms != nil {
			c.TermsAccepted = *in.Terms
		}
		if in.Risk != nil {
			c.RiskInfoAccepted = *in.Risk
		}
		if in.Marketing != nil {
			m := *in.Marketing
			if declared := c.Customer.MarketingConsent; declared != nil {
				m.Email = m.Email || declared.Email
				m.SMS = m.SMS || declared.SMS
			}
			c.MarketingConsent = m
		}
	})
}

func SetStop(s signup.CaseState, reason signup.StopReason) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.Stop = signup.Stop{IsStopped: true, Reason: reason}
	})
}

// ClearAuthentication forgets who identified on the case together with
// everything the classification brought in.
func ClearAuthentication(s signup.CaseState) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		initial := signup.InitialPrivateCase()
		c.Personnummer = ""
		c.IDMethod = ""
		c.IsAuthenticated = false
		c.Scenario = initial.Scenario
		c.Customer = initial.Customer
		c.CurrentContractAddress = nil
		c.MoveChoice = ""
		c.FacilityHandling = nil
		c.Invoice = nil
	})
}

func ClearStop(s signup.CaseState) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.Stop = signup.Stop{}
	})
}

func SetCaseID(s signup.CaseState, id string) signup.CaseState {
	return onPrivate(s, func(c *signup.PrivateCase) {
		c.CaseID = id
	})
}

// --- company ---

func SetCompanyProduct(s signup.CaseState, p signup.Product) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		c.SelectedProduct = &p
	})
}

func SetCompanySize(s signup.CaseState, size signup.CompanySize) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		c.Size = size
	})
}

func SetCompanyGatekeeper(s signup.CaseState, totalConsumption, facilityCount int) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		c.TotalConsumption = totalConsumption
		c.FacilityCount = facilityCount
	})
}

func SetCompanyLookupData(s signup.CaseState, info signup.CompanyInfo) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		c.OrgNr = info.OrgNr
		c.CompanyName = info.CompanyName
		c.IsCreditApproved = info.IsCreditApproved
		c.SignatoryType = info.SignatoryType
		if info.PrimarySigner != nil {
			ps := *info.PrimarySigner
			c.PrimarySigner = &ps
		}
	})
}

// EnsureFacilities creates placeholder facilities the first time the loop is
// entered. An existing list is left alone.
func EnsureFacilities(s signup.CaseState, count int) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		if len(c.Facilities) > 0 {
			return
		}
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			c.Facilities = append(c.Facilities, placeholderFacility(i))
		}
	})
}

// AddFacility appends a placeholder. The list only grows.
func AddFacility(s signup.CaseState) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		c.Facilities = append(c.Facilities, placeholderFacility(len(c.Facilities)))
	})
}

// SetFacilityAddress fills in the facility's address. With a product already
// chosen for the company the consumption gets a placeholder estimate.
func SetFacilityAddress(s signup.CaseState, index int, addr signup.Address) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		if index < 0 || index >= len(c.Facilities) {
			return
		}
		f := c.Facilities[index]
		f.Address = addr.Line()
		f.ZipCode = addr.PostalCode
		f.City = addr.City
		f.Elomrade = addr.Elomrade
		if c.SelectedProduct != nil && f.AnnualConsumption == 0 {
			f.AnnualConsumption = PlaceholderConsumption
		}
		c.Facilities[index] = f
	})
}

func SetFacilityConsumption(s signup.CaseState, index, annualConsumption int) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		if index < 0 || index >= len(c.Facilities) || annualConsumption <= 0 {
			return
		}
		c.Facilities[index].AnnualConsumption = annualConsumption
	})
}

func SetCompanyFacilities(s signup.CaseState, facilities []signup.Facility) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		// never shrink the list
		if len(facilities) < len(c.Facilities) {
			return
		}
		c.Facilities = append([]signup.Facility{}, facilities...)
	})
}

// CompanyInvoice is the invoice section of the company agreement.
type CompanyInvoice struct {
	Mode      signup.InvoiceAddressMode
	Reference string
	StartDate string
}

func SetCompanyInvoice(s signup.CaseState, in CompanyInvoice) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		c.InvoiceAddress = signup.InvoiceSameAsVisiting
		if in.Mode == signup.InvoiceOther {
			c.InvoiceAddress = signup.InvoiceOther
		}
		c.InvoiceReference = in.Reference
		if in.StartDate != "" {
			c.StartDate = in.StartDate
		}
	})
}

// CompanyConsents is a partial update; nil fields keep their current value.
type CompanyConsents struct {
	Terms     *bool
	Authority *bool
	Secondary *signup.Signer
}

func SetCompanyConsents(s signup.CaseState, in CompanyConsents) signup.CaseState {
	return onCompany(s, func(c *signup.CompanyCase) {
		if in.Terms != nil {
			c.TermsAccepted = *in.Terms
		}
		if in.Authority != nil {
			c.AuthorityDeclared = *in.Authority
		}
		if in.Secondary != nil {
			ss := *in.Secondary
			c.SecondarySigner = &ss
		}
	})
}

// PlaceholderConsumption is the kWh estimate used until a real figure is known.
const PlaceholderConsumption = 25000

func placeholderFacility(i int) signup.Facility {
	return signup.Facility{
		ID:           fmt.Sprintf("temp-%d", i),
		AnlaggningID: fmt.Sprintf("anl-%d", i),
	}
}
