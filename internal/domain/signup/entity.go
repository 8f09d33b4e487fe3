// internal/domain/signup/entity.go
package signup

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CustomerType string

const (
	CustomerTypePrivate CustomerType = "PRIVATE"
	CustomerTypeCompany CustomerType = "COMPANY"
)

type Scenario string

const (
	ScenarioUnknown Scenario = "UNKNOWN"
	ScenarioNew     Scenario = "NY"
	ScenarioSwitch  Scenario = "BYTE"
	ScenarioMove    Scenario = "FLYTT"
	ScenarioExtra   Scenario = "EXTRA"
)

type EntryPoint string

const (
	EntryPointProductFirst EntryPoint = "PRODUCT_FIRST"
	EntryPointAddressFirst EntryPoint = "ADDRESS_FIRST"
)

type IDMethod string

const (
	IDMethodBankIDMobile IDMethod = "BANKID_MOBILE"
	IDMethodBankIDQR     IDMethod = "BANKID_QR"
	IDMethodManualPNR    IDMethod = "MANUAL_PNR"
)

// IsStrong reports whether the method gives a verified identity.
func (m IDMethod) IsStrong() bool {
	return m == IDMethodBankIDMobile || m == IDMethodBankIDQR
}

// Elomrade is a Swedish electricity price region.
type Elomrade string

const (
	SE1 Elomrade = "SE1"
	SE2 Elomrade = "SE2"
	SE3 Elomrade = "SE3"
	SE4 Elomrade = "SE4"

	DefaultElomrade = SE3
)

func (e Elomrade) Valid() bool {
	switch e {
	case SE1, SE2, SE3, SE4:
		return true
	}
	return false
}

type AddressType string

const (
	AddressTypeApartment AddressType = "LGH"
	AddressTypeVilla     AddressType = "VILLA"
	AddressTypeUnknown   AddressType = "UNKNOWN"
)

type Address struct {
	Street          string      `json:"street"`
	Number          string      `json:"number"`
	PostalCode      string      `json:"postalCode"`
	City            string      `json:"city"`
	Type            AddressType `json:"type"`
	Elomrade        Elomrade    `json:"elomrade,omitempty"`
	ApartmentNumber string      `json:"apartmentNumber,omitempty"`
}

// Key is a normalized identity for the address, used for comparison and hashing.
func (a Address) Key() string {
	norm := func(s string) string { return strings.ToLower(strings.Join(strings.Fields(s), "")) }
	return norm(a.Street) + "|" + norm(a.Number) + "|" + norm(a.PostalCode) + "|" + norm(a.City)
}

func (a Address) Line() string {
	return strings.TrimSpace(a.Street + " " + a.Number)
}

// SameAddress compares two optional addresses by street, number, postal code and city.
func SameAddress(a, b *Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Key() == b.Key()
}

type ProductType string

const (
	ProductTypeFixed     ProductType = "FAST"
	ProductTypeVariable  ProductType = "RORLIGT"
	ProductTypeQuarterly ProductType = "KVARTS"
	ProductTypeManaged   ProductType = "FORVALTAT"
)

// RequiresRiskAcknowledgement is true for fixed and quarterly price products.
func (t ProductType) RequiresRiskAcknowledgement() bool {
	return t == ProductTypeFixed || t == ProductTypeQuarterly
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          ProductType     `json:"type"`
	Description   string          `json:"description"`
	PricePerKwh   decimal.Decimal `json:"pricePerKwh"` // öre/kWh
	IsDiscounted  bool            `json:"isDiscounted"`
	DiscountText  string          `json:"discountText,omitempty"`
	IsCompanyOnly bool            `json:"isCompanyOnly"`
}

type StopReason string

const (
	StopCannotDeliver         StopReason = "CANNOT_DELIVER"
	StopDuplicateSameContract StopReason = "DUPLICATE_SAME_CONTRACT"
	StopPendingCase           StopReason = "PENDING_CASE"
)

type Stop struct {
	IsStopped bool       `json:"isStopped"`
	Reason    StopReason `json:"reason,omitempty"`
}

type MoveChoice string

const (
	MoveExisting        MoveChoice = "MOVE_EXISTING"
	MoveNewOnNewAddress MoveChoice = "NEW_ON_NEW_ADDRESS"
)

type FacilityHandlingMode string

const (
	FacilityFromCRM                  FacilityHandlingMode = "FROM_CRM"
	FacilityFetchWithPowerOfAttorney FacilityHandlingMode = "FETCH_WITH_POWER_OF_ATTORNEY"
	FacilityManual                   FacilityHandlingMode = "MANUAL"
)

type FacilityHandling struct {
	Mode       FacilityHandlingMode `json:"mode"`
	FacilityID string               `json:"facilityId,omitempty"`
}

type InvoiceMode string

const (
	InvoiceSameAsRecommended InvoiceMode = "SAME_AS_RECOMMENDED"
	InvoiceCustom            InvoiceMode = "CUSTOM"
)

type ApartmentDetails struct {
	Number string `json:"number,omitempty"`
	Co     string `json:"co,omitempty"`
}

type Invoice struct {
	Mode             InvoiceMode       `json:"mode"`
	Address          *Address          `json:"address,omitempty"`
	ApartmentDetails *ApartmentDetails `json:"apartmentDetails,omitempty"`
}

type HousingType string

const (
	HousingVilla     HousingType = "villa"
	HousingApartment HousingType = "lägenhet"
)

type AddressDetails struct {
	HousingType     HousingType `json:"housingType,omitempty"`
	ApartmentNumber string      `json:"apartmentNumber,omitempty"`
	Co              string      `json:"co,omitempty"`
}

type StartDateMode string

const (
	StartDateEarliest   StartDateMode = "EARLIEST"
	StartDateChooseDate StartDateMode = "CHOOSE_DATE"
)

type MarketingConsent struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

type ContactMeService string

const (
	ServiceHomeBattery     ContactMeService = "HOME_BATTERY"
	ServiceCharger         ContactMeService = "CHARGER"
	ServiceSolar           ContactMeService = "SOLAR"
	ServiceAtticInsulation ContactMeService = "ATTIC_INSULATION"
)

// ContactMeServices lists the services in the order they are offered.
var ContactMeServices = []ContactMeService{
	ServiceHomeBattery,
	ServiceCharger,
	ServiceSolar,
	ServiceAtticInsulation,
}

func (s ContactMeService) Valid() bool {
	for _, known := range ContactMeServices {
		if s == known {
			return true
		}
	}
	return false
}

type BixiaNara struct {
	Selected bool   `json:"selected"`
	County   string `json:"county,omitempty"`
}

type RealtimeMeter struct {
	Selected bool `json:"selected"`
}

type ExtraServices struct {
	BixiaNara         *BixiaNara         `json:"bixiaNara,omitempty"`
	RealtimeMeter     *RealtimeMeter     `json:"realtimeMeter,omitempty"`
	ContactMeServices []ContactMeService `json:"contactMeServices,omitempty"`
}

func (e *ExtraServices) HasBixiaNara() bool {
	return e != nil && e.BixiaNara != nil && e.BixiaNara.Selected
}

func (e *ExtraServices) HasRealtimeMeter() bool {
	return e != nil && e.RealtimeMeter != nil && e.RealtimeMeter.Selected
}

func (e *ExtraServices) HasContactMe(s ContactMeService) bool {
	if e == nil {
		return false
	}
	for _, owned := range e.ContactMeServices {
		if owned == s {
			return true
		}
	}
	return false
}

// CustomerProfile is the snapshot returned by scenario classification.
type CustomerProfile struct {
	IsExistingCustomer bool              `json:"isExistingCustomer"`
	Name               string            `json:"name,omitempty"`
	Email              string            `json:"email,omitempty"`
	Phone              string            `json:"phone,omitempty"`
	RegisteredAddress  *Address          `json:"registeredAddress,omitempty"`
	FacilityID         string            `json:"facilityId,omitempty"`
	ContractEndDate    string            `json:"contractEndDate,omitempty"`
	ExtraServices      *ExtraServices    `json:"extraServices,omitempty"`
	MarketingConsent   *MarketingConsent `json:"marketingConsent,omitempty"`
}

type PrivateCase struct {
	CaseID                 string            `json:"caseId,omitempty"`
	EntryPoint             EntryPoint        `json:"entryPoint"`
	Scenario               Scenario          `json:"scenario"`
	Elomrade               Elomrade          `json:"elomrade,omitempty"`
	SelectedAddress        *Address          `json:"selectedAddress,omitempty"`
	CurrentContractAddress *Address          `json:"currentContractAddress,omitempty"`
	MoveChoice             MoveChoice        `json:"moveChoice,omitempty"`
	FacilityHandling       *FacilityHandling `json:"facilityHandling,omitempty"`
	Invoice                *Invoice          `json:"invoice,omitempty"`
	AddressDetails         AddressDetails    `json:"addressDetails"`
	IDMethod               IDMethod          `json:"idMethod,omitempty"`
	Personnummer           string            `json:"personnummer,omitempty"`
	IsAuthenticated        bool              `json:"isAuthenticated"`
	Customer               CustomerProfile   `json:"customer"`
	SelectedProduct        *Product          `json:"selectedProduct,omitempty"`
	IsPriceConflict        bool              `json:"isPriceConflict"`
	StartDate              string            `json:"startDate,omitempty"`
	StartDateMode          StartDateMode     `json:"startDateMode"`
	MarketingConsent       MarketingConsent  `json:"marketingConsent"`
	RiskInfoAccepted       bool              `json:"riskInfoAccepted"`
	TermsAccepted          bool              `json:"termsAccepted"`
	Stop                   Stop              `json:"stop"`
}

type SignatoryType string

const (
	SignatorySingle  SignatoryType = "SINGLE"
	SignatoryDual    SignatoryType = "DUAL"
	SignatoryUnknown SignatoryType = "UNKNOWN"
)

type Signer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	PNR   string `json:"pnr,omitempty"`
}

type Facility struct {
	ID                string   `json:"id"`
	AnlaggningID      string   `json:"anlaggningId"`
	Address           string   `json:"address"`
	ZipCode           string   `json:"zipCode"`
	City              string   `json:"city"`
	AnnualConsumption int      `json:"annualConsumption"`
	Elomrade          Elomrade `json:"elomrade,omitempty"`
}

// Configured reports whether the facility has an address and a consumption.
func (f Facility) Configured() bool {
	return f.Address != "" && f.AnnualConsumption > 0
}

type InvoiceAddressMode string

const (
	InvoiceSameAsVisiting InvoiceAddressMode = "SAME_AS_VISITING"
	InvoiceOther          InvoiceAddressMode = "OTHER"
)

type CompanyCase struct {
	// Size is the gatekeeper answer; only SMALL companies sign up online.
	Size              CompanySize        `json:"size,omitempty"`
	TotalConsumption  int                `json:"totalConsumption"`
	FacilityCount     int                `json:"facilityCount"`
	OrgNr             string             `json:"orgNr,omitempty"`
	CompanyName       string             `json:"companyName,omitempty"`
	IsCreditApproved  bool               `json:"isCreditApproved"`
	SignatoryType     SignatoryType      `json:"signatoryType"`
	PrimarySigner     *Signer            `json:"primarySigner,omitempty"`
	SecondarySigner   *Signer            `json:"secondarySigner,omitempty"`
	Facilities        []Facility         `json:"facilities"`
	SelectedProduct   *Product           `json:"selectedProduct,omitempty"`
	StartDate         string             `json:"startDate,omitempty"`
	InvoiceAddress    InvoiceAddressMode `json:"invoiceAddress"`
	InvoiceReference  string             `json:"invoiceReference,omitempty"`
	TermsAccepted     bool               `json:"termsAccepted"`
	AuthorityDeclared bool               `json:"authorityDeclared"`
}

// CaseState is the root aggregate. Exactly one of Private or Company is set,
// selected by CustomerType.
type CaseState struct {
	CustomerType CustomerType `json:"customerType"`
	Private      *PrivateCase `json:"private,omitempty"`
	Company      *CompanyCase `json:"company,omitempty"`
}

func InitialPrivateCase() PrivateCase {
	return PrivateCase{
		EntryPoint:    EntryPointProductFirst,
		Scenario:      ScenarioUnknown,
		StartDateMode: StartDateEarliest,
	}
}

func InitialCompanyCase() CompanyCase {
	return CompanyCase{
		SignatoryType:  SignatoryUnknown,
		Facilities:     []Facility{},
		InvoiceAddress: InvoiceSameAsVisiting,
	}
}

// InitialState returns the initial value for the given variant.
func InitialState(t CustomerType) CaseState {
	if t == CustomerTypeCompany {
		c := InitialCompanyCase()
		return CaseState{CustomerType: CustomerTypeCompany, Company: &c}
	}
	p := InitialPrivateCase()
	return CaseState{CustomerType: CustomerTypePrivate, Private: &p}
}

// Valid reports whether the discriminator matches the populated variant.
func (s CaseState) Valid() bool {
	switch s.CustomerType {
	case CustomerTypePrivate:
		return s.Private != nil && s.Company == nil
	case CustomerTypeCompany:
		return s.Company != nil && s.Private == nil
	}
	return false
}

func (s CaseState) IsPrivate() bool { return s.CustomerType == CustomerTypePrivate && s.Private != nil }
func (s CaseState) IsCompany() bool { return s.CustomerType == CustomerTypeCompany && s.Company != nil }

// Clone returns a deep copy.
func (s CaseState) Clone() CaseState {
	out := CaseState{CustomerType: s.CustomerType}
	if s.Private != nil {
		p := s.Private.Clone()
		out.Private = &p
	}
	if s.Company != nil {
		c := s.Company.Clone()
		out.Company = &c
	}
	return out
}

func (p PrivateCase) Clone() PrivateCase {
	out := p
	out.SelectedAddress = cloneAddress(p.SelectedAddress)
	out.CurrentContractAddress = cloneAddress(p.CurrentContractAddress)
	if p.FacilityHandling != nil {
		fh := *p.FacilityHandling
		out.FacilityHandling = &fh
	}
	out.Invoice = p.Invoice.Clone()
	out.Customer = p.Customer.Clone()
	if p.SelectedProduct != nil {
		prod := *p.SelectedProduct
		out.SelectedProduct = &prod
	}
	return out
}

func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	out := *i
	out.Address = cloneAddress(i.Address)
	if i.ApartmentDetails != nil {
		ad := *i.ApartmentDetails
		out.ApartmentDetails = &ad
	}
	return &out
}

func (c CustomerProfile) Clone() CustomerProfile {
	out := c
	out.RegisteredAddress = cloneAddress(c.RegisteredAddress)
	out.ExtraServices = c.ExtraServices.Clone()
	if c.MarketingConsent != nil {
		mc := *c.MarketingConsent
		out.MarketingConsent = &mc
	}
	return out
}

func (e *ExtraServices) Clone() *ExtraServices {
	if e == nil {
		return nil
	}
	out := &ExtraServices{}
	if e.BixiaNara != nil {
		bn := *e.BixiaNara
		out.BixiaNara = &bn
	}
	if e.RealtimeMeter != nil {
		rm := *e.RealtimeMeter
		out.RealtimeMeter = &rm
	}
	if e.ContactMeServices != nil {
		out.ContactMeServices = append([]ContactMeService(nil), e.ContactMeServices...)
	}
	return out
}

func (c CompanyCase) Clone() CompanyCase {
	out := c
	if c.PrimarySigner != nil {
		s := *c.PrimarySigner
		out.PrimarySigner = &s
	}
	if c.SecondarySigner != nil {
		s := *c.SecondarySigner
		out.SecondarySigner = &s
	}
	out.Facilities = append([]Facility{}, c.Facilities...)
	if c.SelectedProduct != nil {
		prod := *c.SelectedProduct
		out.SelectedProduct = &prod
	}
	return out
}

func cloneAddress(a *Address) *Address {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// CompanyInfo is the result of an organisation number lookup.
type CompanyInfo struct {
	OrgNr            string        `json:"orgNr"`
	CompanyName      string        `json:"companyName"`
	Street           string        `json:"street"`
	Zip              string        `json:"zip"`
	City             string        `json:"city"`
	IsCreditApproved bool          `json:"isCreditApproved"`
	SignatoryType    SignatoryType `json:"signatoryType"`
	PrimarySigner    *Signer       `json:"primarySigner,omitempty"`
}
