// internal/domain/signup/dto.go
package signup

type CreateCaseRequest struct {
	CustomerType CustomerType `json:"customerType" binding:"omitempty,oneof=PRIVATE COMPANY"`
}

type CreateCaseResponse struct {
	CaseID string    `json:"caseId"`
	Token  string    `json:"token"`
	State  CaseState `json:"state"`
}

type SetCustomerTypeRequest struct {
	CustomerType CustomerType `json:"customerType" binding:"required,oneof=PRIVATE COMPANY"`
}

type SelectProductRequest struct {
	ProductID             string `json:"productId" binding:"required"`
	IncludeRestrictedFast bool   `json:"includeRestrictedFast"`
}

type ConfirmAddressRequest struct {
	Address         Address `json:"address" binding:"required"`
	ApartmentNumber string  `json:"apartmentNumber" binding:"omitempty,apartment_no"`
	Co              string  `json:"co" binding:"omitempty,max=100"`
}

type ResolvePriceConflictRequest struct {
	ProductID string `json:"productId"`
}

type AuthenticateRequest struct {
	NationalID string   `json:"nationalId" binding:"required,pnr"`
	Method     IDMethod `json:"method" binding:"required,oneof=BANKID_MOBILE BANKID_QR MANUAL_PNR"`
}

type MoveChoiceRequest struct {
	Choice MoveChoice `json:"choice" binding:"required,oneof=MOVE_EXISTING NEW_ON_NEW_ADDRESS"`
}

// SelectDateRequest uses SPECIFIC for a chosen date; it is stored as CHOOSE_DATE.
type SelectDateRequest struct {
	Mode string `json:"mode" binding:"required,oneof=EARLIEST SPECIFIC"`
	Date string `json:"date" binding:"required_if=Mode SPECIFIC,omitempty,datetime=2006-01-02"`
}

type InvoiceInput struct {
	Mode            InvoiceMode `json:"mode" binding:"required,oneof=SAME_AS_RECOMMENDED CUSTOM"`
	Address         *Address    `json:"address" binding:"required_if=Mode CUSTOM"`
	ApartmentNumber string      `json:"apartmentNumber" binding:"omitempty,apartment_no"`
	Co              string      `json:"co" binding:"omitempty,max=100"`
}

type ConfirmContactRequest struct {
	Email            string            `json:"email" binding:"required,email"`
	Phone            string            `json:"phone" binding:"required,se_mobile"`
	Invoice          *InvoiceInput     `json:"invoice" binding:"omitempty"`
	MarketingConsent *MarketingConsent `json:"marketingConsent"`
}

type FacilityHandlingInput struct {
	Mode       FacilityHandlingMode `json:"mode" binding:"required,oneof=FETCH_WITH_POWER_OF_ATTORNEY MANUAL"`
	FacilityID string               `json:"facilityId" binding:"required_if=Mode MANUAL,omitempty,facility_id"`
}

type ConfirmTermsRequest struct {
	TermsAccepted    bool                   `json:"termsAccepted"`
	RiskAccepted     bool                   `json:"riskAccepted"`
	FacilityHandling *FacilityHandlingInput `json:"facilityHandling" binding:"omitempty"`
}

type BixiaNaraRequest struct {
	Selected bool   `json:"selected"`
	County   string `json:"county" binding:"omitempty,max=60"`
}

type RealtimeMeterRequest struct {
	Selected bool `json:"selected"`
}

type ContactMeRequest struct {
	Services []ContactMeService `json:"services" binding:"dive,oneof=HOME_BATTERY CHARGER SOLAR ATTIC_INSULATION"`
}

// ExtraServicesSelection is what is sent to the extras backend after signing.
type ExtraServicesSelection struct {
	BixiaNara         *BixiaNara         `json:"bixiaNara,omitempty"`
	RealtimeMeter     *RealtimeMeter     `json:"realtimeMeter,omitempty"`
	ContactMeServices []ContactMeService `json:"contactMeServices"`
}

type GatekeeperRequest struct {
	Size CompanySize `json:"size" binding:"required,oneof=SMALL MEDIUM LARGE"`
}

type CompanyLookupRequest struct {
	OrgNr string `json:"orgNr" binding:"required,orgnr"`
}

type FacilityIndexRequest struct {
	Index int `json:"index" binding:"min=0"`
}

type FacilityAddressRequest struct {
	Index   int     `json:"index" binding:"min=0"`
	Address Address `json:"address" binding:"required"`
}

type ApartmentsRequest struct {
	Address Address `json:"address" binding:"required"`
}

type AdvisorRequest struct {
	Answers []string `json:"answers" binding:"required,len=5,dive,oneof=A B C"`
}

// DevOverrides are demo hooks set from the developer panel. They are only
// honoured when the panel is enabled in config.
type DevOverrides struct {
	Scenario      string   `json:"scenario,omitempty" binding:"omitempty,oneof=NY_KUND FLYTT BYTE BYTE_NO_BINDING EXTRA PENDING_CASE CANNOT_DELIVER RANDOM"`
	AddressResult string   `json:"addressResult,omitempty" binding:"omitempty,oneof=NORMAL NONE ERROR"`
	Consent       string   `json:"consent,omitempty" binding:"omitempty,oneof=CONSENT NO_CONSENT"`
	Extras        []string `json:"extras,omitempty" binding:"dive,oneof=BIXIA_NARA REALTIME_METER HOME_BATTERY CHARGER SOLAR ATTIC_INSULATION"`
	SigningResult string   `json:"signingResult,omitempty" binding:"omitempty,oneof=SUCCESS CANCELLED TIMEOUT ERROR"`
}

type FacilityProductRequest struct {
	Index             int `json:"index" binding:"min=0"`
	AnnualConsumption int `json:"annualConsumption" binding:"omitempty,min=1,max=100000000"`
}

// CompanyAgreementRequest closes the facility loop.
type CompanyAgreementRequest struct {
	InvoiceAddress    InvoiceAddressMode `json:"invoiceAddress" binding:"omitempty,oneof=SAME_AS_VISITING OTHER"`
	InvoiceReference  string             `json:"invoiceReference" binding:"omitempty,max=100"`
	StartDate         string             `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	TermsAccepted     bool               `json:"termsAccepted"`
	AuthorityDeclared bool               `json:"authorityDeclared"`
	SecondarySigner   *Signer            `json:"secondarySigner" binding:"omitempty"`
}
