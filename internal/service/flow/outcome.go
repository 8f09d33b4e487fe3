// internal/service/flow/outcome.go
package flow

import (
	"signup-service/internal/domain/signup"
	"signup-service/internal/service/navigation"

	"github.com/shopspring/decimal"
)

// ScreenStop is the view name of the stop screen.
const ScreenStop = "FLOW_STOP"

// Outcome is what the client renders after a view or an action. Step is the
// flow step; View differs from Step only on the stop screen and inside the
// facility loop.
type Outcome struct {
	Flow     signup.CustomerType   `json:"flow"`
	Step     string                `json:"step"`
	SubStep  signup.DetailsSubStep `json:"subStep,omitempty"`
	View     string                `json:"view"`
	Redirect bool                  `json:"redirect"`
	Reason   string                `json:"reason,omitempty"`
	Screen   any                   `json:"screen,omitempty"`
	Message  string                `json:"message,omitempty"`
	State    signup.CaseState      `json:"state"`
}

type ProductSelectScreen struct {
	Region                signup.Elomrade  `json:"region"`
	Products              []signup.Product `json:"products"`
	Selected              *signup.Product  `json:"selected,omitempty"`
	IncludeRestrictedFast bool             `json:"includeRestrictedFast"`
}

type AddressSearchScreen struct {
	Selected       *signup.Address       `json:"selected,omitempty"`
	AddressDetails signup.AddressDetails `json:"addressDetails"`
	Product        *signup.Product       `json:"product,omitempty"`
}

// PriceConflict is shown on IDENTIFY after the price region changed.
type PriceConflict struct {
	Title        string           `json:"title"`
	Region       signup.Elomrade  `json:"region"`
	Unavailable  bool             `json:"unavailable"`
	Current      *signup.Product  `json:"current,omitempty"`
	Updated      *signup.Product  `json:"updated,omitempty"`
	Alternatives []signup.Product `json:"alternatives,omitempty"`
}

type IdentifyScreen struct {
	Address            *signup.Address   `json:"address,omitempty"`
	Product            *signup.Product   `json:"product,omitempty"`
	PriceConflict      *PriceConflict    `json:"priceConflict,omitempty"`
	StrongAuthRequired bool              `json:"strongAuthRequired"`
	Methods            []signup.IDMethod `json:"methods"`
}

type MoveOfferScreen struct {
	From            *signup.Address   `json:"from,omitempty"`
	To              *signup.Address   `json:"to,omitempty"`
	ContractEndDate string            `json:"contractEndDate,omitempty"`
	Choice          signup.MoveChoice `json:"choice,omitempty"`
}

type DetailsScreen struct {
	PendingDate        *PendingDate             `json:"pendingDate,omitempty"`
	StartDate          string                   `json:"startDate,omitempty"`
	StartDateMode      signup.StartDateMode     `json:"startDateMode"`
	EarliestDate       string                   `json:"earliestDate"`
	ContractEndDate    string                   `json:"contractEndDate,omitempty"`
	Email              string                   `json:"email,omitempty"`
	Phone              string                   `json:"phone,omitempty"`
	RecommendedInvoice *signup.Address          `json:"recommendedInvoiceAddress,omitempty"`
	SuggestedCustom    *signup.Address          `json:"suggestedCustomInvoiceAddress,omitempty"`
	Invoice            *signup.Invoice          `json:"invoice,omitempty"`
	MarketingConsent   signup.MarketingConsent  `json:"marketingConsent"`
	DeclaredConsent    *signup.MarketingConsent `json:"declaredConsent,omitempty"`
}

type TermsScreen struct {
	Product            *signup.Product          `json:"product,omitempty"`
	RequiresRisk       bool                     `json:"requiresRiskAcknowledgement"`
	RequiresFacilityID bool                     `json:"requiresFacilityId"`
	FacilityHandling   *signup.FacilityHandling `json:"facilityHandling,omitempty"`
	TermsAccepted      bool                     `json:"termsAccepted"`
	RiskAccepted       bool                     `json:"riskAccepted"`
}

type SigningScreen struct {
	Status  SigningStatus `json:"status"`
	OrderID string        `json:"orderId,omitempty"`
}

type ConfirmationScreen struct {
	OrderID     string                 `json:"orderId,omitempty"`
	Product     *signup.Product        `json:"product,omitempty"`
	Address     *signup.Address        `json:"address,omitempty"`
	StartDate   string                 `json:"startDate,omitempty"`
	Email       string                 `json:"email,omitempty"`
	Eligibility navigation.Eligibility `json:"eligibility"`
	Next        signup.PrivateFlowStep `json:"next"`
}

type BixiaNaraScreen struct {
	MonthlySEK      int      `json:"monthlySek"`
	Counties        []string `json:"counties"`
	SuggestedCounty string   `json:"suggestedCounty,omitempty"`
	Selected        bool     `json:"selected"`
	County          string   `json:"county,omitempty"`
}

type RealtimeMeterScreen struct {
	OneTimeSEK int  `json:"oneTimeSek"`
	MonthlySEK int  `json:"monthlySek"`
	Selected   bool `json:"selected"`
}

type AppDownloadScreen struct {
	HasFinalExtrasStep bool `json:"hasFinalExtrasStep"`
}

type ExtraContactScreen struct {
	Services []ServiceOption           `json:"services"`
	Selected []signup.ContactMeService `json:"selected"`
	Saved    bool                      `json:"saved"`
	Phone    string                    `json:"phone,omitempty"`
}

type StopScreen struct {
	Reason      signup.StopReason `json:"reason"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	// ExtrasIntro is set when the customer may go on to the extras.
	ExtrasIntro *ExtrasIntro `json:"extrasIntro,omitempty"`
	Exits       []string     `json:"exits"`
}

type ExtrasIntro struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Continue string `json:"continue"`
	Leave    string `json:"leave"`
}

// --- company ---

type CompanyProductScreen struct {
	Products []signup.Product `json:"products"`
	Selected *signup.Product  `json:"selected,omitempty"`
}

type GatekeeperScreen struct {
	Blocked     bool               `json:"blocked"`
	BlockedSize signup.CompanySize `json:"blockedSize,omitempty"`
	Message     string             `json:"message,omitempty"`
	Phone       string             `json:"phone,omitempty"`
	Hours       string             `json:"hours,omitempty"`
}

type CompanySearchScreen struct {
	OrgNr       string `json:"orgNr,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

type FacilitySummary struct {
	Index      int             `json:"index"`
	Facility   signup.Facility `json:"facility"`
	Configured bool            `json:"configured"`
}

type FacilitiesScreen struct {
	Title              string            `json:"title"`
	CompanyName        string            `json:"companyName"`
	View               LoopView          `json:"view"`
	Linear             bool              `json:"linear"`
	Index              int               `json:"index"`
	Completed          bool              `json:"completed"`
	Facilities         []FacilitySummary `json:"facilities"`
	AllConfigured      bool              `json:"allConfigured"`
	Product            *signup.Product   `json:"product,omitempty"`
	TotalKwh           int               `json:"totalKwh"`
	PricePerKwh        decimal.Decimal   `json:"pricePerKwh"`
	EstimatedYearlySEK decimal.Decimal   `json:"estimatedYearlySek"`
}
