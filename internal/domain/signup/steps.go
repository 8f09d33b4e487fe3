// internal/domain/signup/steps.go
package signup

// PrivateFlowStep identifies a step of the private customer wizard. The value
// travels in the `step` query parameter.
type PrivateFlowStep string

const (
	StepProductSelect      PrivateFlowStep = "PRODUCT_SELECT"
	StepAddressSearch      PrivateFlowStep = "ADDRESS_SEARCH"
	StepIdentify           PrivateFlowStep = "IDENTIFY"
	StepMoveOffer          PrivateFlowStep = "MOVE_OFFER"
	StepDetails            PrivateFlowStep = "DETAILS"
	StepTerms              PrivateFlowStep = "TERMS"
	StepSigning            PrivateFlowStep = "SIGNING"
	StepConfirmation       PrivateFlowStep = "CONFIRMATION"
	StepExtraBixiaNara     PrivateFlowStep = "EXTRA_BIXIA_NARA"
	StepExtraRealtimeMeter PrivateFlowStep = "EXTRA_REALTIME_METER"
	StepAppDownload        PrivateFlowStep = "APP_DOWNLOAD"
	StepExtraContact       PrivateFlowStep = "EXTRA_CONTACT"

	// LegacyStepRiskInfo was merged into TERMS; old links still carry it.
	LegacyStepRiskInfo = "RISK_INFO"
)

// PrivateFlowSteps is the whitelist in flow order.
var PrivateFlowSteps = []PrivateFlowStep{
	StepProductSelect,
	StepAddressSearch,
	StepIdentify,
	StepMoveOffer,
	StepDetails,
	StepTerms,
	StepSigning,
	StepConfirmation,
	StepExtraBixiaNara,
	StepExtraRealtimeMeter,
	StepAppDownload,
	StepExtraContact,
}

func (s PrivateFlowStep) Valid() bool {
	for _, known := range PrivateFlowSteps {
		if s == known {
			return true
		}
	}
	return false
}

// Index returns the position of the step in flow order, or -1.
func (s PrivateFlowStep) Index() int {
	for i, known := range PrivateFlowSteps {
		if s == known {
			return i
		}
	}
	return -1
}

// After reports whether s comes strictly after other in flow order.
func (s PrivateFlowStep) After(other PrivateFlowStep) bool {
	return s.Index() > other.Index()
}

type DetailsSubStep string

const (
	DetailsDate    DetailsSubStep = "DATE"
	DetailsContact DetailsSubStep = "CONTACT"
)

type CompanyFlowStep string

const (
	CompanyStepProductSelect  CompanyFlowStep = "PRODUCT_SELECT"
	CompanyStepGatekeeper     CompanyFlowStep = "GATEKEEPER"
	CompanyStepSearch         CompanyFlowStep = "SEARCH"
	CompanyStepFacilitiesLoop CompanyFlowStep = "FACILITIES_LOOP"
)

var CompanyFlowSteps = []CompanyFlowStep{
	CompanyStepProductSelect,
	CompanyStepGatekeeper,
	CompanyStepSearch,
	CompanyStepFacilitiesLoop,
}

func (s CompanyFlowStep) Valid() bool {
	for _, known := range CompanyFlowSteps {
		if s == known {
			return true
		}
	}
	return false
}

func (s CompanyFlowStep) Index() int {
	for i, known := range CompanyFlowSteps {
		if s == known {
			return i
		}
	}
	return -1
}

func (s CompanyFlowStep) After(other CompanyFlowStep) bool {
	return s.Index() > other.Index()
}

type CompanySize string

const (
	CompanySizeSmall  CompanySize = "SMALL"
	CompanySizeMedium CompanySize = "MEDIUM"
	CompanySizeLarge  CompanySize = "LARGE"
)
