// internal/service/flow/company.go
package flow

import (
	"context"
	"errors"
	"fmt"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"
	"signup-service/internal/service/apilog"
	"signup-service/internal/service/backend"
	"signup-service/internal/service/casestate"
	"signup-service/internal/service/catalog"
	"signup-service/internal/service/navigation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const facilitiesTitle = "Dina lokaler"

// Company drives the company wizard and its facility loop.
type Company struct {
	*Engine
}

func NewCompany(e *Engine) *Company {
	return &Company{Engine: e}
}

func (f *Company) company(c *Case) (*signup.CompanyCase, error) {
	st := c.store.State()
	if !st.IsCompany() {
		return nil, xerrors.ErrWrongFlow
	}
	return st.Company, nil
}

// at refuses an action whose step the case could not be shown.
func (f *Company) at(c *Case, step signup.CompanyFlowStep) (*signup.CompanyCase, error) {
	cc, err := f.company(c)
	if err != nil {
		return nil, err
	}
	if res := navigation.ResolveCompany(string(step), c.store.State()); res.Redirect != nil {
		f.logger.Debug("action refused",
			zap.String("case_id", c.ID),
			zap.String("step", string(step)),
			zap.String("reason", res.Reason),
		)
		return nil, validation.FieldErrors{"step": msgStepUnavailable}
	}
	return cc, nil
}

func (f *Company) View(ctx context.Context, c *Case, param string) (Outcome, error) {
	if _, err := f.company(c); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, param)
}

func (f *Company) SelectProduct(ctx context.Context, c *Case, req signup.SelectProductRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	if _, err := f.company(c); err != nil {
		return Outcome{}, err
	}
	product, err := catalog.Find(catalog.Query{Region: signup.DefaultElomrade, Company: true}, req.ProductID)
	if err != nil {
		return Outcome{}, validation.FieldErrors{"productId": "Ogiltigt val"}
	}
	if _, err := c.store.SetCompanyProduct(ctx, product); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(signup.CompanyStepGatekeeper))
}

// Gatekeeper lets small companies continue online. Larger ones are referred
// to the sales team.
func (f *Company) Gatekeeper(ctx context.Context, c *Case, req signup.GatekeeperRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	if _, err := f.at(c, signup.CompanyStepGatekeeper); err != nil {
		return Outcome{}, err
	}

	cs := &c.sess.Company
	if req.Size != signup.CompanySizeSmall {
		if _, err := c.store.SetCompanySize(ctx, req.Size); err != nil {
			return Outcome{}, err
		}
		cs.BlockedSize = req.Size
		f.logger.Info("company referred to sales", zap.String("case_id", c.ID), zap.String("size", string(req.Size)))
		return f.render(ctx, c, string(signup.CompanyStepGatekeeper))
	}
	cs.BlockedSize = ""
	if _, err := c.store.PassGatekeeper(ctx, 0, 1); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(signup.CompanyStepSearch))
}

func (f *Company) LookupCompany(ctx context.Context, c *Case, req signup.CompanyLookupRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	if _, err := f.at(c, signup.CompanyStepSearch); err != nil {
		return Outcome{}, err
	}

	orgNr := backend.FormatOrgNr(req.OrgNr)
	info, err := apilog.Do(ctx, f.deps.Recorder, apilog.Call{
		CaseID:   c.ID,
		Endpoint: apilog.EndpointCompany + "/" + orgNr,
		Type:     apilog.TypeCompanySearch,
		Request:  map[string]string{"orgNr": orgNr},
	}, func(ctx context.Context) (signup.CompanyInfo, error) {
		return f.deps.Companies.Lookup(ctx, orgNr)
	})
	if err != nil {
		if !errors.Is(err, xerrors.ErrNotFound) {
			f.logger.Error("company lookup failed", zap.String("case_id", c.ID), zap.Error(err))
		}
		return f.renderWithMessage(ctx, c, signup.CompanyStepSearch, msgCompanyNotFound)
	}

	state, err := c.store.Apply(ctx, func(s signup.CaseState) signup.CaseState {
		s = casestate.SetCompanyLookupData(s, info)
		if !s.IsCompany() {
			return s
		}
		return casestate.EnsureFacilities(s, s.Company.FacilityCount)
	})
	if err != nil {
		return Outcome{}, err
	}
	if !state.IsCompany() {
		return Outcome{}, xerrors.ErrWrongFlow
	}
	enterLoop(&c.sess.Company, state.Company)
	return f.render(ctx, c, string(signup.CompanyStepFacilitiesLoop))
}

// enterLoop places the cursor at the start of the facility loop. A single
// facility is walked through linearly without the hub.
func enterLoop(cs *CompanySession, cc *signup.CompanyCase) {
	cs.Completed = false
	cs.Index = 0
	cs.Linear = len(cc.Facilities) == 1
	if cs.Linear {
		cs.View = LoopAddress
		return
	}
	cs.View = LoopHub
}

func (f *Company) loop(c *Case) (*signup.CompanyCase, error) {
	cc, err := f.at(c, signup.CompanyStepFacilitiesLoop)
	if err != nil {
		return nil, err
	}
	if cc.CompanyName == "" || len(cc.Facilities) == 0 {
		return nil, fmt.Errorf("facility loop not started: %w", xerrors.ErrInvalidAction)
	}
	if c.sess.Company.Completed {
		return nil, fmt.Errorf("facilities already completed: %w", xerrors.ErrInvalidAction)
	}
	return cc, nil
}

func checkIndex(cc *signup.CompanyCase, index int) error {
	if index < 0 || index >= len(cc.Facilities) {
		return validation.FieldErrors{"index": "Okänd anläggning"}
	}
	return nil
}

// ConfigureFacility opens the address form of a facility from the hub.
func (f *Company) ConfigureFacility(ctx context.Context, c *Case, req signup.FacilityIndexRequest) (Outcome, error) {
	cc, err := f.loop(c)
	if err != nil {
		return Outcome{}, err
	}
	if err := checkIndex(cc, req.Index); err != nil {
		return Outcome{}, err
	}
	cs := &c.sess.Company
	cs.Index, cs.View = req.Index, LoopAddress
	return f.render(ctx, c, string(signup.CompanyStepFacilitiesLoop))
}

// AddFacility appends a facility and opens its address form. The loop is no
// longer linear once there is more than one facility.
func (f *Company) AddFacility(ctx context.Context, c *Case) (Outcome, error) {
	if _, err := f.loop(c); err != nil {
		return Outcome{}, err
	}
	state, err := c.store.AddFacility(ctx)
	if err != nil {
		return Outcome{}, err
	}
	cs := &c.sess.Company
	cs.Linear = false
	cs.Index = len(state.Company.Facilities) - 1
	cs.View = LoopAddress
	return f.render(ctx, c, string(signup.CompanyStepFacilitiesLoop))
}

func (f *Company) ConfirmFacilityAddress(ctx context.Context, c *Case, req signup.FacilityAddressRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	cc, err := f.loop(c)
	if err != nil {
		return Outcome{}, err
	}
	if err := checkIndex(cc, req.Index); err != nil {
		return Outcome{}, err
	}
	if req.Address.Street == "" {
		return Outcome{}, validation.FieldErrors{"address": "Välj en adress från listan"}
	}
	if _, err := c.store.SetFacilityAddress(ctx, req.Index, req.Address); err != nil {
		return Outcome{}, err
	}
	cs := &c.sess.Company
	cs.Index, cs.View = req.Index, LoopProduct
	return f.render(ctx, c, string(signup.CompanyStepFacilitiesLoop))
}

// ConfirmFacilityProduct accepts the product for a facility, optionally with
// a known annual consumption, and returns to the hub. In linear mode the loop
// is done.
func (f *Company) ConfirmFacilityProduct(ctx context.Context, c *Case, req signup.FacilityProductRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	cc, err := f.loop(c)
	if err != nil {
		return Outcome{}, err
	}
	if err := checkIndex(cc, req.Index); err != nil {
		return Outcome{}, err
	}
	if cc.Facilities[req.Index].Address == "" {
		return Outcome{}, fmt.Errorf("facility %d has no address: %w", req.Index, xerrors.ErrInvalidAction)
	}
	if req.AnnualConsumption > 0 {
		if _, err := c.store.SetFacilityConsumption(ctx, req.Index, req.AnnualConsumption); err != nil {
			return Outcome{}, err
		}
	}
	cs := &c.sess.Company
	if cs.Linear {
		cs.View = LoopDone
	} else {
		cs.View = LoopHub
	}
	return f.render(ctx, c, string(signup.CompanyStepFacilitiesLoop))
}

// CompleteFacilities closes the loop with the agreement details once every
// facility is configured.
func (f *Company) CompleteFacilities(ctx context.Context, c *Case, req signup.CompanyAgreementRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	cc, err := f.loop(c)
	if err != nil {
		return Outcome{}, err
	}

	errs := validation.FieldErrors{}
	if !allConfigured(cc.Facilities) {
		errs["facilities"] = "Alla anläggningar behöver en adress och en förbrukning"
	}
	if !req.TermsAccepted {
		errs["termsAccepted"] = msgTermsRequired
	}
	if !req.AuthorityDeclared {
		errs["authorityDeclared"] = "Du behöver intyga att du har behörighet att teckna avtal"
	}
	if cc.SignatoryType == signup.SignatoryDual && (req.SecondarySigner == nil || req.SecondarySigner.Name == "") {
		errs["secondarySigner"] = "Företaget kräver två firmatecknare"
	}
	if len(errs) > 0 {
		return Outcome{}, errs
	}

	terms, authority := req.TermsAccepted, req.AuthorityDeclared
	if _, err := c.store.Apply(ctx, func(s signup.CaseState) signup.CaseState {
		s = casestate.SetCompanyInvoice(s, casestate.CompanyInvoice{
			Mode:      req.InvoiceAddress,
			Reference: req.InvoiceReference,
			StartDate: req.StartDate,
		})
		return casestate.SetCompanyConsents(s, casestate.CompanyConsents{
			Terms:     &terms,
			Authority: &authority,
			Secondary: req.SecondarySigner,
		})
	}); err != nil {
		return Outcome{}, err
	}

	cs := &c.sess.Company
	cs.View, cs.Completed = LoopDone, true
	f.logger.Info("company facilities completed",
		zap.String("case_id", c.ID),
		zap.String("org_nr", cc.OrgNr),
		zap.Int("facilities", len(cc.Facilities)),
	)
	return f.render(ctx, c, string(signup.CompanyStepFacilitiesLoop))
}

func allConfigured(facilities []signup.Facility) bool {
	if len(facilities) == 0 {
		return false
	}
	for _, fac := range facilities {
		if !fac.Configured() {
			return false
		}
	}
	return true
}

// Back steps out of the loop views before leaving the loop itself.
func (f *Company) Back(ctx context.Context, c *Case) (Outcome, error) {
	if _, err := f.company(c); err != nil {
		return Outcome{}, err
	}
	cs := &c.sess.Company
	step := cs.Step
	if step == "" {
		step = signup.CompanyStepProductSelect
	}

	if step == signup.CompanyStepFacilitiesLoop && !cs.Completed {
		switch cs.View {
		case LoopProduct:
			cs.View = LoopAddress
			return f.render(ctx, c, string(step))
		case LoopAddress:
			if !cs.Linear {
				cs.View = LoopHub
				return f.render(ctx, c, string(step))
			}
		}
	}

	prev, ok := navigation.BackCompany(step)
	if !ok {
		return f.render(ctx, c, string(step))
	}
	if step == signup.CompanyStepGatekeeper {
		cs.BlockedSize = ""
	}
	return f.render(ctx, c, string(prev))
}

func (f *Company) renderWithMessage(ctx context.Context, c *Case, step signup.CompanyFlowStep, msg string) (Outcome, error) {
	out, err := f.render(ctx, c, string(step))
	out.Message = msg
	return out, err
}

func (f *Company) render(ctx context.Context, c *Case, param string) (Outcome, error) {
	state := c.store.State()
	res := navigation.ResolveCompany(param, state)
	cs := &c.sess.Company

	out := Outcome{
		Flow:     signup.CustomerTypeCompany,
		Step:     string(res.Step),
		View:     string(res.Step),
		Redirect: res.Redirect != nil,
		Reason:   res.Reason,
		State:    state,
	}

	cc := state.Company
	if res.Step == signup.CompanyStepFacilitiesLoop && cc != nil {
		if cs.View == "" || cs.Index >= len(cc.Facilities) {
			enterLoop(cs, cc)
		}
		out.View = string(signup.CompanyStepFacilitiesLoop) + ":" + string(cs.View)
	}
	cs.Step = res.Step
	out.Screen = f.screen(res.Step, cc, cs)

	if err := f.saveSession(ctx, c); err != nil {
		return out, err
	}
	f.record(signup.CustomerTypeCompany, c.ID, out.View, out.Redirect, out.Reason)
	return out, nil
}

func (f *Company) screen(step signup.CompanyFlowStep, cc *signup.CompanyCase, cs *CompanySession) any {
	if cc == nil {
		return nil
	}
	switch step {
	case signup.CompanyStepProductSelect:
		return CompanyProductScreen{
			Products: catalog.Products(catalog.Query{Region: signup.DefaultElomrade, Company: true}),
			Selected: cc.SelectedProduct,
		}
	case signup.CompanyStepGatekeeper:
		scr := GatekeeperScreen{Blocked: cs.BlockedSize != "", BlockedSize: cs.BlockedSize}
		if scr.Blocked {
			scr.Message = msgCompanyContact
			scr.Phone = CompanySalesPhone
			scr.Hours = CompanySalesHours
		}
		return scr
	case signup.CompanyStepSearch:
		return CompanySearchScreen{OrgNr: cc.OrgNr, CompanyName: cc.CompanyName}
	case signup.CompanyStepFacilitiesLoop:
		return facilitiesScreen(cc, cs)
	}
	return nil
}

func facilitiesScreen(cc *signup.CompanyCase, cs *CompanySession) FacilitiesScreen {
	scr := FacilitiesScreen{
		Title:         facilitiesTitle,
		CompanyName:   cc.CompanyName,
		View:          cs.View,
		Linear:        cs.Linear,
		Index:         cs.Index,
		Completed:     cs.Completed,
		Facilities:    make([]FacilitySummary, 0, len(cc.Facilities)),
		AllConfigured: allConfigured(cc.Facilities),
		Product:       cc.SelectedProduct,
	}
	for i, fac := range cc.Facilities {
		scr.Facilities = append(scr.Facilities, FacilitySummary{Index: i, Facility: fac, Configured: fac.Configured()})
		scr.TotalKwh += fac.AnnualConsumption
	}
	if cc.SelectedProduct != nil {
		scr.PricePerKwh = cc.SelectedProduct.PricePerKwh
		// öre/kWh to SEK per year
		scr.EstimatedYearlySEK = cc.SelectedProduct.PricePerKwh.
			Mul(decimal.NewFromInt(int64(scr.TotalKwh))).
			Div(decimal.NewFromInt(100)).
			Round(0)
	}
	return scr
}
