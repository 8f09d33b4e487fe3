// internal/service/flow/private.go
package flow

import (
	"context"
	"fmt"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"
	"signup-service/internal/service/apilog"
	"signup-service/internal/service/backend"
	"signup-service/internal/service/casestate"
	"signup-service/internal/service/catalog"
	"signup-service/internal/service/navigation"
	"signup-service/internal/service/scenario"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// earliestStartOffsetDays is how far ahead the earliest start date lies.
const earliestStartOffsetDays = 14

// Private drives the private customer wizard.
type Private struct {
	*Engine
}

func NewPrivate(e *Engine) *Private {
	return &Private{Engine: e}
}

func (f *Private) private(c *Case) (*signup.PrivateCase, error) {
	st := c.store.State()
	if !st.IsPrivate() {
		return nil, xerrors.ErrWrongFlow
	}
	return st.Private, nil
}

// begin loads the case for an action. Only the stop exits work on a stopped case.
func (f *Private) begin(c *Case) (*signup.PrivateCase, error) {
	p, err := f.private(c)
	if err != nil {
		return nil, err
	}
	if p.Stop.IsStopped {
		return nil, fmt.Errorf("case stopped with %s: %w", p.Stop.Reason, xerrors.ErrInvalidAction)
	}
	return p, nil
}

// at loads the case for an action that belongs to step. The action is refused
// when the case could not be shown step, or while a BankID verification is
// pending for the steps after IDENTIFY.
func (f *Private) at(c *Case, step signup.PrivateFlowStep) (*signup.PrivateCase, error) {
	p, err := f.begin(c)
	if err != nil {
		return nil, err
	}
	held := c.sess.Private.RequireStrongAuth && step.After(signup.StepIdentify) && !step.After(signup.StepSigning)
	res := navigation.ResolvePrivate(string(step), c.store.State())
	if held || res.Redirect != nil {
		f.logger.Debug("action refused",
			zap.String("case_id", c.ID),
			zap.String("step", string(step)),
			zap.String("reason", res.Reason),
			zap.Bool("strong_auth_pending", held),
		)
		return nil, validation.FieldErrors{"step": msgStepUnavailable}
	}
	return p, nil
}

// View renders the requested step, or the step the case may see instead.
func (f *Private) View(ctx context.Context, c *Case, param, clientIP string) (Outcome, error) {
	p, err := f.private(c)
	if err != nil {
		return Outcome{}, err
	}
	if p.Elomrade == "" && clientIP != "" {
		f.EnsureRegion(ctx, c, clientIP)
	}
	return f.render(ctx, c, param, "")
}

// EnsureRegion detects the price region from the client IP once per case.
// It never overwrites a region set while the lookup was running.
func (f *Private) EnsureRegion(ctx context.Context, c *Case, clientIP string) signup.Elomrade {
	p, err := f.private(c)
	if err != nil {
		return ""
	}
	sp := &c.sess.Private
	if p.Elomrade != "" || sp.RegionRequested || f.deps.Regions == nil {
		return p.Elomrade
	}

	sp.RegionRequested = true
	if err := f.saveSession(ctx, c); err != nil {
		return ""
	}

	res, err := apilog.Do(ctx, f.deps.Recorder, apilog.Call{
		CaseID:   c.ID,
		Endpoint: apilog.EndpointRegion,
		Type:     apilog.TypeGet,
		Request:  map[string]string{"ip": clientIP},
	}, func(ctx context.Context) (backend.RegionResult, error) {
		return f.deps.Regions.Detect(ctx, clientIP)
	})
	if err != nil {
		f.logger.Warn("region detection failed", zap.String("case_id", c.ID), zap.Error(err))
		return ""
	}
	if !res.Elomrade.Valid() {
		return ""
	}

	if _, err := c.store.Load(ctx); err != nil {
		return ""
	}
	if cur := c.store.State(); cur.IsPrivate() && cur.Private.Elomrade != "" {
		f.deps.Metrics.StaleResult("region")
		f.logger.Debug("discarding detected region, case already has one",
			zap.String("case_id", c.ID),
			zap.String("detected", string(res.Elomrade)),
			zap.String("current", string(cur.Private.Elomrade)),
		)
		return cur.Private.Elomrade
	}
	if _, err := c.store.SetElomrade(ctx, res.Elomrade); err != nil {
		return ""
	}
	return res.Elomrade
}

func (f *Private) SelectProduct(ctx context.Context, c *Case, req signup.SelectProductRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	p, err := f.begin(c)
	if err != nil {
		return Outcome{}, err
	}

	product, err := catalog.Find(catalog.Query{Region: regionOf(p), IncludeRestrictedFast: req.IncludeRestrictedFast}, req.ProductID)
	if err != nil {
		return Outcome{}, validation.FieldErrors{"productId": "Ogiltigt val"}
	}
	if _, err := c.store.SelectProduct(ctx, product); err != nil {
		return Outcome{}, err
	}
	c.sess.Private.IncludeFast = req.IncludeRestrictedFast
	return f.render(ctx, c, string(signup.StepAddressSearch), "")
}

func (f *Private) ConfirmAddress(ctx context.Context, c *Case, req signup.ConfirmAddressRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	if _, err := f.at(c, signup.StepAddressSearch); err != nil {
		return Outcome{}, err
	}

	addr := req.Address
	apartment := req.ApartmentNumber
	if apartment == "" {
		apartment = addr.ApartmentNumber
	}
	if addr.Type == signup.AddressTypeApartment && !validation.IsApartmentNumber(apartment) {
		return Outcome{}, validation.FieldErrors{"apartmentNumber": "Lägenhetsnumret måste vara 4 siffror"}
	}

	if _, err := c.store.SetAddress(ctx, addr, &signup.ApartmentDetails{Number: apartment, Co: req.Co}); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(signup.StepIdentify), "")
}

// ResolvePriceConflict accepts the new region's price. An empty product keeps
// the current product, which must exist in the new region; otherwise the
// product must be one of the region's alternatives.
func (f *Private) ResolvePriceConflict(ctx context.Context, c *Case, req signup.ResolvePriceConflictRequest) (Outcome, error) {
	p, err := f.at(c, signup.StepIdentify)
	if err != nil {
		return Outcome{}, err
	}
	if !p.IsPriceConflict || p.SelectedProduct == nil {
		return Outcome{}, fmt.Errorf("no price conflict to resolve: %w", xerrors.ErrInvalidAction)
	}

	region := regionOf(p)
	var chosen signup.Product
	if req.ProductID == "" {
		chosen, err = catalog.Find(catalog.Query{Region: region, IncludeRestrictedFast: c.sess.Private.IncludeFast}, p.SelectedProduct.ID)
		if err != nil {
			return Outcome{}, validation.FieldErrors{"productId": fmt.Sprintf(msgProductUnavailable, region)}
		}
	} else {
		found := false
		for _, alt := range catalog.Alternatives(region) {
			if alt.ID == req.ProductID {
				chosen, found = alt, true
				break
			}
		}
		if !found {
			return Outcome{}, validation.FieldErrors{"productId": "Ogiltigt val"}
		}
	}

	if _, err := c.store.Apply(ctx, func(s signup.CaseState) signup.CaseState {
		return casestate.ResolvePriceConflict(casestate.SelectProduct(s, chosen))
	}); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(signup.StepIdentify), "")
}

// Authenticate classifies the customer. An existing customer who typed the
// national ID by hand is held on IDENTIFY until BankID is used; nothing from
// the CRM profile is stored before that.
func (f *Private) Authenticate(ctx context.Context, c *Case, req signup.AuthenticateRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	p, err := f.at(c, signup.StepIdentify)
	if err != nil {
		return Outcome{}, err
	}
	if p.IsPriceConflict {
		return Outcome{}, fmt.Errorf("price conflict unresolved: %w", xerrors.ErrInvalidAction)
	}

	sp := &c.sess.Private
	if sp.RequireStrongAuth && !req.Method.IsStrong() {
		return f.renderWithMessage(ctx, c, signup.StepIdentify, msgStrongAuthRequired)
	}

	id := validation.Digits(req.NationalID)
	if f.deps.Limiter != nil {
		allowed, _, err := f.deps.Limiter.CheckIdentifyAttempt(ctx, id)
		if err != nil {
			f.logger.Warn("identify rate limit check failed", zap.String("case_id", c.ID), zap.Error(err))
		} else if !allowed {
			return Outcome{}, fmt.Errorf("identification attempts exhausted: %w", xerrors.ErrRateLimited)
		}
	}

	sp.ClassifyToken++
	token := sp.ClassifyToken
	if err := f.saveSession(ctx, c); err != nil {
		return Outcome{}, err
	}

	o := f.overrides(ctx, c.ID)
	creq := scenario.Request{
		NationalID:       id,
		Address:          *p.SelectedAddress,
		ScenarioOverride: o.Scenario,
		ConsentOverride:  o.Consent,
		ExtrasOverride:   o.Extras,
	}
	resp, callErr := apilog.Do(ctx, f.deps.Recorder, apilog.Call{
		CaseID:   c.ID,
		Endpoint: apilog.EndpointScenario,
		Type:     apilog.TypeScenario,
		Request:  creq.LoggedRequest(),
	}, func(ctx context.Context) (scenario.Response, error) {
		return f.deps.Classifier.Determine(ctx, creq)
	})

	// a newer attempt may have started while this one ran
	latest, err := f.sessions.Load(ctx, c.ID)
	if err == nil && latest.Private.ClassifyToken != token {
		f.deps.Metrics.StaleResult("classify")
		f.logger.Info("discarding stale classification",
			zap.String("case_id", c.ID),
			zap.Uint64("token", token),
			zap.Uint64("current", latest.Private.ClassifyToken),
		)
		c.sess = latest
		if _, err := c.store.Load(ctx); err != nil {
			return Outcome{}, err
		}
		return f.render(ctx, c, string(signup.StepIdentify), "")
	}

	if callErr != nil {
		f.logger.Error("scenario classification failed", zap.String("case_id", c.ID), zap.Error(callErr))
		return f.renderWithMessage(ctx, c, signup.StepIdentify, msgClassifyFailed)
	}
	f.deps.Metrics.Classified(string(resp.Scenario), string(resp.StopReason))

	if resp.Customer.IsExistingCustomer && req.Method == signup.IDMethodManualPNR {
		sp.RequireStrongAuth = true
		sp.PendingDate = nil
		// an earlier identification must not carry the case past IDENTIFY
		if _, err := c.store.ClearAuthentication(ctx); err != nil {
			return Outcome{}, err
		}
		f.logger.Info("existing customer must verify with BankID",
			zap.String("case_id", c.ID),
			zap.String("national_id", scenario.MaskNationalID(id)),
		)
		return f.renderWithMessage(ctx, c, signup.StepIdentify, msgStrongAuthRequired)
	}
	sp.RequireStrongAuth = false
	sp.PendingDate = nil

	var facility *signup.FacilityHandling
	if resp.Scenario == signup.ScenarioSwitch && resp.Customer.IsExistingCustomer && resp.Customer.FacilityID != "" {
		facility = &signup.FacilityHandling{Mode: signup.FacilityFromCRM, FacilityID: resp.Customer.FacilityID}
	}
	state, err := c.store.Apply(ctx, func(s signup.CaseState) signup.CaseState {
		s = casestate.SetAuthenticated(s, id, req.Method)
		s = casestate.SetCustomerScenario(s, resp.Scenario, resp.Customer, resp.CurrentContractAddress)
		s = casestate.SetFacilityHandling(s, facility)
		if resp.StopReason != "" {
			s = casestate.SetStop(s, resp.StopReason)
		}
		return s
	})
	if err != nil {
		return Outcome{}, err
	}

	next := signup.StepDetails
	if navigation.HasMoveContext(state.Private) {
		next = signup.StepMoveOffer
	}
	return f.render(ctx, c, string(next), signup.DetailsDate)
}

func (f *Private) ChooseMove(ctx context.Context, c *Case, req signup.MoveChoiceRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	p, err := f.at(c, signup.StepMoveOffer)
	if err != nil {
		return Outcome{}, err
	}
	if !navigation.HasMoveContext(p) {
		return Outcome{}, fmt.Errorf("no move to choose for: %w", xerrors.ErrInvalidAction)
	}
	if _, err := c.store.SetMoveChoice(ctx, req.Choice); err != nil {
		return Outcome{}, err
	}
	c.sess.Private.PendingDate = nil
	return f.render(ctx, c, string(signup.StepDetails), signup.DetailsDate)
}

func (f *Private) SelectDate(ctx context.Context, c *Case, req signup.SelectDateRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	if _, err := f.at(c, signup.StepDetails); err != nil {
		return Outcome{}, err
	}

	date := req.Date
	if req.Mode == "EARLIEST" {
		date = f.earliestStartDate()
	} else if date < f.now().Format(dateLayout) {
		return Outcome{}, validation.FieldErrors{"date": "Startdatumet kan inte ligga bakåt i tiden"}
	}

	c.sess.Private.PendingDate = &PendingDate{Date: date, Mode: req.Mode}
	return f.render(ctx, c, string(signup.StepDetails), signup.DetailsContact)
}

func (f *Private) ConfirmContact(ctx context.Context, c *Case, req signup.ConfirmContactRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	p, err := f.at(c, signup.StepDetails)
	if err != nil {
		return Outcome{}, err
	}
	pending := c.sess.Private.PendingDate
	if pending == nil {
		return Outcome{}, fmt.Errorf("no start date chosen: %w", xerrors.ErrInvalidAction)
	}

	inv, err := invoiceFor(p, req.Invoice)
	if err != nil {
		return Outcome{}, err
	}

	details := casestate.CustomerDetails{
		Email:         req.Email,
		Phone:         req.Phone,
		StartDate:     pending.Date,
		StartDateMode: pending.Mode,
	}
	if _, err := c.store.Apply(ctx, func(s signup.CaseState) signup.CaseState {
		s = casestate.SetCustomerDetails(s, details)
		s = casestate.SetInvoice(s, inv)
		if req.MarketingConsent != nil {
			s = casestate.SetConsents(s, casestate.Consents{Marketing: req.MarketingConsent})
		}
		return s
	}); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(signup.StepTerms), "")
}

func invoiceFor(p *signup.PrivateCase, in *signup.InvoiceInput) (*signup.Invoice, error) {
	if in == nil || in.Mode == signup.InvoiceSameAsRecommended {
		return &signup.Invoice{Mode: signup.InvoiceSameAsRecommended, Address: recommendedInvoiceAddress(p)}, nil
	}
	if in.Address == nil || in.Address.Street == "" {
		return nil, validation.FieldErrors{"invoice.address": msgChooseInvoice}
	}
	if in.Address.Type == signup.AddressTypeApartment && !validation.IsApartmentNumber(in.ApartmentNumber) {
		return nil, validation.FieldErrors{"invoice.apartmentNumber": "Lägenhetsnumret måste vara 4 siffror"}
	}
	addr := *in.Address
	return &signup.Invoice{
		Mode:             signup.InvoiceCustom,
		Address:          &addr,
		ApartmentDetails: &signup.ApartmentDetails{Number: in.ApartmentNumber, Co: in.Co},
	}, nil
}

// recommendedInvoiceAddress is the registered address for a new contract on a
// new address, otherwise the delivery address.
func recommendedInvoiceAddress(p *signup.PrivateCase) *signup.Address {
	registered, selected := p.Customer.RegisteredAddress, p.SelectedAddress
	if p.MoveChoice == signup.MoveNewOnNewAddress {
		if registered != nil {
			return registered
		}
		return selected
	}
	if selected != nil {
		return selected
	}
	return registered
}

func suggestedCustomInvoiceAddress(p *signup.PrivateCase) *signup.Address {
	if p.MoveChoice != signup.MoveNewOnNewAddress || p.SelectedAddress == nil {
		return nil
	}
	if signup.SameAddress(p.SelectedAddress, p.Customer.RegisteredAddress) {
		return nil
	}
	return p.SelectedAddress
}

// requiresFacilityID is false only when the CRM already gave the facility.
func requiresFacilityID(p *signup.PrivateCase) bool {
	fh := p.FacilityHandling
	return fh == nil || fh.Mode != signup.FacilityFromCRM || fh.FacilityID == ""
}

func requiresRisk(p *signup.PrivateCase) bool {
	return p.SelectedProduct != nil && p.SelectedProduct.Type.RequiresRiskAcknowledgement()
}

func (f *Private) ConfirmTerms(ctx context.Context, c *Case, req signup.ConfirmTermsRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	p, err := f.at(c, signup.StepTerms)
	if err != nil {
		return Outcome{}, err
	}

	errs := validation.FieldErrors{}
	if !req.TermsAccepted {
		errs["termsAccepted"] = msgTermsRequired
	}
	if requiresRisk(p) && !req.RiskAccepted {
		errs["riskAccepted"] = msgRiskRequired
	}
	needFacility := requiresFacilityID(p)
	if needFacility && req.FacilityHandling == nil {
		errs["facilityHandling"] = msgFacilityRequired
	}
	if len(errs) > 0 {
		return Outcome{}, errs
	}

	terms, risk := req.TermsAccepted, req.RiskAccepted
	if _, err := c.store.Apply(ctx, func(s signup.CaseState) signup.CaseState {
		s = casestate.SetConsents(s, casestate.Consents{Terms: &terms, Risk: &risk})
		if needFacility {
			s = casestate.SetFacilityHandling(s, &signup.FacilityHandling{
				Mode:       req.FacilityHandling.Mode,
				FacilityID: req.FacilityHandling.FacilityID,
			})
		}
		return s
	}); err != nil {
		return Outcome{}, err
	}

	c.sess.Private.Signing = Signing{Status: SigningInit}
	return f.render(ctx, c, string(signup.StepSigning), "")
}

// StartSigning begins the simulated BankID signature.
func (f *Private) StartSigning(ctx context.Context, c *Case) (Outcome, error) {
	p, err := f.at(c, signup.StepSigning)
	if err != nil {
		return Outcome{}, err
	}
	if !p.TermsAccepted {
		return Outcome{}, fmt.Errorf("terms not accepted: %w", xerrors.ErrInvalidAction)
	}

	sp := &c.sess.Private
	if sp.Signing.Status == SigningPending || sp.Signing.Status == SigningSuccess {
		return f.render(ctx, c, string(signup.StepSigning), "")
	}

	result := f.overrides(ctx, c.ID).SigningResult
	signing, _ := apilog.Do(ctx, f.deps.Recorder, apilog.Call{
		CaseID:   c.ID,
		Endpoint: apilog.EndpointSigning,
		Type:     apilog.TypeSigning,
		Request:  map[string]string{"action": "start", "personnummer": scenario.MaskNationalID(p.Personnummer)},
	}, func(context.Context) (Signing, error) {
		return Signing{Status: SigningPending, StartedAt: f.now(), Result: result}, nil
	})
	sp.Signing = signing
	return f.render(ctx, c, string(signup.StepSigning), "")
}

func (f *Private) advanceSigning(sp *PrivateSession) {
	if sp.Signing.Status != SigningPending || f.now().Sub(sp.Signing.StartedAt) < f.deps.SigningDelay {
		return
	}
	switch sp.Signing.Result {
	case "CANCELLED", "TIMEOUT", "ERROR":
		sp.Signing.Status = SigningFailed
	default:
		sp.Signing.Status = SigningSuccess
	}
}

// CompleteSigning turns a successful signature into an order.
func (f *Private) CompleteSigning(ctx context.Context, c *Case) (Outcome, error) {
	p, err := f.at(c, signup.StepSigning)
	if err != nil {
		return Outcome{}, err
	}
	sp := &c.sess.Private
	if sp.OrderID != "" {
		return f.render(ctx, c, string(signup.StepConfirmation), "")
	}
	f.advanceSigning(sp)
	if sp.Signing.Status != SigningSuccess {
		return Outcome{}, fmt.Errorf("signing is %s: %w", sp.Signing.Status, xerrors.ErrInvalidAction)
	}
	if p.SelectedProduct == nil {
		return Outcome{}, fmt.Errorf("no product selected: %w", xerrors.ErrInvalidAction)
	}

	order := &signup.Order{
		ID:           newOrderID(),
		CaseID:       c.ID,
		CustomerType: signup.CustomerTypePrivate,
		Scenario:     p.Scenario,
		ProductID:    p.SelectedProduct.ID,
		ProductName:  p.SelectedProduct.Name,
		Address:      p.SelectedAddress,
		StartDate:    p.StartDate,
		Email:        p.Customer.Email,
		Phone:        p.Customer.Phone,
		CreatedAt:    f.now().UTC(),
	}
	if _, err := apilog.Do(ctx, f.deps.Recorder, apilog.Call{
		CaseID:   c.ID,
		Endpoint: apilog.EndpointCreateOrder,
		Type:     apilog.TypePost,
		Request:  map[string]string{"productId": order.ProductID, "scenario": string(order.Scenario)},
	}, func(ctx context.Context) (*signup.Order, error) {
		return order, f.deps.Orders.Create(ctx, order)
	}); err != nil {
		f.logger.Error("failed to create order", zap.String("case_id", c.ID), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: %v", xerrors.ErrBackendUnavailable, err)
	}

	f.logger.Info("order created",
		zap.String("case_id", c.ID),
		zap.String("order_id", order.ID),
		zap.String("product_id", order.ProductID),
	)
	if f.deps.Confirmer != nil {
		if err := f.deps.Confirmer.SendOrderConfirmation(ctx, order); err != nil {
			f.logger.Warn("order confirmation failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	sp.OrderID = order.ID
	sp.Extras = emptySelection()
	sp.ExtrasSaved = false
	return f.render(ctx, c, string(signup.StepConfirmation), "")
}

func emptySelection() *signup.ExtraServicesSelection {
	return &signup.ExtraServicesSelection{ContactMeServices: []signup.ContactMeService{}}
}

func (f *Private) earliestStartDate() string {
	return f.now().AddDate(0, 0, earliestStartOffsetDays).Format(dateLayout)
}

// Back moves to the previous screen of the current step.
func (f *Private) Back(ctx context.Context, c *Case) (Outcome, error) {
	p, err := f.begin(c)
	if err != nil {
		return Outcome{}, err
	}
	sp := &c.sess.Private
	step := sp.Step
	if step == "" {
		step = signup.StepProductSelect
	}

	target := navigation.BackPrivate(step, sp.DetailsSubStep, p)
	if target.Blocked {
		return f.render(ctx, c, string(step), sp.DetailsSubStep)
	}
	if step == signup.StepSigning && sp.Signing.Status != SigningSuccess {
		sp.Signing = Signing{Status: SigningInit}
	}
	return f.render(ctx, c, string(target.Step), target.SubStep)
}

// StopBack leaves the stop screen to where the problem can be fixed.
func (f *Private) StopBack(ctx context.Context, c *Case) (Outcome, error) {
	p, err := f.private(c)
	if err != nil {
		return Outcome{}, err
	}
	if !p.Stop.IsStopped {
		return Outcome{}, fmt.Errorf("case is not stopped: %w", xerrors.ErrInvalidAction)
	}
	reason := p.Stop.Reason
	if _, err := c.store.ClearStop(ctx); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(navigation.StopBack(reason)), "")
}

// StopContinueToExtras lets a customer who already has the contract go on
// to the extra services.
func (f *Private) StopContinueToExtras(ctx context.Context, c *Case) (Outcome, error) {
	p, err := f.private(c)
	if err != nil {
		return Outcome{}, err
	}
	elig := navigation.EligibilityFor(p)
	if !canContinueToExtras(p, elig) {
		return Outcome{}, fmt.Errorf("no extras to continue to: %w", xerrors.ErrInvalidAction)
	}
	if _, err := c.store.ClearStop(ctx); err != nil {
		return Outcome{}, err
	}
	c.sess.Private.Extras = emptySelection()
	c.sess.Private.ExtrasSaved = false
	return f.render(ctx, c, string(elig.FirstExtraStep()), "")
}

func canContinueToExtras(p *signup.PrivateCase, elig navigation.Eligibility) bool {
	return p.Stop.IsStopped && p.Stop.Reason == signup.StopDuplicateSameContract && elig.OfferAnyDirect()
}

// Restart discards the case and starts over on the first step.
func (f *Private) Restart(ctx context.Context, c *Case) (Outcome, error) {
	if _, err := f.private(c); err != nil {
		return Outcome{}, err
	}
	if _, err := f.ResetCase(ctx, c); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(signup.StepProductSelect), "")
}

func regionOf(p *signup.PrivateCase) signup.Elomrade {
	if p != nil && p.Elomrade.Valid() {
		return p.Elomrade
	}
	return signup.DefaultElomrade
}
