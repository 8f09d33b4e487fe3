// internal/service/flow/render.go
package flow

import (
	"context"
	"fmt"

	"signup-service/internal/domain/signup"
	"signup-service/internal/service/backend"
	"signup-service/internal/service/catalog"
	"signup-service/internal/service/navigation"

	"github.com/oklog/ulid/v2"
)

func newOrderID() string {
	return "ORD-" + ulid.Make().String()
}

func (f *Private) renderWithMessage(ctx context.Context, c *Case, step signup.PrivateFlowStep, msg string) (Outcome, error) {
	out, err := f.render(ctx, c, string(step), "")
	out.Message = msg
	return out, err
}

// render resolves param against the case, remembers where the customer is and
// builds the screen. sub forces the DETAILS sub-step; empty keeps the current
// one, or starts at DATE when DETAILS is entered.
func (f *Private) render(ctx context.Context, c *Case, param string, sub signup.DetailsSubStep) (Outcome, error) {
	state := c.store.State()
	res := navigation.ResolvePrivate(param, state)
	sp := &c.sess.Private

	out := Outcome{
		Flow:     signup.CustomerTypePrivate,
		Step:     string(res.Step),
		View:     string(res.Step),
		Redirect: res.Redirect != nil,
		Reason:   res.Reason,
		State:    state,
	}

	if res.Stopped {
		out.View = ScreenStop
		out.Screen = stopScreen(state.Private)
	} else {
		if res.Step == signup.StepDetails {
			switch {
			case sub != "":
				sp.DetailsSubStep = sub
			case sp.Step != signup.StepDetails || sp.DetailsSubStep == "":
				sp.DetailsSubStep = signup.DetailsDate
			}
			if sp.DetailsSubStep == signup.DetailsContact && sp.PendingDate == nil {
				sp.DetailsSubStep = signup.DetailsDate
			}
			out.SubStep = sp.DetailsSubStep
		}
		if res.Step == signup.StepSigning {
			f.advanceSigning(sp)
			if sp.Signing.Status == SigningFailed {
				out.Message = msgSigningFailed
			}
		}
		sp.Step = res.Step
		out.Screen = f.screen(res.Step, state.Private, sp)
	}

	if err := f.saveSession(ctx, c); err != nil {
		return out, err
	}
	f.record(signup.CustomerTypePrivate, c.ID, out.View, out.Redirect, out.Reason)
	return out, nil
}

func (f *Private) screen(step signup.PrivateFlowStep, p *signup.PrivateCase, sp *PrivateSession) any {
	elig := navigation.EligibilityFor(p)

	switch step {
	case signup.StepProductSelect:
		region := regionOf(p)
		return ProductSelectScreen{
			Region:                region,
			Products:              catalog.Products(catalog.Query{Region: region, IncludeRestrictedFast: sp.IncludeFast}),
			Selected:              p.SelectedProduct,
			IncludeRestrictedFast: sp.IncludeFast,
		}
	case signup.StepAddressSearch:
		return AddressSearchScreen{Selected: p.SelectedAddress, AddressDetails: p.AddressDetails, Product: p.SelectedProduct}
	case signup.StepIdentify:
		methods := []signup.IDMethod{signup.IDMethodBankIDMobile, signup.IDMethodBankIDQR, signup.IDMethodManualPNR}
		if sp.RequireStrongAuth {
			methods = methods[:2]
		}
		return IdentifyScreen{
			Address:            p.SelectedAddress,
			Product:            p.SelectedProduct,
			PriceConflict:      priceConflict(p, sp.IncludeFast),
			StrongAuthRequired: sp.RequireStrongAuth,
			Methods:            methods,
		}
	case signup.StepMoveOffer:
		from := p.CurrentContractAddress
		if from == nil {
			from = p.Customer.RegisteredAddress
		}
		return MoveOfferScreen{From: from, To: p.SelectedAddress, ContractEndDate: p.Customer.ContractEndDate, Choice: p.MoveChoice}
	case signup.StepDetails:
		return DetailsScreen{
			PendingDate:        sp.PendingDate,
			StartDate:          p.StartDate,
			StartDateMode:      p.StartDateMode,
			EarliestDate:       f.earliestStartDate(),
			ContractEndDate:    p.Customer.ContractEndDate,
			Email:              p.Customer.Email,
			Phone:              p.Customer.Phone,
			RecommendedInvoice: recommendedInvoiceAddress(p),
			SuggestedCustom:    suggestedCustomInvoiceAddress(p),
			Invoice:            p.Invoice,
			MarketingConsent:   p.MarketingConsent,
			DeclaredConsent:    p.Customer.MarketingConsent,
		}
	case signup.StepTerms:
		return TermsScreen{
			Product:            p.SelectedProduct,
			RequiresRisk:       requiresRisk(p),
			RequiresFacilityID: requiresFacilityID(p),
			FacilityHandling:   p.FacilityHandling,
			TermsAccepted:      p.TermsAccepted,
			RiskAccepted:       p.RiskInfoAccepted,
		}
	case signup.StepSigning:
		return SigningScreen{Status: sp.Signing.Status, OrderID: sp.OrderID}
	case signup.StepConfirmation:
		return ConfirmationScreen{
			OrderID:     sp.OrderID,
			Product:     p.SelectedProduct,
			Address:     p.SelectedAddress,
			StartDate:   p.StartDate,
			Email:       p.Customer.Email,
			Eligibility: elig,
			Next:        elig.FirstExtraStep(),
		}
	case signup.StepExtraBixiaNara:
		scr := BixiaNaraScreen{MonthlySEK: backend.BixiaNaraMonthlySEK, Counties: Counties}
		if p.SelectedAddress != nil {
			scr.SuggestedCounty = CountyForCity(p.SelectedAddress.City)
		}
		if sp.Extras != nil && sp.Extras.BixiaNara != nil {
			scr.Selected = sp.Extras.BixiaNara.Selected
			scr.County = sp.Extras.BixiaNara.County
		}
		return scr
	case signup.StepExtraRealtimeMeter:
		scr := RealtimeMeterScreen{OneTimeSEK: backend.RealtimeMeterOneTimeSEK, MonthlySEK: backend.RealtimeMeterMonthlySEK}
		if sp.Extras != nil && sp.Extras.RealtimeMeter != nil {
			scr.Selected = sp.Extras.RealtimeMeter.Selected
		}
		return scr
	case signup.StepAppDownload:
		return AppDownloadScreen{HasFinalExtrasStep: elig.ShowContactExtras}
	case signup.StepExtraContact:
		scr := ExtraContactScreen{
			Services: serviceOptions(elig.ContactServicesToOffer),
			Selected: []signup.ContactMeService{},
			Saved:    sp.ExtrasSaved,
			Phone:    p.Customer.Phone,
		}
		if sp.Extras != nil && sp.Extras.ContactMeServices != nil {
			scr.Selected = sp.Extras.ContactMeServices
		}
		return scr
	}
	return nil
}

// priceConflict describes the conflict shown on IDENTIFY, or nil.
func priceConflict(p *signup.PrivateCase, includeFast bool) *PriceConflict {
	if !p.IsPriceConflict || p.SelectedProduct == nil {
		return nil
	}
	region := regionOf(p)
	current := *p.SelectedProduct
	updated, err := catalog.Find(catalog.Query{Region: region, IncludeRestrictedFast: includeFast}, current.ID)
	if err != nil {
		return &PriceConflict{
			Title:        fmt.Sprintf(msgProductUnavailable, region),
			Region:       region,
			Unavailable:  true,
			Current:      &current,
			Alternatives: catalog.Alternatives(region),
		}
	}
	return &PriceConflict{
		Title:   msgPriceUpdated,
		Region:  region,
		Current: &current,
		Updated: &updated,
	}
}

func stopScreen(p *signup.PrivateCase) StopScreen {
	text := stopTexts[p.Stop.Reason]
	scr := StopScreen{
		Reason:      p.Stop.Reason,
		Title:       text.title,
		Description: text.description,
		Exits:       []string{ActionStopBack, ActionRestart},
	}
	if canContinueToExtras(p, navigation.EligibilityFor(p)) {
		title := "Du har redan ett aktivt avtal på adressen"
		if p.SelectedProduct != nil {
			title = fmt.Sprintf("Du har redan %s på adressen", p.SelectedProduct.Name)
		}
		scr.ExtrasIntro = &ExtrasIntro{
			Title:    title,
			Body:     "Du har redan avtalet här, men du kan fortfarande lägga till extratjänster.",
			Continue: "Fortsätt till val av extratjänster",
			Leave:    "Gå till Mina Sidor",
		}
		scr.Exits = append(scr.Exits, ActionStopContinueExtras)
	}
	return scr
}
