// internal/service/flow/actions.go
package flow

import (
	"context"
	"errors"
	"fmt"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"
)

// Private flow actions, as named in POST /flow/private/actions/:action.
const (
	ActionSelectProduct        = "select-product"
	ActionConfirmAddress       = "confirm-address"
	ActionResolvePriceConflict = "resolve-price-conflict"
	ActionAuthenticate         = "authenticate"
	ActionChooseMove           = "choose-move"
	ActionSelectDate           = "select-date"
	ActionConfirmContact       = "confirm-contact"
	ActionConfirmTerms         = "confirm-terms"
	ActionStartSigning         = "start-signing"
	ActionCompleteSigning      = "complete-signing"
	ActionConfirmationContinue = "confirmation-continue"
	ActionBixiaNara            = "bixia-nara"
	ActionRealtimeMeter        = "realtime-meter"
	ActionAppContinue          = "app-continue"
	ActionContactMe            = "contact-me"
	ActionExtrasDone           = "extras-done"
	ActionBack                 = "back"
	ActionStopBack             = "stop-back"
	ActionStopContinueExtras   = "stop-continue-extras"
	ActionRestart              = "restart"
)

// Company flow actions.
const (
	ActionGatekeeper             = "gatekeeper"
	ActionLookupCompany          = "lookup-company"
	ActionConfigureFacility      = "configure-facility"
	ActionAddFacility            = "add-facility"
	ActionConfirmFacilityAddress = "confirm-facility-address"
	ActionConfirmFacilityProduct = "confirm-facility-product"
	ActionCompleteFacilities     = "complete-facilities"
)

// Decoder fills a request value from the action body.
type Decoder func(v any) error

func bind[T any](decode Decoder, fn func(T) (Outcome, error)) (Outcome, error) {
	var req T
	if err := decode(&req); err != nil {
		return Outcome{}, decodeError(err)
	}
	return fn(req)
}

func decodeError(err error) error {
	err = validation.FromError(err)
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return fields
	}
	return fmt.Errorf("%w: %v", xerrors.ErrBadRequest, err)
}

// Do runs a private flow action by name.
func (f *Private) Do(ctx context.Context, c *Case, action string, decode Decoder) (Outcome, error) {
	switch action {
	case ActionSelectProduct:
		return bind(decode, func(r signup.SelectProductRequest) (Outcome, error) { return f.SelectProduct(ctx, c, r) })
	case ActionConfirmAddress:
		return bind(decode, func(r signup.ConfirmAddressRequest) (Outcome, error) { return f.ConfirmAddress(ctx, c, r) })
	case ActionResolvePriceConflict:
		return bind(decode, func(r signup.ResolvePriceConflictRequest) (Outcome, error) { return f.ResolvePriceConflict(ctx, c, r) })
	case ActionAuthenticate:
		return bind(decode, func(r signup.AuthenticateRequest) (Outcome, error) { return f.Authenticate(ctx, c, r) })
	case ActionChooseMove:
		return bind(decode, func(r signup.MoveChoiceRequest) (Outcome, error) { return f.ChooseMove(ctx, c, r) })
	case ActionSelectDate:
		return bind(decode, func(r signup.SelectDateRequest) (Outcome, error) { return f.SelectDate(ctx, c, r) })
	case ActionConfirmContact:
		return bind(decode, func(r signup.ConfirmContactRequest) (Outcome, error) { return f.ConfirmContact(ctx, c, r) })
	case ActionConfirmTerms:
		return bind(decode, func(r signup.ConfirmTermsRequest) (Outcome, error) { return f.ConfirmTerms(ctx, c, r) })
	case ActionStartSigning:
		return f.StartSigning(ctx, c)
	case ActionCompleteSigning:
		return f.CompleteSigning(ctx, c)
	case ActionConfirmationContinue:
		return f.ConfirmationContinue(ctx, c)
	case ActionBixiaNara:
		return bind(decode, func(r signup.BixiaNaraRequest) (Outcome, error) { return f.ConfirmBixiaNara(ctx, c, r) })
	case ActionRealtimeMeter:
		return bind(decode, func(r signup.RealtimeMeterRequest) (Outcome, error) { return f.ConfirmRealtimeMeter(ctx, c, r) })
	case ActionAppContinue:
		return f.AppContinue(ctx, c)
	case ActionContactMe:
		return bind(decode, func(r signup.ContactMeRequest) (Outcome, error) { return f.SubmitContactMe(ctx, c, r) })
	case ActionExtrasDone:
		return f.ExtrasDone(ctx, c)
	case ActionBack:
		return f.Back(ctx, c)
	case ActionStopBack:
		return f.StopBack(ctx, c)
	case ActionStopContinueExtras:
		return f.StopContinueToExtras(ctx, c)
	case ActionRestart:
		return f.Restart(ctx, c)
	}
	return Outcome{}, fmt.Errorf("unknown action %q: %w", action, xerrors.ErrNotFound)
}

// Do runs a company flow action by name.
func (f *Company) Do(ctx context.Context, c *Case, action string, decode Decoder) (Outcome, error) {
	switch action {
	case ActionSelectProduct:
		return bind(decode, func(r signup.SelectProductRequest) (Outcome, error) { return f.SelectProduct(ctx, c, r) })
	case ActionGatekeeper:
		return bind(decode, func(r signup.GatekeeperRequest) (Outcome, error) { return f.Gatekeeper(ctx, c, r) })
	case ActionLookupCompany:
		return bind(decode, func(r signup.CompanyLookupRequest) (Outcome, error) { return f.LookupCompany(ctx, c, r) })
	case ActionConfigureFacility:
		return bind(decode, func(r signup.FacilityIndexRequest) (Outcome, error) { return f.ConfigureFacility(ctx, c, r) })
	case ActionAddFacility:
		return f.AddFacility(ctx, c)
	case ActionConfirmFacilityAddress:
		return bind(decode, func(r signup.FacilityAddressRequest) (Outcome, error) { return f.ConfirmFacilityAddress(ctx, c, r) })
	case ActionConfirmFacilityProduct:
		return bind(decode, func(r signup.FacilityProductRequest) (Outcome, error) { return f.ConfirmFacilityProduct(ctx, c, r) })
	case ActionCompleteFacilities:
		return bind(decode, func(r signup.CompanyAgreementRequest) (Outcome, error) { return f.CompleteFacilities(ctx, c, r) })
	case ActionBack:
		return f.Back(ctx, c)
	}
	return Outcome{}, fmt.Errorf("unknown action %q: %w", action, xerrors.ErrNotFound)
}
