// internal/service/flow/extras.go
package flow

import (
	"context"
	"fmt"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"
	"signup-service/internal/service/apilog"
	"signup-service/internal/service/navigation"

	"go.uber.org/zap"
)

// extras loads the case for an extras action. The offers only open after
// signing or from the duplicate-contract stop.
func (f *Private) extras(c *Case) (*signup.PrivateCase, error) {
	p, err := f.begin(c)
	if err != nil {
		return nil, err
	}
	if c.sess.Private.Extras == nil {
		return nil, fmt.Errorf("extras are not open: %w", xerrors.ErrInvalidAction)
	}
	return p, nil
}

func (f *Private) ConfirmationContinue(ctx context.Context, c *Case) (Outcome, error) {
	p, err := f.extras(c)
	if err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(navigation.EligibilityFor(p).FirstExtraStep()), "")
}

func (f *Private) ConfirmBixiaNara(ctx context.Context, c *Case, req signup.BixiaNaraRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	p, err := f.extras(c)
	if err != nil {
		return Outcome{}, err
	}

	choice := &signup.BixiaNara{Selected: req.Selected}
	if req.Selected {
		if !knownCounty(req.County) {
			return Outcome{}, validation.FieldErrors{"county": msgChooseCounty}
		}
		choice.County = req.County
	}
	c.sess.Private.Extras.BixiaNara = choice
	return f.render(ctx, c, string(navigation.EligibilityFor(p).AfterBixiaNara()), "")
}

func (f *Private) ConfirmRealtimeMeter(ctx context.Context, c *Case, req signup.RealtimeMeterRequest) (Outcome, error) {
	if _, err := f.extras(c); err != nil {
		return Outcome{}, err
	}
	c.sess.Private.Extras.RealtimeMeter = &signup.RealtimeMeter{Selected: req.Selected}
	return f.render(ctx, c, string(signup.StepAppDownload), "")
}

// AppContinue goes to the contact-me offer, or finishes when there is none.
func (f *Private) AppContinue(ctx context.Context, c *Case) (Outcome, error) {
	p, err := f.extras(c)
	if err != nil {
		return Outcome{}, err
	}
	if navigation.EligibilityFor(p).ShowContactExtras {
		return f.render(ctx, c, string(signup.StepExtraContact), "")
	}
	return f.ExtrasDone(ctx, c)
}

// SubmitContactMe saves the selection with the chosen services. A failed save
// keeps the customer on the step with a message so they can retry.
func (f *Private) SubmitContactMe(ctx context.Context, c *Case, req signup.ContactMeRequest) (Outcome, error) {
	if err := validation.Struct(req); err != nil {
		return Outcome{}, err
	}
	p, err := f.extras(c)
	if err != nil {
		return Outcome{}, err
	}

	offered := navigation.EligibilityFor(p).ContactServicesToOffer
	services := make([]signup.ContactMeService, 0, len(req.Services))
	for _, s := range offered {
		for _, want := range req.Services {
			if s == want {
				services = append(services, s)
				break
			}
		}
	}
	if len(services) == 0 {
		return f.ExtrasDone(ctx, c)
	}

	sp := &c.sess.Private
	sp.Extras.ContactMeServices = services
	if err := f.saveExtras(ctx, c); err != nil {
		f.logger.Warn("failed to save extra services", zap.String("case_id", c.ID), zap.Error(err))
		return f.renderWithMessage(ctx, c, signup.StepExtraContact, msgSaveExtrasFailed)
	}
	sp.ExtrasSaved = true
	return f.renderWithMessage(ctx, c, signup.StepExtraContact, contactMeThanks(p.Customer.Phone, services))
}

// ExtrasDone saves what is still unsaved and resets the case for the next
// signup.
func (f *Private) ExtrasDone(ctx context.Context, c *Case) (Outcome, error) {
	if _, err := f.extras(c); err != nil {
		return Outcome{}, err
	}
	if !c.sess.Private.ExtrasSaved {
		if err := f.saveExtras(ctx, c); err != nil {
			f.logger.Warn("failed to save extra services", zap.String("case_id", c.ID), zap.Error(err))
		}
	}
	if _, err := f.ResetCase(ctx, c); err != nil {
		return Outcome{}, err
	}
	return f.render(ctx, c, string(signup.StepProductSelect), "")
}

func (f *Private) saveExtras(ctx context.Context, c *Case) error {
	if f.deps.Extras == nil {
		return nil
	}
	sp := c.sess.Private
	ref := sp.OrderID
	if ref == "" {
		ref = c.ID
	}
	sel := *sp.Extras
	_, err := apilog.Do(ctx, f.deps.Recorder, apilog.Call{
		CaseID:   c.ID,
		Endpoint: apilog.EndpointExtras,
		Type:     apilog.TypePost,
		Request:  map[string]any{"orderId": ref, "selection": sel},
	}, func(ctx context.Context) (map[string]any, error) {
		if err := f.deps.Extras.Save(ctx, ref, sel); err != nil {
			return nil, err
		}
		return map[string]any{"saved": true}, nil
	})
	return err
}
