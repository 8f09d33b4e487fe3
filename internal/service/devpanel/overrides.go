// internal/service/devpanel/overrides.go
package devpanel

import (
	"context"
	"errors"
	"fmt"

	"signup-service/internal/domain/signup"
	"signup-service/internal/pkg/session"
	"signup-service/internal/pkg/validation"

	"go.uber.org/zap"
)

var ErrDisabled = errors.New("developer panel is disabled")

// Store keeps the demo overrides of each case. With the panel disabled every
// case reads as having no overrides.
type Store struct {
	slot    *session.Versioned
	enabled bool
	logger  *zap.Logger
}

func NewStore(slot *session.Versioned, enabled bool, logger *zap.Logger) *Store {
	return &Store{slot: slot, enabled: enabled, logger: logger}
}

func (s *Store) Enabled() bool {
	return s != nil && s.enabled
}

// Get returns the overrides of a case. Read failures are logged and treated
// as no overrides so a broken panel never blocks the signup.
func (s *Store) Get(ctx context.Context, caseID string) signup.DevOverrides {
	var out signup.DevOverrides
	if !s.Enabled() || caseID == "" {
		return out
	}
	if _, err := s.slot.Get(ctx, session.DevOverridesKey(caseID), &out); err != nil {
		s.logger.Warn("failed to read dev overrides", zap.String("case_id", caseID), zap.Error(err))
		return signup.DevOverrides{}
	}
	return out
}

// Set replaces the overrides of a case.
func (s *Store) Set(ctx context.Context, caseID string, o signup.DevOverrides) (signup.DevOverrides, error) {
	if !s.Enabled() {
		return signup.DevOverrides{}, ErrDisabled
	}
	if err := validation.Struct(o); err != nil {
		return signup.DevOverrides{}, err
	}
	if err := s.slot.Put(ctx, session.DevOverridesKey(caseID), o); err != nil {
		return signup.DevOverrides{}, fmt.Errorf("failed to save dev overrides: %w", err)
	}
	s.logger.Info("dev overrides updated",
		zap.String("case_id", caseID),
		zap.String("scenario", o.Scenario),
		zap.String("address_result", o.AddressResult),
		zap.String("signing_result", o.SigningResult),
	)
	return o, nil
}

// Clear removes the overrides of a case.
func (s *Store) Clear(ctx context.Context, caseID string) error {
	if !s.Enabled() {
		return nil
	}
	return s.slot.Delete(ctx, session.DevOverridesKey(caseID))
}
