// internal/service/casestate/store.go
package casestate

import (
	"context"
	"sync"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/session"

	"go.uber.org/zap"
)

// Transform is a pure mutation of the case.
type Transform func(signup.CaseState) signup.CaseState

// Store holds one case in memory and writes it through to the slot after every
// mutation.
type Store struct {
	slot   *session.Versioned
	caseID string
	logger *zap.Logger

	mu          sync.Mutex
	state       signup.CaseState
	initialized bool
}

func NewStore(slot *session.Versioned, caseID string, logger *zap.Logger) *Store {
	return &Store{
		slot:   slot,
		caseID: caseID,
		logger: logger,
		state:  signup.InitialState(signup.CustomerTypePrivate),
	}
}

func (s *Store) CaseID() string { return s.caseID }

// Load restores the persisted case. Missing, outdated or malformed data starts
// a fresh private case; found reports whether a usable blob existed.
func (s *Store) Load(ctx context.Context) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored signup.CaseState
	found, err = s.slot.Get(ctx, session.StateKey(s.slot.Version(), s.caseID), &stored)
	if err != nil {
		s.logger.Error("failed to load case state", zap.String("case_id", s.caseID), zap.Error(err))
		return false, err
	}
	if found && stored.Valid() {
		s.state = stored
	} else {
		found = false
		s.state = signup.InitialState(signup.CustomerTypePrivate)
	}
	s.initialized = true
	return found, nil
}

func (s *Store) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// State returns a copy of the current case.
func (s *Store) State() signup.CaseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Apply runs fn against the current case and persists the result.
func (s *Store) Apply(ctx context.Context, fn Transform) (signup.CaseState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return s.state.Clone(), xerrors.ErrStoreNotInitialized
	}

	s.state = fn(s.state)
	if err := s.slot.Put(ctx, session.StateKey(s.slot.Version(), s.caseID), s.state); err != nil {
		s.logger.Error("failed to persist case state", zap.String("case_id", s.caseID), zap.Error(err))
		return s.state.Clone(), err
	}
	return s.state.Clone(), nil
}

// Delete removes the persisted case.
func (s *Store) Delete(ctx context.Context) error {
	return s.slot.Delete(ctx, session.StateKey(s.slot.Version(), s.caseID))
}

// --- intention-named mutators ---

func (s *Store) SetCustomerType(ctx context.Context, t signup.CustomerType) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCustomerType(cs, t) })
}

func (s *Store) ResetState(ctx context.Context) (signup.CaseState, error) {
	return s.Apply(ctx, Reset)
}

func (s *Store) SelectProduct(ctx context.Context, p signup.Product) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SelectProduct(cs, p) })
}

func (s *Store) SetAddress(ctx context.Context, addr signup.Address, details *signup.ApartmentDetails) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetAddress(cs, addr, details) })
}

func (s *Store) SetAuthenticated(ctx context.Context, pnr string, method signup.IDMethod) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetAuthenticated(cs, pnr, method) })
}

func (s *Store) SetCustomerScenario(ctx context.Context, sc signup.Scenario, profile signup.CustomerProfile, current *signup.Address) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCustomerScenario(cs, sc, profile, current) })
}

func (s *Store) SetMoveChoice(ctx context.Context, choice signup.MoveChoice) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetMoveChoice(cs, choice) })
}

func (s *Store) SetFacilityHandling(ctx context.Context, fh *signup.FacilityHandling) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetFacilityHandling(cs, fh) })
}

func (s *Store) SetInvoice(ctx context.Context, inv *signup.Invoice) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetInvoice(cs, inv) })
}

func (s *Store) SetCustomerDetails(ctx context.Context, d CustomerDetails) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCustomerDetails(cs, d) })
}

func (s *Store) SetElomrade(ctx context.Context, e signup.Elomrade) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetElomrade(cs, e) })
}

func (s *Store) ResolvePriceConflict(ctx context.Context) (signup.CaseState, error) {
	return s.Apply(ctx, ResolvePriceConflict)
}

func (s *Store) SetConsents(ctx context.Context, in Consents) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetConsents(cs, in) })
}

func (s *Store) SetStop(ctx context.Context, reason signup.StopReason) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetStop(cs, reason) })
}

func (s *Store) ClearStop(ctx context.Context) (signup.CaseState, error) {
	return s.Apply(ctx, ClearStop)
}

func (s *Store) SetCurrentContractAddress(ctx context.Context, addr *signup.Address) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCurrentContractAddress(cs, addr) })
}

func (s *Store) SetCaseID(ctx context.Context, id string) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCaseID(cs, id) })
}

func (s *Store) SetCompanyProduct(ctx context.Context, p signup.Product) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCompanyProduct(cs, p) })
}

// PassGatekeeper records a SMALL answer together with its first facility.
func (s *Store) PassGatekeeper(ctx context.Context, totalConsumption, facilityCount int) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState {
		return SetCompanyGatekeeper(SetCompanySize(cs, signup.CompanySizeSmall), totalConsumption, facilityCount)
	})
}

func (s *Store) SetCompanySize(ctx context.Context, size signup.CompanySize) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCompanySize(cs, size) })
}

func (s *Store) ClearAuthentication(ctx context.Context) (signup.CaseState, error) {
	return s.Apply(ctx, ClearAuthentication)
}

func (s *Store) SetCompanyLookupData(ctx context.Context, info signup.CompanyInfo) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCompanyLookupData(cs, info) })
}

func (s *Store) EnsureFacilities(ctx context.Context, count int) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return EnsureFacilities(cs, count) })
}

func (s *Store) AddFacility(ctx context.Context) (signup.CaseState, error) {
	return s.Apply(ctx, AddFacility)
}

func (s *Store) SetFacilityAddress(ctx context.Context, index int, addr signup.Address) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetFacilityAddress(cs, index, addr) })
}

func (s *Store) SetFacilityConsumption(ctx context.Context, index, annualConsumption int) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState {
		return SetFacilityConsumption(cs, index, annualConsumption)
	})
}

func (s *Store) SetCompanyFacilities(ctx context.Context, facilities []signup.Facility) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCompanyFacilities(cs, facilities) })
}

func (s *Store) SetCompanyInvoice(ctx context.Context, in CompanyInvoice) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCompanyInvoice(cs, in) })
}

func (s *Store) SetCompanyConsents(ctx context.Context, in CompanyConsents) (signup.CaseState, error) {
	return s.Apply(ctx, func(cs signup.CaseState) signup.CaseState { return SetCompanyConsents(cs, in) })
}
