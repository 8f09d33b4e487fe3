// internal/service/flow/service.go
package flow

import (
	"context"
	"fmt"
	"time"

	"signup-service/internal/domain/signup"
	wstypes "signup-service/internal/domain/websocket"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/metrics"
	"signup-service/internal/pkg/session"
	"signup-service/internal/service/apilog"
	"signup-service/internal/service/backend"
	"signup-service/internal/service/casestate"
	"signup-service/internal/service/devpanel"
	"signup-service/internal/service/scenario"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// DefaultSigningDelay is how long the simulated BankID signature stays pending.
const DefaultSigningDelay = 3 * time.Second

type RegionDetector interface {
	Detect(ctx context.Context, clientIP string) (backend.RegionResult, error)
}

type CompanyLookup interface {
	Lookup(ctx context.Context, orgNr string) (signup.CompanyInfo, error)
}

type ExtrasSaver interface {
	Save(ctx context.Context, orderID string, sel signup.ExtraServicesSelection) error
}

// AttemptLimiter caps identification attempts per national ID.
type AttemptLimiter interface {
	CheckIdentifyAttempt(ctx context.Context, nationalID string) (bool, int64, error)
}

// OrderConfirmer mails the customer once an order exists.
type OrderConfirmer interface {
	SendOrderConfirmation(ctx context.Context, o *signup.Order) error
}

// StepNotifier is told about every rendered step.
type StepNotifier interface {
	BroadcastStepChange(data wstypes.StepChangeData)
}

type Deps struct {
	Slot         *session.Versioned
	Classifier   scenario.Classifier
	Addresses    AddressSearcher
	Regions      RegionDetector
	Companies    CompanyLookup
	Extras       ExtrasSaver
	Orders       signup.OrderRepository
	Confirmer    OrderConfirmer
	Limiter      AttemptLimiter
	Overrides    *devpanel.Store
	Recorder     apilog.Recorder
	Metrics      *metrics.Metrics
	Steps        StepNotifier
	Clock        func() time.Time
	SigningDelay time.Duration
	Logger       *zap.Logger
}

// Engine owns case lifecycle and the pieces shared by both flows.
type Engine struct {
	deps     Deps
	sessions *SessionStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewEngine(deps Deps) *Engine {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.SigningDelay <= 0 {
		deps.SigningDelay = DefaultSigningDelay
	}
	return &Engine{
		deps:     deps,
		sessions: NewSessionStore(deps.Slot),
		logger:   deps.Logger,
		now:      deps.Clock,
	}
}

// Case is one loaded case with its view session.
type Case struct {
	ID    string
	Found bool

	store *casestate.Store
	sess  Session
}

func (c *Case) State() signup.CaseState { return c.store.State() }

func (c *Case) Session() Session { return c.sess }

// Open loads a case. A missing or outdated case starts over as a fresh
// private case; Found tells the two apart.
func (e *Engine) Open(ctx context.Context, caseID string) (*Case, error) {
	if caseID == "" {
		return nil, xerrors.ErrCaseNotFound
	}
	store := casestate.NewStore(e.deps.Slot, caseID, e.logger)
	found, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open case %s: %w", caseID, err)
	}
	sess, err := e.sessions.Load(ctx, caseID)
	if err != nil {
		e.logger.Warn("failed to load flow session, starting fresh", zap.String("case_id", caseID), zap.Error(err))
	}
	return &Case{ID: caseID, Found: found, store: store, sess: sess}, nil
}

// CreateCase starts a new case of the given type.
func (e *Engine) CreateCase(ctx context.Context, t signup.CustomerType) (*Case, error) {
	if t == "" {
		t = signup.CustomerTypePrivate
	}
	id := ulid.Make().String()
	c, err := e.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := c.store.Apply(ctx, func(signup.CaseState) signup.CaseState {
		return casestate.SetCaseID(signup.InitialState(t), id)
	}); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	c.Found = true
	e.logger.Info("case created", zap.String("case_id", id), zap.String("customer_type", string(t)))
	return c, nil
}

// SetCustomerType switches flow. The previous variant and its view session
// are discarded.
func (e *Engine) SetCustomerType(ctx context.Context, c *Case, t signup.CustomerType) (signup.CaseState, error) {
	state, err := c.store.Apply(ctx, func(signup.CaseState) signup.CaseState {
		return casestate.SetCaseID(signup.InitialState(t), c.ID)
	})
	if err != nil {
		return state, err
	}
	return state, e.resetSession(ctx, c)
}

// ResetCase returns the active variant to its initial value.
func (e *Engine) ResetCase(ctx context.Context, c *Case) (signup.CaseState, error) {
	state, err := c.store.Apply(ctx, func(s signup.CaseState) signup.CaseState {
		return casestate.SetCaseID(casestate.Reset(s), c.ID)
	})
	if err != nil {
		return state, err
	}
	return state, e.resetSession(ctx, c)
}

// DeleteCase removes everything stored for the case.
func (e *Engine) DeleteCase(ctx context.Context, c *Case) error {
	if err := c.store.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete case %s: %w", c.ID, err)
	}
	if err := e.sessions.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete flow session %s: %w", c.ID, err)
	}
	return e.deps.Overrides.Clear(ctx, c.ID)
}

func (e *Engine) resetSession(ctx context.Context, c *Case) error {
	c.sess = newSession()
	return e.sessions.Delete(ctx, c.ID)
}

func (e *Engine) saveSession(ctx context.Context, c *Case) error {
	if err := e.sessions.Save(ctx, c.ID, c.sess); err != nil {
		e.logger.Error("failed to persist flow session", zap.String("case_id", c.ID), zap.Error(err))
		return err
	}
	return nil
}

func (e *Engine) overrides(ctx context.Context, caseID string) signup.DevOverrides {
	return e.deps.Overrides.Get(ctx, caseID)
}

func (e *Engine) record(flow signup.CustomerType, caseID, step string, redirect bool, reason string) {
	label := flowLabel(flow)
	e.deps.Metrics.StepViewed(label, step)
	if redirect {
		e.deps.Metrics.Redirected(label, reason)
	}
	if e.deps.Steps != nil {
		e.deps.Steps.BroadcastStepChange(wstypes.StepChangeData{
			CaseID:   caseID,
			Flow:     label,
			Step:     step,
			Redirect: redirect,
			Reason:   reason,
		})
	}
}

func flowLabel(t signup.CustomerType) string {
	if t == signup.CustomerTypeCompany {
		return "company"
	}
	return "private"
}
