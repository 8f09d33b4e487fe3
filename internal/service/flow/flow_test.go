package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"signup-service/internal/domain/signup"
	wstypes "signup-service/internal/domain/websocket"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/metrics"
	"signup-service/internal/pkg/session"
	"signup-service/internal/service/apilog"
	"signup-service/internal/service/backend"
	"signup-service/internal/service/devpanel"
	"signup-service/internal/service/scenario"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var storgatan = signup.Address{
	Street: "Storgatan", Number: "1", PostalCode: "11122", City: "Stockholm",
	Type: signup.AddressTypeApartment, Elomrade: signup.SE3,
}

var lulea = signup.Address{
	Street: "Luleåvägen", Number: "10", PostalCode: "97234", City: "Luleå",
	Type: signup.AddressTypeVilla, Elomrade: signup.SE1,
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type orderRepo struct {
	mu     sync.Mutex
	orders map[string]*signup.Order
	err    error
}

func (r *orderRepo) Create(_ context.Context, o *signup.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *orderRepo) FindByID(_ context.Context, id string) (*signup.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return o, nil
}

func (r *orderRepo) ListByCase(_ context.Context, caseID string) ([]signup.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []signup.Order
	for _, o := range r.orders {
		if o.CaseID == caseID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type selectionRepo struct {
	mu    sync.Mutex
	saved map[string]signup.ExtraServicesSelection
	err   error
}

func (r *selectionRepo) SaveSelection(_ context.Context, ref string, sel signup.ExtraServicesSelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved[ref] = sel
	return nil
}

func (r *selectionRepo) get(ref string) (signup.ExtraServicesSelection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sel, ok := r.saved[ref]
	return sel, ok
}

func (r *selectionRepo) fail(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

type confirmer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *confirmer) SendOrderConfirmation(_ context.Context, o *signup.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, o.ID)
	return m.err
}

func (m *confirmer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type limiter struct {
	mu       sync.Mutex
	max      int64
	attempts map[string]int64
}

func (l *limiter) CheckIdentifyAttempt(_ context.Context, id string) (bool, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[id]++
	n := l.attempts[id]
	return n <= l.max, l.max - n, nil
}

type steps struct {
	mu   sync.Mutex
	seen []wstypes.StepChangeData
}

func (s *steps) BroadcastStepChange(d wstypes.StepChangeData) {
	s.mu.Lock()
	s.seen = append(s.seen, d)
	s.mu.Unlock()
}

func (s *steps) last() wstypes.StepChangeData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[len(s.seen)-1]
}

// classifierFunc lets a test wrap the mock classifier.
type classifierFunc func(ctx context.Context, req scenario.Request) (scenario.Response, error)

func (f classifierFunc) Determine(ctx context.Context, req scenario.Request) (scenario.Response, error) {
	return f(ctx, req)
}

type fixture struct {
	engine     *Engine
	private    *Private
	company    *Company
	clock      *clock
	orders     *orderRepo
	selections *selectionRepo
	confirmer  *confirmer
	ring       *apilog.RingRecorder
	metrics    *metrics.Metrics
	overrides  *devpanel.Store
	steps      *steps
	mock       *scenario.Mock
}

type option func(*Deps, *fixture)

func withClassifier(fn func(fx *fixture) scenario.Classifier) option {
	return func(d *Deps, fx *fixture) { d.Classifier = fn(fx) }
}

func withLimiter(max int64) option {
	return func(d *Deps, _ *fixture) { d.Limiter = &limiter{max: max, attempts: map[string]int64{}} }
}

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	slot := session.NewVersioned(session.NewMemorySlot(), "v3", time.Hour)
	clk := &clock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	fx := &fixture{
		clock:      clk,
		orders:     &orderRepo{orders: map[string]*signup.Order{}},
		selections: &selectionRepo{saved: map[string]signup.ExtraServicesSelection{}},
		confirmer:  &confirmer{},
		ring:       apilog.NewRingRecorder(apilog.DefaultRingSize),
		metrics:    metrics.New(),
		overrides:  devpanel.NewStore(slot, true, zap.NewNop()),
		steps:      &steps{},
		mock:       scenario.NewMock(0, clk.Now),
	}
	deps := Deps{
		Slot:       slot,
		Classifier: fx.mock,
		Addresses:  backend.NewAddressService(0),
		Regions:    backend.NewRegionService(0),
		Companies:  backend.NewCompanyService(0),
		Extras:     backend.NewExtrasService(fx.selections, 0),
		Orders:     fx.orders,
		Confirmer:  fx.confirmer,
		Overrides:  fx.overrides,
		Recorder:   fx.ring,
		Metrics:    fx.metrics,
		Steps:      fx.steps,
		Clock:      clk.Now,
		Logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&deps, fx)
	}
	fx.engine = NewEngine(deps)
	fx.private = NewPrivate(fx.engine)
	fx.company = NewCompany(fx.engine)
	return fx
}

func (fx *fixture) create(t *testing.T, ct signup.CustomerType) string {
	t.Helper()
	c, err := fx.engine.CreateCase(context.Background(), ct)
	require.NoError(t, err)
	return c.ID
}

func (fx *fixture) open(t *testing.T, id string) *Case {
	t.Helper()
	c, err := fx.engine.Open(context.Background(), id)
	require.NoError(t, err)
	return c
}

// do runs one private request against a freshly loaded case.
func (fx *fixture) do(t *testing.T, id string, fn func(context.Context, *Case) (Outcome, error)) Outcome {
	t.Helper()
	out, err := fn(context.Background(), fx.open(t, id))
	require.NoError(t, err)
	return out
}

func (fx *fixture) fail(t *testing.T, id string, fn func(context.Context, *Case) (Outcome, error)) error {
	t.Helper()
	_, err := fn(context.Background(), fx.open(t, id))
	require.Error(t, err)
	return err
}

func (fx *fixture) entries(caseID, endpoint string) int {
	n := 0
	for _, e := range fx.ring.Entries(caseID) {
		if e.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// toIdentify selects a product and an address.
func (fx *fixture) toIdentify(t *testing.T, productID string) string {
	t.Helper()
	id := fx.create(t, signup.CustomerTypePrivate)
	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.private.SelectProduct(ctx, c, signup.SelectProductRequest{ProductID: productID})
	})
	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.private.ConfirmAddress(ctx, c, signup.ConfirmAddressRequest{Address: storgatan, ApartmentNumber: "0042"})
	})
	return id
}

func (fx *fixture) authenticate(t *testing.T, id, nationalID string, method signup.IDMethod) Outcome {
	t.Helper()
	return fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.private.Authenticate(ctx, c, signup.AuthenticateRequest{NationalID: nationalID, Method: method})
	})
}

// toTerms walks an identified customer through DETAILS.
func (fx *fixture) toTerms(t *testing.T, productID, nationalID string) string {
	t.Helper()
	id := fx.toIdentify(t, productID)
	fx.authenticate(t, id, nationalID, signup.IDMethodBankIDMobile)
	fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.private.SelectDate(ctx, c, signup.SelectDateRequest{Mode: "EARLIEST"})
	})
	out := fx.do(t, id, func(ctx context.Context, c *Case) (Outcome, error) {
		return fx.private.ConfirmContact(ctx, c, signup.ConfirmContactRequest{Email: "kund@example.com", Phone: "0701234567"})
	})
	require.Equal(t, string(signup.StepTerms), out.Step)
	return id
}
