// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"signup-service/internal/config"
	"signup-service/internal/db"
	"signup-service/internal/domain/signup"
	casesHandler "signup-service/internal/handlers/cases"
	devHandler "signup-service/internal/handlers/dev"
	flowHandler "signup-service/internal/handlers/flow"
	lookupHandler "signup-service/internal/handlers/lookup"
	wsHandler "signup-service/internal/handlers/websocket"
	"signup-service/internal/middleware"
	"signup-service/internal/pkg/jwt"
	"signup-service/internal/pkg/metrics"
	"signup-service/internal/pkg/session"
	"signup-service/internal/pkg/validation"
	"signup-service/internal/repository/memory"
	"signup-service/internal/repository/postgres"
	"signup-service/internal/service/apilog"
	"signup-service/internal/service/backend"
	"signup-service/internal/service/devpanel"
	"signup-service/internal/service/email"
	"signup-service/internal/service/flow"
	"signup-service/internal/service/scenario"
	"signup-service/internal/websocket"
	wsHandlers "signup-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	hub     *websocket.Hub
	closers []func()
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Build connects the stores and wires every component into the router.
// Without REDIS_ADDR the case state lives in memory, without DATABASE_URL
// the orders do.
func (s *Server) Build(ctx context.Context) error {
	logger := s.logger

	if err := validation.RegisterGin(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// ----- Redis -----
	var (
		slot        session.Slot
		redisClient redis.UniversalClient
	)
	if s.cfg.RedisAddr != "" {
		client, err := db.NewRedis(db.ParseRedisAddr(s.cfg.RedisAddr, s.cfg.RedisPass))
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		redisClient = client
		s.closers = append(s.closers, func() { client.Close() })
		slot = session.NewRedisSlot(client)
		logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))
	} else {
		slot = session.NewMemorySlot()
		logger.Warn("REDIS_ADDR not set, case state is kept in memory")
	}
	versioned := session.NewVersioned(slot, s.cfg.StateSchemaVersion, s.cfg.CaseTTL)

	// ----- PostgreSQL -----
	var (
		orders     signup.OrderRepository
		selections signup.SelectionRepository
	)
	if s.cfg.DatabaseURL != "" {
		database, err := postgres.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		s.closers = append(s.closers, database.Close)
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate PostgreSQL: %w", err)
		}
		orders = postgres.NewOrderRepository(database.Pool())
		selections = postgres.NewSelectionRepository(database.Pool())
		logger.Info("postgres connected")
	} else {
		orders = memory.NewOrderRepository()
		selections = memory.NewSelectionRepository()
		logger.Warn("DATABASE_URL not set, orders are kept in memory")
	}

	// ----- JWT Manager -----
	var (
		jwtManager *jwt.Manager
		err        error
	)
	if s.cfg.HasKeyFiles() {
		jwtManager, err = jwt.LoadAndBuild(s.cfg.JWT)
	} else {
		logger.Warn("JWT key paths not set, signing case tokens with an ephemeral key")
		jwtManager, err = jwt.NewEphemeral(s.cfg.JWT)
	}
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Metrics -----
	m := metrics.New()

	// ----- WebSocket Hub -----
	s.hub = websocket.NewHub(jwtManager.Verifier, s.cfg.DevPanelEnabled, logger)

	// ----- Developer panel -----
	overrides := devpanel.NewStore(versioned, s.cfg.DevPanelEnabled, logger)
	s.hub.RegisterHandler(wsHandlers.NewOverridesHandler(overrides))
	ring := apilog.NewRingRecorder(apilog.DefaultRingSize)
	recorder := apilog.Multi{
		apilog.NewZapRecorder(logger),
		apilog.NewMetricsRecorder(m),
		ring,
		apilog.NewStreamRecorder(s.hub),
	}

	// ----- Services -----
	latency := s.cfg.SimulatedLatency
	var sender email.Sender = email.NewLogSender(logger)
	if s.cfg.SMTP.Host != "" {
		sender = email.NewSMTPSender(s.cfg.SMTP)
	}

	deps := flow.Deps{
		Slot:         versioned,
		Classifier:   scenario.NewMock(latency, time.Now),
		Addresses:    backend.NewAddressService(latency),
		Regions:      backend.NewRegionService(latency),
		Companies:    backend.NewCompanyService(latency),
		Extras:       backend.NewExtrasService(selections, latency),
		Orders:       orders,
		Confirmer:    email.NewConfirmations(sender, logger),
		Overrides:    overrides,
		Recorder:     recorder,
		Metrics:      m,
		Steps:        s.hub,
		SigningDelay: s.cfg.SigningDelay,
		Logger:       logger,
	}
	if redisClient != nil {
		deps.Limiter = session.NewRateLimiter(redisClient, s.cfg.IdentifyMaxAttempts, s.cfg.IdentifyAttemptRange)
	}
	engine := flow.NewEngine(deps)
	private := flow.NewPrivate(engine)
	company := flow.NewCompany(engine)
	lookup := flow.NewLookup(engine)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		CaseHandler:    casesHandler.NewCaseHandler(engine, jwtManager.Generator, orders, selections, logger),
		FlowHandler:    flowHandler.NewFlowHandler(engine, private, company, logger),
		LookupHandler:  lookupHandler.NewLookupHandler(engine, lookup, private, logger),
		DevHandler:     devHandler.NewDevHandler(overrides, ring),
		WSHandler:      wsHandler.NewWebSocketHandler(s.hub, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtManager.Verifier),
		Metrics:        m.Handler(),
	}
	SetupRouter(s.engine, handlers)
	return nil
}

// Run serves HTTP and the websocket hub until ctx is cancelled or one of
// them fails, then shuts both down.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the database and Redis connections.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
