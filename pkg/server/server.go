package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/auth"
	"github.com/infraflow-ai/infraflow/pkg/compliance"
	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/finance"
	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/server/middleware"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
	gormstore "github.com/infraflow-ai/infraflow/pkg/server/store/gorm"
	"github.com/infraflow-ai/infraflow/pkg/telemetry"
)

type Server struct {
	Config *config.Config
	Router *mux.Router
	// Public routes need no token; API routes live under Config.APIPrefix
	// and require one.
	Public *mux.Router
	API    *mux.Router
	DB     *gorm.DB

	Projects     store.ProjectStore
	Documents    store.DocumentStore
	Models       store.FinancialModelStore
	Compliance   store.ComplianceStore
	Risks        store.RiskStore
	Stakeholders store.StakeholderStore
	Reports      store.ReportStore
	Health       store.HealthStore
	AuditLog     *audit.Store

	Issuer  *auth.Issuer
	Auth    *middleware.Authenticator
	Limiter *middleware.RateLimiter
	Engine  *finance.Engine
	Checker *compliance.Checker

	srv *http.Server
	log zerolog.Logger
}

// NewServer wires the GORM stores on db and builds the router and
// middleware chain. db may be nil in tests that set stores directly.
func NewServer(cfg *config.Config, db *gorm.DB, issuer *auth.Issuer, host, port string) *Server {
	s := &Server{
		Config:  cfg,
		Router:  mux.NewRouter(),
		DB:      db,
		Issuer:  issuer,
		Engine:  finance.NewEngine(cfg.MonteCarloSimulations),
		Checker: compliance.NewChecker(),
		log:     logging.Component("server"),
	}

	trusted := func(ip string) bool { return config.Get().IsTrustedProxy(ip) }
	s.Auth = middleware.NewAuthenticator(issuer, trusted)
	s.Limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitPerHour, trusted)

	if db != nil {
		s.Projects = gormstore.NewProjectStore(db)
		s.Documents = gormstore.NewDocumentStore(db)
		s.Models = gormstore.NewFinancialModelStore(db)
		s.Compliance = gormstore.NewComplianceStore(db)
		s.Risks = gormstore.NewRiskStore(db)
		s.Stakeholders = gormstore.NewStakeholderStore(db)
		s.Reports = gormstore.NewReportStore(db)
		s.Health = gormstore.NewHealthStore(db)
		if sqlDB, err := db.DB(); err == nil {
			s.AuditLog = audit.NewStoreWithDB(sqlDB)
		}
	}

	s.Public = s.Router.NewRoute().Subrouter()
	s.Public.Use(s.Limiter.Middleware)

	s.API = s.Router.PathPrefix(cfg.APIPrefix).Subrouter()
	s.API.Use(s.Auth.Middleware, s.Limiter.Middleware)

	s.srv = &http.Server{
		Handler:      s.Handler(),
		Addr:         net.JoinHostPort(host, port),
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
	return s
}

// Handler is the router wrapped in recovery, tracing, access logging, CORS
// and compression, outermost first.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	h = middleware.Compress(s.Config.GzipMinSize)(h)
	h = handlers.CORS(
		handlers.AllowedOriginValidator(func(origin string) bool {
			return config.Get().IsAllowedOrigin(origin)
		}),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)(h)
	h = handlers.LoggingHandler(os.Stdout, h)
	h = telemetry.Handler(h, "infraflow")
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.log}),
		handlers.PrintRecoveryStack(false),
	)(h)
}

type recoveryLogger struct {
	log zerolog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.log.Error().Interface("panic", v).Msg("recovered from panic")
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ApplyConfig applies the hot reloadable parts of a reloaded configuration.
// CORS origins and trusted proxies are read from config.Get per request;
// routing and compression keep the values the server started with.
func (s *Server) ApplyConfig(cfg *config.Config) {
	logging.SetLevel(cfg.LogLevel)
	s.Limiter.SetLimits(cfg.RateLimitPerMinute, cfg.RateLimitPerHour)
	audit.SetEnabled(cfg.AuditEnabled)
	s.log.Info().Msg("configuration reloaded")
}
