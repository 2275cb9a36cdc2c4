package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/TerminAI/bridge/internal/api/http"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/api/middleware"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/driver"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/session"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/site"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/providers/devtools"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/providers/playwright"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	session *session.Manager
	driver  *driver.Driver
	sites   *site.Registry
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// Option customizes server assembly.
type Option func(*options)

type options struct {
	dialer browser.Dialer
	logger *logging.Logger
}

// WithDialer replaces the playwright dialer.
func WithDialer(d browser.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithLogger replaces the logger built from the config.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewFromLevel(cfg.Logging.Level, cfg.Logging.Development)
	}

	logger.Info("Initializing TerminAI bridge",
		zap.String("port", cfg.Server.Port),
		zap.Int("debug_port", cfg.Browser.DebugPort),
		zap.String("wait_strategy", cfg.Driver.WaitStrategy),
	)

	sites := site.NewDefault()
	if cfg.Browser.SitesFile != "" {
		loaded, err := site.LoadFile(cfg.Browser.SitesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load sites file: %w", err)
		}
		sites = loaded
		logger.Info("Loaded sites file", zap.String("path", cfg.Browser.SitesFile), zap.Strings("sites", sites.IDs()))
	}

	metrics := monitoring.NewMetrics()

	dialer := o.dialer
	if dialer == nil {
		pw := playwright.NewDialer(cfg.Browser.ConnectTimeout, cfg.Driver.NavigationTimeout, logger.Component("playwright"))
		pw.InstallDriver = cfg.Browser.InstallDriver
		dialer = pw
	}

	sessionOpts := []session.Option{
		session.WithLogger(logger.Component("session")),
		session.WithRecorder(metrics),
		session.WithEndpoint(cfg.Browser.DebugEndpoint),
	}
	if cfg.Browser.Probe {
		sessionOpts = append(sessionOpts, session.WithProber(devtools.NewClient(cfg.Browser.ConnectTimeout)))
	}
	sess := session.NewManager(dialer, sessionOpts...)

	timings := driver.Timings{
		Settle:       cfg.Driver.SettleDelay,
		Input:        cfg.Driver.InputDelay,
		Response:     cfg.Driver.ResponseDelay,
		Switch:       cfg.Driver.SwitchDelay,
		PollInterval: cfg.Driver.PollInterval,
		Strategy:     driver.Strategy(cfg.Driver.WaitStrategy),
	}
	if err := timings.Validate(); err != nil {
		return nil, err
	}
	drv := driver.New(sess, sites,
		driver.WithTimings(timings),
		driver.WithRecorder(metrics),
		driver.WithLogger(logger.Component("driver")),
	)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Component("http"), "/metrics", "/health"))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := api.NewHandlers(sess, drv, sites, api.Options{
		DebugPort:      cfg.Browser.DebugPort,
		ConnectTimeout: cfg.Browser.ConnectTimeout,
		Logger:         logger.Component("api"),
	})
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		session: sess,
		driver:  drv,
		sites:   sites,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Session returns the browser session manager.
func (s *Server) Session() *session.Manager {
	return s.session
}

// Run serves HTTP until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx is
// done, then closes the browser session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
	}

	s.session.Close()

	// Sync logger before exit
	_ = s.logger.Sync()

	return err
}
