package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/handsfree/webnav/internal/api/http"
	"github.com/handsfree/webnav/internal/api/middleware"
	"github.com/handsfree/webnav/internal/cache"
	"github.com/handsfree/webnav/internal/domains"
	"github.com/handsfree/webnav/internal/fallback"
	"github.com/handsfree/webnav/internal/infrastructure/config"
	"github.com/handsfree/webnav/internal/infrastructure/logging"
	"github.com/handsfree/webnav/internal/infrastructure/monitoring"
	"github.com/handsfree/webnav/internal/launcher"
	"github.com/handsfree/webnav/internal/resolver"
	"github.com/handsfree/webnav/internal/resolver/driver"
	"github.com/handsfree/webnav/internal/safety"
	"github.com/handsfree/webnav/internal/shared/paths"
)

// Server wires the resolution pipeline behind the HTTP surface.
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	resolver *resolver.Resolver
	logger   *logging.Logger
	http     *http.Server
}

// New builds a fully wired server from configuration. Configuration is
// injected once here; components never consult the environment themselves.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("initializing webnav server",
		zap.String("port", cfg.Server.Port),
		zap.String("driver", cfg.Resolver.Driver))

	metrics := monitoring.NewMetrics()

	registry := domains.NewRegistry()
	overlay := cfg.Resolver.DomainOverlay
	if overlay == "" {
		if p, err := paths.DomainOverlay(); err == nil {
			overlay = p
		}
	}
	if overlay != "" {
		if err := registry.LoadOverlay(overlay); err != nil {
			logger.Warn("failed to load domain overlay",
				zap.String("path", overlay),
				zap.Error(err))
		}
	}

	drv, err := buildDriver(cfg.Resolver, logger)
	if err != nil {
		return nil, err
	}

	store := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	res := resolver.New(cfg.Resolver, drv, store, registry, logger.Logger).WithMetrics(metrics)

	if cfg.Resolver.WarmStart {
		warmCtx, cancel := context.WithTimeout(context.Background(), cfg.Resolver.NavTimeout)
		if err := res.Warm(warmCtx); err != nil {
			logger.Warn("browser warm-up failed, will retry lazily", zap.Error(err))
		}
		cancel()
	}

	validator := safety.NewValidator()
	chain := fallback.New(cfg.Fallback, res, validator, registry, logger.Logger).WithMetrics(metrics)
	sysLauncher := launcher.NewSystem(validator, logger.Logger)
	handlers := apihttp.NewHandlers(chain, store, sysLauncher, logger.Logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.POST("/resolve", handlers.Resolve)
	router.DELETE("/cache", handlers.ClearCache)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		cfg:      cfg,
		router:   router,
		resolver: res,
		logger:   logger,
	}, nil
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.logger.Info("server listening", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains the HTTP server, then closes the resolver. The resolver
// waits for in-flight navigation to finish or time out before the browser
// session goes away.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Warn("http shutdown incomplete", zap.Error(err))
		}
	}

	err := s.resolver.Close()
	if syncErr := s.logger.Sync(); syncErr == nil && err == nil {
		return nil
	}
	return err
}

// buildDriver constructs the configured browser driver.
func buildDriver(cfg config.ResolverConfig, logger *logging.Logger) (driver.Driver, error) {
	switch cfg.Driver {
	case "chrome":
		profile := cfg.ProfileDir
		if profile == "" {
			p, err := paths.ResolverProfile()
			if err != nil {
				return nil, fmt.Errorf("failed to prepare browsing profile: %w", err)
			}
			profile = p
		} else {
			if _, err := paths.EnsureOwnerOnly(profile); err != nil {
				return nil, fmt.Errorf("failed to prepare browsing profile: %w", err)
			}
		}
		opts := driver.DefaultChromeOptions(profile)
		opts.NavTimeout = cfg.NavTimeout
		return driver.NewChrome(opts, logger.Logger), nil
	case "static":
		opts := driver.DefaultStaticOptions()
		opts.NavTimeout = cfg.NavTimeout
		return driver.NewStatic(opts, logger.Logger), nil
	default:
		return nil, fmt.Errorf("unknown resolver driver %q", cfg.Driver)
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
