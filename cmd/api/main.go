// Package main is the entrypoint for the FocusDeck API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/focusdeck/focusdeck/internal/auth"
	"github.com/focusdeck/focusdeck/internal/cache"
	"github.com/focusdeck/focusdeck/internal/config"
	"github.com/focusdeck/focusdeck/internal/handler"
	"github.com/focusdeck/focusdeck/internal/metrics"
	"github.com/focusdeck/focusdeck/internal/middleware"
	"github.com/focusdeck/focusdeck/internal/repository"
	"github.com/focusdeck/focusdeck/internal/server"
	"github.com/focusdeck/focusdeck/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if err := repo.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("database schema up to date")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Initialize services
	metricsRecorder := metrics.NewNoop()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(repo, tokens, metricsRecorder)
	todoService := service.NewTodoService(repo, metricsRecorder)
	eventService := service.NewEventService(repo, metricsRecorder)
	sessionService := service.NewSessionService(repo, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(authService, logger)
	todoHandler := handler.NewTodoHandler(todoService, logger)
	eventHandler := handler.NewEventHandler(eventService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		auth:     authHandler,
		todos:    todoHandler,
		events:   eventHandler,
		sessions: sessionHandler,
		tokens:   tokens,
		repo:     repo,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	todos    *handler.TodoHandler
	events   *handler.EventHandler
	sessions *handler.SessionHandler
	tokens   *auth.TokenIssuer
	repo     *repository.Repository
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: d.cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)

	// Root info endpoint
	r.Get("/", d.base.Hello)

	authCfg := middleware.AuthConfig{
		Logger:     d.logger,
		Tokens:     d.tokens,
		Repository: d.repo,
		Cache:      d.cache,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:    d.logger,
		Cache:     d.cache,
		Enabled:   d.cfg.RateLimitEnabled,
		UserRPM:   d.cfg.RateLimitRPM,
		UserBurst: d.cfg.RateLimitBurst,
		AuthRPM:   d.cfg.AuthRateLimitRPM,
		AuthBurst: d.cfg.AuthRateLimitBurst,
	}

	// Public auth endpoints, rate limited per IP
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))
		r.Post("/auth/register", d.auth.Register)
		r.Post("/auth/token", d.auth.Token)
	})

	// Authenticated routes, rate limited per user
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimitUser(rateLimitCfg))

		r.Get("/auth/me", d.auth.Me)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", d.todos.List)
			r.Post("/", d.todos.Create)
			r.Get("/{id}", d.todos.Get)
			r.Put("/{id}", d.todos.Update)
			r.Delete("/{id}", d.todos.Delete)
		})

		r.Route("/planner/events", func(r chi.Router) {
			r.Get("/", d.events.List)
			r.Post("/", d.events.Create)
			r.Get("/{id}", d.events.Get)
			r.Put("/{id}", d.events.Update)
			r.Delete("/{id}", d.events.Delete)
		})

		r.Route("/pomodoro", func(r chi.Router) {
			r.Get("/sessions", d.sessions.List)
			r.Post("/sessions", d.sessions.Create)
			r.Put("/sessions/{id}", d.sessions.Update)
			r.Get("/stats", d.sessions.Stats)
		})
	})

	// 404 and 405 handlers
	r.NotFound(d.base.NotFound)
	r.MethodNotAllowed(d.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
