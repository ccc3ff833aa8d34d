// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/raay-sa/raay-web/internal/cache"
	"github.com/raay-sa/raay-web/internal/config"
	"github.com/raay-sa/raay-web/internal/handler"
	"github.com/raay-sa/raay-web/internal/i18n"
	"github.com/raay-sa/raay-web/internal/locale"
	"github.com/raay-sa/raay-web/internal/logging"
	"github.com/raay-sa/raay-web/internal/middleware"
	"github.com/raay-sa/raay-web/internal/scheduler"
	"github.com/raay-sa/raay-web/internal/service"
	"github.com/raay-sa/raay-web/internal/session"
	"github.com/raay-sa/raay-web/internal/sso"
	"github.com/raay-sa/raay-web/internal/store"
	"github.com/raay-sa/raay-web/internal/upstream"
	"github.com/raay-sa/raay-web/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "raay-web - Raay training site gateway\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RAAY_API_BASE_URL      Upstream dashboard API base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RAAY_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RAAY_DASHBOARD_URL     Student dashboard URL for SSO handoff\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RAAY_DB_PATH           SQLite database path (default: ./data/raay.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RAAY_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RAAY_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RAAY_DEFAULT_LANG      Default site language: ar|en (default: ar)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RAAY_REDIS_URL         Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("raay-web %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger, cfg.DefaultLanguage); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger so WARN and ERROR records also land in the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Cache layer, Redis when configured with a memory fallback
	cacheConfig := cache.Config{
		Type:             "memory",
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	cacheManager, err := cache.NewManager(cacheConfig, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	switch {
	case cacheManager.Info().IsFallback:
		slog.Warn("cache manager initialized", "backend", "memory", "note", "Redis unavailable, using fallback")
	default:
		slog.Info("cache manager initialized", "backend", cacheManager.Info().Backend)
	}

	// Site-wide language preference, persisted next to the database
	localeStore := locale.New(locale.NewFilePersister(filepath.Join(dataDir, "raay-language")), cfg.DefaultLanguage, logger)
	unsubscribe := localeStore.Subscribe(cacheManager.OnLanguageChange)
	defer unsubscribe()

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Upstream dashboard API client and the services on top of it
	client := upstream.New(cfg.APIBaseURL, logger)
	defer func() {
		if err := client.Close(); err != nil {
			slog.Error("error closing upstream client", "error", err)
		}
	}()
	catalogService := service.NewCatalogService(client, cacheManager, logger)
	interestService := service.NewInterestService(client, logger)
	ssoService := sso.New(client, cfg.DashboardURL, logger)

	sched := scheduler.New(db, catalogService, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	programsHandler := handler.NewProgramsHandler(catalogService)
	categoriesHandler := handler.NewCategoriesHandler(catalogService)
	interestHandler := handler.NewInterestHandler(interestService, sessionManager)
	languageHandler := handler.NewLanguageHandler(localeStore)
	sessionHandler := handler.NewSessionHandler(sessionManager)
	passwordHandler := handler.NewPasswordHandler()
	ssoHandler := handler.NewSSOHandler(ssoService, sessionManager)
	healthHandler := handler.NewHealthHandler(db, cacheManager)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.Language(localeStore))

	r.Get("/health", healthHandler.Liveness)
	r.Get("/sso/login", ssoHandler.Redirect)

	r.Route("/api", func(r chi.Router) {
		r.Use(csrfMiddleware)

		r.Get("/health", healthHandler.Status)

		r.Get("/programs", programsHandler.List)
		r.Post("/programs/next", programsHandler.Next)
		r.Get("/programs/category/{id}", programsHandler.ByCategory)
		r.Get("/registered_programs", programsHandler.ListRegistered)
		r.Get("/categories", categoriesHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.InterestRPS, cfg.InterestBurst))
			r.Post("/programs/{id}/interest", interestHandler.Register)
			r.Delete("/programs/{id}/interest", interestHandler.Remove)
		})

		r.Post("/language", languageHandler.Switch)

		r.Post("/session", sessionHandler.Put)
		r.Get("/session", sessionHandler.Status)
		r.Delete("/session", sessionHandler.Delete)

		r.Post("/password/check", passwordHandler.Check)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
