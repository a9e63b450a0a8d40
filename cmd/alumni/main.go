// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/daf-alumni/internal/auth"
	"github.com/olegiv/daf-alumni/internal/cache"
	"github.com/olegiv/daf-alumni/internal/config"
	"github.com/olegiv/daf-alumni/internal/handler"
	"github.com/olegiv/daf-alumni/internal/i18n"
	"github.com/olegiv/daf-alumni/internal/imaging"
	"github.com/olegiv/daf-alumni/internal/logging"
	"github.com/olegiv/daf-alumni/internal/mailer"
	"github.com/olegiv/daf-alumni/internal/metrics"
	"github.com/olegiv/daf-alumni/internal/middleware"
	"github.com/olegiv/daf-alumni/internal/render"
	"github.com/olegiv/daf-alumni/internal/scheduler"
	"github.com/olegiv/daf-alumni/internal/service"
	"github.com/olegiv/daf-alumni/internal/session"
	"github.com/olegiv/daf-alumni/internal/staging"
	"github.com/olegiv/daf-alumni/internal/store"
	"github.com/olegiv/daf-alumni/internal/version"
	"github.com/olegiv/daf-alumni/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "DAF Alumni - alumni association website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_DB_PATH            Record database path (default: ./data/alumni.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_GALLERY_DB_PATH    Gallery database path (default: ./data/DAFGalleryDB.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_HERO_DB_PATH       Hero slide database path (default: ./data/DAFHeroDB.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_SITE_URL           Public base URL for robots.txt and sitemap.xml\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_ADMIN_PASSWORD     Initial admin password, stored hashed on first start\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_REDIS_URL          Redis URL for the shared cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_SENDGRID_API_KEY   SendGrid key for member notifications (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("alumni %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	build := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	for _, p := range []string{cfg.DBPath, cfg.GalleryDBPath, cfg.HeroDBPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	changes := store.NewChanges()
	queries := store.New(db).WithChanges(changes)

	// WARN and ERROR records also go to the activity log, and ERROR records
	// to Rollbar when a token is configured.
	reporter := logging.NewRollbarReporter(logging.RollbarConfig{
		Token:       cfg.RollbarToken,
		Environment: cfg.Env,
		CodeVersion: build.String(),
		ServerHost:  cfg.ServerHost,
	})
	defer logging.FlushRollbar()
	activity := logging.NewActivityHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), queries,
	).WithReporter(reporter)
	logger = slog.New(activity)
	slog.SetDefault(logger)
	slog.Info("activity log integration enabled", "min_level", "warn", "rollbar", reporter != nil)

	ctx := context.Background()
	if err := store.Seed(ctx, queries, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	photos, err := store.OpenPhotoStore(ctx, cfg.GalleryDBPath)
	if err != nil {
		return fmt.Errorf("opening gallery store: %w", err)
	}
	defer func() { _ = photos.Close() }()

	slides, err := store.OpenSlideStore(ctx, cfg.HeroDBPath)
	if err != nil {
		return fmt.Errorf("opening hero store: %w", err)
	}
	defer func() { _ = slides.Close() }()
	slog.Info("media stores ready", "gallery", cfg.GalleryDBPath, "hero", cfg.HeroDBPath)

	// The scheduler sweeps the memory cache, so it runs without its own loop.
	sharedCache := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Hour,
	})
	defer func() { _ = sharedCache.Close() }()
	stager := staging.New(sharedCache, cfg.StagingTTL)

	m := metrics.New()
	deps := service.Deps{
		Logger:    logger,
		Metrics:   m,
		Processor: imaging.NewProcessor(),
		Location:  cfg.Location(),
	}
	mediaCfg := service.MediaConfig{
		MaxBytes: cfg.MediaUploadMaxBytes,
		MaxEdge:  cfg.ImageMaxEdge,
		WebP:     true,
	}
	mail := mailer.New(mailer.Config{
		APIKey:        cfg.SendGridAPIKey,
		From:          cfg.MailFrom,
		FromName:      "DAF Alumni",
		SubjectPrefix: "[DAF Alumni] ",
	}, logger)

	svc := &handler.Services{
		Alumni:        service.NewAlumniService(queries, deps, cfg.ProfilePictureMaxBytes),
		Admin:         service.NewAdminService(queries, deps, cfg.AdminUsername),
		Announcements: service.NewAnnouncementService(queries, deps),
		Events:        service.NewEventService(queries, deps),
		Documents:     service.NewDocumentService(queries, deps),
		Inbox:         service.NewInboxService(queries, deps),
		Messages:      service.NewMessageService(queries, deps, mail),
		Gallery:       service.NewGalleryService(photos, stager, deps, mediaCfg),
		Hero:          service.NewHeroService(slides, stager, deps, mediaCfg),
		Stats:         service.NewStatsService(queries, sharedCache, deps),
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	sessions := session.NewContext(sessionManager)
	slog.Info("session manager initialized")

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Location:       cfg.Location(),
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	sched := scheduler.New(logger)
	jobs := []scheduler.Job{
		scheduler.LiveStatsJob(svc.Stats),
		scheduler.ActivityPurgeJob(svc.Stats, cfg.ActivityRetention, logger),
	}
	if sw, ok := sharedCache.(scheduler.Sweeper); ok {
		jobs = append(jobs, scheduler.CacheSweepJob(sw, logger))
	}
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			return fmt.Errorf("scheduling jobs: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	base := handler.NewBase(renderer, sessions, svc, handler.Limits{
		ProfilePicture: cfg.ProfilePictureMaxBytes,
		Media:          cfg.MediaUploadMaxBytes,
	}, logger)

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	live := handler.NewLiveHandler(base)

	r := newRouter(routerDeps{
		cfg:             cfg,
		base:            base,
		sessionManager:  sessionManager,
		sessions:        sessions,
		loginProtection: loginProtection,
		remember:        auth.NewRemember(cfg.SessionSecret, !cfg.IsDevelopment()),
		metrics:         m,
		health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(db.PingContext),
			"gallery":  photos,
			"hero":     slides,
		}, build),
		live:   live,
		static: staticFS,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// Uploads can be slow; live streams clear their own deadline.
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	// Shutdown waits for open connections, so live streams are ended first.
	srv.RegisterOnShutdown(live.Close)

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", build.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
