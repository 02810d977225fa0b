package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	thhttp "github.com/taskhive/taskhive/internal/adapter/http"
	thnats "github.com/taskhive/taskhive/internal/adapter/nats"
	"github.com/taskhive/taskhive/internal/adapter/postgres"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/logger"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/port/auditlog"
	"github.com/taskhive/taskhive/internal/service"
)

func main() {
	seed := flag.Bool("seed", false, "create the bootstrap super_admin account and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	if err := run(cfg, *seed); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, seed bool) error {
	ctx := context.Background()
	log := slog.Default()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	log.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations applied")

	store := postgres.NewStore(pool)

	var sink auditlog.Sink = store
	if cfg.Audit.Backend == "nats" {
		natsSink, err := thnats.Connect(ctx, cfg.Audit.NATSURL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = natsSink.Close() }()
		sink = natsSink
	}

	// --- Services ---

	tokens := service.NewTokenService(&cfg.Auth)
	quota := service.NewQuotaEnforcer(store)
	ac := service.NewAccessController(tokens, quota, sink)
	authSvc := service.NewAuthService(store, tokens, ac, &cfg.Auth)

	if seed {
		u, err := authSvc.SeedSuperAdmin(ctx)
		if err != nil {
			return fmt.Errorf("seed super_admin: %w", err)
		}
		log.Info("super_admin ready", "id", u.ID, "email", u.Email)
		return nil
	}

	handlers := &thhttp.Handlers{
		Auth:     authSvc,
		Tenants:  service.NewTenantService(store, ac),
		Users:    service.NewUserService(store, ac, cfg.Auth.BcryptCost),
		Projects: service.NewProjectService(store, ac),
		Tasks:    service.NewTaskService(store, ac),
	}

	// --- HTTP ---

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	r := chi.NewRouter()
	r.Use(thhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(thhttp.SecurityHeaders)
	r.Use(thhttp.Logger)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(limiter.Handler)
	r.Use(middleware.Auth(ac))

	thhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
