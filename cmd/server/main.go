package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vedran77/itemvault/internal/config"
	"github.com/vedran77/itemvault/internal/database"
	"github.com/vedran77/itemvault/internal/logging"
	postgresrepo "github.com/vedran77/itemvault/internal/repository/postgres"
	"github.com/vedran77/itemvault/internal/service"
	"github.com/vedran77/itemvault/internal/storage"
	"github.com/vedran77/itemvault/internal/transport/http/handlers"
	"github.com/vedran77/itemvault/internal/transport/http/middleware"
	"github.com/vedran77/itemvault/internal/transport/http/router"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Env)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.JWTSecret == config.DevJWTSecret {
		logger.Warn("using the development JWT secret, set JWT_SECRET")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		return errors.New("database is not reachable")
	}
	if err := database.RunMigrations(cfg.DSN(), logger); err != nil {
		return err
	}

	images, uploadDir, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	itemRepo := postgresrepo.NewItemRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, service.NewTokenIssuer(cfg.JWTSecret))
	itemService := service.NewItemService(itemRepo, images)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := router.New(router.Config{
		Auth:           handlers.NewAuthHandler(authService, logger),
		Items:          handlers.NewItemHandler(itemService, cfg.MaxUploadBytes, logger),
		Health:         handlers.NewHealthHandler(pool, logger),
		Guard:          middleware.Auth(authService, logger),
		Metrics:        middleware.NewMetrics(registry),
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		UploadDir:      uploadDir,
	})

	apiServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(apiServer, "api", logger) })
	g.Go(func() error { return serve(metricsServer, "metrics", logger) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(
			apiServer.Shutdown(shutdownCtx),
			metricsServer.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}

func serve(srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("starting server", "server", name, "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}

// newImageStore also returns the directory to serve under /uploads/, which
// is empty when images live in S3.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, string, error) {
	if cfg.ImageStorage == config.StorageS3 {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
