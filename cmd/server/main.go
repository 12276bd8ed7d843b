// Package main is the entrypoint for the clipforge review API server.
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

	"github.com/joho/godotenv"

	"github.com/clipforge/clipforge/internal/api"
	"github.com/clipforge/clipforge/internal/api/handler"
	mw "github.com/clipforge/clipforge/internal/api/middleware"
	"github.com/clipforge/clipforge/internal/blob"
	"github.com/clipforge/clipforge/internal/cache"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/publish"
	"github.com/clipforge/clipforge/internal/review"
	"github.com/clipforge/clipforge/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "blob_backend", cfg.Blob.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create blob store (public URLs for published content)
	blobs, err := blob.New(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("create blob store: %w", err)
	}

	// 6. Create store and review service
	pgStore := store.NewPostgresStore(pool)
	publisher := publish.NewCoordinator(pgStore, blobs, logger)
	reviewSvc := review.NewService(pgStore, publisher, logger)

	// 7. Build router with dependencies
	if cfg.Review.APIKeyHash == "" && cfg.Server.Env != "development" {
		return fmt.Errorf("REVIEW_API_KEY_HASH is required outside development")
	}

	deps := api.Dependencies{
		Auth:      mw.NewAuth(cfg.Review.APIKeyHash),
		RateLimit: mw.NewRateLimit(redisCache, cfg.Review.RateLimitPerMin),

		HealthHandler: handler.NewHealth(pgStore, redisCache),

		ListReviewItems:   handler.NewListReviewItems(reviewSvc),
		GetReviewItem:     handler.NewGetReviewItem(reviewSvc),
		UpdateReviewItem:  handler.NewUpdateReviewItem(reviewSvc),
		DeleteReviewItem:  handler.NewDeleteReviewItem(reviewSvc),
		ApproveReviewItem: handler.NewApproveReviewItem(reviewSvc),
		RejectReviewItem:  handler.NewRejectReviewItem(reviewSvc),
		Dashboard:         handler.NewDashboard(reviewSvc),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
