package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/forkful-backend/internal/adapter/postgres"
	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/transport/middleware"
	"github.com/heartmarshall/forkful-backend/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, applies
// migrations, wires the services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("enrichment_mode", cfg.Enrichment.Mode),
		slog.String("storage", cfg.Storage.Backend),
	)

	c, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close(context.Background())

	applied, err := postgres.MigrateUp(ctx, c.Pool, cfg.Database.MigrationsDir)
	if err != nil {
		return fmt.Errorf("app.Run: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", slog.Any("versions", applied))
	}

	generateLimiter := middleware.NewTokenBucket(cfg.RateLimit.GeneratePerMinute, cfg.RateLimit.CleanupInterval)
	defer generateLimiter.Stop()
	commentLimiter := middleware.NewSlidingWindow(cfg.RateLimit.CommentLimit, cfg.RateLimit.CommentWindow, cfg.RateLimit.CleanupInterval)
	defer commentLimiter.Stop()

	mux := rest.NewRouter(c.Handlers(), rest.Limits{
		Generate: middleware.RateLimit(generateLimiter),
		Comment:  middleware.RateLimit(commentLimiter),
	})

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.ClientIP(cfg.Server.TrustProxy),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(c.Auth),
	)(mux)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if c.Worker != nil {
		g.Go(func() error {
			return c.Worker.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", slog.String("error", err.Error()))
		}
		if c.Async != nil {
			if err := c.Async.Wait(shutdownCtx); err != nil {
				logger.Warn("background tasks still running at shutdown", slog.String("error", err.Error()))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("stopped")
	return nil
}

// Handlers builds the REST handlers over the wired services.
func (c *Components) Handlers() rest.Handlers {
	log := c.Log

	// A nil *enrichment.Service must not reach the handler as a typed nil.
	var admin *rest.AdminHandler
	if c.Queue != nil {
		admin = rest.NewAdminHandler(c.Recipes, c.Photos, c.Guides, c.Queue, log)
	} else {
		admin = rest.NewAdminHandler(c.Recipes, c.Photos, c.Guides, nil, log)
	}

	return rest.Handlers{
		Health:   rest.NewHealthHandler(Version, c.HealthChecks()...),
		Validate: rest.NewValidateHandler(c.Validator, log),
		Recipes:  rest.NewRecipeHandler(c.Recipes, log),
		Comments: rest.NewCommentHandler(c.Comments, log),
		Photos:   rest.NewPhotoHandler(c.Photos, c.Config.Storage.MaxUploadBytes, log),
		Guides:   rest.NewGuideHandler(c.Guides, log),
		Auth:     rest.NewAuthHandler(c.Auth, log),
		Admin:    admin,
		Media:    rest.NewMediaHandler(c.Blobs, log),
	}
}
