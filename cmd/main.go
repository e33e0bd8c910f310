package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cyberpulse/pulse/internal/api"
	"github.com/cyberpulse/pulse/internal/cache"
	"github.com/cyberpulse/pulse/internal/config"
	"github.com/cyberpulse/pulse/internal/logger"
	"github.com/cyberpulse/pulse/internal/middleware"
	"github.com/cyberpulse/pulse/internal/remote"
	"github.com/cyberpulse/pulse/internal/repository"
	"github.com/cyberpulse/pulse/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: logOutput(cfg),
		Pretty: cfg.Env == "development",
	}); err != nil {
		panic(err)
	}

	logger.Info().Msg("Starting application...")

	// Open the local record store
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal().Err(err).Msg("Failed to create data directory")
		}
	}
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing record store")
		}
	}()

	// Result cache: Redis when configured, in-process otherwise
	var results cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize Redis cache")
		}
		results = redisCache
	} else {
		logger.Warn().Msg("REDIS_URL not set, using in-process result cache")
		results = cache.NewMemoryCache()
	}
	defer func() {
		if err := results.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing result cache")
		}
	}()

	// Remote clients
	newsClient := remote.NewNewsClient(cfg.NewsAPIURL, cfg.RemoteTimeout)
	hibpClient := remote.NewHIBPClient(cfg.HIBPAPIURL, cfg.HIBPAPIKey, cfg.RemoteTimeout)
	nvdClient := remote.NewNVDClient(cfg.NVDAPIURL, cfg.NVDAPIKey, cfg.RemoteTimeout)
	eventsClient := remote.NewEventsClient(cfg.CTFTimeAPIURL, cfg.RemoteTimeout)
	githubClient := remote.NewGitHubClient(cfg.GitHubAPIURL, cfg.RemoteTimeout)
	redditClient := remote.NewRedditClient(cfg.RedditAPIURL, cfg.RemoteTimeout)

	// Repositories
	newsRepo := repository.NewNewsRepository(db, newsClient, cfg.Retention)
	breachRepo := repository.NewBreachRepository(db, hibpClient, results, cfg.ResultCacheTTL)
	cveRepo := repository.NewCVERepository(db, nvdClient, cfg.Retention)
	eventsRepo := repository.NewEventsRepository(db, eventsClient)
	searchRepo := repository.NewSearchRepository(db, githubClient, redditClient, results, cfg.ResultCacheTTL)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Setup API routes
	api.SetupRoutes(app, api.NewHandlers(newsRepo, breachRepo, cveRepo, eventsRepo, searchRepo))

	// Prometheus metrics on a separate listener
	metricsSrv := &http.Server{
		Addr:    ":9090",
		Handler: promhttp.Handler(),
	}
	go func() {
		logger.Info().Str("addr", metricsSrv.Addr).Msg("Starting metrics server")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Metrics server error")
		}
	}()

	// Start server in a goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := metricsSrv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Metrics server forced to shutdown")
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited properly")
}

func logOutput(cfg *config.Config) string {
	if cfg.LogFile != "" {
		return cfg.LogFile
	}
	return "stdout"
}
