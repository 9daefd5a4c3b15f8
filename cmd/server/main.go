package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github-relay/internal/application/service"
	"github-relay/internal/config"
	"github-relay/internal/github"
	"github-relay/internal/infrastructure/cache"
	infraGitHub "github-relay/internal/infrastructure/github"
	"github-relay/internal/logger"
	"github-relay/internal/metrics"
	"github-relay/internal/presentation/router"
)

// @title GitHub Relay API
// @version 1.0
// @description Relays a fixed GitHub account's profile, repositories and issue creation, cached in Redis.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New(config.LogConfig{}).WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.Log)
	m := metrics.New()

	// Initialize infrastructure layer
	// External service clients
	githubClient, err := github.NewClient(context.Background(), cfg.GitHub, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize GitHub client")
	}
	if cfg.GitHub.Token == "" || cfg.GitHub.Username == "" {
		log.Warn("GitHub token or username is not configured; /github routes will answer 500")
	}

	redisCache := cache.NewRedisCache(cache.NewRedisClient(cfg.Redis), cache.Options{
		DefaultTTL:   cfg.Cache.TTL,
		PingInterval: cfg.Redis.PingInterval,
		Metrics:      m,
		Logger:       log,
	})

	if cfg.Cache.FlushOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if redisCache.WaitConnected(ctx) && redisCache.FlushAll(ctx) {
			log.Info("Cache flushed")
		} else {
			log.Warn("Cache flush skipped: Redis not reachable")
		}
		cancel()
	}

	// Infrastructure implementations of domain services
	githubService := infraGitHub.NewGitHubService(githubClient, cfg.GitHub.Username, m)

	// Initialize application layer
	relayService := service.NewRelayService(githubService, redisCache, cfg.GitHub.Username, service.Options{
		CacheTTL:     cfg.Cache.TTL,
		SingleFlight: cfg.Cache.SingleFlight,
		Logger:       log,
	})

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize presentation layer
	engine := router.New(router.Dependencies{
		Config:  cfg,
		Relay:   relayService,
		Metrics: m,
		Logger:  log,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:        cfg.GetServerAddress(),
		Handler:     engine,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		IdleTimeout: time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("env", cfg.Server.Env).Infof("Server running on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Pending cache writes finish before the connection closes
	relayService.Wait()
	if err := redisCache.Close(); err != nil {
		log.WithError(err).Warn("Failed to close Redis connection")
	}

	log.Info("Server exited")
}
