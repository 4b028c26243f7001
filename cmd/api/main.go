package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/meomeocoj/user-intent-classisifer/internal/adapter/client"
	"github.com/meomeocoj/user-intent-classisifer/internal/adapter/http/router"
	postgresrepo "github.com/meomeocoj/user-intent-classisifer/internal/adapter/repository/postgres"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/repository"
	"github.com/meomeocoj/user-intent-classisifer/internal/infrastructure/cache"
	"github.com/meomeocoj/user-intent-classisifer/internal/infrastructure/config"
	"github.com/meomeocoj/user-intent-classisifer/internal/infrastructure/database"
	"github.com/meomeocoj/user-intent-classisifer/internal/infrastructure/logger"
	"github.com/meomeocoj/user-intent-classisifer/internal/infrastructure/metrics"
	"github.com/meomeocoj/user-intent-classisifer/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database for the decision audit log (optional, continue
	// without it)
	var decisionRepo repository.DecisionRepository
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Warn("Failed to connect to database, continuing without audit log", zap.Error(err))
		db = nil
	} else {
		if err := database.AutoMigrate(db); err != nil {
			log.Error("Failed to run migrations", zap.Error(err))
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		decisionRepo = postgresrepo.NewDecisionRepository(db)
		log.Info("Connected to database")
	}

	// Initialize Redis (optional, continue without it)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		redisClient = nil
	} else {
		log.Info("Connected to Redis")
	}
	decisionCache := cache.NewDecisionCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)

	// Model service clients: zero-shot scorer and safety classifier are
	// long-lived shared handles, loaded once and used concurrently.
	classifierClient := client.NewMLClient(cfg.Classifier.BaseURL, time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second)
	guardClient := client.NewMLClient(cfg.Guard.BaseURL, time.Duration(cfg.Guard.TimeoutSeconds)*time.Second)

	gate, err := usecase.NewSafetyGate(
		client.NewGuardClassifier(guardClient),
		cfg.Guard.CacheSize,
		cfg.Guard.Workers,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create safety gate: %w", err)
	}

	primary := usecase.NewPrimaryClassifier(
		client.NewZeroShotScorer(classifierClient),
		cfg.Classifier.Workers,
		log,
	)

	completer := client.NewOpenAICompleter(client.CompleterConfig{
		Provider:     cfg.LLM.Provider,
		Model:        cfg.LLM.Model,
		APIKey:       cfg.LLM.APIKey,
		BaseURL:      cfg.LLM.BaseURL,
		Temperature:  cfg.LLM.Temperature,
		MaxTokens:    cfg.LLM.MaxTokens,
		Timeout:      time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		ExtraHeaders: cfg.LLM.ExtraHeaders,
	})
	fallback := usecase.NewFallbackClassifier(completer, log)

	routeUC := usecase.NewRouteUsecase(gate, primary, fallback, decisionRepo, metrics.NewDefault(), log)

	// Setup router
	r := router.Setup(&router.Dependencies{
		RouteUC:       routeUC,
		DecisionRepo:  decisionRepo,
		DecisionCache: decisionCache,
		Classifier:    classifierClient,
		Guard:         guardClient,
		DB:            db,
		Redis:         redisClient,
		Logger:        log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	if db != nil {
		if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}
