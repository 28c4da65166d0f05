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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nba-xpts/internal/api"
	"github.com/jstittsworth/nba-xpts/internal/api/handlers"
	"github.com/jstittsworth/nba-xpts/internal/api/middleware"
	"github.com/jstittsworth/nba-xpts/internal/models"
	"github.com/jstittsworth/nba-xpts/internal/providers"
	"github.com/jstittsworth/nba-xpts/internal/services"
	"github.com/jstittsworth/nba-xpts/pkg/config"
	"github.com/jstittsworth/nba-xpts/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.SeasonShot{},
		&models.PlayerSeasonStat{},
		&models.GameLogEntry{},
		&models.SyncRun{},
	); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	breaker := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, 60*time.Second, logger)
	webSocketHub := services.NewWebSocketHub(logger)
	go webSocketHub.Run()

	// Initialize data providers
	statsClient := providers.NewNBAStatsClient(cfg.NBAStatsRateLimit, cfg.ExternalAPITimeout, logger)
	archiveClient := providers.NewShotArchiveClient(cfg.ShotArchiveBaseURL, cfg.ShotArchiveDir, logger)

	seasonStore := services.NewSeasonStore(db, cacheService, archiveClient, statsClient, breaker, logger, cfg.Season, cfg.SeasonYear)
	scoreboard := services.NewScoreboardService(db, cacheService, statsClient, seasonStore, breaker, logger, cfg.Season)

	// Parse fetch interval
	fetchInterval, err := time.ParseDuration(cfg.DataFetchInterval)
	if err != nil {
		logrus.Warnf("Invalid fetch interval, using default 2h: %v", err)
		fetchInterval = 2 * time.Hour
	}

	// Initialize data fetcher
	dataFetcher := services.NewDataFetcherService(db, cacheService, statsClient, seasonStore, breaker, webSocketHub, logger, fetchInterval, cfg.Season)
	if err := dataFetcher.Start(cfg.SkipInitialDataFetch); err != nil {
		logrus.Errorf("Failed to start data fetcher: %v", err)
	}
	defer dataFetcher.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health check endpoint
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, cfg, scoreboard, dataFetcher)

	// WebSocket endpoint at root level (not under /api/v1)
	wsHandler := handlers.NewWebSocketHandler(webSocketHub)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
