package main

// @title           Wall Service API
// @version         1.0
// @description     Message wall with real-time like, comment and share notifications
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "wall-service/docs"
	"wall-service/internal/api/routes"
	"wall-service/internal/config"
	"wall-service/internal/database"
	"wall-service/internal/logger"
	"wall-service/internal/repositories/mongodb"
	"wall-service/internal/repositories/postgres"
	"wall-service/internal/services"
	"wall-service/internal/websocket"

	"github.com/gin-gonic/gin"
)

const hubStopTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Setup(os.Stdout, cfg.Log, "wall-server")
	slog.Info("Starting wall server")
	if logger.ParseLevel(cfg.Log.Level, slog.LevelInfo) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Redis connection
	redisClient, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize PostgreSQL connection
	db, err := database.NewPostgresConnection(cfg.Database.DSN())
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer database.ClosePostgres(db)

	// Initialize MongoDB connection
	mongoDB, err := database.NewMongoConnection(cfg.Mongo)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Close(ctx); err != nil {
			slog.Error("Failed to close MongoDB", "error", err)
		}
	}()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	messageRepo := mongodb.NewMessageRepository(mongoDB)
	hashtagRepo := mongodb.NewHashtagRepository(mongoDB)

	// Services
	redisService := services.NewRedisService(redisClient)

	var activity services.ActivityPublisher = services.NopActivityPublisher{}
	if cfg.Kafka.Enabled() {
		publisher, err := services.NewKafkaActivityPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			slog.Warn("Activity feed disabled", "error", err)
		} else {
			activity = publisher
			slog.Info("Activity feed enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		}
	}
	defer activity.Close()

	// Initialize WebSocket hub
	hub := websocket.NewHub(websocket.NewRegistry(), redisService)
	go hub.Run()

	userService := services.NewUserService(userRepo, redisService, cfg.JWT.Secret, cfg.JWT.ExpirationTime)
	userService.SetOnlineFallback(hub.Registry().UserIDs)
	messageService := services.NewMessageService(messageRepo, hashtagRepo, activity)
	hashtagService := services.NewHashtagService(hashtagRepo, messageRepo, redisService)

	if cfg.Server.SyncHashtagsOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := hashtagService.Sync(ctx); err != nil {
			slog.Error("Failed to synchronise hashtags", "error", err)
		}
		cancel()
	}

	// Initialize router with all dependencies
	router := routes.NewRouter(cfg, routes.Dependencies{
		Hub:      hub,
		Accounts: userService,
		Messages: messageService,
		Hashtags: hashtagService,
		Limiter:  redisService,
	})
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// Stop WebSocket hub, closing every channel
	hub.Stop()
	select {
	case <-hub.Done():
	case <-time.After(hubStopTimeout):
		slog.Warn("Hub did not stop in time")
	}

	slog.Info("Server stopped")
}
