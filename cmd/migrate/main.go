package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"wall-service/internal/config"
	"wall-service/internal/database"
	"wall-service/internal/logger"
)

// migrate prepares both stores: the postgres schema is auto-migrated and the
// MongoDB indexes are created while connecting.
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Setup(os.Stdout, cfg.Log, "wall-migrate")

	slog.Info("Starting database migration...")

	db, err := database.NewPostgresConnection(cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to migrate PostgreSQL:", err)
	}
	if err := database.ClosePostgres(db); err != nil {
		slog.Warn("Failed to close PostgreSQL", "error", err)
	}
	slog.Info("PostgreSQL schema is up to date")

	mongoDB, err := database.NewMongoConnection(cfg.Mongo)
	if err != nil {
		log.Fatal("Failed to prepare MongoDB:", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mongoDB.Close(ctx); err != nil {
		slog.Warn("Failed to close MongoDB", "error", err)
	}
	slog.Info("MongoDB indexes are in place")

	slog.Info("Database migration completed successfully!")
}
