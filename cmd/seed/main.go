package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"wall-service/internal/config"
	"wall-service/internal/database"
	"wall-service/internal/logger"
	"wall-service/internal/models"
	"wall-service/internal/repositories/mongodb"
	"wall-service/internal/repositories/postgres"
	"wall-service/internal/services"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "123456"

var seedUsers = []struct {
	username string
	mail     string
}{
	{"admin", "admin@wall.local"},
	{"alice", "alice@wall.local"},
	{"bob", "bob@wall.local"},
	{"charlie", "charlie@wall.local"},
}

var seedMessages = []struct {
	author string
	body   string
	ago    time.Duration
}{
	{"admin", "Welcome to the wall! Say hi with #welcome", 72 * time.Hour},
	{"alice", "First day here #welcome #hello", 48 * time.Hour},
	{"bob", "Anyone up for a #golang study group?", 30 * time.Hour},
	{"charlie", "Released the new build, feedback welcome #release #golang", 20 * time.Hour},
	{"alice", "Coffee machine on floor 2 is fixed #office", 6 * time.Hour},
	{"bob", "Slides from today's talk are on the drive #golang #talks", 2 * time.Hour},
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Setup(os.Stdout, cfg.Log, "wall-seed")

	slog.Info("Starting database seeding...")

	db, err := database.NewPostgresConnection(cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.ClosePostgres(db)

	mongoDB, err := database.NewMongoConnection(cfg.Mongo)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoDB.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	userRepo := postgres.NewUserRepository(db)
	messageRepo := mongodb.NewMessageRepository(mongoDB)
	hashtagService := services.NewHashtagService(mongodb.NewHashtagRepository(mongoDB), messageRepo, nil)

	// Seed initial users
	slog.Info("Creating initial users...")
	ids, err := seedAccounts(ctx, userRepo)
	if err != nil {
		log.Fatal("Failed to seed users:", err)
	}

	// Seed sample messages
	slog.Info("Creating sample messages...")
	if err := seedWall(ctx, messageRepo, ids); err != nil {
		slog.Warn("Failed to seed sample messages", "error", err)
	}

	if _, err := hashtagService.Sync(ctx); err != nil {
		slog.Warn("Failed to synchronise hashtags", "error", err)
	}

	slog.Info("Database seeding completed successfully!")
}

// seedAccounts creates the missing seed users and returns every seed user's ID by username
func seedAccounts(ctx context.Context, repo *postgres.UserRepository) (map[string]uint, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]uint, len(seedUsers))
	for _, u := range seedUsers {
		existing, err := repo.FindByMail(ctx, u.mail)
		if err == nil {
			ids[u.username] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		user := &models.User{Username: u.username, Mail: u.mail, Password: string(hash)}
		if err := repo.Create(ctx, user); err != nil {
			return nil, err
		}
		ids[u.username] = user.ID
		slog.Info("Created user", "username", u.username, "id", user.ID)
	}
	return ids, nil
}

func seedWall(ctx context.Context, repo *mongodb.MessageRepository, ids map[string]uint) error {
	existing, total, err := repo.List(ctx, services.NormalizeQuery(models.MessageQuery{Limit: 1}))
	if err != nil {
		return err
	}
	if total > 0 {
		slog.Info("Wall already has messages, skipping", "total", total, "newest", existing[0].ID.Hex())
		return nil
	}

	now := time.Now()
	for _, m := range seedMessages {
		msg := &models.Message{
			Body:      m.body,
			CreatedBy: ids[m.author],
			LikedBy:   []uint{},
			Hashtags:  services.ExtractHashtags(m.body),
			Comments:  []models.Comment{},
		}
		msg.Stamp(now.Add(-m.ago))
		if err := repo.Create(ctx, msg); err != nil {
			return err
		}
	}
	slog.Info("Created sample messages", "count", len(seedMessages))
	return nil
}
