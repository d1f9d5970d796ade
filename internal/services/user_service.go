package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"wall-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRequest     = errors.New("invalid request")
)

type UserRepository interface {
	FindByMail(ctx context.Context, mail string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// PresenceStore is the part of RedisService the account flows use
type PresenceStore interface {
	GetOnlineUsers(ctx context.Context) ([]string, error)
	SetUserOffline(ctx context.Context, userID string) error
	RecordLastLogin(ctx context.Context, userID uint, at time.Time) error
}

type UserService struct {
	repo      UserRepository
	presence  PresenceStore
	jwtSecret string
	jwtTTL    time.Duration

	// onlineFallback lists connected users when the presence store is unavailable
	onlineFallback func() []string
	now            func() time.Time
}

// NewUserService creates the account service. presence may be nil.
func NewUserService(repo UserRepository, presence PresenceStore, jwtSecret string, jwtTTL time.Duration) *UserService {
	return &UserService{
		repo:      repo,
		presence:  presence,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		now:       time.Now,
	}
}

// SetOnlineFallback installs the in-process source of connected user IDs
func (s *UserService) SetOnlineFallback(fn func() []string) {
	s.onlineFallback = fn
}

// generateJWT creates a new JWT token for the user
func (s *UserService) generateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"mail":     user.Mail,
		"username": user.Username,
		"exp":      now.Add(s.jwtTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidRequest
	}

	user, err := s.repo.FindByMail(ctx, req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		slog.Warn("Failed to store last login", "userID", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}
	if s.presence != nil {
		if err := s.presence.RecordLastLogin(ctx, user.ID, now); err != nil {
			slog.Warn("Failed to cache last login", "userID", user.ID, "error", err)
		}
	}

	slog.Info("User logged in", "userID", user.ID, "username", user.Username)
	return &models.LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// Logout clears the user's presence. Tokens stay valid until they expire.
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	slog.Info("User logged out", "userID", userID)
	if s.presence == nil {
		return nil
	}
	return s.presence.SetUserOffline(ctx, strconv.FormatUint(uint64(userID), 10))
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// ConnectedUsers returns the profiles of users currently on the wall
func (s *UserService) ConnectedUsers(ctx context.Context) ([]models.UserResponse, error) {
	ids, err := s.onlineIDs(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses, nil
}

func (s *UserService) onlineIDs(ctx context.Context) ([]uint, error) {
	var raw []string
	var err error
	if s.presence != nil {
		raw, err = s.presence.GetOnlineUsers(ctx)
		if err != nil {
			slog.Warn("Presence store unavailable, using local registry", "error", err)
		}
	}
	if (s.presence == nil || err != nil) && s.onlineFallback != nil {
		raw, err = s.onlineFallback(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list online users: %w", err)
	}

	// anonymous and other non-numeric ids have no profile
	ids := make([]uint, 0, len(raw))
	for _, r := range raw {
		if id, err := strconv.ParseUint(r, 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}
