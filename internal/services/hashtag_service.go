package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"wall-service/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrHashtagNotFound  = errors.New("hashtag not found")
	ErrInvalidHashtagID = errors.New("invalid hashtag id")
	ErrInvalidHashtag   = errors.New("hashtag name is required")
)

const (
	DefaultPopularLimit = 10

	popularCacheKey  = "hashtags:popular"
	popularCacheSize = 100
	popularCacheTTL  = 30 * time.Second
	cacheOpTimeout   = time.Second
)

type HashtagRepository interface {
	FindAll(ctx context.Context) ([]models.Hashtag, error)
	FindPopular(ctx context.Context, limit int) ([]models.Hashtag, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Hashtag, error)
	FindByName(ctx context.Context, name string) (*models.Hashtag, error)
	Create(ctx context.Context, h *models.Hashtag) error
	Update(ctx context.Context, h *models.Hashtag) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetCount(ctx context.Context, name string, count int, at time.Time) error
}

// HashtagSource reads hashtags out of the messages collection
type HashtagSource interface {
	FindByHashtag(ctx context.Context, hashtag string) ([]models.Message, error)
	CountHashtags(ctx context.Context) (map[string]int, error)
}

// Cache is the JSON cache exposed by RedisService
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type HashtagService struct {
	repo     HashtagRepository
	messages HashtagSource
	cache    Cache
	now      func() time.Time
}

// NewHashtagService creates the hashtag service. cache may be nil.
func NewHashtagService(repo HashtagRepository, messages HashtagSource, cache Cache) *HashtagService {
	return &HashtagService{
		repo:     repo,
		messages: messages,
		cache:    cache,
		now:      time.Now,
	}
}

func parseHashtagID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidHashtagID
	}
	return oid, nil
}

func (s *HashtagService) List(ctx context.Context) ([]models.Hashtag, error) {
	return s.repo.FindAll(ctx)
}

// Popular returns the most used hashtags, highest count first
func (s *HashtagService) Popular(ctx context.Context, limit int) ([]models.Hashtag, error) {
	if limit < 1 {
		limit = DefaultPopularLimit
	}
	if limit > popularCacheSize || s.cache == nil {
		return s.repo.FindPopular(ctx, limit)
	}

	var cached []models.Hashtag
	if err := s.cache.Get(ctx, popularCacheKey, &cached); err == nil {
		return head(cached, limit), nil
	}

	hashtags, err := s.repo.FindPopular(ctx, popularCacheSize)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, popularCacheKey, hashtags, popularCacheTTL); err != nil {
		slog.Debug("Failed to cache popular hashtags", "error", err)
	}
	return head(hashtags, limit), nil
}

func head(hashtags []models.Hashtag, n int) []models.Hashtag {
	if len(hashtags) > n {
		return hashtags[:n]
	}
	return hashtags
}

func (s *HashtagService) Get(ctx context.Context, id string) (*models.Hashtag, error) {
	oid, err := parseHashtagID(id)
	if err != nil {
		return nil, err
	}
	h, err := s.repo.FindByID(ctx, oid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrHashtagNotFound
	}
	return h, err
}

// Create adds a hashtag. An existing hashtag with the same name absorbs the
// usage count instead. The bool reports whether a new hashtag was created.
func (s *HashtagService) Create(ctx context.Context, req *models.HashtagRequest) (*models.Hashtag, bool, error) {
	name := NormalizeHashtag(req.Name)
	if name == "" {
		return nil, false, ErrInvalidHashtag
	}
	defer s.invalidate()

	now := s.now()
	existing, err := s.repo.FindByName(ctx, name)
	if err == nil {
		existing.UsageCount += req.UsageCount
		existing.LastUsed = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	h := &models.Hashtag{Name: name, UsageCount: req.UsageCount, LastUsed: now}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, false, err
	}
	return h, true, nil
}

func (s *HashtagService) Update(ctx context.Context, id string, req *models.HashtagRequest) (*models.Hashtag, error) {
	name := NormalizeHashtag(req.Name)
	if name == "" {
		return nil, ErrInvalidHashtag
	}
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.invalidate()

	h.Name = name
	h.UsageCount = req.UsageCount
	h.LastUsed = s.now()
	if err := s.repo.Update(ctx, h); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrHashtagNotFound
		}
		return nil, err
	}
	return h, nil
}

func (s *HashtagService) Delete(ctx context.Context, id string) error {
	oid, err := parseHashtagID(id)
	if err != nil {
		return err
	}
	defer s.invalidate()

	if err := s.repo.Delete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrHashtagNotFound
		}
		return err
	}
	return nil
}

// WordPosition returns the index of word inside the hashtag name, ignoring
// case, or -1 when it does not occur.
func (s *HashtagService) WordPosition(ctx context.Context, id, word string) (int, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return strings.Index(strings.ToLower(h.Name), strings.ToLower(word)), nil
}

// Sync recomputes every usage counter from the messages collection and
// returns the number of hashtags written.
func (s *HashtagService) Sync(ctx context.Context) (int, error) {
	counts, err := s.messages.CountHashtags(ctx)
	if err != nil {
		return 0, err
	}
	defer s.invalidate()

	now := s.now()
	for name, count := range counts {
		if err := s.repo.SetCount(ctx, name, count, now); err != nil {
			return 0, err
		}
	}

	slog.Info("Hashtags synchronised", "count", len(counts))
	return len(counts), nil
}

// MessagesByHashtag lists the messages tagged with hashtag, with or without its '#'
func (s *HashtagService) MessagesByHashtag(ctx context.Context, hashtag string) ([]models.Message, error) {
	name := NormalizeHashtag(hashtag)
	if name == "" {
		return nil, ErrInvalidHashtag
	}
	return s.messages.FindByHashtag(ctx, name)
}

func (s *HashtagService) invalidate() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, popularCacheKey); err != nil {
		slog.Debug("Failed to invalidate popular hashtags", "error", err)
	}
}
