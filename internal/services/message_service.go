package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"wall-service/internal/models"
	"wall-service/pkg/events"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrInvalidMessageID = errors.New("invalid message id")
	ErrAlreadyLiked     = errors.New("message already liked")
	ErrEmptyComment     = errors.New("comment text is required")
	ErrCommentTooLong   = errors.New("comment text is too long")
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 50
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	validSorts     = map[string]bool{"date": true, "date-asc": true, "likes": true, "comments": true}
)

type MessageRepository interface {
	List(ctx context.Context, q models.MessageQuery) ([]models.Message, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	AddLike(ctx context.Context, id primitive.ObjectID, userID uint) (*models.Message, bool, error)
	AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) error
	Create(ctx context.Context, msg *models.Message) error
}

type HashtagCounter interface {
	Increment(ctx context.Context, names []string, at time.Time) error
}

type MessageService struct {
	repo     MessageRepository
	hashtags HashtagCounter
	activity ActivityPublisher
	now      func() time.Time
}

// NewMessageService creates the wall service. hashtags and activity may be nil.
func NewMessageService(repo MessageRepository, hashtags HashtagCounter, activity ActivityPublisher) *MessageService {
	if activity == nil {
		activity = NopActivityPublisher{}
	}
	return &MessageService{
		repo:     repo,
		hashtags: hashtags,
		activity: activity,
		now:      time.Now,
	}
}

// NormalizeQuery applies defaults and bounds to the listing parameters
func NormalizeQuery(q models.MessageQuery) models.MessageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if !validSorts[q.SortBy] {
		q.SortBy = "date"
	}
	q.FilterHashtag = NormalizeHashtag(q.FilterHashtag)
	return q
}

// NormalizeHashtag trims name and ensures a single leading '#'. Empty stays empty.
func NormalizeHashtag(name string) string {
	name = strings.TrimLeft(strings.TrimSpace(name), "#")
	if name == "" {
		return ""
	}
	return "#" + name
}

// ExtractHashtags returns the distinct hashtags of body in order of appearance
func ExtractHashtags(body string) []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, m := range hashtagPattern.FindAllStringSubmatch(body, -1) {
		tag := "#" + m[1]
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseMessageID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidMessageID
	}
	return oid, nil
}

func (s *MessageService) List(ctx context.Context, q models.MessageQuery) (*models.MessagePage, error) {
	q = NormalizeQuery(q)
	messages, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &models.MessagePage{
		Messages: messages,
		Total:    total,
		Page:     q.Page,
		Limit:    q.Limit,
	}, nil
}

// Like adds userID's like to the message. A second like by the same user
// returns ErrAlreadyLiked.
func (s *MessageService) Like(ctx context.Context, messageID string, userID uint) (*models.Message, error) {
	oid, err := parseMessageID(messageID)
	if err != nil {
		return nil, err
	}

	msg, added, err := s.repo.AddLike(ctx, oid, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyLiked
	}

	s.publish(ctx, Activity{Type: events.KindLike, UserID: userID, MessageID: messageID})
	return msg, nil
}

func (s *MessageService) Comment(ctx context.Context, messageID string, userID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	oid, err := parseMessageID(messageID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	comment := models.Comment{
		CommentedBy: userID,
		Text:        text,
		Date:        now.Format(models.DateLayout),
		Hour:        now.Format(models.HourLayout),
	}
	if err := s.repo.AddComment(ctx, oid, comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	s.publish(ctx, Activity{Type: events.KindComment, UserID: userID, MessageID: messageID, Text: text})
	return &comment, nil
}

// Share creates a new message by userID that references the original
func (s *MessageService) Share(ctx context.Context, messageID string, userID uint, body string) (*models.Message, error) {
	oid, err := parseMessageID(messageID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		body = models.DefaultShareBody
	}

	now := s.now()
	shared := &models.Message{
		Body:      body,
		CreatedBy: userID,
		LikedBy:   []uint{},
		Hashtags:  ExtractHashtags(body),
		Comments:  []models.Comment{},
		Shared:    &oid,
	}
	shared.Stamp(now)

	if err := s.repo.Create(ctx, shared); err != nil {
		return nil, err
	}

	if s.hashtags != nil && len(shared.Hashtags) > 0 {
		if err := s.hashtags.Increment(ctx, shared.Hashtags, now); err != nil {
			slog.Warn("Failed to count hashtags of shared message", "messageID", shared.ID.Hex(), "error", err)
		}
	}

	s.publish(ctx, Activity{Type: events.KindShare, UserID: userID, MessageID: messageID})
	return shared, nil
}

func (s *MessageService) publish(ctx context.Context, a Activity) {
	a.At = s.now().UTC()
	if err := s.activity.Publish(ctx, a); err != nil {
		slog.Warn("Failed to queue activity", "type", a.Type, "messageID", a.MessageID, "error", err)
	}
}
