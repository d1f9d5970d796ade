package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DateLayout = "2006-01-02"
	HourLayout = "15:04"

	DefaultShareBody = "Sharing this message"
)

/** --------------------ENTITIES-------------------- */
// Message is a wall post stored in the messages collection
type Message struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Body      string              `bson:"body" json:"body"`
	CreatedBy uint                `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	Date      string              `bson:"date" json:"date"`
	Hour      string              `bson:"hour" json:"hour"`
	Likes     int                 `bson:"likes" json:"likes"`
	LikedBy   []uint              `bson:"likedBy" json:"likedBy"`
	Hashtags  []string            `bson:"hashtags" json:"hashtags"`
	Comments  []Comment           `bson:"comments" json:"comments"`
	Shared    *primitive.ObjectID `bson:"shared,omitempty" json:"shared,omitempty"`
}

type Comment struct {
	CommentedBy uint   `bson:"commentedBy" json:"commentedBy"`
	Text        string `bson:"text" json:"text"`
	Date        string `bson:"date" json:"date"`
	Hour        string `bson:"hour" json:"hour"`
}

// Stamp sets the creation time and the display date and hour
func (m *Message) Stamp(now time.Time) {
	m.CreatedAt = now
	m.Date = now.Format(DateLayout)
	m.Hour = now.Format(HourLayout)
}

/** -------------------- DTOs -------------------- */
// MaxCommentLength is the longest comment accepted, in characters
const MaxCommentLength = 1000

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

type ShareRequest struct {
	Body string `json:"body"`
}

// MessageQuery is the normalised form of the wall listing parameters
type MessageQuery struct {
	Page          int
	Limit         int
	SortBy        string
	FilterOwner   *bool
	FilterHashtag string
	UserID        uint
}

type MessagePage struct {
	Messages []Message `json:"messages"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}
