package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hashtag tracks how often a tag appears across messages. Name keeps the leading '#'.
type Hashtag struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	UsageCount int                `bson:"usageCount" json:"usageCount"`
	LastUsed   time.Time          `bson:"lastUsed" json:"lastUsed"`
}

type HashtagRequest struct {
	Name       string `json:"name" binding:"required"`
	UsageCount int    `json:"usageCount"`
}

type WordPositionResponse struct {
	Position int `json:"position"`
}
