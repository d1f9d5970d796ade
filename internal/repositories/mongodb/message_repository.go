package mongodb

import (
	"context"
	"errors"
	"fmt"

	"wall-service/internal/database"
	"wall-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *database.MongoDB) *MessageRepository {
	return &MessageRepository{coll: db.DB.Collection(database.MessagesCollection)}
}

// listFilter turns the owner and hashtag filters into a match document
func listFilter(q models.MessageQuery) bson.M {
	filter := bson.M{}
	if q.FilterOwner != nil {
		if *q.FilterOwner {
			filter["createdBy"] = q.UserID
		} else {
			filter["createdBy"] = bson.M{"$ne": q.UserID}
		}
	}
	if q.FilterHashtag != "" {
		filter["hashtags"] = q.FilterHashtag
	}
	return filter
}

func sortStage(sortBy string) bson.D {
	switch sortBy {
	case "date-asc":
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case "likes":
		return bson.D{{Key: "likes", Value: -1}, {Key: "createdAt", Value: -1}}
	case "comments":
		return bson.D{{Key: "commentCount", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func listPipeline(q models.MessageQuery) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: listFilter(q)}},
		{{Key: "$addFields", Value: bson.M{
			"commentCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
		}}},
		{{Key: "$sort", Value: sortStage(q.SortBy)}},
		{{Key: "$skip", Value: int64((q.Page - 1) * q.Limit)}},
		{{Key: "$limit", Value: int64(q.Limit)}},
		{{Key: "$project", Value: bson.M{"commentCount": 0}}},
	}
}

// List returns one page of messages and the number of messages matching the filters
func (r *MessageRepository) List(ctx context.Context, q models.MessageQuery) ([]models.Message, int64, error) {
	total, err := r.coll.CountDocuments(ctx, listFilter(q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	cur, err := r.coll.Aggregate(ctx, listPipeline(q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cur.Close(ctx)

	messages := []models.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// FindByID returns mongo.ErrNoDocuments when the message does not exist
func (r *MessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var msg models.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AddLike increments the like counter once per user. It reports false when
// userID already liked the message.
func (r *MessageRepository) AddLike(ctx context.Context, id primitive.ObjectID, userID uint) (*models.Message, bool, error) {
	filter := bson.M{"_id": id, "likedBy": bson.M{"$ne": userID}}
	update := bson.M{
		"$inc":      bson.M{"likes": 1},
		"$addToSet": bson.M{"likedBy": userID},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var msg models.Message
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&msg)
	if err == nil {
		return &msg, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("failed to like message: %w", err)
	}

	// either the message is missing or it was already liked
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *MessageRepository) AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	res, err := r.coll.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

func (r *MessageRepository) FindByHashtag(ctx context.Context, hashtag string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"hashtags": hashtag}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	messages := []models.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// CountHashtags counts every hashtag occurrence across all messages
func (r *MessageRepository) CountHashtags(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$hashtags"}},
		{{Key: "$group", Value: bson.M{"_id": "$hashtags", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count hashtags: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Name  string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Count
	}
	return counts, nil
}
