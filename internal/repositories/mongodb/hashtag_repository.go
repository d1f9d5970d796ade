package mongodb

import (
	"context"
	"fmt"
	"time"

	"wall-service/internal/database"
	"wall-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HashtagRepository struct {
	coll *mongo.Collection
}

func NewHashtagRepository(db *database.MongoDB) *HashtagRepository {
	return &HashtagRepository{coll: db.DB.Collection(database.HashtagsCollection)}
}

func (r *HashtagRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Hashtag, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	hashtags := []models.Hashtag{}
	if err := cur.All(ctx, &hashtags); err != nil {
		return nil, err
	}
	return hashtags, nil
}

func (r *HashtagRepository) FindAll(ctx context.Context) ([]models.Hashtag, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *HashtagRepository) FindPopular(ctx context.Context, limit int) ([]models.Hashtag, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "usageCount", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

// FindByID returns mongo.ErrNoDocuments when the hashtag does not exist
func (r *HashtagRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Hashtag, error) {
	var h models.Hashtag
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HashtagRepository) FindByName(ctx context.Context, name string) (*models.Hashtag, error) {
	var h models.Hashtag
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HashtagRepository) Create(ctx context.Context, h *models.Hashtag) error {
	res, err := r.coll.InsertOne(ctx, h)
	if err != nil {
		return fmt.Errorf("failed to create hashtag: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		h.ID = oid
	}
	return nil
}

func (r *HashtagRepository) Update(ctx context.Context, h *models.Hashtag) error {
	update := bson.M{"$set": bson.M{
		"name":       h.Name,
		"usageCount": h.UsageCount,
		"lastUsed":   h.LastUsed,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": h.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update hashtag: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *HashtagRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete hashtag: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetCount creates or overwrites the usage counter of name
func (r *HashtagRepository) SetCount(ctx context.Context, name string, count int, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"usageCount": count, "lastUsed": at}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Increment adds one use to every name, creating missing hashtags
func (r *HashtagRepository) Increment(ctx context.Context, names []string, at time.Time) error {
	if len(names) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(names))
	for _, name := range names {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": name}).
			SetUpdate(bson.M{"$inc": bson.M{"usageCount": 1}, "$set": bson.M{"lastUsed": at}}).
			SetUpsert(true))
	}
	_, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}
