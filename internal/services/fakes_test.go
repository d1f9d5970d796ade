package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"wall-service/internal/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 5, 17, 14, 32, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeUserRepo struct {
	users      map[uint]*models.User
	lastLogins map[uint]time.Time
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]*models.User{}, lastLogins: map[uint]time.Time{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByMail(_ context.Context, mail string) (*models.User, error) {
	for _, u := range r.users {
		if u.Mail == mail {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.lastLogins[id] = at
	return nil
}

type fakePresence struct {
	online  []string
	err     error
	offline []string
	logins  map[uint]time.Time
}

func (p *fakePresence) GetOnlineUsers(context.Context) ([]string, error) {
	return p.online, p.err
}

func (p *fakePresence) SetUserOffline(_ context.Context, userID string) error {
	p.offline = append(p.offline, userID)
	return nil
}

func (p *fakePresence) RecordLastLogin(_ context.Context, userID uint, at time.Time) error {
	if p.logins == nil {
		p.logins = map[uint]time.Time{}
	}
	p.logins[userID] = at
	return nil
}

type fakeMessageRepo struct {
	messages map[primitive.ObjectID]*models.Message
	created  []*models.Message
	lastList models.MessageQuery
}

func newFakeMessageRepo(msgs ...*models.Message) *fakeMessageRepo {
	r := &fakeMessageRepo{messages: map[primitive.ObjectID]*models.Message{}}
	for _, m := range msgs {
		r.messages[m.ID] = m
	}
	return r
}

func (r *fakeMessageRepo) List(_ context.Context, q models.MessageQuery) ([]models.Message, int64, error) {
	r.lastList = q
	out := []models.Message{}
	for _, m := range r.messages {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Message, error) {
	if m, ok := r.messages[id]; ok {
		return m, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeMessageRepo) AddLike(_ context.Context, id primitive.ObjectID, userID uint) (*models.Message, bool, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, false, mongo.ErrNoDocuments
	}
	for _, u := range m.LikedBy {
		if u == userID {
			return m, false, nil
		}
	}
	m.Likes++
	m.LikedBy = append(m.LikedBy, userID)
	return m, true, nil
}

func (r *fakeMessageRepo) AddComment(_ context.Context, id primitive.ObjectID, c models.Comment) error {
	m, ok := r.messages[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.Comments = append(m.Comments, c)
	return nil
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *models.Message) error {
	msg.ID = primitive.NewObjectID()
	r.messages[msg.ID] = msg
	r.created = append(r.created, msg)
	return nil
}

func (r *fakeMessageRepo) FindByHashtag(_ context.Context, hashtag string) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range r.messages {
		for _, h := range m.Hashtags {
			if h == hashtag {
				out = append(out, *m)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) CountHashtags(context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, m := range r.messages {
		for _, h := range m.Hashtags {
			counts[h]++
		}
	}
	return counts, nil
}

type fakeHashtagRepo struct {
	byID        map[primitive.ObjectID]*models.Hashtag
	incremented []string
	popularHits int
}

func newFakeHashtagRepo(hs ...*models.Hashtag) *fakeHashtagRepo {
	r := &fakeHashtagRepo{byID: map[primitive.ObjectID]*models.Hashtag{}}
	for _, h := range hs {
		if h.ID.IsZero() {
			h.ID = primitive.NewObjectID()
		}
		r.byID[h.ID] = h
	}
	return r
}

func (r *fakeHashtagRepo) all() []models.Hashtag {
	out := []models.Hashtag{}
	for _, h := range r.byID {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeHashtagRepo) FindAll(context.Context) ([]models.Hashtag, error) {
	return r.all(), nil
}

func (r *fakeHashtagRepo) FindPopular(_ context.Context, limit int) ([]models.Hashtag, error) {
	r.popularHits++
	out := r.all()
	sort.SliceStable(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeHashtagRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Hashtag, error) {
	if h, ok := r.byID[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeHashtagRepo) FindByName(_ context.Context, name string) (*models.Hashtag, error) {
	for _, h := range r.byID {
		if h.Name == name {
			cp := *h
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeHashtagRepo) Create(_ context.Context, h *models.Hashtag) error {
	h.ID = primitive.NewObjectID()
	cp := *h
	r.byID[h.ID] = &cp
	return nil
}

func (r *fakeHashtagRepo) Update(_ context.Context, h *models.Hashtag) error {
	if _, ok := r.byID[h.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	cp := *h
	r.byID[h.ID] = &cp
	return nil
}

func (r *fakeHashtagRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.byID[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeHashtagRepo) SetCount(_ context.Context, name string, count int, at time.Time) error {
	for _, h := range r.byID {
		if h.Name == name {
			h.UsageCount = count
			h.LastUsed = at
			return nil
		}
	}
	id := primitive.NewObjectID()
	r.byID[id] = &models.Hashtag{ID: id, Name: name, UsageCount: count, LastUsed: at}
	return nil
}

func (r *fakeHashtagRepo) Increment(_ context.Context, names []string, _ time.Time) error {
	r.incremented = append(r.incremented, names...)
	return nil
}

type recordingPublisher struct {
	mu         sync.Mutex
	activities []Activity
}

func (p *recordingPublisher) Publish(_ context.Context, a Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activities = append(p.activities, a)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = data
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.data[key]
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
