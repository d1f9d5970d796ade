package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wall-service/internal/api/middleware"
	"wall-service/internal/models"
	"wall-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser stands in for RequireAuth
func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Next()
	}
}

func do(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type fakeAccounts struct {
	loggedOut []uint
}

func (f *fakeAccounts) Login(_ context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != "secret" {
		return nil, services.ErrInvalidCredentials
	}
	return &models.LoginResponse{Token: "tok", User: models.UserResponse{ID: 7, Username: "alice", Mail: req.Username}}, nil
}

func (f *fakeAccounts) Logout(_ context.Context, userID uint) error {
	f.loggedOut = append(f.loggedOut, userID)
	return nil
}

func (f *fakeAccounts) GetProfile(_ context.Context, userID uint) (*models.UserResponse, error) {
	if userID != 7 {
		return nil, services.ErrUserNotFound
	}
	return &models.UserResponse{ID: 7, Username: "alice"}, nil
}

func (f *fakeAccounts) ConnectedUsers(context.Context) ([]models.UserResponse, error) {
	return nil, errors.New("postgres: connection refused")
}

func TestAuthHandlers(t *testing.T) {
	accounts := &fakeAccounts{}
	h := NewAuthHandler(accounts)
	engine := gin.New()
	engine.POST("/auth/login", h.Login)
	engine.POST("/auth/logout", asUser(7), h.Logout)

	w := do(engine, http.MethodPost, "/auth/login", map[string]string{"username": "alice@example.org"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(engine, http.MethodPost, "/auth/login", map[string]string{"username": "alice@example.org", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", errorBody(t, w).Details)

	w = do(engine, http.MethodPost, "/auth/login", map[string]string{"username": "alice@example.org", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "tok", login.Token)
	assert.Equal(t, "alice", login.User.Username)

	w = do(engine, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{7}, accounts.loggedOut)
}

func TestUserHandlers(t *testing.T) {
	h := NewUserHandler(&fakeAccounts{})
	engine := gin.New()
	engine.GET("/user/:id", h.GetUser)
	engine.GET("/connected-users", h.ConnectedUsers)

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/user/7", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/user/8", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(engine, http.MethodGet, "/user/abc", nil).Code)

	w := do(engine, http.MethodGet, "/connected-users", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, errorBody(t, w).Details, "internal errors are not leaked")
}

type fakeMessages struct {
	lastQuery models.MessageQuery
	likes     map[string]bool
	lastShare string
}

func (f *fakeMessages) List(_ context.Context, q models.MessageQuery) (*models.MessagePage, error) {
	f.lastQuery = q
	q = services.NormalizeQuery(q)
	return &models.MessagePage{Messages: []models.Message{}, Page: q.Page, Limit: q.Limit}, nil
}

func (f *fakeMessages) Like(_ context.Context, id string, userID uint) (*models.Message, error) {
	key := fmt.Sprintf("%s/%d", id, userID)
	if id == "missing" {
		return nil, services.ErrMessageNotFound
	}
	if f.likes[key] {
		return nil, services.ErrAlreadyLiked
	}
	f.likes[key] = true
	return &models.Message{Likes: 1, LikedBy: []uint{userID}}, nil
}

func (f *fakeMessages) Comment(_ context.Context, _ string, userID uint, text string) (*models.Comment, error) {
	return &models.Comment{CommentedBy: userID, Text: text}, nil
}

func (f *fakeMessages) Share(_ context.Context, id string, userID uint, body string) (*models.Message, error) {
	f.lastShare = body
	if body == "" {
		body = models.DefaultShareBody
	}
	return &models.Message{Body: body, CreatedBy: userID}, nil
}

func newMessageEngine(f *fakeMessages) *gin.Engine {
	h := NewMessageHandler(f)
	engine := gin.New()
	engine.Use(asUser(7))
	engine.GET("/messages", h.ListMessages)
	engine.POST("/messages/:id/like", h.LikeMessage)
	engine.POST("/messages/:id/comment", h.CommentMessage)
	engine.POST("/messages/:id/share", h.ShareMessage)
	return engine
}

func TestListMessagesParsesQuery(t *testing.T) {
	f := &fakeMessages{}
	engine := newMessageEngine(f)

	w := do(engine, http.MethodGet, "/messages?page=2&limit=10&sortBy=likes&filterOwner=false&filterHashtag=%23go", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, f.lastQuery.Page)
	assert.Equal(t, 10, f.lastQuery.Limit)
	assert.Equal(t, "likes", f.lastQuery.SortBy)
	assert.Equal(t, "#go", f.lastQuery.FilterHashtag)
	assert.EqualValues(t, 7, f.lastQuery.UserID)
	require.NotNil(t, f.lastQuery.FilterOwner)
	assert.False(t, *f.lastQuery.FilterOwner)

	w = do(engine, http.MethodGet, "/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, f.lastQuery.FilterOwner)
	assert.JSONEq(t, `{"messages":[],"total":0,"page":1,"limit":5}`, w.Body.String())

	for _, bad := range []string{"page=x", "limit=1.5", "filterOwner=maybe"} {
		assert.Equal(t, http.StatusBadRequest, do(engine, http.MethodGet, "/messages?"+bad, nil).Code, bad)
	}
}

func TestLikeMessageStatuses(t *testing.T) {
	engine := newMessageEngine(&fakeMessages{likes: map[string]bool{}})

	assert.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/messages/m1/like", nil).Code)

	w := do(engine, http.MethodPost, "/messages/m1/like", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Message already liked", errorBody(t, w).Message)

	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodPost, "/messages/missing/like", nil).Code)
}

func TestCommentAndShare(t *testing.T) {
	f := &fakeMessages{}
	engine := newMessageEngine(f)

	assert.Equal(t, http.StatusBadRequest, do(engine, http.MethodPost, "/messages/m1/comment", map[string]string{}).Code)
	assert.Equal(t, http.StatusCreated, do(engine, http.MethodPost, "/messages/m1/comment", map[string]string{"text": "hi"}).Code)
	long := strings.Repeat("x", models.MaxCommentLength+1)
	assert.Equal(t, http.StatusBadRequest, do(engine, http.MethodPost, "/messages/m1/comment", map[string]string{"text": long}).Code)

	w := do(engine, http.MethodPost, "/messages/m1/share", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, f.lastShare)

	w = do(engine, http.MethodPost, "/messages/m1/share", map[string]string{"body": "look #go"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "look #go", f.lastShare)
}

type fakeHashtags struct {
	names map[string]int
}

func (f *fakeHashtags) List(context.Context) ([]models.Hashtag, error) { return []models.Hashtag{}, nil }

func (f *fakeHashtags) Popular(_ context.Context, limit int) ([]models.Hashtag, error) {
	return make([]models.Hashtag, limit), nil
}

func (f *fakeHashtags) Get(_ context.Context, id string) (*models.Hashtag, error) {
	if id != "h1" {
		return nil, services.ErrHashtagNotFound
	}
	return &models.Hashtag{Name: "#golang"}, nil
}

func (f *fakeHashtags) Create(_ context.Context, req *models.HashtagRequest) (*models.Hashtag, bool, error) {
	_, exists := f.names[req.Name]
	f.names[req.Name] += req.UsageCount
	return &models.Hashtag{Name: req.Name, UsageCount: f.names[req.Name]}, !exists, nil
}

func (f *fakeHashtags) Update(_ context.Context, id string, req *models.HashtagRequest) (*models.Hashtag, error) {
	return &models.Hashtag{Name: req.Name}, nil
}

func (f *fakeHashtags) Delete(_ context.Context, id string) error {
	if id == "bad" {
		return services.ErrInvalidHashtagID
	}
	return nil
}

func (f *fakeHashtags) WordPosition(_ context.Context, id, word string) (int, error) {
	if id != "h1" {
		return 0, services.ErrHashtagNotFound
	}
	if word == "lang" {
		return 3, nil
	}
	return -1, nil
}

func (f *fakeHashtags) Sync(context.Context) (int, error) { return 4, nil }

func (f *fakeHashtags) MessagesByHashtag(_ context.Context, hashtag string) ([]models.Message, error) {
	return []models.Message{{Body: "tagged " + hashtag}}, nil
}

func TestHashtagHandlers(t *testing.T) {
	h := NewHashtagHandler(&fakeHashtags{names: map[string]int{}})
	engine := gin.New()
	engine.GET("/hashtags", h.ListHashtags)
	engine.POST("/hashtags", h.CreateHashtag)
	engine.GET("/hashtags/popular", h.PopularHashtags)
	engine.POST("/hashtags/sync", h.SyncHashtags)
	engine.GET("/hashtags/messages/:hashtag", h.MessagesByHashtag)
	engine.GET("/hashtags/:id", h.GetHashtag)
	engine.PUT("/hashtags/:id", h.UpdateHashtag)
	engine.DELETE("/hashtags/:id", h.DeleteHashtag)
	engine.GET("/hashtags/:id/position/:word", h.WordPosition)

	assert.Equal(t, http.StatusCreated, do(engine, http.MethodPost, "/hashtags", map[string]any{"name": "#go", "usageCount": 1}).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/hashtags", map[string]any{"name": "#go", "usageCount": 2}).Code)
	assert.Equal(t, http.StatusBadRequest, do(engine, http.MethodPost, "/hashtags", map[string]any{"usageCount": 2}).Code)

	w := do(engine, http.MethodGet, "/hashtags/popular?limit=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var popular []models.Hashtag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &popular))
	assert.Len(t, popular, 3)

	w = do(engine, http.MethodGet, "/hashtags/h1/position/lang", nil)
	assert.JSONEq(t, `{"position":3}`, w.Body.String())
	w = do(engine, http.MethodGet, "/hashtags/h1/position/rust", nil)
	assert.JSONEq(t, `{"position":-1}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/hashtags/h2/position/go", nil).Code)

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/hashtags/h1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/hashtags/h2", nil).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodPut, "/hashtags/h1", map[string]any{"name": "#rust"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(engine, http.MethodDelete, "/hashtags/bad", nil).Code)
	assert.Equal(t, http.StatusOK, do(engine, http.MethodDelete, "/hashtags/h1", nil).Code)

	w = do(engine, http.MethodPost, "/hashtags/sync", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Synchronised 4 hashtags")

	w = do(engine, http.MethodGet, "/hashtags/messages/go", nil)
	assert.Contains(t, w.Body.String(), "tagged go")
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/hashtags", nil).Code)
}
