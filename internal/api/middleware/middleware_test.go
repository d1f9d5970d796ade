package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	engine := gin.New()
	engine.GET("/me", NewAuthMiddleware(secret).RequireAuth(), func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": c.GetString(ContextUsername)})
	})

	valid := signed(t, jwt.MapClaims{"user_id": 7, "username": "alice", "exp": time.Now().Add(time.Hour).Unix()}, secret)
	expired := signed(t, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()}, secret)
	forged := signed(t, jwt.MapClaims{"user_id": 7}, "other-secret")
	noUser := signed(t, jwt.MapClaims{"username": "alice"}, secret)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized},
		{"no user id", "Bearer " + noUser, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(engine, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+valid)
	assert.JSONEq(t, `{"id":7,"username":"alice"}`, serve(engine, req).Body.String())
}

type countingLimiter struct {
	limit int
	hits  map[string]int
	err   error
}

func (l *countingLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.hits[key]++
	return l.hits[key] <= l.limit, nil
}

func TestRateLimitIP(t *testing.T) {
	limiter := &countingLimiter{limit: 2, hits: map[string]int{}}
	engine := gin.New()
	engine.POST("/login", NewRateLimitMiddleware(limiter).RateLimitIP(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(engine, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	assert.Len(t, limiter.hits, 1)
}

func TestRateLimitFailsOpen(t *testing.T) {
	engine := gin.New()
	engine.GET("/ws", NewRateLimitMiddleware(&countingLimiter{err: errors.New("redis down")}).WebSocketRateLimit(1, time.Minute),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/ws", nil)).Code)

	open := gin.New()
	open.GET("/ws", NewRateLimitMiddleware(nil).WebSocketRateLimit(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(open, httptest.NewRequest(http.MethodGet, "/ws", nil)).Code)
}

func TestRateLimitRequiresUser(t *testing.T) {
	engine := gin.New()
	engine.GET("/x", NewRateLimitMiddleware(nil).RateLimit(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://wall.example.org"}))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://wall.example.org")
	assert.Equal(t, "https://wall.example.org", serve(engine, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	assert.Empty(t, serve(engine, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(engine, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetHeader(RequestIDHeader)) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	assert.Equal(t, "abc", serve(engine, req).Header().Get(RequestIDHeader))
}
