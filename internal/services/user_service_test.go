package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"wall-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newTestUser(t *testing.T, id uint, username, mail, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{Model: gorm.Model{ID: id}, Username: username, Mail: mail, Password: string(hash)}
}

func newTestUserService(t *testing.T, presence PresenceStore) (*UserService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo(
		newTestUser(t, 7, "alice", "alice@example.org", "secret"),
		newTestUser(t, 8, "bob", "bob@example.org", "hunter2"),
	)
	svc := NewUserService(repo, presence, testSecret, time.Hour)
	svc.now = clock
	return svc, repo
}

func TestLoginIssuesToken(t *testing.T) {
	presence := &fakePresence{}
	svc, repo := newTestUserService(t, presence)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{Username: "alice@example.org", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	require.NotNil(t, resp.User.LastLogin)
	assert.True(t, fixedNow.Equal(*resp.User.LastLogin))
	assert.Equal(t, fixedNow, repo.lastLogins[7])
	assert.Equal(t, fixedNow, presence.logins[7])

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithTimeFunc(clock))
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	assert.EqualValues(t, 7, claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "alice@example.org", claims["mail"])
	assert.EqualValues(t, fixedNow.Add(time.Hour).Unix(), claims["exp"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, repo := newTestUserService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.LoginRequest
		want error
	}{
		{"missing password", models.LoginRequest{Username: "alice@example.org"}, ErrInvalidRequest},
		{"missing username", models.LoginRequest{Password: "secret"}, ErrInvalidRequest},
		{"unknown mail", models.LoginRequest{Username: "nobody@example.org", Password: "secret"}, ErrInvalidCredentials},
		{"wrong password", models.LoginRequest{Username: "alice@example.org", Password: "nope"}, ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, repo.lastLogins)
}

func TestLogoutClearsPresence(t *testing.T) {
	presence := &fakePresence{}
	svc, _ := newTestUserService(t, presence)

	require.NoError(t, svc.Logout(context.Background(), 7))
	assert.Equal(t, []string{"7"}, presence.offline)

	noPresence, _ := newTestUserService(t, nil)
	assert.NoError(t, noPresence.Logout(context.Background(), 7))
}

func TestGetProfile(t *testing.T) {
	svc, _ := newTestUserService(t, nil)

	profile, err := svc.GetProfile(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)

	_, err = svc.GetProfile(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestConnectedUsersSkipsAnonymous(t *testing.T) {
	svc, _ := newTestUserService(t, &fakePresence{online: []string{"8", "anonymous", "7", "99"}})

	users, err := svc.ConnectedUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestConnectedUsersFallsBackToRegistry(t *testing.T) {
	svc, _ := newTestUserService(t, &fakePresence{err: errors.New("redis down")})

	_, err := svc.ConnectedUsers(context.Background())
	assert.Error(t, err, "no fallback installed")

	svc.SetOnlineFallback(func() []string { return []string{"8"} })
	users, err := svc.ConnectedUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}
