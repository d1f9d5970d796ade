package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpirationTime)
	assert.Equal(t, []string{"http://localhost:4200", "http://localhost:3000"}, cfg.WebSocket.AllowedOrigins)
	assert.Equal(t, 256, cfg.WebSocket.SendBuffer)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "host=localhost user=postgres password=password dbname=wall port=5432 sslmode=disable", cfg.Database.DSN())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRE", "2h")
	t.Setenv("WS_ALLOWED_ORIGINS", " https://wall.example.org , ,http://localhost:4200")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpirationTime)
	assert.Equal(t, []string{"https://wall.example.org", "http://localhost:4200"}, cfg.WebSocket.AllowedOrigins)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsBadJWTSettings(t *testing.T) {
	t.Run("expiry", func(t *testing.T) {
		t.Setenv("JWT_EXPIRE", "soon")
		_, err := Load(viper.New())
		assert.ErrorContains(t, err, "JWT_EXPIRE")
	})

	t.Run("secret", func(t *testing.T) {
		v := viper.New()
		v.Set("JWT_SECRET", "")
		_, err := Load(v)
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
}
