package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"QNA_ADDR", "DATABASE_URL", "DB_MAX_OPEN_CONNS", "JWT_SIGNING_KEY", "JWT_ISSUER",
		"LOG_LEVEL", "LOG_FORMAT", "KAFKA_BROKERS", "QNA_EVENTS_TOPIC", "QNA_EVENTS_PUBLISH_TIMEOUT", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.NotEmpty(t, cfg.Auth.JWTSigningKey)
	assert.Equal(t, "qna", cfg.Auth.JWTIssuer)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Events.Brokers)
	assert.Equal(t, "qna.lifecycle", cfg.Events.Topic)
	assert.Equal(t, 3*time.Second, cfg.Events.PublishTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("QNA_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://qna@localhost/qna?sslmode=disable")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("QNA_EVENTS_PUBLISH_TIMEOUT", "500ms")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Events.Brokers)
	assert.Equal(t, 500*time.Millisecond, cfg.Events.PublishTimeout)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	t.Run("max open conns", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "many")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "DB_MAX_OPEN_CONNS")
	})

	t.Run("shutdown timeout", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "SHUTDOWN_TIMEOUT")
	})

	t.Run("publish timeout", func(t *testing.T) {
		t.Setenv("QNA_EVENTS_PUBLISH_TIMEOUT", "later")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "QNA_EVENTS_PUBLISH_TIMEOUT")
	})
}
