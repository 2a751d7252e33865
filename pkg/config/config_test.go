package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PROFILE_VERIFIED_THRESHOLD", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Scoring.ProfileVerifiedThreshold)
	assert.Equal(t, 5*time.Second, cfg.Notification.Timeout)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("PROFILE_VERIFIED_THRESHOLD", "85")
	t.Setenv("SCORE_CACHE_TTL", "30s")

	cfg := Load()

	assert.Equal(t, "cache:6379", cfg.Redis.URL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 85, cfg.Scoring.ProfileVerifiedThreshold)
	assert.Equal(t, 30*time.Second, cfg.Scoring.ScoreCacheTTL)
}

func TestValidateCore(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	err := cfg.ValidateCore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.Database.URL = "postgres://localhost/ekyc"
	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, cfg.ValidateCore())

	cfg.Scoring.ProfileVerifiedThreshold = 150
	assert.Error(t, cfg.ValidateCore())
}
