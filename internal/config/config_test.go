package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_COLLECTION", "CONTEXT_LIFESPAN", "PLACE_MATCH_THRESHOLD",
		"MIRROR_MAX_RETRIES", "NATS_MIRROR_ENABLED", "WEBHOOK_JWT_SECRET", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "event-summary", cfg.MongoCollection)
	assert.Equal(t, 12, cfg.ContextLifespan)
	assert.Equal(t, 0.8, cfg.PlaceMatchThreshold)
	assert.Equal(t, 3, cfg.MirrorMaxRetries)
	assert.False(t, cfg.NATSMirrorEnabled)
	assert.Empty(t, cfg.JWTSecret)
	assert.Nil(t, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CONTEXT_LIFESPAN", "5")
	t.Setenv("PLACE_MATCH_THRESHOLD", "0.9")
	t.Setenv("MIRROR_TIMEOUT", "10s")
	t.Setenv("NATS_MIRROR_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("IDEMPOTENCY_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5, cfg.ContextLifespan)
	assert.Equal(t, 0.9, cfg.PlaceMatchThreshold)
	assert.Equal(t, 10*time.Second, cfg.MirrorTimeout)
	assert.True(t, cfg.NATSMirrorEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Hour, cfg.IdempotencyTTL, "invalid values fall back to the default")
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Kolkata"}
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())

	cfg.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, cfg.Location())
}
