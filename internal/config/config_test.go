package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadCacheConfig_Defaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_PREFIX", "")
	t.Setenv("CACHE_MAX_BODY_BYTES", "")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, time.Minute, cfg.TTL)
	assert.Equal(t, "browse", cfg.Prefix)
	assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadCacheConfig_RejectsNonPositiveValues(t *testing.T) {
	t.Setenv("CACHE_TTL", "-5s")
	t.Setenv("CACHE_MAX_BODY_BYTES", "0")

	cfg := LoadCacheConfig()
	assert.Equal(t, time.Minute, cfg.TTL)
	assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadCacheConfig_Overrides(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CACHE_PREFIX", "listings")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.TTL)
	assert.Equal(t, "listings", cfg.Prefix)
}
