package config

import "time"

// CacheConfig tunes the Redis-backed cache in front of the public browse
// endpoints.  Only GET responses are cached, and the middleware itself
// bypasses any request carrying a session credential; there is no method
// knob to widen that.  With Enabled false, or no Redis client wired in,
// the middleware is a pass-through.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* environment variables.  The default TTL
// is kept short: movie listings change rarely, but admins expect their edits
// to show up within a minute.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", time.Minute),
		Prefix:       envStr("CACHE_PREFIX", "browse"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return cfg
}
