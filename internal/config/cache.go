package config

import "time"

// CacheConfig tunes the Redis response cache that fronts the public
// catalogue endpoints.  Only successful GET responses are cached, so
// the knobs are limited to lifetime, key namespace and an upper bound
// on the body size worth storing.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
	MaxBody int64
}

// LoadCacheConfig reads the CACHE_* environment variables, falling
// back to defaults suited to slowly-changing catalogue data.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 60*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cv:cache"),
		MaxBody: int64(envInt("CACHE_MAX_BODY_BYTES", 1<<20)),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Second
	}
	return cfg
}
