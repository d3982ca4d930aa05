package recency

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"snipvault/internal/config"
	"snipvault/internal/snip"
)

// NewIndexFromConfig creates a RecencyIndex implementation based on the cache
// config type.
func NewIndexFromConfig(cfg config.CacheConfig) (snip.RecencyIndex, error) {
	switch cfg.Type {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache requires redis_addr to be set")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisIndex(client, snip.RecencyCap), nil
	case "memory", "":
		return NewMemoryIndex(snip.RecencyCap), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %q", cfg.Type)
	}
}
