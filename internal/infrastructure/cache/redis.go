package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/infrastructure/config"
)

// NewRedisClient creates and verifies a Redis connection
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// DecisionCache memoizes terminal decisions for byte-identical queries
// with empty history. It lives in the HTTP adapter, never inside the
// orchestrator, so a disabled cache changes nothing about decision
// semantics.
type DecisionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDecisionCache creates a decision cache. client may be nil to disable
// caching entirely.
func NewDecisionCache(client *redis.Client, ttl time.Duration) *DecisionCache {
	return &DecisionCache{client: client, ttl: ttl}
}

func cacheKey(query string) string {
	return "route:decision:" + query
}

// Get returns the cached decision for a query, or nil on miss or any
// redis failure
func (c *DecisionCache) Get(ctx context.Context, query string) *entity.Decision {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := c.client.Get(ctx, cacheKey(query)).Bytes()
	if err != nil {
		return nil
	}

	var decision entity.Decision
	if err := json.Unmarshal(payload, &decision); err != nil {
		return nil
	}
	return &decision
}

// Set stores a decision; failures are ignored because the cache is a pure
// latency optimization
func (c *DecisionCache) Set(ctx context.Context, query string, decision *entity.Decision) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(decision)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(query), payload, c.ttl)
}
