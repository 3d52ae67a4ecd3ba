package isin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "isin:issuer:"

// CachedFetcher is a read-through cache in front of another Fetcher. Cache
// failures degrade to a direct fetch; a broken Redis never fails a lookup.
type CachedFetcher struct {
	next   Fetcher
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedFetcher wraps next with a Redis read-through cache.
func NewCachedFetcher(next Fetcher, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Fetch returns the cached ISIN list when fresh, delegating to the wrapped
// fetcher on miss and caching the result.
func (c *CachedFetcher) Fetch(ctx context.Context, issuerID int64) ([]string, error) {
	key := fmt.Sprintf("%s%d", cacheKeyPrefix, issuerID)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var isins []string
		if err := json.Unmarshal([]byte(cached), &isins); err == nil {
			return isins, nil
		}
		// Corrupt entry: fall through to a direct fetch and overwrite it.
	} else if !errors.Is(err, redis.Nil) && c.logger != nil {
		c.logger.WarnContext(ctx, "isin cache read failed, falling back to directory",
			"issuer_id", issuerID,
			"error", err,
		)
	}

	isins, err := c.next.Fetch(ctx, issuerID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(isins); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "isin cache write failed",
				"issuer_id", issuerID,
				"error", err,
			)
		}
	}

	return isins, nil
}

// Invalidate drops the cached entry for an issuer.
func (c *CachedFetcher) Invalidate(ctx context.Context, issuerID int64) error {
	key := fmt.Sprintf("%s%d", cacheKeyPrefix, issuerID)
	return c.client.Del(ctx, key).Err()
}
