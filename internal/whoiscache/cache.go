// Package whoiscache stores resolved WHOIS results in Redis so repeat
// quotes do not spend proxy round trips on slow-moving registrar data.
package whoiscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/domainflip/backoffice/internal/logger"
	"github.com/domainflip/backoffice/internal/models"
)

// Cache is a Redis-backed domain → WhoisResult store. Values are replaced
// wholesale on refresh; last write wins, which is safe because results are
// derived deterministically from the same domain.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	// cacheNegative also stores "no record" results, so known-bad domains
	// are not re-queried until the entry expires.
	cacheNegative bool
	logger        logger.Logger
}

// New creates a cache with the given TTL. When cacheNegative is true,
// no-record results are cached alongside successful ones.
func New(client redis.UniversalClient, ttl time.Duration, cacheNegative bool, log logger.Logger) *Cache {
	return &Cache{
		client:        client,
		ttl:           ttl,
		cacheNegative: cacheNegative,
		logger:        log,
	}
}

func (c *Cache) key(domain string) string {
	return fmt.Sprintf("whois:%s", domain)
}

// Get returns the cached result for domain. ok is false on a miss; Redis
// errors are logged and treated as misses so an unavailable cache degrades
// to extra lookups, not failures.
func (c *Cache) Get(ctx context.Context, domain string) (models.WhoisResult, bool) {
	key := c.key(domain)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis error reading WHOIS cache",
				logger.String("domain", domain),
				logger.Error(err))
		}
		return models.WhoisResult{}, false
	}

	var result models.WhoisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("corrupt WHOIS cache entry, dropping",
			logger.String("domain", domain),
			logger.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return models.WhoisResult{}, false
	}

	c.logger.Debug("WHOIS cache hit", logger.String("domain", domain))
	return result, true
}

// Put stores a resolved result. Connection-failure results are never
// cached; no-record results are cached only when negative caching is
// enabled. Cache write failures are logged and swallowed; the lookup
// already succeeded.
func (c *Cache) Put(ctx context.Context, result models.WhoisResult) {
	if result.Failed() {
		if !c.cacheNegative || result.Err != models.ErrNoWhoisRecord.Error() {
			return
		}
	}

	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("marshal WHOIS result for cache",
			logger.String("domain", result.Domain),
			logger.Error(err))
		return
	}

	if err := c.client.Set(ctx, c.key(result.Domain), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("redis error writing WHOIS cache",
			logger.String("domain", result.Domain),
			logger.Error(err))
	}
}
