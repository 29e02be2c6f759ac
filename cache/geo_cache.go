// Package cache implements the cache-aside layer over Redis with geographic
// key construction. Caching here is a performance optimization only: a
// broken backend degrades every operation to a miss or no-op and never
// surfaces to the caller.
package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"li-server/config"
	"li-server/db"
	"li-server/models"
)

// Cache categories, each with its own TTL. Part of every cache key.
const (
	CATEGORY_VENUE_DETAILS = "venue_details"
	CATEGORY_SEARCH        = "search"
	CATEGORY_COMPETITORS   = "competitors"
	CATEGORY_TRAFFIC       = "traffic"
	CATEGORY_EVENTS        = "events"
	CATEGORY_REPORT        = "report"
)

// COORD_DECIMALS rounds coordinates to ~11m so near-identical queries
// collapse onto one entry.
const COORD_DECIMALS = 4

// Stats is a snapshot of cache effectiveness.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
	Size    int64   `json:"size"`
}

// GeoCache is the cache-aside store. All values are JSON.
type GeoCache struct {
	client db.RedisClient
	ttls   config.CacheTTLConfig

	hits   atomic.Int64
	misses atomic.Int64
}

// NewGeoCache creates a cache over the given Redis client with per-category
// TTLs from configuration.
func NewGeoCache(client db.RedisClient, ttls config.CacheTTLConfig) *GeoCache {
	return &GeoCache{client: client, ttls: ttls}
}

// Key builds a cache key of the form
// <category>:<lat4dp>:<lng4dp>:<radius>[:<extra>].
func Key(category string, center models.GeoPoint, radiusMeters int, extra string) string {
	lat, lng := center.RoundedKey(COORD_DECIMALS)
	key := fmt.Sprintf("%s:%s:%s:%d", category, lat, lng, radiusMeters)
	if extra != "" {
		key += ":" + extra
	}
	return key
}

// IDKey builds a cache key for identity-addressed entries such as venue
// details, which are looked up by provider ID rather than by area.
func IDKey(category, id string) string {
	return fmt.Sprintf("%s:id:%s", category, id)
}

// Get unmarshals the cached value for key into out. Backend failure is a
// miss, logged at warning level only.
func (c *GeoCache) Get(key string, out interface{}) bool {
	value, found, err := c.client.Get(key)
	if err != nil {
		log.Printf("[GeoCache] WARN: get %s degraded to miss: %v", key, err)
		c.misses.Add(1)
		return false
	}
	if !found {
		c.misses.Add(1)
		return false
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		log.Printf("[GeoCache] WARN: corrupt entry at %s dropped: %v", key, err)
		_ = c.client.Del(key)
		c.misses.Add(1)
		return false
	}
	c.hits.Add(1)
	return true
}

// Set stores value under key with the category TTL. Failures are logged and
// swallowed.
func (c *GeoCache) Set(category, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[GeoCache] WARN: cannot marshal value for %s: %v", key, err)
		return
	}
	if err := c.client.Set(key, string(data), c.TTL(category)); err != nil {
		log.Printf("[GeoCache] WARN: set %s skipped: %v", key, err)
	}
}

// TTL returns the configured TTL for a category.
func (c *GeoCache) TTL(category string) time.Duration {
	switch category {
	case CATEGORY_VENUE_DETAILS:
		return c.ttls.VenueDetails.Std()
	case CATEGORY_SEARCH:
		return c.ttls.SearchResults.Std()
	case CATEGORY_COMPETITORS:
		return c.ttls.CompetitorAnalysis.Std()
	case CATEGORY_TRAFFIC:
		return c.ttls.Traffic.Std()
	case CATEGORY_EVENTS:
		return c.ttls.Events.Std()
	case CATEGORY_REPORT:
		return c.ttls.Report.Std()
	default:
		return c.ttls.SearchResults.Std()
	}
}

// allCategories enumerated for area invalidation.
var allCategories = []string{
	CATEGORY_VENUE_DETAILS,
	CATEGORY_SEARCH,
	CATEGORY_COMPETITORS,
	CATEGORY_TRAFFIC,
	CATEGORY_EVENTS,
	CATEGORY_REPORT,
}

// InvalidateArea removes every category entry keyed at the rounded center
// coordinates, regardless of radius or extra discriminator. Best-effort: a
// backend that cannot enumerate keys makes this a no-op returning false,
// not an error.
func (c *GeoCache) InvalidateArea(center models.GeoPoint, radiusMeters int) (bool, int) {
	lat, lng := center.RoundedKey(COORD_DECIMALS)

	removed := 0
	for _, category := range allCategories {
		pattern := fmt.Sprintf("%s:%s:%s:*", category, lat, lng)
		keys, err := c.client.Keys(pattern)
		if err != nil {
			log.Printf("[GeoCache] WARN: area invalidation unsupported by backend: %v", err)
			return false, removed
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.client.Del(keys...); err != nil {
			log.Printf("[GeoCache] WARN: area invalidation partial at %s: %v", pattern, err)
			return false, removed
		}
		removed += len(keys)
	}
	return true, removed
}

// Stats reports hit rate and backend size. Size is 0 if the backend cannot
// be reached.
func (c *GeoCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	size, err := c.client.DBSize()
	if err != nil {
		log.Printf("[GeoCache] WARN: size unavailable: %v", err)
		size = 0
	}

	return Stats{Hits: hits, Misses: misses, HitRate: hitRate, Size: size}
}
