package db

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// GeoRedisClient struct holds the Redis client and context
type GeoRedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewGeoRedisClient wraps an initialized go-redis client. Connectivity is
// probed by the caller via Ping; construction never panics, because cache
// unavailability must degrade rather than kill the process.
func NewGeoRedisClient(ctx context.Context, client *redis.Client) *GeoRedisClient {
	return &GeoRedisClient{
		client: client,
		ctx:    ctx,
	}
}

// Set stores a key-value pair with a TTL. A zero TTL stores without expiry.
func (r *GeoRedisClient) Set(key, value string, ttl time.Duration) error {
	return r.client.Set(r.ctx, key, value, ttl).Err()
}

// Get retrieves the value for a key. A missing key is (\"\", false, nil),
// not an error; only backend failures return an error.
func (r *GeoRedisClient) Get(key string) (string, bool, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Del removes the given keys.
func (r *GeoRedisClient) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(r.ctx, keys...).Err()
}

// Keys lists keys matching the glob pattern.
func (r *GeoRedisClient) Keys(pattern string) ([]string, error) {
	return r.client.Keys(r.ctx, pattern).Result()
}

// DBSize returns the number of keys in the database.
func (r *GeoRedisClient) DBSize() (int64, error) {
	return r.client.DBSize(r.ctx).Result()
}

func (r *GeoRedisClient) Ping() error {
	_, err := r.client.Ping(r.ctx).Result()
	return err
}
