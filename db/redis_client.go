package db

import "time"

// RedisClient defines the methods the cache layer needs from Redis.
type RedisClient interface {
	Set(key, value string, ttl time.Duration) error
	Get(key string) (string, bool, error)
	Del(keys ...string) error
	Keys(pattern string) ([]string, error)
	DBSize() (int64, error)
	Ping() error
}
