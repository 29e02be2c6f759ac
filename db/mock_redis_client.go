package db

import (
	"errors"
	"path"
	"sync"
	"time"
)

// ErrMockUnavailable simulates a lost backend connection.
var ErrMockUnavailable = errors.New("mock redis: backend unavailable")

type mockEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MockRedisClient simulates a TTL-aware Redis client for testing purposes.
// The clock is injectable so TTL expiry tests do not have to sleep, and
// Unavailable toggles every method into failure mode so degradation paths
// can be exercised.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]mockEntry

	// Now is the clock used for TTL bookkeeping.
	Now func() time.Time

	// Unavailable makes every call fail, as if the connection dropped.
	Unavailable bool

	// KeysDisabled simulates a backend that cannot enumerate keys.
	KeysDisabled bool
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data: make(map[string]mockEntry),
		Now:  time.Now,
	}
}

func (m *MockRedisClient) Set(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Unavailable {
		return ErrMockUnavailable
	}

	entry := mockEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.Now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

func (m *MockRedisClient) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Unavailable {
		return "", false, ErrMockUnavailable
	}

	entry, exists := m.data[key]
	if !exists {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !m.Now().Before(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MockRedisClient) Del(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Unavailable {
		return ErrMockUnavailable
	}

	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// Keys matches the glob pattern against live (unexpired) keys.
func (m *MockRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Unavailable {
		return nil, ErrMockUnavailable
	}
	if m.KeysDisabled {
		return nil, errors.New("mock redis: KEYS disabled")
	}

	now := m.Now()
	var matches []string
	for key, entry := range m.data {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			matches = append(matches, key)
		}
	}
	return matches, nil
}

func (m *MockRedisClient) DBSize() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Unavailable {
		return 0, ErrMockUnavailable
	}

	now := m.Now()
	var count int64
	for _, entry := range m.data {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			continue
		}
		count++
	}
	return count, nil
}

func (m *MockRedisClient) Ping() error {
	if m.Unavailable {
		return ErrMockUnavailable
	}
	return nil
}
