package testfixtures

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore is an in-memory stand-in for the Redis commands the calendar
// cache issues. BeforeSet runs once, between a cache miss and its fill.
type CacheStore struct {
	mu      sync.Mutex
	values  map[string][]byte
	sets    int
	IncrErr error

	BeforeSet func()
}

func NewCacheStore() *CacheStore {
	return &CacheStore{values: make(map[string][]byte)}
}

func (s *CacheStore) Get(ctx context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(value), nil)
}

func (s *CacheStore) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	hook := s.BeforeSet
	s.BeforeSet = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = append([]byte(nil), v...)
	case string:
		raw = []byte(v)
	default:
		return redis.NewStatusResult("", errors.New("unsupported value type"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	s.sets++
	return redis.NewStatusResult("OK", nil)
}

func (s *CacheStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.IncrErr != nil {
		return redis.NewIntResult(0, s.IncrErr)
	}
	current, _ := strconv.ParseInt(string(s.values[key]), 10, 64)
	current++
	s.values[key] = []byte(strconv.FormatInt(current, 10))
	return redis.NewIntResult(current, nil)
}

// Sets reports how many cache fills were written.
func (s *CacheStore) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}
