package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/domain"
)

const (
	restrictedEventsKey  = "calendar:restricted"
	restrictedVersionKey = "calendar:restricted:version"
)

// ErrCacheInvalidation is returned by calendar writes that committed but
// could not retire the cached restricted event list.
var ErrCacheInvalidation = errors.New("restricted event cache invalidation failed")

// CacheStore is the subset of the Redis client used by the calendar cache.
type CacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type cachedCalendarRepository struct {
	CalendarEventRepository
	store  CacheStore
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	bypassUntil time.Time
}

// NewCachedCalendarRepository caches the restricted event list in Redis.
// A nil client or non-positive ttl returns inner unchanged.
func NewCachedCalendarRepository(inner CalendarEventRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) CalendarEventRepository {
	if client == nil {
		return inner
	}
	return NewCachedCalendarRepositoryFromStore(inner, client, ttl, logger, nil)
}

// NewCachedCalendarRepositoryFromStore builds the cache over any CacheStore.
//
// Entries live under a versioned key. Every write bumps the version, so a
// list read before the write can only land under a key nobody reads again.
// When the bump fails the write returns ErrCacheInvalidation and this
// instance stops reading the cache for one ttl.
func NewCachedCalendarRepositoryFromStore(inner CalendarEventRepository, store CacheStore, ttl time.Duration, logger *zap.Logger, now func() time.Time) CalendarEventRepository {
	if store == nil || ttl <= 0 {
		return inner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &cachedCalendarRepository{
		CalendarEventRepository: inner,
		store:                   store,
		ttl:                     ttl,
		logger:                  logger,
		now:                     now,
	}
}

func (r *cachedCalendarRepository) ListRestricted(ctx context.Context) ([]domain.CalendarEvent, error) {
	if r.bypassed() {
		return r.CalendarEventRepository.ListRestricted(ctx)
	}

	version, err := r.store.Get(ctx, restrictedVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Warn("restricted event cache version read failed", zap.Error(err))
		return r.CalendarEventRepository.ListRestricted(ctx)
	}
	key := restrictedEventsKey + ":" + strconv.FormatInt(version, 10)

	raw, err := r.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var events []domain.CalendarEvent
		if jsonErr := json.Unmarshal(raw, &events); jsonErr == nil {
			return events, nil
		}
		r.logger.Warn("discarding malformed restricted event cache")
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("restricted event cache read failed", zap.Error(err))
	}

	events, err := r.CalendarEventRepository.ListRestricted(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(events); err == nil {
		if err := r.store.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("restricted event cache write failed", zap.Error(err))
		}
	}
	return events, nil
}

func (r *cachedCalendarRepository) Create(ctx context.Context, event *domain.CalendarEvent) error {
	if err := r.CalendarEventRepository.Create(ctx, event); err != nil {
		return err
	}
	return r.invalidate(ctx)
}

func (r *cachedCalendarRepository) Delete(ctx context.Context, id string) error {
	if err := r.CalendarEventRepository.Delete(ctx, id); err != nil {
		return err
	}
	return r.invalidate(ctx)
}

func (r *cachedCalendarRepository) invalidate(ctx context.Context) error {
	err := r.store.Incr(ctx, restrictedVersionKey).Err()
	if err == nil {
		return nil
	}
	r.mu.Lock()
	r.bypassUntil = r.now().Add(r.ttl)
	r.mu.Unlock()
	r.logger.Error("restricted event cache invalidation failed", zap.Error(err))
	return fmt.Errorf("%w: %v", ErrCacheInvalidation, err)
}

func (r *cachedCalendarRepository) bypassed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Before(r.bypassUntil)
}
