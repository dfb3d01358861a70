package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	"github.com/spec-kit/leave-service/internal/testfixtures"
)

func TestCachedCalendar_NilClientReturnsInner(t *testing.T) {
	inner := testfixtures.NewCalendar(nil)

	assert.Same(t, inner, repository.NewCachedCalendarRepository(inner, nil, time.Minute, nil))
}

func TestCachedCalendar_UnreachableRedisFallsThrough(t *testing.T) {
	inner := testfixtures.NewCalendar(nil)
	inner.Seed(domain.CalendarEvent{
		Title:     "Midterm",
		StartDate: testfixtures.Day("2024-03-11"),
		EndDate:   testfixtures.Day("2024-03-11"),
		Category:  domain.EventCategoryExam,
	})
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	repo := repository.NewCachedCalendarRepository(inner, client, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := repo.ListRestricted(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Midterm", first[0].Title)

	event := &domain.CalendarEvent{Title: "Viva", Category: domain.EventCategoryExpertSession}
	require.ErrorIs(t, repo.Create(ctx, event), repository.ErrCacheInvalidation)
	assert.NotEmpty(t, event.ID)

	second, err := repo.ListRestricted(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 2, inner.RestrictedCalls())
}

func midterm() domain.CalendarEvent {
	return domain.CalendarEvent{
		Title:     "Midterm",
		StartDate: testfixtures.Day("2024-03-11"),
		EndDate:   testfixtures.Day("2024-03-11"),
		Category:  domain.EventCategoryExam,
	}
}

func TestCachedCalendar_ServesRepeatReadsFromCache(t *testing.T) {
	inner := testfixtures.NewCalendar(nil)
	inner.Seed(midterm())
	store := testfixtures.NewCacheStore()
	repo := repository.NewCachedCalendarRepositoryFromStore(inner, store, time.Minute, zap.NewNop(), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		events, err := repo.ListRestricted(ctx)
		require.NoError(t, err)
		require.Len(t, events, 1)
	}
	assert.Equal(t, 1, inner.RestrictedCalls())
	assert.Equal(t, 1, store.Sets())
}

func TestCachedCalendar_WriteDuringMissIsNotMasked(t *testing.T) {
	inner := testfixtures.NewCalendar(nil)
	store := testfixtures.NewCacheStore()
	repo := repository.NewCachedCalendarRepositoryFromStore(inner, store, time.Minute, zap.NewNop(), nil)
	ctx := context.Background()

	exam := midterm()
	store.BeforeSet = func() {
		require.NoError(t, repo.Create(ctx, &exam))
	}

	before, err := repo.ListRestricted(ctx)
	require.NoError(t, err)
	assert.Empty(t, before)

	after, err := repo.ListRestricted(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Midterm", after[0].Title)
	assert.Equal(t, 2, inner.RestrictedCalls())
}

func TestCachedCalendar_DeleteRetiresCachedList(t *testing.T) {
	inner := testfixtures.NewCalendar(nil)
	seeded := inner.Seed(midterm())
	store := testfixtures.NewCacheStore()
	repo := repository.NewCachedCalendarRepositoryFromStore(inner, store, time.Minute, zap.NewNop(), nil)
	ctx := context.Background()

	events, err := repo.ListRestricted(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)

	require.NoError(t, repo.Delete(ctx, seeded.ID))

	events, err = repo.ListRestricted(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCachedCalendar_FailedInvalidationIsReportedAndBypassesCache(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	inner := testfixtures.NewCalendar(nil)
	store := testfixtures.NewCacheStore()
	repo := repository.NewCachedCalendarRepositoryFromStore(inner, store, time.Minute, zap.NewNop(), func() time.Time { return now })
	ctx := context.Background()

	events, err := repo.ListRestricted(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	store.IncrErr = errors.New("connection refused")
	exam := midterm()
	err = repo.Create(ctx, &exam)
	require.ErrorIs(t, err, repository.ErrCacheInvalidation)

	events, err = repo.ListRestricted(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
}
