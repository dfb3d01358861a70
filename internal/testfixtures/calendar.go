package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
)

// Calendar is an in-memory repository.CalendarEventRepository.
type Calendar struct {
	mu              sync.RWMutex
	events          map[string]domain.CalendarEvent
	clock           func() time.Time
	restrictedCalls int
}

var _ repository.CalendarEventRepository = (*Calendar)(nil)

// NewCalendar builds an empty store. clock may be nil.
func NewCalendar(clock func() time.Time) *Calendar {
	if clock == nil {
		clock = time.Now
	}
	return &Calendar{events: make(map[string]domain.CalendarEvent), clock: clock}
}

// Seed stores an event as given and returns it.
func (r *Calendar) Seed(event domain.CalendarEvent) *domain.CalendarEvent {
	if event.ID == "" {
		event.ID = newID()
	}
	r.mu.Lock()
	r.events[event.ID] = event
	r.mu.Unlock()
	return &event
}

func (r *Calendar) Create(_ context.Context, event *domain.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock()
	event.ID = newID()
	event.CreatedAt = now
	event.UpdatedAt = now
	r.events[event.ID] = *event
	return nil
}

func (r *Calendar) GetByID(_ context.Context, id string) (*domain.CalendarEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &event, nil
}

func (r *Calendar) List(_ context.Context) ([]domain.CalendarEvent, error) {
	return r.collect(func(domain.CalendarEvent) bool { return true }), nil
}

func (r *Calendar) ListRestricted(_ context.Context) ([]domain.CalendarEvent, error) {
	r.mu.Lock()
	r.restrictedCalls++
	r.mu.Unlock()
	return r.collect(func(e domain.CalendarEvent) bool { return e.Category.IsRestricted() }), nil
}

func (r *Calendar) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.events, id)
	return nil
}

// RestrictedCalls reports how many times ListRestricted reached the store.
func (r *Calendar) RestrictedCalls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.restrictedCalls
}

// collect returns matches ordered by start date then title.
func (r *Calendar) collect(keep func(domain.CalendarEvent) bool) []domain.CalendarEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.CalendarEvent
	for _, event := range r.events {
		if keep(event) {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].Title < out[j].Title
	})
	return out
}
