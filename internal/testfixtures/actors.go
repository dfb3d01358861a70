package testfixtures

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/leave-service/internal/approval"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
)

// Actors is an in-memory repository.ActorRepository.
type Actors struct {
	mu    sync.RWMutex
	byID  map[string]domain.Actor
	clock func() time.Time
}

var _ repository.ActorRepository = (*Actors)(nil)

// NewActors builds an empty store. clock may be nil.
func NewActors(clock func() time.Time) *Actors {
	if clock == nil {
		clock = time.Now
	}
	return &Actors{byID: make(map[string]domain.Actor), clock: clock}
}

// Seed stores actor as given, assigning an id when missing, and returns it.
func (r *Actors) Seed(actor domain.Actor) *domain.Actor {
	if actor.ID == "" {
		actor.ID = newID()
	}
	r.mu.Lock()
	r.byID[actor.ID] = actor
	r.mu.Unlock()
	return &actor
}

func (r *Actors) Create(_ context.Context, actor *domain.Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Email, actor.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	now := r.clock()
	actor.ID = newID()
	actor.CreatedAt = now
	actor.UpdatedAt = now
	r.byID[actor.ID] = *actor
	return nil
}

func (r *Actors) GetByID(_ context.Context, id string) (*domain.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actor, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &actor, nil
}

func (r *Actors) GetByEmail(_ context.Context, email string) (*domain.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, actor := range r.byID {
		if strings.EqualFold(actor.Email, email) {
			found := actor
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *Actors) List(_ context.Context, filter approval.ActorFilter) ([]domain.Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Actor
	for _, actor := range r.byID {
		if filter.Matches(actor) {
			out = append(out, actor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *Actors) UpdateSection(_ context.Context, id, section string) (*domain.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actor, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	actor.Section = section
	actor.UpdatedAt = r.clock()
	r.byID[id] = actor
	return &actor, nil
}

func (r *Actors) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	actor, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	actor.PasswordHash = passwordHash
	actor.UpdatedAt = r.clock()
	r.byID[id] = actor
	return nil
}
