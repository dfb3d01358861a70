package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/leave-service/internal/approval"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
)

// LeaveRequests is an in-memory store for leave requests and their history.
// ApplyReview is a compare-and-set on status under a single mutex, matching
// the conditional UPDATE of the Postgres repository.
type LeaveRequests struct {
	mu       sync.Mutex
	requests map[string]domain.LeaveRequest
	order    []string
	history  map[string][]domain.LeaveHistory
	actors   *Actors
	clock    func() time.Time
}

var (
	_ repository.LeaveRequestRepository = (*LeaveRequests)(nil)
	_ repository.LeaveHistoryRepository = (*LeaveRequests)(nil)
)

// NewLeaveRequests builds an empty store. actors, when set, supplies the
// joined requester summary on reads.
func NewLeaveRequests(actors *Actors, clock func() time.Time) *LeaveRequests {
	if clock == nil {
		clock = time.Now
	}
	return &LeaveRequests{
		requests: make(map[string]domain.LeaveRequest),
		history:  make(map[string][]domain.LeaveHistory),
		actors:   actors,
		clock:    clock,
	}
}

// Seed stores req directly, bypassing submission, and returns it.
func (r *LeaveRequests) Seed(req domain.LeaveRequest) *domain.LeaveRequest {
	if req.ID == "" {
		req.ID = newID()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		r.order = append(r.order, req.ID)
	}
	r.requests[req.ID] = req
	return &req
}

func (r *LeaveRequests) Create(_ context.Context, req *domain.LeaveRequest, history *domain.LeaveHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock()
	req.ID = newID()
	req.CreatedAt = now
	req.UpdatedAt = now
	r.requests[req.ID] = *req
	r.order = append(r.order, req.ID)
	if history != nil {
		history.LeaveRequestID = req.ID
		r.appendHistory(history, now)
	}
	return nil
}

func (r *LeaveRequests) GetByID(_ context.Context, id string) (*domain.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.join(&req)
	return &req, nil
}

// ListWithFilter returns matches newest first.
func (r *LeaveRequests) ListWithFilter(_ context.Context, filter approval.LeaveFilter, limit, offset int) ([]domain.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var matched []domain.LeaveRequest
	for i := len(r.order) - 1; i >= 0; i-- {
		req := r.requests[r.order[i]]
		if filter.Matches(req) {
			r.join(&req)
			matched = append(matched, req)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *LeaveRequests) ApplyReview(_ context.Context, id string, update approval.ReviewUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != update.From {
		return repository.ErrStatusChanged
	}
	update.Apply(&req)
	now := r.clock()
	req.UpdatedAt = now
	r.requests[id] = req

	from := update.From
	entry := &domain.LeaveHistory{
		LeaveRequestID: id,
		ActorID:        update.Review.ReviewerID,
		FromStatus:     &from,
		ToStatus:       update.To,
	}
	if update.Review.Comment != nil {
		entry.Comment = *update.Review.Comment
	}
	r.appendHistory(entry, now)
	return nil
}

// ListByRequest returns history entries oldest first.
func (r *LeaveRequests) ListByRequest(_ context.Context, leaveRequestID string) ([]domain.LeaveHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LeaveHistory(nil), r.history[leaveRequestID]...), nil
}

func (r *LeaveRequests) appendHistory(entry *domain.LeaveHistory, now time.Time) {
	entry.ID = newID()
	entry.CreatedAt = now
	r.history[entry.LeaveRequestID] = append(r.history[entry.LeaveRequestID], *entry)
}

func (r *LeaveRequests) join(req *domain.LeaveRequest) {
	if r.actors == nil {
		return
	}
	actor, err := r.actors.GetByID(context.Background(), req.RequesterID)
	if err != nil {
		return
	}
	req.Requester = &domain.RequesterInfo{
		FullName:   actor.FullName,
		Email:      actor.Email,
		Department: actor.Department,
		Section:    actor.Section,
	}
}
