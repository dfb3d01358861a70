package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/approval"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

const submissionComment = "submitted"

// LeaveService coordinates leave request workflows.
type LeaveService struct {
	requests repository.LeaveRequestRepository
	history  repository.LeaveHistoryRepository
	calendar repository.CalendarEventRepository
	metrics  *observability.Metrics
	logger   *zap.Logger
	events   publisher
	now      func() time.Time
}

// LeaveDependencies bundles repositories for the leave service.
type LeaveDependencies struct {
	LeaveRepo    repository.LeaveRequestRepository
	HistoryRepo  repository.LeaveHistoryRepository
	CalendarRepo repository.CalendarEventRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

// CreateLeaveInput describes a leave submission.
type CreateLeaveInput struct {
	Category      string
	StartDate     time.Time
	EndDate       time.Time
	Justification string
}

// CreateLeaveResult pairs the persisted request with the detector verdict.
type CreateLeaveResult struct {
	Request  *domain.LeaveRequest
	Decision approval.Decision
}

// ListLeaveInput carries the optional listing filters.
type ListLeaveInput struct {
	Statuses    []domain.LeaveStatus
	RequesterID *string
	Limit       int
	Offset      int
}

// NewLeaveService constructs the service.
func NewLeaveService(deps LeaveDependencies) *LeaveService {
	now := defaultClock(deps.Now)
	logger := defaultLogger(deps.Logger)
	return &LeaveService{
		requests: deps.LeaveRepo,
		history:  deps.HistoryRepo,
		calendar: deps.CalendarRepo,
		metrics:  deps.Metrics,
		logger:   logger,
		events:   publisher{dispatcher: deps.Dispatcher, logger: logger, now: now},
		now:      now,
	}
}

// Create validates a submission, runs conflict detection once and persists the
// request in its initial status.
func (s *LeaveService) Create(ctx context.Context, actor *domain.Actor, input CreateLeaveInput) (*CreateLeaveResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if actor.Role != domain.RoleRequester {
		return nil, apperrors.NewForbidden("only requesters can submit leave requests")
	}

	category, ok := domain.ParseLeaveCategory(input.Category)
	if !ok {
		return nil, apperrors.NewFieldError("category", "category must be one of medical, casual, emergency, other")
	}
	justification := strings.TrimSpace(input.Justification)
	if justification == "" {
		return nil, apperrors.NewFieldError("justification", "justification is required")
	}
	if input.StartDate.IsZero() {
		return nil, apperrors.NewFieldError("start_date", "start date is required")
	}
	if input.EndDate.IsZero() {
		return nil, apperrors.NewFieldError("end_date", "end date is required")
	}
	period := approval.NewDateRange(input.StartDate, input.EndDate)
	if !period.StrictlyOrdered() {
		return nil, apperrors.NewFieldError("end_date", "end date must be after start date")
	}

	restricted, err := s.calendar.ListRestricted(ctx)
	if err != nil {
		s.logger.Error("load restricted events", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	decision := approval.Detect(period, category, restricted)

	now := s.now()
	req := &domain.LeaveRequest{
		RequesterID:   actor.ID,
		Category:      category,
		StartDate:     period.Start,
		EndDate:       period.End,
		Justification: justification,
		Status:        decision.InitialStatus(),
		Requester: &domain.RequesterInfo{
			FullName:   actor.FullName,
			Email:      actor.Email,
			Department: actor.Department,
			Section:    actor.Section,
		},
	}

	history := &domain.LeaveHistory{ToStatus: req.Status}
	if decision.AutoRejected() {
		req.FirstReview = approval.AutoRejection(decision, now)
		history.Comment = *req.FirstReview.Comment
	} else {
		req.Justification = decision.Justification(justification)
		actorID := actor.ID
		history.ActorID = &actorID
		history.Comment = submissionComment
	}

	if err := s.requests.Create(ctx, req, history); err != nil {
		s.logger.Error("persist leave request", zap.String("requester_id", actor.ID), zap.Error(err))
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordDecision(string(decision.Kind), decision.HasAdvisory())

	if decision.AutoRejected() {
		s.events.publish(ctx, events.Event{
			Type:        events.EventLeaveRequestAutoRejected,
			AggregateID: req.ID,
			Actor:       systemActor(),
			Payload: events.LeaveRequestAutoRejectedPayload{
				RequesterID:    actor.ID,
				Category:       category,
				BlockingEvents: titles(decision.Events),
				Comment:        *req.FirstReview.Comment,
			},
		})
	} else {
		s.events.publish(ctx, events.Event{
			Type:        events.EventLeaveRequestSubmitted,
			AggregateID: req.ID,
			Actor:       actorRef(actor),
			Payload: events.LeaveRequestSubmittedPayload{
				RequesterID: actor.ID,
				Category:    category,
				StartDate:   req.StartDate,
				EndDate:     req.EndDate,
				Advisory:    titles(decision.Events),
			},
		})
	}

	return &CreateLeaveResult{Request: req, Decision: decision}, nil
}

// Review applies a reviewer decision through the state machine. The write is a
// compare-and-set on the status that was read, so of two concurrent reviews
// exactly one succeeds and the other gets a state error.
func (s *LeaveService) Review(ctx context.Context, actor *domain.Actor, id string, approve bool, comment string) (*domain.LeaveRequest, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if _, _, err := approval.ReviewStage(actor.Role); err != nil {
		return nil, err
	}

	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	action := approval.ActionFor(approve)
	transition, err := approval.Resolve(actor.Role, req.Status, action)
	if err != nil {
		return nil, err
	}
	trimmed, err := approval.ValidateComment(comment)
	if err != nil {
		return nil, err
	}

	update := transition.Stamp(actor.ID, trimmed, s.now())
	if err := s.requests.ApplyReview(ctx, id, update); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, s.staleReview(ctx, id, action, transition.From)
		}
		s.logger.Error("apply review", zap.String("leave_request_id", id), zap.Error(err))
		return nil, apperrors.MapError(err)
	}

	update.Apply(req)
	req.UpdatedAt = s.now()
	s.metrics.RecordReview(string(transition.From), string(transition.To))
	s.events.publish(ctx, events.Event{
		Type:        events.EventLeaveRequestReviewed,
		AggregateID: req.ID,
		Actor:       actorRef(actor),
		Payload: events.LeaveRequestReviewedPayload{
			RequesterID: req.RequesterID,
			OldStatus:   transition.From,
			NewStatus:   transition.To,
			Comment:     trimmed,
		},
	})
	return req, nil
}

// List returns the requests visible to actor.
func (s *LeaveService) List(ctx context.Context, actor *domain.Actor, input ListLeaveInput) ([]domain.LeaveRequest, error) {
	filter, err := leaveScope(actor, input)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListWithFilter(ctx, filter, input.Limit, input.Offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

// leaveScope resolves the visibility filter and rejects a requester_id
// override that cannot name an actor.
func leaveScope(actor *domain.Actor, input ListLeaveInput) (approval.LeaveFilter, error) {
	filter, err := approval.LeaveScope(actor, input.Statuses, input.RequesterID)
	if err != nil {
		return approval.LeaveFilter{}, err
	}
	if actor.Role.IsReviewer() && filter.RequesterID != nil {
		if _, err := uuid.Parse(*filter.RequesterID); err != nil {
			return approval.LeaveFilter{}, apperrors.NewFieldError("requester_id", "requester_id must be a valid id")
		}
	}
	return filter, nil
}

// Get returns a single request. Requesters only see their own requests;
// anything else reads as not found.
func (s *LeaveService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.LeaveRequest, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if actor.Role != domain.RoleRequester && !actor.Role.IsReviewer() {
		return nil, apperrors.NewForbidden("unknown role")
	}
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleRequester && req.RequesterID != actor.ID {
		return nil, apperrors.NewNotFound("leave request", map[string]any{"id": id})
	}
	return req, nil
}

// History returns the audit trail of a request the actor may read.
func (s *LeaveService) History(ctx context.Context, actor *domain.Actor, id string) ([]domain.LeaveHistory, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByRequest(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *LeaveService) load(ctx context.Context, id string) (*domain.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("leave request", map[string]any{"id": id})
	}
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("leave request", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

func (s *LeaveService) staleReview(ctx context.Context, id string, action approval.Action, expected domain.LeaveStatus) error {
	fresh, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return apperrors.NewStateError(string(action), string(expected), string(fresh.Status))
}

func titles(list []domain.CalendarEvent) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, event := range list {
		out[i] = event.Title
	}
	return out
}
