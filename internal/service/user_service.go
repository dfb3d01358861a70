package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/leave-service/internal/approval"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// UserService exposes role-scoped actor listing and profile edits.
type UserService struct {
	actors repository.ActorRepository
}

// NewUserService constructs the service.
func NewUserService(actors repository.ActorRepository) *UserService {
	return &UserService{actors: actors}
}

// ListActors returns the actors visible to actor, optionally narrowed to role.
func (s *UserService) ListActors(ctx context.Context, actor *domain.Actor, role *domain.Role) ([]domain.Actor, error) {
	filter, err := approval.ActorScope(actor, role)
	if err != nil {
		return nil, err
	}
	actors, err := s.actors.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return actors, nil
}

// UpdateOwnSection changes the section of a first-line reviewer. Later listings
// use the new section; existing leave requests are untouched.
func (s *UserService) UpdateOwnSection(ctx context.Context, actor *domain.Actor, section string) (*domain.Actor, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if actor.Role != domain.RoleFirstLineReviewer {
		return nil, apperrors.NewForbidden("only first-line reviewers can update section")
	}
	trimmed := strings.TrimSpace(section)
	if trimmed == "" {
		return nil, apperrors.NewFieldError("section", "section is required")
	}
	updated, err := s.actors.UpdateSection(ctx, actor.ID, trimmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("actor", map[string]any{"id": actor.ID})
		}
		return nil, apperrors.MapError(err)
	}
	return updated, nil
}
