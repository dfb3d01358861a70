package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util/errorutil"
)

// TokenRevoker blacklists token ids until they would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// SignUpInput carries self-registration fields.
type SignUpInput struct {
	Email      string
	Password   string
	FullName   string
	Role       string
	Department string
	Section    string
}

// AuthResult is the outcome of a successful sign up or sign in.
type AuthResult struct {
	Actor     *domain.Actor
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	actors              repository.ActorRepository
	revoker             TokenRevoker
	tokenMgr            *auth.TokenManager
	bcryptCost          int
	allowReviewerSignup bool
	now                 func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	ActorRepo repository.ActorRepository
	Revoker   TokenRevoker
	Now       func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		actors:              deps.ActorRepo,
		revoker:             deps.Revoker,
		tokenMgr:            auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:          cfg.Auth.BcryptCost,
		allowReviewerSignup: cfg.Auth.AllowReviewerSignup,
		now:                 now,
	}
}

// SignUp registers a new actor and issues a token.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewFieldError("email", "valid email is required")
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, apperrors.NewFieldError("full_name", "full name is required")
	}
	if err := auth.ValidatePassword("password", input.Password); err != nil {
		return nil, err
	}

	role := domain.RoleRequester
	if strings.TrimSpace(input.Role) != "" {
		parsed, ok := domain.ParseRole(input.Role)
		if !ok {
			return nil, apperrors.NewFieldError("role", "unknown role")
		}
		role = parsed
	}
	if role.IsReviewer() && !s.allowReviewerSignup {
		return nil, apperrors.NewForbidden("reviewer accounts cannot self-register")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	actor := &domain.Actor{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(input.Department),
		Section:      strings.TrimSpace(input.Section),
	}
	if err := s.actors.Create(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
		}
		return nil, apperrors.MapError(err)
	}
	return s.issue(actor)
}

// SignIn authenticates an actor by email and password.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	actor, err := s.actors.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(actor.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(actor)
}

// Profile returns the current actor as stored.
func (s *AuthService) Profile(ctx context.Context, actor *domain.Actor) (*domain.Actor, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	fresh, err := s.actors.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("actor", map[string]any{"id": actor.ID})
		}
		return nil, apperrors.MapError(err)
	}
	return fresh, nil
}

// SignOut revokes the presented token for its remaining lifetime.
func (s *AuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apperrors.NewUnauthorized("token required")
	}
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.Actor, currentPassword, newPassword string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("actor required")
	}
	if err := auth.ValidatePassword("new_password", newPassword); err != nil {
		return err
	}
	stored, err := s.actors.GetByID(ctx, actor.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(stored.PasswordHash, currentPassword); err != nil {
		return apperrors.NewFieldError("current_password", "current password is incorrect")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return apperrors.MapError(s.actors.UpdatePassword(ctx, actor.ID, hash))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(actor *domain.Actor) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(actor.ID, actor.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Actor: actor, Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
