package dto

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// SignUpRequest payload.
type SignUpRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Section    string `json:"section"`
}

// SignInRequest payload.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateSectionRequest payload.
type UpdateSectionRequest struct {
	Section string `json:"section"`
}

// AuthResponse returned on sign up and sign in.
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      ActorResponse `json:"user"`
}

// ActorResponse is the public view of an actor.
type ActorResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	FullName   string      `json:"full_name"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department"`
	Section    string      `json:"section"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewActorResponse maps a domain actor.
func NewActorResponse(actor *domain.Actor) ActorResponse {
	return ActorResponse{
		ID:         actor.ID,
		Email:      actor.Email,
		FullName:   actor.FullName,
		Role:       actor.Role,
		Department: actor.Department,
		Section:    actor.Section,
		CreatedAt:  actor.CreatedAt,
		UpdatedAt:  actor.UpdatedAt,
	}
}
