package domain

import (
	"strings"
	"time"
)

// Role enumerates the fixed set of actor roles.
type Role string

const (
	RoleRequester         Role = "requester"
	RoleFirstLineReviewer Role = "first_line_reviewer"
	RoleFinalReviewer     Role = "final_reviewer"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleRequester, RoleFirstLineReviewer, RoleFinalReviewer}

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	switch role {
	case RoleRequester, RoleFirstLineReviewer, RoleFinalReviewer:
		return role, true
	default:
		return "", false
	}
}

// IsReviewer reports whether the role takes part in approvals.
func (r Role) IsReviewer() bool {
	return r == RoleFirstLineReviewer || r == RoleFinalReviewer
}

// Actor is an authenticated identity acting on the system.
type Actor struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Department   string
	Section      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
