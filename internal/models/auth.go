package models

import "github.com/golang-jwt/jwt/v5"

// UserRole mirrors the upstream role enum (lowercase on the wire).
type UserRole string

const (
	RoleSuperAdmin UserRole = "superadmin"
	RoleAdmin      UserRole = "admin"
	RoleTeacher    UserRole = "teacher"
	RoleStudent    UserRole = "student"
)

// Claims is the access-token payload. Upstream tokens carry only the
// subject and expiry; role and email appear only when a richer issuer is
// in front of the platform, so all three are optional.
type Claims struct {
	Role     UserRole `json:"role,omitempty"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller as seen by handlers and the audit
// trail.
type Identity struct {
	Subject  string   `json:"subject"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	Role     UserRole `json:"role,omitempty"`
}

// Identity converts claims into the handler-facing view.
func (c *Claims) Identity() Identity {
	return Identity{
		Subject:  c.Subject,
		Email:    c.Email,
		FullName: c.FullName,
		Role:     c.Role,
	}
}
