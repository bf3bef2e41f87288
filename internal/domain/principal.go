package domain

import "time"

// Role is the role claim carried by a credential.
type Role string

// Known roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Requirement is the access level an operation demands of its caller.
type Requirement int

const (
	// RequireAuthenticated permits any verified principal.
	RequireAuthenticated Requirement = iota
	// RequireAdmin permits only principals with RoleAdmin.
	RequireAdmin
)

// String returns a readable name for logs.
func (r Requirement) String() string {
	switch r {
	case RequireAuthenticated:
		return "any-authenticated"
	case RequireAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Principal is the identity derived from a verified credential.
// It lives for a single request and is never persisted.
type Principal struct {
	Subject   string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
