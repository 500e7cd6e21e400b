package domain

import "time"

// AdminUsername receives notifications for comments left by employees.
const AdminUsername = "admin"

// Session is the locally established identity after a successful login.
// ExpiresAt is the absolute cap taken from the issuer's token.
type Session struct {
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Principal is the caller of a gated operation.
type Principal struct {
	Username string
	Role     Role
}

// Authenticated reports whether the principal carries an identity at all.
func (p Principal) Authenticated() bool {
	return p.Username != "" && p.Role != ""
}

// IsAdmin reports whether the principal holds the Admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
