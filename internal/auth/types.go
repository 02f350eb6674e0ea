package auth

import "errors"

// Role is the authorisation tier carried in a token.
type Role string

const (
	// RoleUser may run every command that is not admin only.
	RoleUser Role = "user"

	// RoleAdmin may additionally run admin-only commands and read the
	// audit log.
	RoleAdmin Role = "admin"
)

// ValidRoles lists the roles a token may carry.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// IsValidRole reports whether r is one of ValidRoles.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Principal is the identity a token is issued for.
type Principal struct {
	Subject string `json:"subject"`
	Role    Role   `json:"role"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginDisabled      = errors.New("login is disabled: no admin password hash configured")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidAdminHash   = errors.New("invalid admin password hash")
)
