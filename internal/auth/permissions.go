package auth

import "slices"

// Permission represents a named capability.
type Permission string

// Permission constants.
const (
	PermCommandRun   Permission = "command:run"
	PermCommandAdmin Permission = "command:admin"
	PermAuditRead    Permission = "audit:read"
)

// rolePermissions maps each role to its granted permissions.
var rolePermissions = map[Role][]Permission{
	RoleUser: {
		PermCommandRun,
	},
	RoleAdmin: {
		PermCommandRun,
		PermCommandAdmin,
		PermAuditRead,
	},
}

// HasPermission returns true if the given role has the specified permission.
func HasPermission(role Role, perm Permission) bool {
	return slices.Contains(rolePermissions[role], perm)
}

// PermissionsForRole returns all permissions granted to a role, or nil for
// an unknown role.
func PermissionsForRole(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}
