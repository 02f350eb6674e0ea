package auth

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleAdmin, PermCommandRun, true},
		{RoleAdmin, PermCommandAdmin, true},
		{RoleAdmin, PermAuditRead, true},
		{RoleUser, PermCommandRun, true},
		{RoleUser, PermCommandAdmin, false},
		{RoleUser, PermAuditRead, false},
		{"nonexistent", PermCommandRun, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.want {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestPermissionsForRole(t *testing.T) {
	perms := PermissionsForRole(RoleAdmin)
	if len(perms) != 3 {
		t.Fatalf("PermissionsForRole(admin) = %v, want 3 permissions", perms)
	}

	// the result must be a copy
	perms[0] = "tampered"
	if !HasPermission(RoleAdmin, PermCommandRun) {
		t.Error("modifying the returned slice changed the role mapping")
	}

	if PermissionsForRole("unknown") != nil {
		t.Error("PermissionsForRole(unknown) should be nil")
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleUser, true},
		{RoleAdmin, true},
		{"owner", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidRole(tt.role); got != tt.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}
