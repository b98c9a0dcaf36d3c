package domain

import "testing"

func TestDefaultGrants(t *testing.T) {
	grants := DefaultGrants()

	adminPerms := []Permission{PermissionRead, PermissionWrite, PermissionDelete, PermissionManageUsers}
	for _, p := range adminPerms {
		if !grants.Allows(RoleAdmin, p) {
			t.Fatalf("admin should hold %q", p)
		}
	}

	if !grants.Allows(RoleUser, PermissionRead) {
		t.Fatalf("user should hold read")
	}
	for _, p := range []Permission{PermissionWrite, PermissionDelete, PermissionManageUsers} {
		if grants.Allows(RoleUser, p) {
			t.Fatalf("user should not hold %q", p)
		}
	}
}

func TestGrants_UnknownRole(t *testing.T) {
	grants := DefaultGrants()
	if grants.Allows("auditor", PermissionRead) {
		t.Fatalf("unknown role should hold nothing")
	}
	if grants.Allows("", PermissionRead) {
		t.Fatalf("empty role should hold nothing")
	}
}

func TestNewGrants_WriteDoesNotImplyRead(t *testing.T) {
	grants := NewGrants(map[string][]Permission{
		"writer": {PermissionWrite},
	})
	if !grants.Allows("writer", PermissionWrite) {
		t.Fatalf("writer should hold write")
	}
	if grants.Allows("writer", PermissionRead) {
		t.Fatalf("write must not imply read")
	}
}
