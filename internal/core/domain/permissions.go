package domain

// Permission is an atomic capability a role may grant.
type Permission string

const (
	PermissionRead        Permission = "read"
	PermissionWrite       Permission = "write"
	PermissionDelete      Permission = "delete"
	PermissionManageUsers Permission = "manage_users"
)

// Grants maps a role to the set of permissions it carries. It is built once at
// startup and never mutated afterwards; there is no implication between
// permissions (write does not grant read).
type Grants map[string]map[Permission]struct{}

// NewGrants builds an immutable role table from per-role permission lists.
func NewGrants(table map[string][]Permission) Grants {
	g := make(Grants, len(table))
	for role, perms := range table {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		g[role] = set
	}
	return g
}

// DefaultGrants returns the role table used by the monitoring API:
// administrators hold every permission, regular users can only read.
func DefaultGrants() Grants {
	return NewGrants(map[string][]Permission{
		RoleAdmin: {PermissionRead, PermissionWrite, PermissionDelete, PermissionManageUsers},
		RoleUser:  {PermissionRead},
	})
}

// Allows reports whether role holds permission. Unknown roles resolve to the
// empty permission set, so the check fails closed.
func (g Grants) Allows(role string, permission Permission) bool {
	_, ok := g[role][permission]
	return ok
}
