package domain

// Role scopes what console actions an authenticated actor may perform.
type Role string

const (
	// RoleAdmin manages inventory and every attribution.
	RoleAdmin Role = "admin"
	// RoleAssigner manages attributions but not inventory.
	RoleAssigner Role = "assigner"
	// RoleUser sees only their own assignments.
	RoleUser Role = "user"
)

// Valid reports whether the role is one of the known console roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAssigner, RoleUser:
		return true
	}
	return false
}
