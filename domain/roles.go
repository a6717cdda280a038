package domain

import "strings"

// Role is one of the closed set of account roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleRoot  Role = "ROOT"
)

// roleRanks is the total order USER < ADMIN < ROOT.
var roleRanks = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
	RoleRoot:  3,
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the numeric rank of the role, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// IsAtLeast checks if this role meets the minimum required level
func (r Role) IsAtLeast(min Role) bool {
	if !r.IsValid() || !min.IsValid() {
		return false
	}
	return r.Rank() >= min.Rank()
}

// CanAssignRole reports whether holders of r may assign roles at all.
func (r Role) CanAssignRole() bool {
	switch r {
	case RoleAdmin, RoleRoot:
		return true
	default:
		return false
	}
}

// AssignableRoles lists roles that can be granted through the API.
func AssignableRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// AllRoles returns every role in hierarchical order
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin, RoleRoot}
}

func (r Role) String() string {
	return string(r)
}
