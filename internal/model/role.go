package model

import "time"

// Roles.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// WildcardGroup marks authority over all groups, reserved for admins.
const WildcardGroup = "*"

// RoleAssignment grants a user a role over a set of groups. A user may hold
// several records; authorization merges their group sets.
type RoleAssignment struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	GroupIDs  []string  `json:"group_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is an authenticated caller as seen by the engine: identity,
// role and the groups the caller may act upon.
type Principal struct {
	UserID   string   `json:"user_id"`
	Role     string   `json:"role"`
	GroupIDs []string `json:"group_ids"`
}

// IsAdmin reports whether the principal has unrestricted authority, either
// by role or by holding the wildcard group.
func (p Principal) IsAdmin() bool {
	if p.Role == RoleAdmin {
		return true
	}
	for _, g := range p.GroupIDs {
		if g == WildcardGroup {
			return true
		}
	}
	return false
}

// CanActOn reports whether the principal may act on the given group.
func (p Principal) CanActOn(groupID string) bool {
	if p.IsAdmin() {
		return true
	}
	for _, g := range p.GroupIDs {
		if g == groupID {
			return true
		}
	}
	return false
}
