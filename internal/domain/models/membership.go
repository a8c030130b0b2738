// internal/domain/models/membership.go
package models

// Role is a user's role inside one group.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Roles lists every assignable role in the order the UI offers them.
var Roles = []Role{RoleViewer, RoleEditor, RoleAdmin}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// Membership links a user to one group with a role.
// A user has at most one Membership per GroupID.
type Membership struct {
	GroupID   int    `json:"group_id"`
	GroupName string `json:"group_name"`
	Role      Role   `json:"role"`
}

// GroupIDs returns the set of group ids covered by ms.
func GroupIDs(ms []Membership) map[int]struct{} {
	ids := make(map[int]struct{}, len(ms))
	for _, m := range ms {
		ids[m.GroupID] = struct{}{}
	}
	return ids
}
