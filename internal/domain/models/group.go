// internal/domain/models/group.go
package models

import "time"

// Group is one entry of the sync server's group catalog.
//
// NOTE:
//   - Only ID and Name are needed by the console. The remaining fields are
//     decoded when the server sends them and otherwise left zero.
type Group struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *int      `json:"parent_id,omitempty"`
	MemberCount int       `json:"member_count,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
