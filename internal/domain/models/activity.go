// internal/domain/models/activity.go
package models

import "time"

// Action is the kind of file operation an ActivityEntry records.
type Action string

const (
	ActionCreate  Action = "create"
	ActionModify  Action = "modify"
	ActionDelete  Action = "delete"
	ActionVersion Action = "version"
)

// ActivityEntry is one row of the sync server's activity log.
// Entries arrive newest first and that order is kept as-is.
type ActivityEntry struct {
	ID           int64     `json:"id"`
	UserID       int       `json:"user_id,omitempty"`
	Username     string    `json:"username"`
	Action       Action    `json:"action"`
	ResourcePath string    `json:"resource_path"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
