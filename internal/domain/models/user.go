// internal/domain/models/user.go
package models

import "time"

// User is a sync server account as returned by the admin users endpoint.
// IDs are assigned by the sync server and are plain integers.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
