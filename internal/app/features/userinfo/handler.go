// internal/app/features/userinfo/handler.go
package userinfo

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/auth"
)

// Handler reports the signed-in operator to scripts running in the console.
type Handler struct {
	now func() time.Time
}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{now: time.Now}
}

type response struct {
	SignedIn  bool       `json:"signed_in"`
	ID        int        `json:"id,omitempty"`
	Username  string     `json:"username,omitempty"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired,omitempty"`
}

// ServeUserInfo returns JSON with the operator's identity and when their
// sync server token runs out. The token itself is never included.
//
//	{ "signed_in": true, "id": 1, "username": "root", "role": "admin", "expires_at": "..." }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	out := response{}
	if user, ok := auth.CurrentUser(r); ok {
		out = response{
			SignedIn: true,
			ID:       user.ID,
			Username: user.Name,
			Role:     user.Role,
		}
		if !user.ExpiresAt.IsZero() {
			exp := user.ExpiresAt.UTC()
			out.ExpiresAt = &exp
			out.Expired = h.now().After(exp)
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}
