// internal/app/features/members/routes.go
package members

import (
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the membership editor under the path where the caller mounts it.
// Typically: r.Mount("/members", members.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/{userID}/modal", h.ServeModal)

		// HTMX: each call re-renders the editor body.
		pr.Post("/{view}/add", h.HandleAdd)
		pr.Post("/{view}/groups/{gid}/remove", h.HandleRemove)
		pr.Post("/{view}/groups/{gid}/role", h.HandleRole)
		pr.Post("/{view}/close", h.HandleClose)
	})

	return r
}
