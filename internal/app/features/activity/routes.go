// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the activity feed.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeActivity)

		// HTMX: the feed region is re-rendered in full after each page.
		pr.Post("/{view}/more", h.ServeMore)
		pr.Post("/{view}/close", h.ServeClose)
	})

	return r
}
