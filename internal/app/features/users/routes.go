// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user table under the path where the caller mounts it.
// Typically: r.Mount("/users", users.Routes(handler, sm))
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeList)
		pr.Get("/{id}/badge", h.ServeBadge)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
