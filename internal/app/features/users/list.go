// internal/app/features/users/list.go
package users

import (
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/badges"
	"github.com/dalemusser/syncadmin/internal/app/system/operator"
	"github.com/dalemusser/syncadmin/internal/app/system/search"
	"github.com/dalemusser/syncadmin/internal/app/system/timeouts"
	"github.com/dalemusser/syncadmin/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// ServeList handles GET /users. The filter is applied to the fetched list;
// an HTMX request targeting the table gets only the table back.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	client, u, ok := operator.Client(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login?return=/users")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	all, err := client.ListUsers(ctx)
	if err != nil {
		h.ErrLog.LogUpstream(w, r, "list_users", err, "/activity")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	table := buildTable(all, search.FilterUsers(all, q), q, u.ID)

	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "users-table-wrap" {
		templates.RenderSnippet(w, "users_table", table)
		return
	}
	templates.Render(w, r, "users_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Users", "/users"),
		Table:  table,
	})
}

// ServeBadge handles GET /users/{id}/badge. Every row asks for its own
// badge, so a slow or failing row never holds back the others.
func (h *Handler) ServeBadge(w http.ResponseWriter, r *http.Request) {
	client, _, ok := operator.Client(r, h.API)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		uierrors.HTMXBadRequest(w, r, "Invalid user ID.", "/users")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load badge")
	defer cancel()

	b := badges.NewLoader(client, 1, h.Log).One(ctx, id)
	templates.RenderSnippet(w, "users_badge", badgeData{
		UserID: b.UserID,
		Label:  b.Label(),
		Failed: b.Err != nil,
	})
}
