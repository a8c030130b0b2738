// internal/app/features/activity/feed.go
package activity

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/syncadmin/internal/app/system/feed"
	"github.com/dalemusser/syncadmin/internal/app/system/operator"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/timeouts"
	"github.com/dalemusser/syncadmin/internal/app/system/viewdata"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type activityPager = feed.Pager[models.ActivityEntry]

const msgExpired = "This view has expired. Reload the page to continue."

// ServeActivity handles GET /activity: it mounts a fresh feed view, loads
// the first page and renders the whole page.
func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	client, u, ok := operator.Client(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login?return=/activity")
		return
	}

	p := feed.NewActivityPager(client, feed.WithLimit(h.PageSize), feed.WithLogger(h.Log))
	viewID := h.Views.Mount(u.ID, p)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "activity first page")
	defer cancel()

	if err := p.LoadNext(ctx); err != nil && syncapi.StatusOf(err) == http.StatusUnauthorized {
		h.Views.Unmount(u.ID, viewID)
		h.ErrLog.LogUpstream(w, r, "list_activity", err, "/activity")
		return
	}

	templates.Render(w, r, "activity", pageData{
		BaseVM: viewdata.NewBaseVM(r, "Activity", "/activity"),
		Feed:   buildFeedData(viewID, p.Snapshot(), h.now()),
	})
}

// ServeMore handles POST /activity/{view}/more and re-renders the feed
// region with the next page appended and regrouped.
func (h *Handler) ServeMore(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	viewID := chi.URLParam(r, "view")

	p, ok := h.lookup(u, viewID)
	if !ok {
		h.expired(w, r)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "activity next page")
	defer cancel()

	err := p.LoadNext(ctx)
	switch {
	case errors.Is(err, feed.ErrUnmounted):
		h.expired(w, r)
		return
	case err != nil && syncapi.StatusOf(err) == http.StatusUnauthorized:
		h.ErrLog.LogUpstream(w, r, "list_activity", err, "/activity")
		return
	}

	templates.RenderSnippet(w, "activity_feed", buildFeedData(viewID, p.Snapshot(), h.now()))
}

// ServeClose handles POST /activity/{view}/close.
func (h *Handler) ServeClose(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if u != nil && h.Views.Unmount(u.ID, chi.URLParam(r, "view")) {
		h.Log.Debug("activity view closed", zap.Int("user_id", u.ID))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lookup(u *auth.SessionUser, viewID string) (*activityPager, bool) {
	if u == nil {
		return nil, false
	}
	return views.Lookup[*activityPager](h.Views, u.ID, viewID)
}

func (h *Handler) expired(w http.ResponseWriter, r *http.Request) {
	uierrors.HTMXError(w, r, http.StatusGone, msgExpired, func() {
		uierrors.RenderStatus(w, r, http.StatusGone, msgExpired, "/activity")
	})
}
