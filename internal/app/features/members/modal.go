// internal/app/features/members/modal.go
package members

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/syncadmin/internal/app/system/membership"
	"github.com/dalemusser/syncadmin/internal/app/system/operator"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/timeouts"
	"github.com/dalemusser/syncadmin/internal/app/system/toast"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BadgeRefreshEvent is the client event raised after a membership write;
// user table badges listening for their user id reload themselves.
const BadgeRefreshEvent = "badgeRefresh"

const msgExpired = "This editor has expired. Close it and open it again."

// ServeModal handles GET /members/{userID}/modal: it mounts an editor for
// the user, loads it and renders the modal.
func (h *Handler) ServeModal(w http.ResponseWriter, r *http.Request) {
	client, u, ok := operator.Client(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login?return=/users")
		return
	}
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID <= 0 {
		uierrors.HTMXBadRequest(w, r, "Invalid user ID.", "/users")
		return
	}

	ed := membership.NewEditor(client, userID,
		membership.WithSequencer(h.Seq),
		membership.WithBadgeRefresh(raiseBadgeRefresh),
		membership.WithLogger(h.Log),
	)
	viewID := h.Views.Mount(u.ID, ed)

	tc := toast.New()
	ctx, cancel := h.callContext(r, tc, "open membership editor")
	defer cancel()

	if err := ed.Open(ctx); err != nil && syncapi.StatusOf(err) == http.StatusUnauthorized {
		h.Views.Unmount(u.ID, viewID)
		h.ErrLog.LogUpstream(w, r, "open_editor", err, "/users")
		return
	}

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		username = "user #" + strconv.Itoa(userID)
	}
	tc.Write(w)
	templates.RenderSnippet(w, "members_modal", modalData{
		Username: username,
		Editor:   buildEditorData(viewID, ed.Snapshot()),
	})
}

// HandleClose handles POST /members/{view}/close.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.Views.Unmount(u.ID, chi.URLParam(r, "view"))
	}
	tc := toast.New()
	tc.Trigger("closeModal", true)
	tc.Write(w)
	w.WriteHeader(http.StatusOK)
}

// callContext bounds one editor call and routes its toasts and badge
// refresh events to tc.
func (h *Handler) callContext(r *http.Request, tc *toast.Collector, op string) (context.Context, context.CancelFunc) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, op)
	ctx = membership.WithCallNotifier(ctx, tc)
	ctx = toast.NewContext(ctx, tc)
	return ctx, cancel
}

func (h *Handler) lookup(r *http.Request) (*membership.Editor, string, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return nil, "", false
	}
	viewID := chi.URLParam(r, "view")
	ed, ok := views.Lookup[*membership.Editor](h.Views, u.ID, viewID)
	return ed, viewID, ok
}

func (h *Handler) expired(w http.ResponseWriter, r *http.Request) {
	uierrors.HTMXError(w, r, http.StatusGone, msgExpired, func() {
		uierrors.RenderStatus(w, r, http.StatusGone, msgExpired, "/users")
	})
}

func raiseBadgeRefresh(ctx context.Context, userID int) {
	if tc, ok := toast.FromContext(ctx); ok {
		tc.Trigger(BadgeRefreshEvent, map[string]int{"userID": userID})
	}
}

func logFields(op string, ed *membership.Editor, groupID int) []zap.Field {
	return []zap.Field{zap.String("op", op), zap.Int("user_id", ed.UserID()), zap.Int("group_id", groupID)}
}
