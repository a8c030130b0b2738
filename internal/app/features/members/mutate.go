// internal/app/features/members/mutate.go
package members

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/syncadmin/internal/app/system/formutil"
	"github.com/dalemusser/syncadmin/internal/app/system/membership"
	"github.com/dalemusser/syncadmin/internal/app/system/operator"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/toast"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type addForm struct {
	GroupID int    `form:"group_id" validate:"required,gt=0"`
	Role    string `form:"role" validate:"required,oneof=viewer editor admin"`
}

type roleForm struct {
	Role string `form:"role" validate:"required,oneof=viewer editor admin"`
}

type removeForm struct {
	Confirmed bool `form:"confirmed"`
}

// declineAll turns a removal that was not confirmed into a no-op.
var declineAll = membership.ConfirmFunc(func(context.Context, string) bool { return false })

// HandleAdd handles POST /members/{view}/add.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ed, viewID, ok := h.lookup(r)
	if !ok {
		h.expired(w, r)
		return
	}
	var in addForm
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.HTMXLogBadRequest(w, r, "parse add member form failed", err, formutil.Message(err), "/users")
		return
	}

	tc := toast.New()
	ctx, cancel := h.callContext(r, tc, "add member")
	defer cancel()

	role := models.Role(in.Role)
	err := ed.Add(ctx, in.GroupID, role)
	if reachedServer(err) {
		h.AuditLog.MemberAdded(ctx, r, actor(r), ed.UserID(), in.GroupID, in.Role, err)
	}
	h.respond(w, r, tc, ed, viewID, "add", in.GroupID, err)
}

// HandleRemove handles POST /members/{view}/groups/{gid}/remove. The browser
// confirms before posting confirmed=true; without it nothing is sent.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ed, viewID, ok := h.lookup(r)
	if !ok {
		h.expired(w, r)
		return
	}
	gid, ok := groupID(r)
	if !ok {
		h.badGroup(w, r)
		return
	}
	var in removeForm
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.HTMXLogBadRequest(w, r, "parse remove member form failed", err, formutil.Message(err), "/users")
		return
	}

	tc := toast.New()
	ctx, cancel := h.callContext(r, tc, "remove member")
	defer cancel()

	if in.Confirmed {
		ctx = membership.WithCallConfirmer(ctx, membership.AlwaysConfirm)
	} else {
		ctx = membership.WithCallConfirmer(ctx, declineAll)
	}
	err := ed.Remove(ctx, gid)
	if in.Confirmed && reachedServer(err) {
		h.AuditLog.MemberRemoved(ctx, r, actor(r), ed.UserID(), gid, err)
	}
	h.respond(w, r, tc, ed, viewID, "remove", gid, err)
}

// HandleRole handles POST /members/{view}/groups/{gid}/role.
func (h *Handler) HandleRole(w http.ResponseWriter, r *http.Request) {
	ed, viewID, ok := h.lookup(r)
	if !ok {
		h.expired(w, r)
		return
	}
	gid, ok := groupID(r)
	if !ok {
		h.badGroup(w, r)
		return
	}
	var in roleForm
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.HTMXLogBadRequest(w, r, "parse role form failed", err, formutil.Message(err), "/users")
		return
	}

	tc := toast.New()
	ctx, cancel := h.callContext(r, tc, "change member role")
	defer cancel()

	err := ed.ChangeRole(ctx, gid, models.Role(in.Role))
	if reachedServer(err) {
		h.AuditLog.MemberRoleChanged(ctx, r, actor(r), ed.UserID(), gid, in.Role, err)
	}
	h.respond(w, r, tc, ed, viewID, "change_role", gid, err)
}

// respond re-renders the editor body. Failures the operator can act on
// are already in tc as toasts; only a closed editor or a rejected token
// change the response.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, tc *toast.Collector, ed *membership.Editor, viewID, op string, gid int, err error) {
	switch {
	case errors.Is(err, membership.ErrClosed):
		h.expired(w, r)
		return
	case syncapi.StatusOf(err) == http.StatusUnauthorized:
		h.ErrLog.LogUpstream(w, r, op, err, "/users")
		return
	case err != nil:
		h.Log.Info("membership change not applied", append(logFields(op, ed, gid), zap.Error(err))...)
	}
	tc.Write(w)
	templates.RenderSnippet(w, "members_editor", buildEditorData(viewID, ed.Snapshot()))
}

func (h *Handler) badGroup(w http.ResponseWriter, r *http.Request) {
	h.ErrLog.HTMXLogBadRequest(w, r, "invalid group id", errors.New(chi.URLParam(r, "gid")), "Invalid group ID.", "/users")
}

func groupID(r *http.Request) (int, bool) {
	gid, err := strconv.Atoi(chi.URLParam(r, "gid"))
	return gid, err == nil && gid > 0
}

// reachedServer reports whether err came from (or after) a request to
// the sync server, as opposed to a check the editor made locally.
func reachedServer(err error) bool {
	return err == nil || syncapi.IsNetwork(err) || syncapi.StatusOf(err) != 0
}

func actor(r *http.Request) auditlog.Actor {
	u, _ := auth.CurrentUser(r)
	return operator.Actor(u)
}
