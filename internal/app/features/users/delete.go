// internal/app/features/users/delete.go
package users

import (
	"fmt"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/formutil"
	"github.com/dalemusser/syncadmin/internal/app/system/operator"
	"github.com/dalemusser/syncadmin/internal/app/system/timeouts"
	"github.com/dalemusser/syncadmin/internal/app/system/toast"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type deleteForm struct {
	Username  string `form:"username" validate:"max=150"`
	Confirmed bool   `form:"confirmed"`
}

// HandleDelete handles POST /users/{id}/delete. The browser asks for
// confirmation first and sends confirmed=true; anything else is refused.
// The row is removed from the table by swapping in an empty response.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	client, u, ok := operator.Client(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login?return=/users")
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		uierrors.HTMXBadRequest(w, r, "Invalid user ID.", "/users")
		return
	}
	var in deleteForm
	if err := formutil.Decode(r, &in); err != nil {
		h.ErrLog.HTMXLogBadRequest(w, r, "parse delete form failed", err, formutil.Message(err), "/users")
		return
	}
	if !in.Confirmed {
		uierrors.HTMXBadRequest(w, r, "Deleting a user must be confirmed.", "/users")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete user")
	defer cancel()

	err = client.DeleteUser(ctx, id)
	h.AuditLog.UserDeleted(ctx, r, operator.Actor(u), id, in.Username, err)
	if err != nil {
		h.ErrLog.LogUpstream(w, r, "delete_user", err, "/users")
		return
	}
	h.Log.Info("user deleted", zap.Int("user_id", id), zap.Int("actor_id", u.ID))

	name := in.Username
	if name == "" {
		name = "#" + strconv.Itoa(id)
	}
	if r.Header.Get("HX-Request") == "" {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	tc := toast.New()
	tc.Success(fmt.Sprintf("Deleted user %s.", name))
	tc.Write(w)
	w.WriteHeader(http.StatusOK)
}
