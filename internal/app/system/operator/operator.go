// Package operator ties the signed-in console operator to the sync API.
package operator

import (
	"net/http"

	"github.com/dalemusser/syncadmin/internal/app/system/auditlog"
	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
)

// Client returns base authorized with the signed-in operator's token.
// ok is false when no operator is signed in.
func Client(r *http.Request, base *syncapi.Client) (*syncapi.Client, *auth.SessionUser, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.Token == "" {
		return nil, nil, false
	}
	return base.WithToken(u.Token), u, true
}

// Actor is the audit identity of u.
func Actor(u *auth.SessionUser) auditlog.Actor {
	if u == nil {
		return auditlog.Actor{}
	}
	return auditlog.Actor{ID: u.ID, Name: u.Name}
}
