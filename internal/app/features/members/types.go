// internal/app/features/members/types.go
package members

import (
	"github.com/dalemusser/syncadmin/internal/app/system/membership"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/domain/models"
)

type roleOption struct {
	Value    string
	Selected bool
}

type membershipRow struct {
	GroupID   int
	GroupName string
	Role      string
	Roles     []roleOption
}

type groupOption struct {
	ID   int
	Name string
}

// editorData is the body of the modal; it is re-rendered after each call.
type editorData struct {
	ViewID    string
	UserID    int
	Busy      bool
	Rows      []membershipRow
	Available []groupOption
	Roles     []string
	CanAdd    bool
	Empty     bool
	Error     string
}

type modalData struct {
	Username string
	Editor   editorData
}

func roleOptions(selected models.Role) []roleOption {
	out := make([]roleOption, len(models.Roles))
	for i, r := range models.Roles {
		out[i] = roleOption{Value: string(r), Selected: r == selected}
	}
	return out
}

func buildEditorData(viewID string, snap membership.Snapshot) editorData {
	ed := editorData{
		ViewID: viewID,
		UserID: snap.UserID,
		Busy:   snap.State == membership.StateLoading || snap.State == membership.StateMutating,
		CanAdd: snap.CanAdd,
		Empty:  snap.Empty,
		Rows:   make([]membershipRow, 0, len(snap.Memberships)),
	}
	for _, r := range models.Roles {
		ed.Roles = append(ed.Roles, string(r))
	}
	if snap.Err != nil {
		ed.Error = syncapi.Message(snap.Err)
	}
	for _, m := range snap.Memberships {
		ed.Rows = append(ed.Rows, membershipRow{
			GroupID:   m.GroupID,
			GroupName: m.GroupName,
			Role:      string(m.Role),
			Roles:     roleOptions(m.Role),
		})
	}
	for _, g := range snap.Available {
		ed.Available = append(ed.Available, groupOption{ID: g.ID, Name: g.Name})
	}
	return ed
}
