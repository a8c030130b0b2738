// internal/app/features/activity/types.go
package activity

import (
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/dategroup"
	"github.com/dalemusser/syncadmin/internal/app/system/feed"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/viewdata"
	"github.com/dalemusser/syncadmin/internal/domain/models"
)

// entryRow is one rendered activity entry.
type entryRow struct {
	ID          int64
	Time        string // "15:04" UTC
	Username    string
	Action      string
	ActionClass string
	Path        string
	Details     string
}

// dayGroup is one calendar day of rows.
type dayGroup struct {
	DateKey string
	Label   string
	Rows    []entryRow
}

// feedData is the view model for the feed region; it is rendered in full on
// every update so regrouping after a page load is always consistent.
type feedData struct {
	ViewID  string
	Groups  []dayGroup
	Count   int
	Loading bool
	Done    bool
	Empty   bool
	Error   string
}

// pageData is the full activity page.
type pageData struct {
	viewdata.BaseVM
	Feed feedData
}

var actionClasses = map[models.Action]string{
	models.ActionCreate:  "text-green-700",
	models.ActionModify:  "text-blue-700",
	models.ActionDelete:  "text-red-700",
	models.ActionVersion: "text-purple-700",
}

func buildFeedData(viewID string, snap feed.Snapshot[models.ActivityEntry], now time.Time) feedData {
	fd := feedData{
		ViewID:  viewID,
		Count:   len(snap.Items),
		Loading: snap.Loading,
		Done:    snap.Done,
		Empty:   snap.Empty,
	}
	if snap.Err != nil {
		fd.Error = syncapi.Message(snap.Err)
	}
	for _, g := range dategroup.ByDay(snap.Items, now) {
		dg := dayGroup{DateKey: g.DateKey, Label: g.Label, Rows: make([]entryRow, 0, len(g.Entries))}
		for _, e := range g.Entries {
			dg.Rows = append(dg.Rows, entryRow{
				ID:          e.ID,
				Time:        e.CreatedAt.UTC().Format("15:04"),
				Username:    e.Username,
				Action:      string(e.Action),
				ActionClass: actionClasses[e.Action],
				Path:        e.ResourcePath,
				Details:     e.Details,
			})
		}
		fd.Groups = append(fd.Groups, dg)
	}
	return fd
}
