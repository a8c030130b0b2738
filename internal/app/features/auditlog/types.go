// internal/app/features/auditlog/types.go
package auditlog

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/store/audit"
	"github.com/dalemusser/syncadmin/internal/app/system/viewdata"
)

const pageSize = 50

// listItem represents a single audit event row for display.
type listItem struct {
	ID        string
	Timestamp time.Time
	Category  string
	EventType string
	Actor     string
	Target    string
	Group     string
	IP        string
	Success   bool
	Reason    string
	Details   map[string]string
}

// filterState echoes the submitted filters back into the form.
type filterState struct {
	Category  string
	EventType string
	StartDate string
	EndDate   string
	User      string
	Page      int
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM
	filterState

	Disabled bool
	Items    []listItem

	Categories []categoryOption
	EventTypes []string

	TotalPages int
	Total      int64
	Shown      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

// allCategories returns the available categories for filtering.
func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Sign-in"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{audit.EventLoginSuccess, audit.EventLoginFailed, audit.EventLogout}
	adminEvents := []string{
		audit.EventMemberAdded,
		audit.EventMemberRemoved,
		audit.EventMemberRoleChanged,
		audit.EventUserDeleted,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		return append(append([]string{}, authEvents...), adminEvents...)
	default:
		return nil
	}
}

// parseFilter reads the list filters from the query string. Values that
// do not parse are ignored rather than rejected.
func parseFilter(q url.Values) (audit.QueryFilter, filterState) {
	fs := filterState{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
		User:      strings.TrimSpace(q.Get("user")),
		Page:      1,
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		fs.Page = p
	}

	filter := audit.QueryFilter{
		Category:  fs.Category,
		EventType: fs.EventType,
		Limit:     pageSize,
		Offset:    int64((fs.Page - 1) * pageSize),
	}
	if id, err := strconv.Atoi(fs.User); err == nil && id > 0 {
		filter.TargetUserID = &id
	}
	if t, err := time.Parse("2006-01-02", fs.StartDate); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.Parse("2006-01-02", fs.EndDate); err == nil {
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}
	return filter, fs
}

func toItem(e audit.Event) listItem {
	item := listItem{
		ID:        e.ID.Hex(),
		Timestamp: e.Timestamp,
		Category:  e.Category,
		EventType: e.EventType,
		IP:        e.IP,
		Success:   e.Success,
		Reason:    e.FailureReason,
		Details:   e.Details,
		Actor:     e.ActorName,
	}
	if item.Actor == "" && e.ActorID != 0 {
		item.Actor = "#" + strconv.Itoa(e.ActorID)
	}
	if item.Actor == "" {
		item.Actor = e.Details["attempted_username"]
	}
	if e.TargetUserID != nil {
		item.Target = "#" + strconv.Itoa(*e.TargetUserID)
		if name := e.Details["username"]; name != "" {
			item.Target = name + " (" + item.Target + ")"
		}
	}
	if e.GroupID != nil {
		item.Group = "#" + strconv.Itoa(*e.GroupID)
	}
	return item
}

// pages computes the pager links for total events.
func pages(page int, total int64) (totalPages, prev, next int) {
	totalPages = int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	prev = max(page-1, 1)
	next = min(page+1, totalPages)
	return totalPages, prev, next
}
