// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"

	"github.com/dalemusser/syncadmin/internal/app/system/timeouts"
	"github.com/dalemusser/syncadmin/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList handles GET /audit - displays the console audit trail with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, fs := parseFilter(r.URL.Query())
	data := listData{
		BaseVM:      viewdata.NewBaseVM(r, "Console audit", "/activity"),
		filterState: fs,
		Categories:  allCategories(),
		EventTypes:  eventTypesForCategory(fs.Category),
		TotalPages:  1,
	}

	if h.Store == nil {
		data.Disabled = true
		templates.RenderAutoMap(w, r, "audit_list", nil, data)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "A database error occurred.", "/activity")
		return
	}
	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "A database error occurred.", "/activity")
		return
	}

	data.Items = make([]listItem, 0, len(events))
	for _, e := range events {
		data.Items = append(data.Items, toItem(e))
	}
	data.Total = total
	data.Shown = len(data.Items)
	data.TotalPages, data.PrevPage, data.NextPage = pages(fs.Page, total)
	data.HasPrev = fs.Page > 1
	data.HasNext = fs.Page < data.TotalPages

	templates.RenderAutoMap(w, r, "audit_list", nil, data)
}
