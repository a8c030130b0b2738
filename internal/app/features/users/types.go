// internal/app/features/users/types.go
package users

import (
	"github.com/dalemusser/syncadmin/internal/app/system/viewdata"
	"github.com/dalemusser/syncadmin/internal/domain/models"
)

type userRow struct {
	ID        int
	Username  string
	IsAdmin   bool
	CreatedAt string
	IsSelf    bool
}

type tableData struct {
	Rows  []userRow
	Query string
	Total int // before filtering
	Shown int
}

type listData struct {
	viewdata.BaseVM
	Table tableData
}

type badgeData struct {
	UserID int
	Label  string
	Failed bool
}

func buildTable(all, shown []models.User, q string, selfID int) tableData {
	td := tableData{Query: q, Total: len(all), Shown: len(shown), Rows: make([]userRow, 0, len(shown))}
	for _, u := range shown {
		td.Rows = append(td.Rows, userRow{
			ID:        u.ID,
			Username:  u.Username,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt.UTC().Format("Jan 2, 2006"),
			IsSelf:    u.ID == selfID,
		})
	}
	return td
}
