package testutil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/syncadmin/internal/domain/models"
)

// ActivityPage builds n entries with ids starting at first, one minute
// apart going back from newest.
func ActivityPage(first, n int, newest time.Time) []models.ActivityEntry {
	out := make([]models.ActivityEntry, n)
	for i := range out {
		id := first + i
		out[i] = models.ActivityEntry{
			ID:           int64(id),
			Username:     "ana",
			Action:       models.ActionModify,
			ResourcePath: fmt.Sprintf("/docs/file-%d.txt", id),
			CreatedAt:    newest.Add(-time.Duration(id) * time.Minute),
		}
	}
	return out
}

// SeedDirectory installs a users list, a group catalog and per-user
// membership lists on the fake server.
func (f *FakeSyncServer) SeedDirectory(users []models.User, groups []models.Group, members map[int][]models.Membership) {
	f.JSON(http.MethodGet, "/api/v1/admin/users", http.StatusOK, users)
	f.JSON(http.MethodGet, "/api/v1/admin/groups", http.StatusOK, groups)
	for _, u := range users {
		ms := members[u.ID]
		if ms == nil {
			ms = []models.Membership{}
		}
		f.JSON(http.MethodGet, fmt.Sprintf("/api/v1/admin/users/%d/groups", u.ID), http.StatusOK, ms)
	}
}
