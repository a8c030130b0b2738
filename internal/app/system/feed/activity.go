// internal/app/system/feed/activity.go
package feed

import (
	"context"
	"time"

	"github.com/dalemusser/syncadmin/internal/domain/models"
)

// ActivityLister is the part of the sync API client the activity feed needs.
type ActivityLister interface {
	ListActivity(ctx context.Context, limit int, before string) ([]models.ActivityEntry, error)
}

// ActivityCursor is the "before" value that continues after e.
func ActivityCursor(e models.ActivityEntry) string {
	return e.CreatedAt.UTC().Format(time.RFC3339Nano)
}

// NewActivityPager pages the sync server's activity log newest first.
func NewActivityPager(api ActivityLister, opts ...Option) *Pager[models.ActivityEntry] {
	fetch := func(ctx context.Context, cursor string, limit int) ([]models.ActivityEntry, error) {
		return api.ListActivity(ctx, limit, cursor)
	}
	return NewPager(fetch, ActivityCursor, append([]Option{WithName("activity")}, opts...)...)
}
