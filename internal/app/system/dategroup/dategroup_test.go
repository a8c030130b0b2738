package dategroup

import (
	"testing"
	"time"

	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id int64, ts string) models.ActivityEntry {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return models.ActivityEntry{ID: id, CreatedAt: t}
}

func TestLabel(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", Label("2026-03-04", now))
	assert.Equal(t, "Yesterday", Label("2026-03-03", now))
	assert.Equal(t, "Mar 1, 2026", Label("2026-03-01", now))
	assert.Equal(t, "Dec 31, 2025", Label("2025-12-31", now))
	assert.Equal(t, "garbage", Label("garbage", now))
}

func TestLabel_YesterdayAcrossMonth(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, "Yesterday", Label("2026-02-28", now))
}

func TestDateKey_UsesUTC(t *testing.T) {
	// 23:30 at UTC-5 on Mar 3 is already Mar 4 in UTC.
	loc := time.FixedZone("EST", -5*3600)
	ts := time.Date(2026, 3, 3, 23, 30, 0, 0, loc)
	assert.Equal(t, "2026-03-04", DateKey(ts))
}

func TestByDay_PartitionAndOrder(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	in := []models.ActivityEntry{
		entry(1, "2026-03-04T11:00:00Z"),
		entry(2, "2026-03-04T09:00:00Z"),
		entry(3, "2026-03-03T22:00:00Z"),
		entry(4, "2026-03-01T08:00:00Z"),
		entry(5, "2026-03-01T07:00:00Z"),
	}

	groups := ByDay(in, now)
	require.Len(t, groups, 3)

	assert.Equal(t, "2026-03-04", groups[0].DateKey)
	assert.Equal(t, "Today", groups[0].Label)
	assert.Equal(t, "Yesterday", groups[1].Label)
	assert.Equal(t, "Mar 1, 2026", groups[2].Label)

	var flat []int64
	for _, g := range groups {
		for _, e := range g.Entries {
			flat = append(flat, e.ID)
		}
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, flat, "concatenated groups must equal the input")
}

func TestByDay_FirstSeenOrderIsKept(t *testing.T) {
	// Not sorted by date: grouping must not reorder.
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	in := []models.ActivityEntry{
		entry(1, "2026-03-01T08:00:00Z"),
		entry(2, "2026-03-04T08:00:00Z"),
		entry(3, "2026-03-01T07:00:00Z"),
	}

	groups := ByDay(in, now)
	require.Len(t, groups, 2)
	assert.Equal(t, "2026-03-01", groups[0].DateKey)
	assert.Equal(t, []int64{1, 3}, []int64{groups[0].Entries[0].ID, groups[0].Entries[1].ID})
	assert.Equal(t, "2026-03-04", groups[1].DateKey)
}

func TestByDay_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	in := []models.ActivityEntry{entry(1, "2026-03-04T11:00:00Z"), entry(2, "2026-03-02T11:00:00Z")}

	assert.Equal(t, ByDay(in, now), ByDay(in, now))
	assert.Nil(t, ByDay(nil, now))
}
