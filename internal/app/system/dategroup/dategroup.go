// Package dategroup buckets reverse-chronological activity entries by
// calendar day for display.
package dategroup

import (
	"time"

	"github.com/dalemusser/syncadmin/internal/domain/models"
)

const keyLayout = "2006-01-02"

// Group is one calendar day of entries.
type Group struct {
	DateKey string // YYYY-MM-DD, UTC
	Label   string
	Entries []models.ActivityEntry
}

// DateKey returns the UTC calendar date of t.
func DateKey(t time.Time) string {
	return t.UTC().Format(keyLayout)
}

// Label names a date key relative to now: "Today", "Yesterday", or a
// medium date such as "Mar 4, 2026". Keys that do not parse are returned as-is.
func Label(dateKey string, now time.Time) string {
	today := now.UTC().Format(keyLayout)
	if dateKey == today {
		return "Today"
	}
	if dateKey == now.UTC().AddDate(0, 0, -1).Format(keyLayout) {
		return "Yesterday"
	}
	d, err := time.Parse(keyLayout, dateKey)
	if err != nil {
		return dateKey
	}
	return d.Format("Jan 2, 2006")
}

// ByDay partitions entries into day groups. Groups appear in the order their
// day is first seen and entries keep their input order, so server order is
// never changed. The result is a pure function of entries and now.
func ByDay(entries []models.ActivityEntry, now time.Time) []Group {
	if len(entries) == 0 {
		return nil
	}
	index := make(map[string]int)
	var groups []Group
	for _, e := range entries {
		key := DateKey(e.CreatedAt)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{DateKey: key, Label: Label(key, now)})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}
