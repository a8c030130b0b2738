package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLister serves a fixed list of pages and records the cursors it was given.
type fakeLister struct {
	mu      sync.Mutex
	pages   [][]models.ActivityEntry
	errAt   int // 1-based call index that fails; 0 never
	calls   int
	cursors []string
	gate    chan struct{} // when set, each call blocks until it receives
	entered chan struct{}
}

func (f *fakeLister) ListActivity(ctx context.Context, limit int, before string) ([]models.ActivityEntry, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.cursors = append(f.cursors, before)
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if n == f.errAt {
		return nil, errors.New("boom")
	}
	if n-1 < len(f.pages) {
		return f.pages[n-1], nil
	}
	return nil, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func makeEntries(start, n int, from time.Time) []models.ActivityEntry {
	out := make([]models.ActivityEntry, n)
	for i := range out {
		id := start + i
		out[i] = models.ActivityEntry{
			ID:           int64(id),
			Action:       models.ActionModify,
			ResourcePath: fmt.Sprintf("/f/%d", id),
			CreatedAt:    from.Add(-time.Duration(id) * time.Minute),
		}
	}
	return out
}

func ids(es []models.ActivityEntry) []int64 {
	out := make([]int64, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestPager_AccumulatesPages(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	p1 := makeEntries(0, 50, now)
	p2 := makeEntries(50, 30, now)
	api := &fakeLister{pages: [][]models.ActivityEntry{p1, p2}}
	pager := NewActivityPager(api)
	ctx := context.Background()

	require.NoError(t, pager.LoadNext(ctx))
	snap := pager.Snapshot()
	assert.Len(t, snap.Items, 50)
	assert.False(t, snap.Done)
	assert.Equal(t, ActivityCursor(p1[49]), snap.NextCursor)

	require.NoError(t, pager.LoadNext(ctx))
	snap = pager.Snapshot()
	assert.Equal(t, append(ids(p1), ids(p2)...), ids(snap.Items))
	assert.Equal(t, ActivityCursor(p2[29]), snap.NextCursor)
	assert.True(t, snap.Done, "short page ends the stream")
	assert.Equal(t, 2, snap.Pages)

	assert.Equal(t, []string{"", ActivityCursor(p1[49])}, api.cursors)

	// Done: no further request.
	require.NoError(t, pager.LoadNext(ctx))
	assert.Equal(t, 2, api.callCount())
}

func TestPager_FullLastPageNeedsOneMoreFetch(t *testing.T) {
	now := time.Now().UTC()
	api := &fakeLister{pages: [][]models.ActivityEntry{makeEntries(0, 2, now)}}
	pager := NewActivityPager(api, WithLimit(2))

	require.NoError(t, pager.LoadNext(context.Background()))
	assert.False(t, pager.Snapshot().Done)

	require.NoError(t, pager.LoadNext(context.Background()))
	snap := pager.Snapshot()
	assert.True(t, snap.Done)
	assert.False(t, snap.Empty, "empty state only applies to the first page")
	assert.Len(t, snap.Items, 2)
}

func TestPager_InFlightGuard(t *testing.T) {
	api := &fakeLister{
		pages:   [][]models.ActivityEntry{makeEntries(0, 50, time.Now())},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 2),
	}
	pager := NewActivityPager(api)
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() { errc <- pager.LoadNext(ctx) }()
	<-api.entered

	assert.True(t, pager.Snapshot().Loading)
	// Second trigger while the first is outstanding sends nothing.
	require.NoError(t, pager.LoadNext(ctx))
	assert.Equal(t, 1, api.callCount())

	close(api.gate)
	require.NoError(t, <-errc)
	assert.Equal(t, 1, api.callCount())
	assert.False(t, pager.Snapshot().Loading)
}

func TestPager_ConcurrentTriggersIssueOneRequest(t *testing.T) {
	api := &fakeLister{
		pages: [][]models.ActivityEntry{makeEntries(0, 50, time.Now())},
		gate:  make(chan struct{}),
	}
	// A limit above the page size ends the stream, so late triggers are no-ops too.
	pager := NewActivityPager(api, WithLimit(100))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pager.LoadNext(context.Background())
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(api.gate)
	wg.Wait()

	assert.Equal(t, 1, api.callCount())
	assert.Len(t, pager.Snapshot().Items, 50)
}

func TestPager_EmptyFirstPage(t *testing.T) {
	api := &fakeLister{pages: [][]models.ActivityEntry{{}}}
	pager := NewActivityPager(api)

	require.NoError(t, pager.LoadNext(context.Background()))
	snap := pager.Snapshot()
	assert.True(t, snap.Empty)
	assert.True(t, snap.Done)
	assert.Empty(t, snap.Items)
}

func TestPager_ErrorIsTerminalAndKeepsItems(t *testing.T) {
	api := &fakeLister{pages: [][]models.ActivityEntry{makeEntries(0, 50, time.Now())}, errAt: 2}
	pager := NewActivityPager(api)
	ctx := context.Background()

	require.NoError(t, pager.LoadNext(ctx))
	err := pager.LoadNext(ctx)
	require.Error(t, err)

	snap := pager.Snapshot()
	assert.Equal(t, err, snap.Err)
	assert.Len(t, snap.Items, 50)
	assert.False(t, snap.Loading)

	require.NoError(t, pager.LoadNext(ctx))
	assert.Equal(t, 2, api.callCount(), "no retry after failure")
}

func TestPager_UnmountDiscardsPendingPage(t *testing.T) {
	api := &fakeLister{
		pages:   [][]models.ActivityEntry{makeEntries(0, 50, time.Now())},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	pager := NewActivityPager(api)
	var renders atomic.Int32
	pager.OnRender(func(Snapshot[models.ActivityEntry]) { renders.Add(1) })

	errc := make(chan error, 1)
	go func() { errc <- pager.LoadNext(context.Background()) }()
	<-api.entered
	before := renders.Load()

	pager.Unmount()
	close(api.gate)

	assert.ErrorIs(t, <-errc, ErrUnmounted)
	assert.Equal(t, before, renders.Load(), "no render after unmount")
	assert.Empty(t, pager.Snapshot().Items)
	assert.False(t, pager.Mounted())

	require.NoError(t, pager.LoadNext(context.Background()))
	assert.Equal(t, 1, api.callCount())
}

func TestPager_RenderAfterEachPage(t *testing.T) {
	api := &fakeLister{pages: [][]models.ActivityEntry{makeEntries(0, 3, time.Now())}}
	pager := NewActivityPager(api)
	var last Snapshot[models.ActivityEntry]
	var count int
	pager.OnRender(func(s Snapshot[models.ActivityEntry]) {
		count++
		last = s
	})

	require.NoError(t, pager.LoadNext(context.Background()))
	assert.Equal(t, 2, count, "loading then loaded")
	assert.Len(t, last.Items, 3)
	assert.False(t, last.Loading)
}

func TestActivityCursor_IsUTC(t *testing.T) {
	loc := time.FixedZone("X", 2*3600)
	e := models.ActivityEntry{CreatedAt: time.Date(2026, 3, 4, 12, 0, 0, 500, loc)}
	assert.Equal(t, "2026-03-04T10:00:00.0000005Z", ActivityCursor(e))
}
