package activity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/syncadmin/internal/app/features/errors"
	"github.com/dalemusser/syncadmin/internal/app/system/feed"
	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/app/system/views"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/dalemusser/syncadmin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, pages ...[]models.ActivityEntry) (*Handler, *testutil.FakeSyncServer) {
	t.Helper()
	srv := testutil.NewFakeSyncServer(t)
	served := 0
	srv.Handle("GET", "/api/v1/activity", func(w http.ResponseWriter, r *http.Request) {
		page := []models.ActivityEntry{}
		if served < len(pages) {
			page = pages[served]
		}
		served++
		testutil.WriteJSON(w, http.StatusOK, page)
	})
	logger := zap.NewNop()
	h := NewHandler(srv.NewClient(t), views.NewRegistry(time.Minute, logger), 2, uierrors.NewErrorLogger(logger), logger)
	h.now = func() time.Time { return now }
	return h, srv
}

func query(t *testing.T, c testutil.Call) url.Values {
	t.Helper()
	q, err := url.ParseQuery(c.Query)
	require.NoError(t, err)
	return q
}

func mountPager(t *testing.T, h *Handler) (*activityPager, string) {
	t.Helper()
	client := h.API.WithToken(testutil.AdminUser().Token)
	p := feed.NewActivityPager(client, feed.WithLimit(h.PageSize))
	return p, h.Views.Mount(testutil.AdminUser().ID, p)
}

func moreRequest(viewID string) *http.Request {
	req := testutil.NewFormRequest("/activity/"+viewID+"/more", "")
	req = testutil.WithUser(req, testutil.AdminUser())
	return testutil.WithChiURLParams(req, "view", viewID)
}

func TestServeActivity_MountsViewAndLoadsFirstPage(t *testing.T) {
	h, srv := newTestHandler(t, testutil.ActivityPage(1, 2, now))

	req := testutil.WithUser(httptest.NewRequest("GET", "/activity", nil), testutil.AdminUser())
	h.ServeActivity(httptest.NewRecorder(), req)

	assert.Equal(t, 1, h.Views.Len())
	calls := srv.Calls("GET", "/api/v1/activity")
	require.Len(t, calls, 1)
	q := query(t, calls[0])
	assert.Equal(t, "2", q.Get("limit"))
	assert.Empty(t, q.Get("before"))
	assert.Equal(t, "Bearer test-token", calls[0].Auth)
}

func TestServeMore_AppendsNextPageWithCursor(t *testing.T) {
	first := testutil.ActivityPage(1, 2, now)
	h, srv := newTestHandler(t, first, testutil.ActivityPage(3, 1, now))
	p, viewID := mountPager(t, h)
	require.NoError(t, p.LoadNext(t.Context()))

	h.ServeMore(httptest.NewRecorder(), moreRequest(viewID))

	snap := p.Snapshot()
	assert.Len(t, snap.Items, 3)
	assert.True(t, snap.Done)

	calls := srv.Calls("GET", "/api/v1/activity")
	require.Len(t, calls, 2)
	assert.Equal(t, feed.ActivityCursor(first[1]), query(t, calls[1]).Get("before"))

	// Done: a further click sends nothing.
	h.ServeMore(httptest.NewRecorder(), moreRequest(viewID))
	assert.Equal(t, 2, srv.Count("GET", "/api/v1/activity"))
}

func TestServeActivity_RendersFirstPage(t *testing.T) {
	testutil.BootTemplates(t)
	h, _ := newTestHandler(t, testutil.ActivityPage(1, 2, now))

	req := testutil.WithUser(httptest.NewRequest("GET", "/activity", nil), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeActivity(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Today")
	assert.Contains(t, body, `data-close-url="/activity/`)
	assert.Contains(t, body, "Load more")
	assert.NotContains(t, body, "No activity yet.")
}

func TestServeActivity_EmptyFeed(t *testing.T) {
	testutil.BootTemplates(t)
	h, srv := newTestHandler(t, []models.ActivityEntry{})

	req := testutil.WithUser(httptest.NewRequest("GET", "/activity", nil), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeActivity(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No activity yet.")
	assert.NotContains(t, body, "Load more")
	assert.Equal(t, 1, srv.Count("GET", "/api/v1/activity"))
}

func TestServeMore_ShowsServerStringsVerbatim(t *testing.T) {
	testutil.BootTemplates(t)
	first := []models.ActivityEntry{
		{ID: 3, Username: "ana", Action: models.ActionCreate, ResourcePath: "/notes/<todo>.md", CreatedAt: now},
		{ID: 2, Username: "ana", Action: models.ActionModify, ResourcePath: "/a  b.txt", CreatedAt: now},
	}
	second := []models.ActivityEntry{
		{ID: 1, Username: "bo", Action: models.ActionDelete, ResourcePath: "/x/<b>y</b>.txt", Details: "moved <from> trash", CreatedAt: now},
	}
	h, _ := newTestHandler(t, first, second)
	p, viewID := mountPager(t, h)
	require.NoError(t, p.LoadNext(t.Context()))

	rec := httptest.NewRecorder()
	h.ServeMore(rec, moreRequest(viewID))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "/notes/&lt;todo&gt;.md")
	assert.Contains(t, body, "/a  b.txt")
	assert.Contains(t, body, "/x/&lt;b&gt;y&lt;/b&gt;.txt")
	assert.Contains(t, body, "moved &lt;from&gt; trash")
	assert.NotContains(t, body, "<b>y</b>")
	assert.Contains(t, body, "End of activity (3 entries).")
}

func TestServeMore_UnknownViewIsGone(t *testing.T) {
	h, srv := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeMore(rec, moreRequest("6f1c1f9e-3a55-4d8a-9d1e-6c1d7c0f2b11"))

	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "expired")
	assert.Zero(t, srv.Count("GET", "/api/v1/activity"))
}

func TestServeClose_Unmounts(t *testing.T) {
	h, _ := newTestHandler(t)
	p, viewID := mountPager(t, h)

	req := testutil.WithChiURLParams(testutil.WithUser(httptest.NewRequest("POST", "/x", nil), testutil.AdminUser()), "view", viewID)
	rec := httptest.NewRecorder()
	h.ServeClose(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, p.Mounted())
	assert.Zero(t, h.Views.Len())
}

func TestBuildFeedData_GroupsByDayInServerOrder(t *testing.T) {
	entries := []models.ActivityEntry{
		{ID: 3, Username: "ana", Action: models.ActionCreate, ResourcePath: "/a", CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Username: "bo", Action: models.ActionDelete, ResourcePath: "/b", CreatedAt: now.Add(-25 * time.Hour)},
		{ID: 1, Username: "cy", Action: models.ActionModify, ResourcePath: "/c<script>", CreatedAt: now.Add(-26 * time.Hour)},
	}
	fd := buildFeedData("v1", feed.Snapshot[models.ActivityEntry]{Items: entries, Pages: 1}, now)

	require.Len(t, fd.Groups, 2)
	assert.Equal(t, "Today", fd.Groups[0].Label)
	assert.Equal(t, "Yesterday", fd.Groups[1].Label)
	assert.Equal(t, []int64{2, 1}, []int64{fd.Groups[1].Rows[0].ID, fd.Groups[1].Rows[1].ID})
	assert.Equal(t, "text-red-700", fd.Groups[1].Rows[0].ActionClass)
	assert.Equal(t, "/c<script>", fd.Groups[1].Rows[1].Path)
	assert.Equal(t, 3, fd.Count)
	assert.False(t, fd.Done)
}

func TestBuildFeedData_ErrorMessage(t *testing.T) {
	netErr := &syncapi.NetworkError{Op: "list_activity", Err: errors.New("connection refused")}
	fd := buildFeedData("v1", feed.Snapshot[models.ActivityEntry]{Err: netErr}, now)
	assert.Contains(t, fd.Error, "Could not reach the sync server")
}
