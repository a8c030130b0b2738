package syncapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/dalemusser/syncadmin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, srv *testutil.FakeSyncServer) *syncapi.Client {
	t.Helper()
	c, err := syncapi.New(syncapi.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://sync.example", "http://", "::nope"} {
		_, err := syncapi.New(syncapi.Config{BaseURL: raw})
		assert.Error(t, err, "url %q", raw)
	}
}

func TestWithToken_AttachesBearer(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.JSON(http.MethodGet, "/api/v1/admin/users", http.StatusOK, []models.User{})

	base := newClient(t, srv)
	_, err := base.WithToken("tok-123").ListUsers(context.Background())
	require.NoError(t, err)
	_, err = base.ListUsers(context.Background())
	require.NoError(t, err)

	calls := srv.Calls(http.MethodGet, "/api/v1/admin/users")
	require.Len(t, calls, 2)
	assert.Equal(t, "Bearer tok-123", calls[0].Auth)
	assert.Empty(t, calls[1].Auth, "base client must stay unauthenticated")
}

func TestListActivity_Query(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.JSON(http.MethodGet, "/api/v1/activity", http.StatusOK, []models.ActivityEntry{
		{ID: 7, Username: "ana", Action: models.ActionCreate, ResourcePath: "/a.txt",
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
	})
	c := newClient(t, srv)

	got, err := c.ListActivity(context.Background(), 50, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, models.ActionCreate, got[0].Action)

	_, err = c.ListActivity(context.Background(), 50, "2026-03-01T10:00:00Z")
	require.NoError(t, err)

	calls := srv.Calls(http.MethodGet, "/api/v1/activity")
	require.Len(t, calls, 2)
	assert.Equal(t, "limit=50", calls[0].Query)
	assert.Equal(t, "before=2026-03-01T10%3A00%3A00Z&limit=50", calls[1].Query)
}

func TestAPIError_CarriesServerMessage(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.Error(http.MethodDelete, "/api/v1/admin/users/3", http.StatusBadRequest, "cannot delete yourself")
	c := newClient(t, srv)

	err := c.DeleteUser(context.Background(), 3)
	require.Error(t, err)
	ae, ok := syncapi.AsAPI(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "cannot delete yourself", syncapi.Message(err))
	assert.False(t, syncapi.IsNetwork(err))
}

func TestAPIError_FallsBackToStatusText(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.Handle(http.MethodGet, "/api/v1/admin/groups", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>proxy</html>"))
	})
	c := newClient(t, srv)

	_, err := c.ListGroups(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, syncapi.StatusOf(err))
	assert.Equal(t, "Bad Gateway", syncapi.Message(err))
	ae, ok := syncapi.AsAPI(err)
	require.True(t, ok)
	assert.Equal(t, "proxy", ae.Body)
}

func TestAPIError_MessageKeptVerbatim(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.Error(http.MethodPost, "/api/v1/admin/groups/3/members", http.StatusBadRequest, `invalid role "<owner>":  must be   admin, editor or viewer`)
	c := newClient(t, srv)

	err := c.AddMember(context.Background(), 3, 7, "owner")
	require.Error(t, err)
	assert.Equal(t, `invalid role "<owner>":  must be   admin, editor or viewer`, syncapi.Message(err))
	ae, _ := syncapi.AsAPI(err)
	assert.Empty(t, ae.Body)
}

func TestNetworkError(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	c := newClient(t, srv)
	srv.Close()

	_, err := c.ListUsers(context.Background())
	require.Error(t, err)
	assert.True(t, syncapi.IsNetwork(err))
	assert.Equal(t, syncapi.MsgNetwork, syncapi.Message(err))
}

func TestMembershipWrites(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.JSON(http.MethodPost, "/api/v1/admin/groups/4/members", http.StatusCreated, map[string]string{"status": "ok"})
	srv.JSON(http.MethodPut, "/api/v1/admin/groups/4/members/9/role", http.StatusOK, map[string]string{"status": "ok"})
	srv.JSON(http.MethodDelete, "/api/v1/admin/groups/4/members/9", http.StatusOK, map[string]string{"status": "ok"})
	c := newClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.AddMember(ctx, 4, 9, models.RoleEditor))
	require.NoError(t, c.ChangeRole(ctx, 4, 9, models.RoleAdmin))
	require.NoError(t, c.RemoveMember(ctx, 4, 9))

	var add struct {
		UserID int    `json:"user_id"`
		Role   string `json:"role"`
	}
	srv.Calls(http.MethodPost, "/api/v1/admin/groups/4/members")[0].Decode(t, &add)
	assert.Equal(t, 9, add.UserID)
	assert.Equal(t, "editor", add.Role)

	var role struct {
		Role string `json:"role"`
	}
	srv.Calls(http.MethodPut, "/api/v1/admin/groups/4/members/9/role")[0].Decode(t, &role)
	assert.Equal(t, "admin", role.Role)
	assert.Equal(t, 1, srv.Count(http.MethodDelete, "/api/v1/admin/groups/4/members/9"))
}

func TestLogin(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.JSON(http.MethodPost, "/api/v1/auth/token", http.StatusOK, map[string]any{
		"token":      "jwt",
		"expires_at": "2026-10-18T00:00:00Z",
		"user":       map[string]any{"id": 1, "username": "root", "is_admin": true},
	})
	c := newClient(t, srv)

	res, err := c.Login(context.Background(), "root", "pw", "console")
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.True(t, res.User.IsAdmin)

	var body map[string]string
	srv.Calls(http.MethodPost, "/api/v1/auth/token")[0].Decode(t, &body)
	assert.Equal(t, "console", body["device_name"])
}

func TestLogin_TwoFactorChallenge(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.JSON(http.MethodPost, "/api/v1/auth/token", http.StatusOK, map[string]any{"requires_2fa": true})
	c := newClient(t, srv)

	_, err := c.Login(context.Background(), "root", "pw", "console")
	assert.ErrorIs(t, err, syncapi.ErrTwoFactorRequired)
	assert.Equal(t, syncapi.ErrTwoFactorRequired.Error(), syncapi.Message(err))
}

func TestDo_ReturnsOpenResponse(t *testing.T) {
	srv := testutil.NewFakeSyncServer(t)
	srv.JSON(http.MethodGet, "/health", http.StatusOK, map[string]string{"status": "ok"})
	c := newClient(t, srv)

	resp, err := c.Do(context.Background(), http.MethodGet, "/health", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, c.Ping(context.Background()))
}
