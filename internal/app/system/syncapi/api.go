// internal/app/system/syncapi/api.go
package syncapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/syncadmin/internal/domain/models"
)

// LoginResult is the token issued by POST /api/v1/auth/token.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

type memberRequest struct {
	UserID int         `json:"user_id"`
	Role   models.Role `json:"role"`
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password, deviceName string) (*LoginResult, error) {
	var out LoginResult
	err := c.call(ctx, "login", http.MethodPost, "/api/v1/auth/token",
		loginRequest{Username: username, Password: password, DeviceName: deviceName}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, ErrTwoFactorRequired
	}
	return &out, nil
}

// Ping checks that the sync server answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "health", http.MethodGet, "/health", nil, nil)
}

// ListActivity fetches up to limit entries older than before.
// An empty before fetches the newest page.
func (c *Client) ListActivity(ctx context.Context, limit int, before string) ([]models.ActivityEntry, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if before != "" {
		q.Set("before", before)
	}
	var out []models.ActivityEntry
	if err := c.call(ctx, "list_activity", http.MethodGet, "/api/v1/activity?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers fetches every account.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.call(ctx, "list_users", http.MethodGet, "/api/v1/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	return c.call(ctx, "delete_user", http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", userID), nil, nil)
}

// ListGroups fetches the group catalog.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	var out []models.Group
	if err := c.call(ctx, "list_groups", http.MethodGet, "/api/v1/admin/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUserGroups fetches the memberships of one user.
func (c *Client) ListUserGroups(ctx context.Context, userID int) ([]models.Membership, error) {
	var out []models.Membership
	path := fmt.Sprintf("/api/v1/admin/users/%d/groups", userID)
	if err := c.call(ctx, "list_user_groups", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember adds userID to groupID with role.
func (c *Client) AddMember(ctx context.Context, groupID, userID int, role models.Role) error {
	path := fmt.Sprintf("/api/v1/admin/groups/%d/members", groupID)
	return c.call(ctx, "add_member", http.MethodPost, path, memberRequest{UserID: userID, Role: role}, nil)
}

// RemoveMember removes userID from groupID.
func (c *Client) RemoveMember(ctx context.Context, groupID, userID int) error {
	path := fmt.Sprintf("/api/v1/admin/groups/%d/members/%d", groupID, userID)
	return c.call(ctx, "remove_member", http.MethodDelete, path, nil, nil)
}

// ChangeRole sets userID's role inside groupID.
func (c *Client) ChangeRole(ctx context.Context, groupID, userID int, role models.Role) error {
	path := fmt.Sprintf("/api/v1/admin/groups/%d/members/%d/role", groupID, userID)
	return c.call(ctx, "change_role", http.MethodPut, path, roleRequest{Role: role}, nil)
}
