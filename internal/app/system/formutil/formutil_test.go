package formutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleForm struct {
	GroupID int    `form:"group_id" validate:"required,gt=0"`
	Role    string `form:"role" validate:"required,oneof=viewer editor admin"`
}

func post(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestDecode_Valid(t *testing.T) {
	var f roleForm
	require.NoError(t, Decode(post("group_id=4&role=editor"), &f))
	assert.Equal(t, 4, f.GroupID)
	assert.Equal(t, "editor", f.Role)
}

func TestDecode_BadRole(t *testing.T) {
	var f roleForm
	err := Decode(post("group_id=4&role=owner"), &f)
	require.Error(t, err)
	assert.Equal(t, "The role must be one of: viewer, editor, admin.", Message(err))
}

func TestDecode_MissingGroup(t *testing.T) {
	var f roleForm
	err := Decode(post("role=viewer"), &f)
	require.Error(t, err)
	assert.Equal(t, "The group id field is required.", Message(err))
}

func TestDecode_Unparseable(t *testing.T) {
	var f roleForm
	err := Decode(post("group_id=abc&role=viewer"), &f)
	require.Error(t, err)
	assert.Equal(t, "The form could not be read.", Message(err))
}
