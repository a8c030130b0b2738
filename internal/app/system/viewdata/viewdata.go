// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/syncadmin/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// SiteName is shown in the page title and header.
const SiteName = "Sync Admin"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
//	data := activityData{
//	    BaseVM: viewdata.NewBaseVM(r, "Activity", "/activity"),
//	}
type BaseVM struct {
	SiteName string

	IsLoggedIn bool
	Role       string
	UserName   string

	Title       string
	BackURL     string
	CurrentPath string
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
	}
	return vm
}
