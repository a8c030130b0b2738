package testutil

import (
	"sync"
	"testing"

	"github.com/dalemusser/syncadmin/internal/app/resources"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var (
	bootOnce sync.Once
	bootErr  error
)

// BootTemplates compiles the shared set plus every template set registered
// by the packages linked into the test binary, and installs the engine used
// by templates.Render and templates.RenderSnippet.
func BootTemplates(t *testing.T) {
	t.Helper()
	bootOnce.Do(func() {
		resources.LoadSharedTemplates()
		eng := templates.New(false)
		if bootErr = eng.Boot(zap.NewNop()); bootErr != nil {
			return
		}
		templates.UseEngine(eng, zap.NewNop())
	})
	if bootErr != nil {
		t.Fatalf("boot templates: %v", bootErr)
	}
}
