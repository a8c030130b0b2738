// Package badges loads each user's group memberships independently so a
// user table can show them row by row as they arrive.
package badges

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/syncadmin/internal/app/system/metrics"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DefaultConcurrency bounds in-flight membership requests per Load.
const DefaultConcurrency = 8

// Lister fetches one user's memberships.
type Lister interface {
	ListUserGroups(ctx context.Context, userID int) ([]models.Membership, error)
}

// Badge is the membership summary for one user row.
type Badge struct {
	UserID      int
	Memberships []models.Membership
	Err         error
}

// Label is the text shown in the row: "-" when loading failed, "none" when
// the user is in no group, otherwise "Group (role)" entries joined by commas.
func (b Badge) Label() string {
	if b.Err != nil {
		return "-"
	}
	if len(b.Memberships) == 0 {
		return "none"
	}
	parts := make([]string, len(b.Memberships))
	for i, m := range b.Memberships {
		parts[i] = fmt.Sprintf("%s (%s)", m.GroupName, m.Role)
	}
	return strings.Join(parts, ", ")
}

// Loader fans membership requests out across user rows.
type Loader struct {
	api         Lister
	concurrency int
	log         *zap.Logger
}

// NewLoader returns a Loader. concurrency <= 0 uses DefaultConcurrency.
func NewLoader(api Lister, concurrency int, logger *zap.Logger) *Loader {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{api: api, concurrency: concurrency, log: logger}
}

// Load fetches a badge for every id and hands each one to render as soon as
// it is ready. Rows finish in any order and render may be called from
// several goroutines at once. A failed row yields a Badge with Err set; the
// other rows are unaffected and nothing is retried. Load returns when every
// row has rendered.
func (l *Loader) Load(ctx context.Context, ids []int, render func(Badge)) {
	p := pool.New().WithMaxGoroutines(l.concurrency)
	for _, id := range ids {
		p.Go(func() {
			render(l.One(ctx, id))
		})
	}
	p.Wait()
}

// One fetches the badge for a single user.
func (l *Loader) One(ctx context.Context, userID int) Badge {
	ms, err := l.api.ListUserGroups(ctx, userID)
	if err != nil {
		metrics.BadgeFailed()
		l.log.Info("badge load failed", zap.Int("user_id", userID), zap.Error(err))
		return Badge{UserID: userID, Err: err}
	}
	return Badge{UserID: userID, Memberships: ms}
}
