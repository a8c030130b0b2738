// Package views keeps the controllers behind mounted console views between
// HTMX requests. Each mounted view gets a random id that later requests
// use to reach it; views expire after a period without use.
package views

import (
	"sync"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTTL is how long an idle view stays mounted.
const DefaultTTL = 30 * time.Minute

// Mountable is a controller that can be torn down when its view goes away.
type Mountable interface {
	Unmount()
}

type entry struct {
	owner   int
	view    Mountable
	expires time.Time
}

// Registry maps view ids to mounted controllers.
type Registry struct {
	ttl time.Duration
	log *zap.Logger
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry returns an empty Registry. ttl <= 0 uses DefaultTTL.
func NewRegistry(ttl time.Duration, logger *zap.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{ttl: ttl, log: logger, now: time.Now, entries: make(map[string]*entry)}
}

// Mount stores v for owner and returns its id.
func (r *Registry) Mount(owner int, v Mountable) string {
	id := uuid.NewString()
	r.mu.Lock()
	expired := r.reapLocked()
	r.entries[id] = &entry{owner: owner, view: v, expires: r.now().Add(r.ttl)}
	n := len(r.entries)
	r.mu.Unlock()

	unmountAll(expired)
	metrics.SetMountedViews(n)
	return id
}

// Get returns the view id mounted by owner and extends its lifetime.
// Views belonging to another owner are reported as missing.
func (r *Registry) Get(owner int, id string) (Mountable, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.owner != owner {
		return nil, false
	}
	if r.now().After(e.expires) {
		delete(r.entries, id)
		go e.view.Unmount()
		return nil, false
	}
	e.expires = r.now().Add(r.ttl)
	return e.view, true
}

// Lookup is Get with the view's concrete type.
func Lookup[T Mountable](r *Registry, owner int, id string) (T, bool) {
	var zero T
	v, ok := r.Get(owner, id)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Unmount removes and tears down a view. It reports whether one was found.
func (r *Registry) Unmount(owner int, id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok && e.owner == owner {
		delete(r.entries, id)
	} else {
		ok = false
	}
	n := len(r.entries)
	r.mu.Unlock()

	if ok {
		e.view.Unmount()
		metrics.SetMountedViews(n)
	}
	return ok
}

// UnmountOwner tears down every view of owner. Sign-out uses it.
func (r *Registry) UnmountOwner(owner int) int {
	r.mu.Lock()
	var views []Mountable
	for id, e := range r.entries {
		if e.owner == owner {
			views = append(views, e.view)
			delete(r.entries, id)
		}
	}
	n := len(r.entries)
	r.mu.Unlock()

	unmountAll(views)
	metrics.SetMountedViews(n)
	return len(views)
}

// Close tears down every view.
func (r *Registry) Close() {
	r.mu.Lock()
	views := make([]Mountable, 0, len(r.entries))
	for _, e := range r.entries {
		views = append(views, e.view)
	}
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	unmountAll(views)
	metrics.SetMountedViews(0)
	r.log.Info("view registry closed", zap.Int("unmounted", len(views)))
}

// Reap tears down every expired view and returns how many there were.
func (r *Registry) Reap() int {
	r.mu.Lock()
	expired := r.reapLocked()
	n := len(r.entries)
	r.mu.Unlock()

	unmountAll(expired)
	if len(expired) > 0 {
		metrics.SetMountedViews(n)
	}
	return len(expired)
}

// Len returns the number of mounted views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) reapLocked() []Mountable {
	now := r.now()
	var out []Mountable
	for id, e := range r.entries {
		if now.After(e.expires) {
			out = append(out, e.view)
			delete(r.entries, id)
		}
	}
	if len(out) > 0 {
		r.log.Debug("reaped idle views", zap.Int("count", len(out)))
	}
	return out
}

func unmountAll(vs []Mountable) {
	for _, v := range vs {
		v.Unmount()
	}
}
