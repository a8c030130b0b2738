// internal/app/system/feed/pager.go
package feed

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dalemusser/syncadmin/internal/app/system/metrics"
	"go.uber.org/zap"
)

// DefaultLimit is the page size requested when no limit is configured.
const DefaultLimit = 50

// ErrUnmounted is returned by LoadNext when the view went away while the
// request was in flight. The page is discarded.
var ErrUnmounted = errors.New("feed: view unmounted")

// FetchFunc loads up to limit items after cursor. An empty cursor means the
// first page.
type FetchFunc[T any] func(ctx context.Context, cursor string, limit int) ([]T, error)

// Snapshot is a read-only view of a Pager's state.
type Snapshot[T any] struct {
	Items      []T
	Pages      int
	Loading    bool
	Done       bool
	Empty      bool
	Err        error
	NextCursor string
}

// Option configures a Pager.
type Option func(*options)

type options struct {
	limit int
	name  string
	log   *zap.Logger
}

// WithLimit sets the page size.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithName labels the pager in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Pager accumulates cursor-paginated pages in server order.
//
// At most one fetch is outstanding at a time; a LoadNext issued while one is
// running returns immediately without a request. A page shorter than the
// limit ends the stream. A failed fetch is terminal and leaves the
// accumulated items untouched.
type Pager[T any] struct {
	fetch    FetchFunc[T]
	cursorOf func(T) string
	opts     options

	inFlight  atomic.Bool
	unmounted atomic.Bool

	mu     sync.Mutex
	items  []T
	pages  int
	done   bool
	empty  bool
	err    error
	cursor string
	render func(Snapshot[T])
}

// NewPager builds a Pager. cursorOf derives the next cursor from the last
// item received.
func NewPager[T any](fetch FetchFunc[T], cursorOf func(T) string, opts ...Option) *Pager[T] {
	o := options{limit: DefaultLimit, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pager[T]{fetch: fetch, cursorOf: cursorOf, opts: o}
}

// OnRender registers fn to receive a snapshot after every applied fetch.
func (p *Pager[T]) OnRender(fn func(Snapshot[T])) {
	p.mu.Lock()
	p.render = fn
	p.mu.Unlock()
}

// Limit returns the configured page size.
func (p *Pager[T]) Limit() int { return p.opts.limit }

// LoadNext fetches the next page and appends it.
//
// It returns nil without a request when a fetch is already running, the
// stream is done, a previous fetch failed, or the pager is unmounted.
// A fetch error is recorded in the snapshot and also returned.
func (p *Pager[T]) LoadNext(ctx context.Context) error {
	if p.unmounted.Load() {
		return nil
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return nil
	}

	p.mu.Lock()
	if p.done || p.err != nil {
		p.mu.Unlock()
		p.inFlight.Store(false)
		return nil
	}
	cursor := p.cursor
	p.mu.Unlock()

	p.emit() // loading indicator

	page, err := p.fetch(ctx, cursor, p.opts.limit)

	if p.unmounted.Load() {
		p.inFlight.Store(false)
		p.opts.log.Debug("discarding page for unmounted view", zap.String("view", p.opts.name))
		return ErrUnmounted
	}

	p.mu.Lock()
	if err != nil {
		p.err = err
	} else {
		if p.pages == 0 && len(page) == 0 {
			p.empty = true
		}
		p.items = append(p.items, page...)
		p.pages++
		if len(page) > 0 {
			p.cursor = p.cursorOf(page[len(page)-1])
		}
		if len(page) < p.opts.limit {
			p.done = true
		}
	}
	p.mu.Unlock()
	p.inFlight.Store(false)

	if err != nil {
		p.opts.log.Warn("page fetch failed",
			zap.String("view", p.opts.name),
			zap.String("cursor", cursor),
			zap.Error(err))
	} else if p.opts.name != "" {
		metrics.PageLoaded(p.opts.name)
	}

	p.emit()
	return err
}

// Snapshot returns the current state.
func (p *Pager[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pager[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Items:      slices.Clone(p.items),
		Pages:      p.pages,
		Loading:    p.inFlight.Load(),
		Done:       p.done,
		Empty:      p.empty,
		Err:        p.err,
		NextCursor: p.cursor,
	}
}

func (p *Pager[T]) emit() {
	if p.unmounted.Load() {
		return
	}
	p.mu.Lock()
	fn := p.render
	snap := p.snapshotLocked()
	p.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

// Unmount drops the accumulated state. A fetch still in flight completes but
// its result is discarded and nothing is rendered.
func (p *Pager[T]) Unmount() {
	p.unmounted.Store(true)
	p.mu.Lock()
	p.items = nil
	p.render = nil
	p.mu.Unlock()
}

// Mounted reports whether Unmount has not been called.
func (p *Pager[T]) Mounted() bool { return !p.unmounted.Load() }
