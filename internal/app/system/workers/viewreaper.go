// internal/app/system/workers/viewreaper.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultReapInterval is how often idle views are swept.
const DefaultReapInterval = time.Minute

// Reaper releases expired entries and reports how many it released.
// *views.Registry satisfies it.
type Reaper interface {
	Reap() int
}

// ViewReaper is a background worker that unmounts views whose owners
// stopped using them. The registry also reaps on Mount; this covers
// quiet periods when nothing new is mounted.
type ViewReaper struct {
	reg      Reaper
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewViewReaper creates a reaper. interval <= 0 uses DefaultReapInterval.
func NewViewReaper(reg Reaper, logger *zap.Logger, interval time.Duration) *ViewReaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewReaper{
		reg:      reg,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *ViewReaper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("view reaper started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
// It is safe to call more than once.
func (w *ViewReaper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("view reaper stopped")
	})
}

func (w *ViewReaper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if n := w.reg.Reap(); n > 0 {
				w.log.Info("unmounted idle views", zap.Int("count", n))
			}
		}
	}
}
