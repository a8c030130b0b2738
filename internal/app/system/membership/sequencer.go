// internal/app/system/membership/sequencer.go
package membership

import (
	"context"
	"sync"
)

// Sequencer is a FIFO lock keyed by user id. Writers for the same user run
// one at a time in arrival order; different users do not block each other.
type Sequencer struct {
	mu     sync.Mutex
	queues map[int][]chan struct{}
}

// NewSequencer returns an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{queues: make(map[int][]chan struct{})}
}

// Lock waits for key and returns the function that releases it.
// If ctx ends first the caller is removed from the queue and ctx.Err() is
// returned.
func (s *Sequencer) Lock(ctx context.Context, key int) (func(), error) {
	ch := make(chan struct{})

	s.mu.Lock()
	q := s.queues[key]
	s.queues[key] = append(q, ch)
	if len(q) == 0 {
		s.mu.Unlock()
		return s.unlocker(key, ch), nil
	}
	s.mu.Unlock()

	select {
	case <-ch:
		return s.unlocker(key, ch), nil
	case <-ctx.Done():
	}

	s.mu.Lock()
	select {
	case <-ch:
		// Granted while giving up; pass it on.
		s.mu.Unlock()
		s.release(key, ch)
		return nil, ctx.Err()
	default:
	}
	q = s.queues[key]
	for i, c := range q {
		if c == ch {
			s.queues[key] = append(q[:i:i], q[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil, ctx.Err()
}

func (s *Sequencer) unlocker(key int, ch chan struct{}) func() {
	var once sync.Once
	return func() { once.Do(func() { s.release(key, ch) }) }
}

func (s *Sequencer) release(key int, ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[key]
	if len(q) == 0 || q[0] != ch {
		return
	}
	q = q[1:]
	if len(q) == 0 {
		delete(s.queues, key)
		return
	}
	s.queues[key] = q
	close(q[0])
}

// Waiting returns the number of holders and waiters for key.
func (s *Sequencer) Waiting(key int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queues[key])
}
