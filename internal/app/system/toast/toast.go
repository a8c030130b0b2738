// Package toast collects notifications raised while handling one HTMX
// request and hands them to the browser in an HX-Trigger header.
package toast

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

// Levels understood by the console's toast script.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Message is one toast.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Collector implements membership.Notifier for a single request.
type Collector struct {
	mu   sync.Mutex
	msgs []Message
	// Extra events merged into the same HX-Trigger header.
	events map[string]any
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{events: make(map[string]any)}
}

// Success queues a success toast.
func (c *Collector) Success(msg string) { c.add(LevelSuccess, msg) }

// Error queues an error toast.
func (c *Collector) Error(msg string) { c.add(LevelError, msg) }

func (c *Collector) add(level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, Message{Level: level, Text: msg})
}

// Trigger adds a client-side event (name -> detail) to the header.
func (c *Collector) Trigger(name string, detail any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[name] = detail
}

// Messages returns the queued toasts.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.msgs...)
}

// Write sets HX-Trigger on w. Call it before the response body is written.
// Toasts are sent as {"showToast": [{level, text}, ...]}.
func (c *Collector) Write(w http.ResponseWriter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.msgs) == 0 && len(c.events) == 0 {
		return
	}
	payload := make(map[string]any, len(c.events)+1)
	for k, v := range c.events {
		payload[k] = v
	}
	if len(c.msgs) > 0 {
		payload["showToast"] = c.msgs
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}

type ctxKey struct{}

// NewContext returns ctx carrying c. Hooks that run deep inside a
// controller call (badge refresh, for one) use it to reach the response.
func NewContext(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the Collector stored by NewContext.
func FromContext(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Collector)
	return c, ok && c != nil
}
