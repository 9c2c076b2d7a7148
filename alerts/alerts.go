// Package alerts implements the portal's ephemeral notification channel.
// Every alert removes itself after a fixed time-to-live; views only ever
// read the current set.
package alerts

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an alert stays visible unless dismissed earlier.
const DefaultTTL = 5 * time.Second

// Kind classifies an alert for presentation
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Alert is a single user-facing message. Identity is the ID; two alerts
// with the same kind and message are still distinct entries.
type Alert struct {
	ID        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Channel holds the currently visible alerts in insertion order.
type Channel struct {
	mu     sync.Mutex
	ttl    time.Duration
	alerts []Alert
	timers map[string]*time.Timer
	now    func() time.Time
}

// Option modifies a Channel
type Option func(*Channel)

// WithTTL overrides the per-alert time-to-live (primarily for testing)
func WithTTL(ttl time.Duration) Option {
	return func(c *Channel) {
		c.ttl = ttl
	}
}

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(now func() time.Time) Option {
	return func(c *Channel) {
		c.now = now
	}
}

// NewChannel creates an alert channel with the default 5 second TTL.
func NewChannel(options ...Option) *Channel {
	c := &Channel{
		ttl:    DefaultTTL,
		timers: make(map[string]*time.Timer),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Add appends a new alert and schedules its own removal after the TTL.
// No deduplication is performed; every call produces a new entry.
func (c *Channel) Add(kind Kind, message string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	c.alerts = append(c.alerts, Alert{
		ID:        id,
		Kind:      kind,
		Message:   message,
		CreatedAt: c.now(),
	})
	c.timers[id] = time.AfterFunc(c.ttl, func() {
		c.Remove(id)
	})
	return id
}

// Remove dismisses an alert before its TTL elapses. Removing an unknown or
// already-expired id is a no-op.
func (c *Channel) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	for i, alert := range c.alerts {
		if alert.ID == id {
			c.alerts = append(c.alerts[:i], c.alerts[i+1:]...)
			return
		}
	}
}

// Active returns a snapshot of the visible alerts in insertion order.
func (c *Channel) Active() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Alert, len(c.alerts))
	copy(out, c.alerts)
	return out
}

// Success is shorthand for Add(KindSuccess, message)
func (c *Channel) Success(message string) string { return c.Add(KindSuccess, message) }

// Error is shorthand for Add(KindError, message)
func (c *Channel) Error(message string) string { return c.Add(KindError, message) }

// Warning is shorthand for Add(KindWarning, message)
func (c *Channel) Warning(message string) string { return c.Add(KindWarning, message) }

// Info is shorthand for Add(KindInfo, message)
func (c *Channel) Info(message string) string { return c.Add(KindInfo, message) }
