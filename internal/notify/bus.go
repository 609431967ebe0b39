// Package notify carries user-visible errors from the action boundary to
// whatever front-end is attached (TUI banner/modal or CLI stderr).
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Kind selects how a notification is presented.
type Kind string

const (
	// KindBanner is transient and hides itself (fetch and persistence failures).
	KindBanner Kind = "banner"
	// KindAlert blocks until dismissed (mutation and validation failures).
	KindAlert Kind = "alert"
)

// Notification is a single user-visible message.
type Notification struct {
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(Notification)

// Bus is a synchronous in-process notification bus. Subscribers run inline on
// the publishing goroutine, so they must not block.
type Bus struct {
	mu          sync.Mutex
	subscribers []Subscriber
	log         zerolog.Logger
}

// NewBus creates a bus that also logs every notification.
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{log: logger}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish dispatches a notification to all subscribers.
func (b *Bus) Publish(n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	b.log.Warn().Str("kind", string(n.Kind)).Str("message", n.Message).Msg("notification")

	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Bannerf publishes a transient banner notification.
func (b *Bus) Bannerf(format string, args ...any) {
	b.Publish(Notification{Kind: KindBanner, Message: fmt.Sprintf(format, args...)})
}

// Alertf publishes a blocking alert notification.
func (b *Bus) Alertf(format string, args ...any) {
	b.Publish(Notification{Kind: KindAlert, Message: fmt.Sprintf(format, args...)})
}
