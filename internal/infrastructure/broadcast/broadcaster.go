// Package broadcast fans progress messages out to every connected listener.
package broadcast

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

// Subscription is one listener's view of the stream.
type Subscription struct {
	ID       string
	Messages <-chan string

	ch chan string
}

// Broadcaster delivers every published message to all current subscribers.
// A subscriber whose buffer is full misses the message; publishers never block.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[string]*Subscription
	buffer  int
	log     zerolog.Logger
	dropped uint64
}

// New creates a broadcaster whose subscriptions buffer up to buffer messages.
func New(buffer int, log zerolog.Logger) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{
		subs:   make(map[string]*Subscription),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a new listener. Messages published before the call are not replayed.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan string, b.buffer)
	sub := &Subscription{
		ID:       uuid.NewString(),
		Messages: ch,
		ch:       ch,
	}

	b.mu.Lock()
	b.subs[sub.ID] = sub
	count := len(b.subs)
	b.mu.Unlock()

	b.log.Debug().Str("subscriber_id", sub.ID).Int("subscribers", count).Msg("Subscriber connected")
	return sub
}

// Unsubscribe removes the listener and closes its channel. Safe to call twice.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	if _, ok := b.subs[sub.ID]; !ok {
		b.mu.Unlock()
		return
	}
	delete(b.subs, sub.ID)
	close(sub.ch)
	count := len(b.subs)
	b.mu.Unlock()

	b.log.Debug().Str("subscriber_id", sub.ID).Int("subscribers", count).Msg("Subscriber disconnected")
}

// Publish sends message to every subscriber without blocking.
func (b *Broadcaster) Publish(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		select {
		case sub.ch <- message:
		default:
			b.dropped++
			b.log.Warn().Str("subscriber_id", id).Msg("Subscriber buffer full, dropping message")
		}
	}
}

// SubscriberCount returns the number of connected listeners.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a buffer was full.
func (b *Broadcaster) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Close disconnects every subscriber.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}
