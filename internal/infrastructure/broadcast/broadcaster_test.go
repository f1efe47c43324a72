package broadcast

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(sub *Subscription) []string {
	var out []string
	for {
		select {
		case msg, ok := <-sub.Messages:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestBroadcaster_FanOut(t *testing.T) {
	b := New(8, zerolog.Nop())
	first := b.Subscribe()
	second := b.Subscribe()
	require.Equal(t, 2, b.SubscriberCount())

	b.Publish("Searching flights from JFK to LAX...")
	b.Publish("Progress: 50%")

	expected := []string{"Searching flights from JFK to LAX...", "Progress: 50%"}
	assert.Equal(t, expected, drain(first))
	assert.Equal(t, expected, drain(second))
}

func TestBroadcaster_NoReplayForLateSubscribers(t *testing.T) {
	b := New(8, zerolog.Nop())
	b.Publish("early")

	sub := b.Subscribe()
	b.Publish("late")

	assert.Equal(t, []string{"late"}, drain(sub))
}

func TestBroadcaster_PublishWithoutSubscribers(t *testing.T) {
	b := New(8, zerolog.Nop())
	assert.NotPanics(t, func() { b.Publish("nobody listening") })
}

func TestBroadcaster_FullBufferDropsWithoutBlocking(t *testing.T) {
	b := New(1, zerolog.Nop())
	slow := b.Subscribe()
	fast := b.Subscribe()

	b.Publish("one")
	_ = drain(fast)
	b.Publish("two")

	assert.Equal(t, []string{"one"}, drain(slow))
	assert.Equal(t, []string{"two"}, drain(fast))
	assert.Equal(t, uint64(1), b.Dropped())
	assert.Equal(t, 2, b.SubscriberCount())
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := New(4, zerolog.Nop())
	sub := b.Subscribe()

	b.Unsubscribe(sub)
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)

	assert.Equal(t, 0, b.SubscriberCount())
	_, ok := <-sub.Messages
	assert.False(t, ok, "channel should be closed")

	assert.NotPanics(t, func() { b.Publish("after unsubscribe") })
}

func TestBroadcaster_DefaultBuffer(t *testing.T) {
	b := New(0, zerolog.Nop())
	sub := b.Subscribe()
	assert.Equal(t, DefaultBuffer, cap(sub.ch))
}

func TestBroadcaster_Close(t *testing.T) {
	b := New(4, zerolog.Nop())
	sub := b.Subscribe()

	b.Close()

	assert.Equal(t, 0, b.SubscriberCount())
	_, ok := <-sub.Messages
	assert.False(t, ok)
	assert.NotPanics(t, func() { b.Unsubscribe(sub) })
}

func TestBroadcaster_ConcurrentAccess(t *testing.T) {
	b := New(128, zerolog.Nop())
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := b.Subscribe()
			b.Unsubscribe(sub)
		}()
		go func() {
			defer wg.Done()
			b.Publish("Progress: 10%")
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, b.SubscriberCount())
}
