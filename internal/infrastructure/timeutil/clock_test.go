package timeutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	clock := NewRealClock()

	before := time.Now()
	now := clock.Now()
	after := time.Now()

	assert.False(t, now.Before(before), "clock time should not be before start")
	assert.False(t, now.After(after), "clock time should not be after end")
	assert.Equal(t, time.UTC, now.Location())
}

func TestMockClock_Now(t *testing.T) {
	fixedTime := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	clock := NewMockClock(fixedTime)

	assert.Equal(t, fixedTime, clock.Now())
	assert.Equal(t, fixedTime, clock.Now())
}

func TestMockClock_SetAndAdvance(t *testing.T) {
	clock := NewMockClockFromString("2024-01-01T00:00:00Z")

	clock.Advance(24 * time.Hour)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), clock.Now())

	clock.Set(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), clock.Now())

	got := clock.Tick(time.Second)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC), got)
	assert.Equal(t, got, clock.Now())
}

func TestMockClockFromString_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		NewMockClockFromString("not-a-time")
	})
}

func TestMockClock_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Minute)
			_ = clock.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, start.Add(50*time.Minute), clock.Now())
}
