package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClockFrozen(t *testing.T) {
	base := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	clock := NewFixedClock(base, 0)

	assert.Equal(t, base, clock.Now())
	assert.Equal(t, base, clock.Now())
}

func TestFixedClockSteps(t *testing.T) {
	base := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	clock := NewFixedClock(base, time.Second)

	assert.Equal(t, base, clock.Now())
	assert.Equal(t, base.Add(time.Second), clock.Now())
	assert.Equal(t, base.Add(2*time.Second), clock.Now())
}

func TestFixedClockReset(t *testing.T) {
	base := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	clock := NewFixedClock(base, time.Minute)

	clock.Now()
	clock.Now()
	clock.Reset()
	assert.Equal(t, base, clock.Now())
}

func TestFixedClockConcurrent(t *testing.T) {
	base := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	clock := NewFixedClock(base, time.Second)

	var wg sync.WaitGroup
	seen := make([]time.Time, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen[i] = clock.Now()
		}(i)
	}
	wg.Wait()

	// All 100 ticks are distinct
	unique := map[time.Time]bool{}
	for _, ts := range seen {
		unique[ts] = true
	}
	assert.Len(t, unique, 100)
}
