package utils

import (
	"sync"
	"time"
)

// FakeClock is a manual clock usable as both backoff.Clock and backoff.Timer.
// Starting the timer advances the clock by the requested duration and fires
// immediately, so polls complete without sleeping.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
	c   chan time.Time

	// OnAdvance, if set, is called with the new time after every Start.
	OnAdvance func(now time.Time)
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start, c: make(chan time.Time, 1)}
}

func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *FakeClock) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}

func (f *FakeClock) Start(d time.Duration) {
	now := f.Advance(d)
	if f.OnAdvance != nil {
		f.OnAdvance(now)
	}
	f.c <- now
}

func (f *FakeClock) Stop() {}

func (f *FakeClock) C() <-chan time.Time {
	return f.c
}
