package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces outbound calls per key and tracks sliding request windows.
// The zero value is not usable; construct with New.
type Limiter struct {
	mu       sync.Mutex
	keys     map[string]*keyState
	requests map[string][]time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

type keyState struct {
	// mu serializes Throttle callers of the same key.
	mu       sync.Mutex
	lastCall time.Time
}

func New() *Limiter {
	return &Limiter{
		keys:     make(map[string]*keyState),
		requests: make(map[string][]time.Time),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Throttle blocks until at least minDelay has passed since the previous call
// for key, then records the current time as the new last call.
func (l *Limiter) Throttle(ctx context.Context, key string, minDelay time.Duration) error {
	state := l.state(key)
	state.mu.Lock()
	defer state.mu.Unlock()

	if !state.lastCall.IsZero() && minDelay > 0 {
		elapsed := l.now().Sub(state.lastCall)
		if elapsed < minDelay {
			if err := l.sleep(ctx, minDelay-elapsed); err != nil {
				return err
			}
		}
	}

	state.lastCall = l.now()
	return nil
}

// CheckRateLimit reports whether another request fits in the sliding window
// and records it when it does.
func (l *Limiter) CheckRateLimit(key string, maxRequests int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)
	recent := l.requests[key][:0]
	for _, ts := range l.requests[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= maxRequests {
		l.requests[key] = recent
		return false
	}

	l.requests[key] = append(recent, now)
	return true
}

// TimeUntilNextRequest returns how long a Throttle call for key would wait.
func (l *Limiter) TimeUntilNextRequest(key string, minDelay time.Duration) time.Duration {
	l.mu.Lock()
	state, ok := l.keys[key]
	l.mu.Unlock()
	if !ok {
		return 0
	}

	state.mu.Lock()
	last := state.lastCall
	state.mu.Unlock()
	if last.IsZero() {
		return 0
	}

	remaining := minDelay - l.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset forgets throttle and window history for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.keys, key)
	delete(l.requests, key)
	l.mu.Unlock()
}

func (l *Limiter) state(key string) *keyState {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.keys[key]
	if !ok {
		state = &keyState{}
		l.keys[key] = state
	}
	return state
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
