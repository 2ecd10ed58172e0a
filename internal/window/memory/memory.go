package memory

import (
	"context"
	"sync"
	"time"

	"github.com/finledger/dbrouter/pkg/dbrouter"
)

// windowTracker keeps session deadlines in a sync.Map so concurrent
// sessions never contend on a shared lock. Expired entries are collected
// lazily on lookup; no sweeper goroutine.
type windowTracker struct {
	entries sync.Map
	window  time.Duration
}

func New(window time.Duration) dbrouter.WindowTracker {
	return &windowTracker{
		window: window,
	}
}

func (t *windowTracker) Arm(ctx context.Context, sessionID string) error {
	t.entries.Store(sessionID, time.Now().Add(t.window).UnixNano())
	return nil
}

func (t *windowTracker) IsActive(ctx context.Context, sessionID string) (bool, error) {
	value, ok := t.entries.Load(sessionID)
	if !ok {
		return false, nil
	}

	expiry := value.(int64)
	if time.Now().UnixNano() >= expiry {
		// CompareAndDelete keeps a concurrent re-arm from being dropped.
		t.entries.CompareAndDelete(sessionID, value)
		return false, nil
	}

	return true, nil
}

func (t *windowTracker) ActiveCount(ctx context.Context) (int, error) {
	now := time.Now().UnixNano()
	count := 0

	t.entries.Range(func(key, value interface{}) bool {
		if now >= value.(int64) {
			t.entries.CompareAndDelete(key, value)
		} else {
			count++
		}

		return true
	})

	return count, nil
}

func (t *windowTracker) Close() error {
	return nil
}
