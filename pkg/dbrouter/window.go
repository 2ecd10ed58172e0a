package dbrouter

import (
	"context"
	"io"
)

// WindowTracker records, per logical session, the deadline before which
// reads must be pinned to the primary so the session observes its own
// writes. Entries self-expire; later writes extend the window.
type WindowTracker interface {
	io.Closer

	Arm(ctx context.Context, sessionID string) error
	IsActive(ctx context.Context, sessionID string) (bool, error)
	ActiveCount(ctx context.Context) (int, error)
}
