package dbrouter

import (
	"context"
	"io"
	"time"
)

// ReplicaHealth is one replica's latest probe result. Records are replaced
// wholesale on every check cycle; readers always see a complete record.
type ReplicaHealth struct {
	Index             int
	Address           string
	Healthy           bool
	Lag               time.Duration
	LastCheckedAt     time.Time
	ConsecutiveErrors int
}

type Monitor interface {
	io.Closer

	// Snapshot returns the most recently completed check cycle's view.
	// It never blocks on an in-flight cycle.
	Snapshot() []ReplicaHealth

	// ForceCheck runs one probe cycle synchronously and returns the
	// resulting snapshot.
	ForceCheck(ctx context.Context) []ReplicaHealth

	// Subscribe returns a channel receiving the snapshot of each completed
	// cycle. Slow consumers miss cycles rather than stall the monitor.
	Subscribe() <-chan []ReplicaHealth
}
