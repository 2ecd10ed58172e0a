package dbrouter

import (
	"context"
	"fmt"
	"io"
	"time"
)

type Operation int

const (
	Operation_READ  Operation = 0
	Operation_WRITE Operation = 1
)

type Target string

const TargetPrimary Target = "primary"

func ReplicaTarget(index int) Target {
	return Target(fmt.Sprintf("replica-%d", index))
}

type Reason string

const (
	ReasonWriteOperation    Reason = "write-operation"
	ReasonForced            Reason = "forced"
	ReasonCriticalRead      Reason = "critical-read"
	ReasonConsistencyWindow Reason = "consistency-window"
	ReasonReplicaAvailable  Reason = "replica-available"
	ReasonNoHealthyReplicas Reason = "no-healthy-replicas"
	ReasonReplicasDisabled  Reason = "replicas-disabled"
)

type GetConnectionRequest struct {
	Operation    Operation
	ForcePrimary bool
	Critical     bool
	SessionID    string
}

// Connection is the routing decision: the handle to run the query on, the
// chosen target, why it was chosen, and the replica's last measured lag
// when a replica was selected.
type Connection struct {
	Backend Backend
	Target  Target
	Reason  Reason
	Lag     time.Duration
}

type Router interface {
	io.Closer

	GetConnection(ctx context.Context, request *GetConnectionRequest) (*Connection, error)

	// Primary is shorthand for a read that must hit the primary.
	Primary(ctx context.Context, sessionID string) (*Connection, error)

	// CriticalRead is shorthand for a read marked critical.
	CriticalRead(ctx context.Context, sessionID string) (*Connection, error)

	Metrics(ctx context.Context) (*MetricsSnapshot, error)
	Status(ctx context.Context) (*Status, error)
	ForceHealthCheck(ctx context.Context) (*Status, error)
}
