package router

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finledger/dbrouter/internal/metrics"
	"github.com/finledger/dbrouter/pkg/dbrouter"
)

type connectionRouter struct {
	registry dbrouter.Registry
	monitor  dbrouter.Monitor
	windows  dbrouter.WindowTracker
	metrics  *metrics.Metrics
	config   dbrouter.Config
	intn     func(n int) int

	mutex  sync.Mutex
	closed bool
}

type Option func(r *connectionRouter)

// WithIntn overrides the replica tie-break source, for deterministic tests.
func WithIntn(intn func(n int) int) Option {
	return func(r *connectionRouter) {
		r.intn = intn
	}
}

func New(registry dbrouter.Registry,
	monitor dbrouter.Monitor,
	windows dbrouter.WindowTracker,
	m *metrics.Metrics,
	config dbrouter.Config,
	options ...Option) dbrouter.Router {

	result := &connectionRouter{
		registry: registry,
		monitor:  monitor,
		windows:  windows,
		metrics:  m,
		config:   config,
		intn:     rand.Intn,
	}

	for _, option := range options {
		option(result)
	}

	return result
}

type candidate struct {
	backend dbrouter.Backend
	index   int
	lag     time.Duration
}

// GetConnection is the routing decision path. It reads the monitor's
// latest snapshot and the session's window state; it never probes a
// backend. Degraded topologies fall back to the primary instead of
// failing the caller.
func (r *connectionRouter) GetConnection(ctx context.Context,
	request *dbrouter.GetConnectionRequest) (*dbrouter.Connection, error) {

	if r.isClosed() {
		return nil, dbrouter.ErrClosed
	}

	if request.Operation == dbrouter.Operation_WRITE {
		if request.SessionID != "" {
			if err := r.windows.Arm(ctx, request.SessionID); err != nil {
				logrus.WithError(err).WithField("session", request.SessionID).
					Warn("failed to arm consistency window")
			}
		}

		r.metrics.IncPrimaryWrites()
		return r.primaryConnection(dbrouter.ReasonWriteOperation), nil
	}

	if request.ForcePrimary {
		r.metrics.IncPrimaryReads()
		return r.primaryConnection(dbrouter.ReasonForced), nil
	}

	if request.Critical {
		r.metrics.IncPrimaryReads()
		return r.primaryConnection(dbrouter.ReasonCriticalRead), nil
	}

	if request.SessionID != "" && r.windowActive(ctx, request.SessionID) {
		r.metrics.IncPrimaryReads()
		r.metrics.IncConsistencyEnforcements()
		return r.primaryConnection(dbrouter.ReasonConsistencyWindow), nil
	}

	if !r.config.PreferReplicas {
		r.metrics.IncPrimaryReads()
		return r.primaryConnection(dbrouter.ReasonReplicasDisabled), nil
	}

	eligible := r.eligibleReplicas()
	if len(eligible) == 0 {
		r.metrics.IncPrimaryReads()
		r.metrics.IncFailovers()
		return r.primaryConnection(dbrouter.ReasonNoHealthyReplicas), nil
	}

	pick := eligible[r.intn(len(eligible))]
	r.metrics.IncReplicaReads()

	return &dbrouter.Connection{
		Backend: pick.backend,
		Target:  dbrouter.ReplicaTarget(pick.index),
		Reason:  dbrouter.ReasonReplicaAvailable,
		Lag:     pick.lag,
	}, nil
}

func (r *connectionRouter) Primary(ctx context.Context,
	sessionID string) (*dbrouter.Connection, error) {

	return r.GetConnection(ctx, &dbrouter.GetConnectionRequest{
		Operation:    dbrouter.Operation_READ,
		ForcePrimary: true,
		SessionID:    sessionID,
	})
}

func (r *connectionRouter) CriticalRead(ctx context.Context,
	sessionID string) (*dbrouter.Connection, error) {

	return r.GetConnection(ctx, &dbrouter.GetConnectionRequest{
		Operation: dbrouter.Operation_READ,
		Critical:  true,
		SessionID: sessionID,
	})
}

func (r *connectionRouter) Metrics(ctx context.Context) (*dbrouter.MetricsSnapshot, error) {
	if r.isClosed() {
		return nil, dbrouter.ErrClosed
	}

	snapshot := r.monitor.Snapshot()
	active := 0
	for _, record := range snapshot {
		if record.Healthy {
			active++
		}
	}

	windows, err := r.windows.ActiveCount(ctx)
	if err != nil {
		logrus.WithError(err).Warn("failed to count active consistency windows")
		windows = 0
	}

	return r.metrics.Snapshot(active, len(snapshot), windows), nil
}

func (r *connectionRouter) Status(ctx context.Context) (*dbrouter.Status, error) {
	if r.isClosed() {
		return nil, dbrouter.ErrClosed
	}

	return r.buildStatus(ctx), nil
}

func (r *connectionRouter) ForceHealthCheck(ctx context.Context) (*dbrouter.Status, error) {
	if r.isClosed() {
		return nil, dbrouter.ErrClosed
	}

	r.monitor.ForceCheck(ctx)
	return r.buildStatus(ctx), nil
}

func (r *connectionRouter) Close() error {
	r.mutex.Lock()
	if r.closed {
		r.mutex.Unlock()
		return nil
	}
	r.closed = true
	r.mutex.Unlock()

	lastErr := r.monitor.Close()

	if err := r.windows.Close(); err != nil {
		if lastErr != nil {
			logrus.WithError(lastErr).Error("unexpected error while closing router")
		}

		lastErr = err
	}

	if err := r.registry.Close(); err != nil {
		if lastErr != nil {
			logrus.WithError(lastErr).Error("unexpected error while closing router")
		}

		lastErr = err
	}

	return lastErr
}

func (r *connectionRouter) primaryConnection(reason dbrouter.Reason) *dbrouter.Connection {
	return &dbrouter.Connection{
		Backend: r.registry.Primary(),
		Target:  dbrouter.TargetPrimary,
		Reason:  reason,
	}
}

func (r *connectionRouter) windowActive(ctx context.Context, sessionID string) bool {
	active, err := r.windows.IsActive(ctx, sessionID)
	if err != nil {
		logrus.WithError(err).WithField("session", sessionID).
			Warn("failed to query consistency window")
		return false
	}

	return active
}

func (r *connectionRouter) eligibleReplicas() []candidate {
	replicas := r.registry.Replicas()
	snapshot := r.monitor.Snapshot()

	var result []candidate
	for _, record := range snapshot {
		if record.Index >= len(replicas) {
			continue
		}

		if record.Healthy && record.Lag < r.config.MaxReplicaLag {
			result = append(result, candidate{
				backend: replicas[record.Index],
				index:   record.Index,
				lag:     record.Lag,
			})
		}
	}

	return result
}

func (r *connectionRouter) buildStatus(ctx context.Context) *dbrouter.Status {
	primary := r.registry.Primary()

	pingCtx, cancel := context.WithTimeout(ctx, r.config.ConnectionTimeout)
	defer cancel()
	connected := primary.Ping(pingCtx) == nil

	snapshot := r.monitor.Snapshot()
	replicas := make([]dbrouter.ReplicaStatus, len(snapshot))
	for i, record := range snapshot {
		replicas[i] = dbrouter.ReplicaStatus{
			Index:             record.Index,
			Address:           record.Address,
			Healthy:           record.Healthy,
			LagMillis:         record.Lag.Milliseconds(),
			LastCheckedAt:     record.LastCheckedAt,
			ConsecutiveErrors: record.ConsecutiveErrors,
			Eligible:          record.Healthy && record.Lag < r.config.MaxReplicaLag,
		}
	}

	replicaAddresses := make([]string, 0, len(r.registry.Replicas()))
	for _, replica := range r.registry.Replicas() {
		replicaAddresses = append(replicaAddresses, replica.Address())
	}

	return &dbrouter.Status{
		Primary: dbrouter.PrimaryStatus{
			Address:   primary.Address(),
			Connected: connected,
		},
		Replicas: replicas,
		Config: dbrouter.ConfigStatus{
			Primary:                   primary.Address(),
			Replicas:                  replicaAddresses,
			MaxReplicaLagMillis:       r.config.MaxReplicaLag.Milliseconds(),
			ConsistencyWindowMillis:   r.config.ConsistencyWindow.Milliseconds(),
			HealthCheckIntervalMillis: r.config.HealthCheckInterval.Milliseconds(),
			ConnectionTimeoutMillis:   r.config.ConnectionTimeout.Milliseconds(),
			PreferReplicas:            r.config.PreferReplicas,
		},
	}
}

func (r *connectionRouter) isClosed() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.closed
}
