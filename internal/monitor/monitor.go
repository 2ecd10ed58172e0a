package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finledger/dbrouter/pkg/dbrouter"
)

// Recorder receives the monitor's observable events. The metrics package
// implements it; tests substitute their own.
type Recorder interface {
	IncHealthCheckFailures()
	IncLagViolations()
	ObserveHealth(snapshot []dbrouter.ReplicaHealth)
}

type healthMonitor struct {
	replicas []dbrouter.Backend
	interval time.Duration
	timeout  time.Duration
	maxLag   time.Duration
	recorder Recorder

	snapshot    atomic.Value
	checking    sync.Mutex
	mutex       sync.Mutex
	subscribers []chan []dbrouter.ReplicaHealth
	closed      chan struct{}
	wg          sync.WaitGroup
}

type Option func(m *healthMonitor)

func WithRecorder(recorder Recorder) Option {
	return func(m *healthMonitor) {
		m.recorder = recorder
	}
}

// New seeds every replica record as unhealthy with lag pinned to the
// configured threshold, so a replica that has never been probed is never
// eligible for reads, and starts the periodic check loop.
func New(replicas []dbrouter.Backend, config dbrouter.Config,
	options ...Option) dbrouter.Monitor {

	result := &healthMonitor{
		replicas: replicas,
		interval: config.HealthCheckInterval,
		timeout:  config.ConnectionTimeout,
		maxLag:   config.MaxReplicaLag,
		recorder: nopRecorder{},
		closed:   make(chan struct{}),
	}

	for _, option := range options {
		option(result)
	}

	seed := make([]dbrouter.ReplicaHealth, len(replicas))
	for i, replica := range replicas {
		seed[i] = dbrouter.ReplicaHealth{
			Index:   i,
			Address: replica.Address(),
			Healthy: false,
			Lag:     config.MaxReplicaLag,
		}
	}
	result.snapshot.Store(seed)

	started := make(chan struct{})
	result.wg.Add(1)
	go result.beginCheckLoop(started)
	<-started

	return result
}

func (m *healthMonitor) Snapshot() []dbrouter.ReplicaHealth {
	return m.snapshot.Load().([]dbrouter.ReplicaHealth)
}

func (m *healthMonitor) ForceCheck(ctx context.Context) []dbrouter.ReplicaHealth {
	if m.isClosed() {
		return m.Snapshot()
	}

	m.runCycle(ctx)
	return m.Snapshot()
}

func (m *healthMonitor) Subscribe() <-chan []dbrouter.ReplicaHealth {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	ch := make(chan []dbrouter.ReplicaHealth, 1)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

func (m *healthMonitor) Close() error {
	m.mutex.Lock()
	select {
	case <-m.closed:
		m.mutex.Unlock()
		return nil

	default:
		close(m.closed)
	}
	m.mutex.Unlock()

	m.wg.Wait()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, ch := range m.subscribers {
		close(ch)
	}
	m.subscribers = nil

	return nil
}

func (m *healthMonitor) beginCheckLoop(started chan struct{}) {
	defer m.wg.Done()

	close(started)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.closed:
			return

		case <-ticker.C:
			m.runCycle(context.Background())
		}
	}
}

// runCycle probes every replica concurrently, each probe bounded by its
// own timeout, then swaps in the new snapshot. Cycles are serialized so
// the snapshot has a single writer.
func (m *healthMonitor) runCycle(ctx context.Context) {
	m.checking.Lock()
	defer m.checking.Unlock()

	previous := m.Snapshot()
	next := make([]dbrouter.ReplicaHealth, len(m.replicas))

	var wg sync.WaitGroup
	for i, replica := range m.replicas {
		wg.Add(1)
		go func(index int, backend dbrouter.Backend) {
			defer wg.Done()
			next[index] = m.checkReplica(ctx, index, backend, previous[index])
		}(i, replica)
	}
	wg.Wait()

	m.snapshot.Store(next)
	m.recorder.ObserveHealth(next)
	m.publish(next)
}

func (m *healthMonitor) checkReplica(ctx context.Context, index int,
	backend dbrouter.Backend,
	previous dbrouter.ReplicaHealth) dbrouter.ReplicaHealth {

	if err := m.probe(ctx, backend.Ping); err != nil {
		return m.recordFailure(index, backend, previous, err)
	}

	var lag time.Duration
	err := m.probe(ctx, func(probeCtx context.Context) error {
		var lagErr error
		lag, lagErr = backend.ReplicationLag(probeCtx)
		return lagErr
	})
	if err != nil {
		return m.recordFailure(index, backend, previous, err)
	}

	if lag >= m.maxLag {
		m.recorder.IncLagViolations()
		logrus.WithFields(logrus.Fields{
			"replica": index,
			"lag":     lag,
			"maxLag":  m.maxLag,
		}).Warn("replica exceeds lag threshold")
	}

	return dbrouter.ReplicaHealth{
		Index:             index,
		Address:           backend.Address(),
		Healthy:           true,
		Lag:               lag,
		LastCheckedAt:     time.Now(),
		ConsecutiveErrors: 0,
	}
}

func (m *healthMonitor) probe(ctx context.Context,
	operation func(ctx context.Context) error) error {

	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	return operation(probeCtx)
}

func (m *healthMonitor) recordFailure(index int, backend dbrouter.Backend,
	previous dbrouter.ReplicaHealth, err error) dbrouter.ReplicaHealth {

	m.recorder.IncHealthCheckFailures()
	logrus.WithError(err).WithField("replica", index).Warn("replica health check failed")

	return dbrouter.ReplicaHealth{
		Index:             index,
		Address:           backend.Address(),
		Healthy:           false,
		Lag:               previous.Lag,
		LastCheckedAt:     time.Now(),
		ConsecutiveErrors: previous.ConsecutiveErrors + 1,
	}
}

func (m *healthMonitor) publish(snapshot []dbrouter.ReplicaHealth) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	select {
	case <-m.closed:
		return

	default:
	}

	for _, ch := range m.subscribers {
		select {
		case ch <- snapshot:

		default:
		}
	}
}

func (m *healthMonitor) isClosed() bool {
	select {
	case <-m.closed:
		return true

	default:
		return false
	}
}

type nopRecorder struct{}

func (nopRecorder) IncHealthCheckFailures()                {}
func (nopRecorder) IncLagViolations()                      {}
func (nopRecorder) ObserveHealth([]dbrouter.ReplicaHealth) {}
