package metrics

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finledger/dbrouter/pkg/dbrouter"
)

// Metrics keeps the router's counters twice: atomics feed the JSON
// snapshot, the prometheus registry feeds the exposition endpoint. Both
// are bumped together so the two views never diverge.
type Metrics struct {
	registry *prometheus.Registry

	primaryReads            atomic.Int64
	primaryWrites           atomic.Int64
	replicaReads            atomic.Int64
	failovers               atomic.Int64
	lagViolations           atomic.Int64
	consistencyEnforcements atomic.Int64
	healthCheckFailures     atomic.Int64

	promPrimaryReads            prometheus.Counter
	promPrimaryWrites           prometheus.Counter
	promReplicaReads            prometheus.Counter
	promFailovers               prometheus.Counter
	promLagViolations           prometheus.Counter
	promConsistencyEnforcements prometheus.Counter
	promHealthCheckFailures     prometheus.Counter

	replicaLagMillis *prometheus.GaugeVec
	replicaHealthy   *prometheus.GaugeVec
	activeReplicas   prometheus.Gauge
	totalReplicas    prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{registry: registry}

	m.promPrimaryReads = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "dbrouter_primary_reads_total",
		Help: "Reads routed to the primary",
	})
	m.promPrimaryWrites = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "dbrouter_primary_writes_total",
		Help: "Writes routed to the primary",
	})
	m.promReplicaReads = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "dbrouter_replica_reads_total",
		Help: "Reads routed to a replica",
	})
	m.promFailovers = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "dbrouter_failovers_total",
		Help: "Reads routed to the primary because no replica was eligible",
	})
	m.promLagViolations = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "dbrouter_lag_violations_total",
		Help: "Lag measurements at or above the configured threshold",
	})
	m.promConsistencyEnforcements = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "dbrouter_consistency_enforcements_total",
		Help: "Reads pinned to the primary by an active consistency window",
	})
	m.promHealthCheckFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "dbrouter_health_check_failures_total",
		Help: "Failed replica health probes",
	})

	m.replicaLagMillis = promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
		Name: "dbrouter_replica_lag_ms",
		Help: "Last measured replication lag per replica, in milliseconds",
	}, []string{"replica"})
	m.replicaHealthy = promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
		Name: "dbrouter_replica_healthy",
		Help: "Whether the replica passed its last health probe (1 or 0)",
	}, []string{"replica"})
	m.activeReplicas = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "dbrouter_active_replicas",
		Help: "Replicas currently passing health probes",
	})
	m.totalReplicas = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "dbrouter_total_replicas",
		Help: "Replicas registered at startup",
	})

	return m
}

func (m *Metrics) IncPrimaryReads() {
	m.primaryReads.Add(1)
	m.promPrimaryReads.Inc()
}

func (m *Metrics) IncPrimaryWrites() {
	m.primaryWrites.Add(1)
	m.promPrimaryWrites.Inc()
}

func (m *Metrics) IncReplicaReads() {
	m.replicaReads.Add(1)
	m.promReplicaReads.Inc()
}

func (m *Metrics) IncFailovers() {
	m.failovers.Add(1)
	m.promFailovers.Inc()
}

func (m *Metrics) IncLagViolations() {
	m.lagViolations.Add(1)
	m.promLagViolations.Inc()
}

func (m *Metrics) IncConsistencyEnforcements() {
	m.consistencyEnforcements.Add(1)
	m.promConsistencyEnforcements.Inc()
}

func (m *Metrics) IncHealthCheckFailures() {
	m.healthCheckFailures.Add(1)
	m.promHealthCheckFailures.Inc()
}

// ObserveHealth refreshes the per-replica gauges from a completed check
// cycle's snapshot.
func (m *Metrics) ObserveHealth(snapshot []dbrouter.ReplicaHealth) {
	active := 0
	for _, record := range snapshot {
		label := strconv.Itoa(record.Index)
		m.replicaLagMillis.WithLabelValues(label).Set(float64(record.Lag.Milliseconds()))

		if record.Healthy {
			active++
			m.replicaHealthy.WithLabelValues(label).Set(1)
		} else {
			m.replicaHealthy.WithLabelValues(label).Set(0)
		}
	}

	m.activeReplicas.Set(float64(active))
	m.totalReplicas.Set(float64(len(snapshot)))
}

// Snapshot materializes the counters plus the derived gauges and
// percentages for the JSON metrics endpoint.
func (m *Metrics) Snapshot(activeReplicas int, totalReplicas int,
	activeWindows int) *dbrouter.MetricsSnapshot {

	result := &dbrouter.MetricsSnapshot{
		PrimaryReads:            m.primaryReads.Load(),
		PrimaryWrites:           m.primaryWrites.Load(),
		ReplicaReads:            m.replicaReads.Load(),
		Failovers:               m.failovers.Load(),
		LagViolations:           m.lagViolations.Load(),
		ConsistencyEnforcements: m.consistencyEnforcements.Load(),
		HealthCheckFailures:     m.healthCheckFailures.Load(),

		ActiveReplicas:           activeReplicas,
		TotalReplicas:            totalReplicas,
		ActiveConsistencyWindows: activeWindows,
	}

	totalReads := result.PrimaryReads + result.ReplicaReads
	if totalReads > 0 {
		result.ReplicaReadPercent = float64(result.ReplicaReads) / float64(totalReads) * 100
		result.FailoverPercent = float64(result.Failovers) / float64(totalReads) * 100
	}

	return result
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
