package dbrouter

import (
	"time"
)

type MetricsSnapshot struct {
	PrimaryReads            int64 `json:"primaryReads"`
	PrimaryWrites           int64 `json:"primaryWrites"`
	ReplicaReads            int64 `json:"replicaReads"`
	Failovers               int64 `json:"failovers"`
	LagViolations           int64 `json:"lagViolations"`
	ConsistencyEnforcements int64 `json:"consistencyEnforcements"`
	HealthCheckFailures     int64 `json:"healthCheckFailures"`

	ActiveReplicas           int `json:"activeReplicas"`
	TotalReplicas            int `json:"totalReplicas"`
	ActiveConsistencyWindows int `json:"activeConsistencyWindows"`

	ReplicaReadPercent float64 `json:"replicaReadPercent"`
	FailoverPercent    float64 `json:"failoverPercent"`
}

type PrimaryStatus struct {
	Address   string `json:"address"`
	Connected bool   `json:"connected"`
}

type ReplicaStatus struct {
	Index             int       `json:"index"`
	Address           string    `json:"address"`
	Healthy           bool      `json:"healthy"`
	LagMillis         int64     `json:"lagMillis"`
	LastCheckedAt     time.Time `json:"lastCheckedAt"`
	ConsecutiveErrors int       `json:"consecutiveErrors"`
	Eligible          bool      `json:"eligible"`
}

type ConfigStatus struct {
	Primary                   string   `json:"primary"`
	Replicas                  []string `json:"replicas"`
	MaxReplicaLagMillis       int64    `json:"maxReplicaLagMillis"`
	ConsistencyWindowMillis   int64    `json:"consistencyWindowMillis"`
	HealthCheckIntervalMillis int64    `json:"healthCheckIntervalMillis"`
	ConnectionTimeoutMillis   int64    `json:"connectionTimeoutMillis"`
	PreferReplicas            bool     `json:"preferReplicas"`
}

type Status struct {
	Primary  PrimaryStatus   `json:"primary"`
	Replicas []ReplicaStatus `json:"replicas"`
	Config   ConfigStatus    `json:"config"`
}
