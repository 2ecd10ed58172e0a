package registry

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/finledger/dbrouter/pkg/dbrouter"
)

// ConnectFunc establishes one backend handle. Production wiring passes
// postgres.Connect; tests substitute stubs.
type ConnectFunc func(ctx context.Context, url string, timeout time.Duration) (dbrouter.Backend, error)

type backendRegistry struct {
	primary  dbrouter.Backend
	replicas []dbrouter.Backend
	mutex    sync.Mutex
	closed   bool
}

// New connects the primary and every configured replica. A primary failure
// aborts startup; a replica failure only shrinks the pool, so the process
// degrades to a primary-only topology instead of refusing to boot.
func New(ctx context.Context, config dbrouter.Config, connect ConnectFunc) (dbrouter.Registry, error) {
	primary, err := connect(ctx, config.PrimaryURL, config.ConnectionTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "primary connection failed")
	}

	var replicas []dbrouter.Backend
	for i, url := range config.ReplicaURLs {
		replica, err := connect(ctx, url, config.ConnectionTimeout)
		if err != nil {
			logrus.WithError(err).WithField("replica", i).
				Warn("excluding unreachable replica from pool")
			continue
		}

		replicas = append(replicas, replica)
	}

	logrus.WithFields(logrus.Fields{
		"primary":  primary.Address(),
		"replicas": len(replicas),
	}).Info("backend registry initialized")

	return &backendRegistry{
		primary:  primary,
		replicas: replicas,
	}, nil
}

func (r *backendRegistry) Primary() dbrouter.Backend {
	return r.primary
}

func (r *backendRegistry) Replicas() []dbrouter.Backend {
	result := make([]dbrouter.Backend, len(r.replicas))
	copy(result, r.replicas)
	return result
}

func (r *backendRegistry) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true

	lastErr := r.primary.Close()

	for _, replica := range r.replicas {
		if err := replica.Close(); err != nil {
			if lastErr != nil {
				logrus.WithError(lastErr).Error("unexpected error while closing backends")
			}

			lastErr = err
		}
	}

	return lastErr
}
