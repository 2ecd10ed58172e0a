package registry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/finledger/dbrouter/internal/registry"
	"github.com/finledger/dbrouter/pkg/dbrouter"
)

const (
	PrimaryURL = "postgres://primary:5432/app"
	Replica1   = "postgres://replica1:5432/app"
	Replica2   = "postgres://replica2:5432/app"
)

type RegistryTestSuite struct {
	suite.Suite

	backends map[string]*dbrouter.Mock_Backend
	failures map[string]error
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) TestShouldFailWhenPrimaryIsUnreachable() {
	s.failures[PrimaryURL] = errors.New("connection refused")
	_, err := registry.New(context.Background(), s.makeConfig(Replica1), s.connect)
	s.NotNil(err)
}

func (s *RegistryTestSuite) TestShouldExposePrimary() {
	r, err := registry.New(context.Background(), s.makeConfig(), s.connect)
	s.Nil(err)
	s.Equal(s.backends[PrimaryURL], r.Primary())
}

func (s *RegistryTestSuite) TestShouldExposeReplicasInConfiguredOrder() {
	r, err := registry.New(context.Background(), s.makeConfig(Replica1, Replica2), s.connect)
	s.Nil(err)
	replicas := r.Replicas()
	s.Equal(2, len(replicas))
	s.Equal(s.backends[Replica1], replicas[0])
	s.Equal(s.backends[Replica2], replicas[1])
}

func (s *RegistryTestSuite) TestShouldSkipUnreachableReplica() {
	s.failures[Replica1] = errors.New("connection refused")
	r, err := registry.New(context.Background(), s.makeConfig(Replica1, Replica2), s.connect)
	s.Nil(err)
	replicas := r.Replicas()
	s.Equal(1, len(replicas))
	s.Equal(s.backends[Replica2], replicas[0])
}

func (s *RegistryTestSuite) TestShouldBootWithoutAnyReplica() {
	s.failures[Replica1] = errors.New("connection refused")
	s.failures[Replica2] = errors.New("connection refused")
	r, err := registry.New(context.Background(), s.makeConfig(Replica1, Replica2), s.connect)
	s.Nil(err)
	s.Empty(r.Replicas())
}

func (s *RegistryTestSuite) TestCloseShouldCloseEveryBackend() {
	r, err := registry.New(context.Background(), s.makeConfig(Replica1), s.connect)
	s.Nil(err)
	s.Nil(r.Close())
	s.backends[PrimaryURL].AssertCalled(s.T(), "Close")
	s.backends[Replica1].AssertCalled(s.T(), "Close")
}

func (s *RegistryTestSuite) TestCloseShouldBeIdempotent() {
	r, err := registry.New(context.Background(), s.makeConfig(Replica1), s.connect)
	s.Nil(err)
	s.Nil(r.Close())
	s.Nil(r.Close())
	s.backends[PrimaryURL].AssertNumberOfCalls(s.T(), "Close", 1)
}

func (s *RegistryTestSuite) TestCloseShouldReportReplicaError() {
	r, err := registry.New(context.Background(), s.makeConfig(Replica1), s.connect)
	s.Nil(err)

	closeErr := errors.New("close failed")
	backend := s.backends[Replica1]
	backend.ExpectedCalls = nil
	backend.On("Close").Return(closeErr)

	s.Equal(closeErr, r.Close())
}

func (s *RegistryTestSuite) SetupTest() {
	s.backends = make(map[string]*dbrouter.Mock_Backend)
	s.failures = make(map[string]error)
}

func (s *RegistryTestSuite) connect(ctx context.Context,
	url string, timeout time.Duration) (dbrouter.Backend, error) {

	if err, ok := s.failures[url]; ok {
		return nil, err
	}

	backend := &dbrouter.Mock_Backend{}
	backend.On("Address").Return(url)
	backend.On("Close").Return(nil)
	s.backends[url] = backend

	return backend, nil
}

func (s *RegistryTestSuite) makeConfig(replicaURLs ...string) dbrouter.Config {
	return dbrouter.Config{
		PrimaryURL:          PrimaryURL,
		ReplicaURLs:         replicaURLs,
		MaxReplicaLag:       time.Second,
		ConsistencyWindow:   5 * time.Second,
		HealthCheckInterval: 30 * time.Second,
		ConnectionTimeout:   5 * time.Second,
		PreferReplicas:      true,
	}
}
