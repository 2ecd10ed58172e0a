package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/finledger/dbrouter/internal/window/memory"
	"github.com/finledger/dbrouter/pkg/dbrouter"
)

const SessionID = "session-42"

type MemoryWindowTestSuite struct {
	suite.Suite

	tracker dbrouter.WindowTracker
}

func TestMemoryWindowTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryWindowTestSuite))
}

func (s *MemoryWindowTestSuite) TestUnknownSessionShouldBeInactive() {
	active, err := s.tracker.IsActive(context.Background(), SessionID)
	s.Nil(err)
	s.False(active)
}

func (s *MemoryWindowTestSuite) TestArmShouldActivateWindow() {
	s.Nil(s.tracker.Arm(context.Background(), SessionID))
	active, err := s.tracker.IsActive(context.Background(), SessionID)
	s.Nil(err)
	s.True(active)
}

func (s *MemoryWindowTestSuite) TestWindowShouldExpire() {
	tracker := memory.New(20 * time.Millisecond)
	s.Nil(tracker.Arm(context.Background(), SessionID))

	time.Sleep(40 * time.Millisecond)

	active, err := tracker.IsActive(context.Background(), SessionID)
	s.Nil(err)
	s.False(active)
}

func (s *MemoryWindowTestSuite) TestLaterArmShouldExtendWindow() {
	tracker := memory.New(50 * time.Millisecond)
	s.Nil(tracker.Arm(context.Background(), SessionID))

	time.Sleep(30 * time.Millisecond)
	s.Nil(tracker.Arm(context.Background(), SessionID))
	time.Sleep(30 * time.Millisecond)

	active, err := tracker.IsActive(context.Background(), SessionID)
	s.Nil(err)
	s.True(active)
}

func (s *MemoryWindowTestSuite) TestActiveCountShouldCountUnexpiredEntries() {
	s.Nil(s.tracker.Arm(context.Background(), "session-1"))
	s.Nil(s.tracker.Arm(context.Background(), "session-2"))

	count, err := s.tracker.ActiveCount(context.Background())
	s.Nil(err)
	s.Equal(2, count)
}

func (s *MemoryWindowTestSuite) TestActiveCountShouldPruneExpiredEntries() {
	tracker := memory.New(20 * time.Millisecond)
	s.Nil(tracker.Arm(context.Background(), "session-1"))
	s.Nil(tracker.Arm(context.Background(), "session-2"))

	time.Sleep(40 * time.Millisecond)

	count, err := tracker.ActiveCount(context.Background())
	s.Nil(err)
	s.Zero(count)
}

func (s *MemoryWindowTestSuite) TestConcurrentSessionsShouldNotInterfere() {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			sessionID := fmt.Sprintf("session-%d", n)
			s.Nil(s.tracker.Arm(context.Background(), sessionID))
			active, err := s.tracker.IsActive(context.Background(), sessionID)
			s.Nil(err)
			s.True(active)
		}(i)
	}
	wg.Wait()

	count, err := s.tracker.ActiveCount(context.Background())
	s.Nil(err)
	s.Equal(32, count)
}

func (s *MemoryWindowTestSuite) SetupTest() {
	s.tracker = memory.New(time.Minute)
}
