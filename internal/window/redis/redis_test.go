package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis"
	redisClient "github.com/go-redis/redis"
	"github.com/stretchr/testify/suite"

	redisWindow "github.com/finledger/dbrouter/internal/window/redis"
	"github.com/finledger/dbrouter/pkg/dbrouter"
)

const SessionID = "session-42"

type RedisWindowTestSuite struct {
	suite.Suite

	db      *miniredis.Miniredis
	tracker dbrouter.WindowTracker
}

func TestRedisWindowTestSuite(t *testing.T) {
	suite.Run(t, new(RedisWindowTestSuite))
}

func (s *RedisWindowTestSuite) TestUnknownSessionShouldBeInactive() {
	active, err := s.tracker.IsActive(context.Background(), SessionID)
	s.Nil(err)
	s.False(active)
}

func (s *RedisWindowTestSuite) TestArmShouldStoreEntryWithWindowTTL() {
	s.Nil(s.tracker.Arm(context.Background(), SessionID))

	ttl := s.db.TTL("dbrouter:window:" + SessionID)
	s.True(ttl > 4*time.Second)
	s.True(ttl <= 5*time.Second)
}

func (s *RedisWindowTestSuite) TestArmShouldActivateWindow() {
	s.Nil(s.tracker.Arm(context.Background(), SessionID))

	active, err := s.tracker.IsActive(context.Background(), SessionID)
	s.Nil(err)
	s.True(active)
}

func (s *RedisWindowTestSuite) TestWindowShouldExpire() {
	s.Nil(s.tracker.Arm(context.Background(), SessionID))

	s.db.FastForward(6 * time.Second)

	active, err := s.tracker.IsActive(context.Background(), SessionID)
	s.Nil(err)
	s.False(active)
}

func (s *RedisWindowTestSuite) TestLaterArmShouldExtendWindow() {
	s.Nil(s.tracker.Arm(context.Background(), SessionID))
	s.db.FastForward(3 * time.Second)
	s.Nil(s.tracker.Arm(context.Background(), SessionID))
	s.db.FastForward(3 * time.Second)

	active, err := s.tracker.IsActive(context.Background(), SessionID)
	s.Nil(err)
	s.True(active)
}

func (s *RedisWindowTestSuite) TestActiveCountShouldCountLiveWindows() {
	s.Nil(s.tracker.Arm(context.Background(), "session-1"))
	s.Nil(s.tracker.Arm(context.Background(), "session-2"))

	count, err := s.tracker.ActiveCount(context.Background())
	s.Nil(err)
	s.Equal(2, count)
}

func (s *RedisWindowTestSuite) TestActiveCountShouldIgnoreForeignKeys() {
	s.Nil(s.db.Set("unrelated", "_"))
	s.Nil(s.tracker.Arm(context.Background(), SessionID))

	count, err := s.tracker.ActiveCount(context.Background())
	s.Nil(err)
	s.Equal(1, count)
}

func (s *RedisWindowTestSuite) TestArmOnClosedTrackerShouldReturnErrClosed() {
	s.Nil(s.tracker.Close())
	s.Equal(dbrouter.ErrClosed, s.tracker.Arm(context.Background(), SessionID))
}

func (s *RedisWindowTestSuite) TestCloseShouldBeIdempotent() {
	s.Nil(s.tracker.Close())
	s.Nil(s.tracker.Close())
}

func (s *RedisWindowTestSuite) SetupTest() {
	db, err := miniredis.Run()
	s.Nil(err)
	s.db = db

	client := redisClient.NewClient(&redisClient.Options{Addr: db.Addr()})
	s.tracker = redisWindow.New(client, 5*time.Second)
}

func (s *RedisWindowTestSuite) TearDownTest() {
	s.db.Close()
}
