package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"

	"github.com/finledger/dbrouter/pkg/dbrouter"
)

const defaultKeyPrefix = "dbrouter:window:"

// windowTracker shares consistency-window state through redis so several
// router instances behind one application see the same session deadlines.
// Expiry is the key's TTL; redis garbage-collects for us.
type windowTracker struct {
	client *redis.Client
	window time.Duration
	prefix string
}

type Option func(t *windowTracker)

func WithKeyPrefix(prefix string) Option {
	return func(t *windowTracker) {
		t.prefix = prefix
	}
}

func New(client *redis.Client, window time.Duration,
	options ...Option) dbrouter.WindowTracker {

	result := &windowTracker{
		client: client,
		window: window,
		prefix: defaultKeyPrefix,
	}

	for _, option := range options {
		option(result)
	}

	return result
}

func (t *windowTracker) Arm(ctx context.Context, sessionID string) error {
	if t.client == nil {
		return dbrouter.ErrClosed
	}

	if err := t.client.Set(t.prefix+sessionID, "1", t.window).Err(); err != nil {
		return errors.Wrap(err, "failed to arm consistency window")
	}

	return nil
}

func (t *windowTracker) IsActive(ctx context.Context, sessionID string) (bool, error) {
	if t.client == nil {
		return false, dbrouter.ErrClosed
	}

	count, err := t.client.Exists(t.prefix + sessionID).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to query consistency window")
	}

	return count > 0, nil
}

func (t *windowTracker) ActiveCount(ctx context.Context) (int, error) {
	if t.client == nil {
		return 0, dbrouter.ErrClosed
	}

	var cursor uint64
	count := 0

	for {
		keys, next, err := t.client.Scan(cursor, t.prefix+"*", 100).Result()
		if err != nil {
			return 0, errors.Wrap(err, "failed to scan consistency windows")
		}

		count += len(keys)

		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (t *windowTracker) Close() error {
	if t.client != nil {
		err := t.client.Close()
		t.client = nil

		return err
	}

	return nil
}
