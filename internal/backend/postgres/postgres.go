package postgres

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/finledger/dbrouter/pkg/dbrouter"
)

// replicationLagQuery measures how far behind the primary this server is,
// in seconds. On a primary (no recovery in progress) the replay timestamp
// is NULL and the reported lag is zero.
const replicationLagQuery = `
SELECT COALESCE(EXTRACT(EPOCH FROM (now() - pg_last_xact_replay_timestamp())), 0)::float8`

type postgresBackend struct {
	pool    *pgxpool.Pool
	address string
}

func New(pool *pgxpool.Pool, address string) dbrouter.Backend {
	return &postgresBackend{
		pool:    pool,
		address: address,
	}
}

// Connect builds a pooled handle for url and verifies it with a bounded
// ping before handing it out.
func Connect(ctx context.Context, url string, timeout time.Duration) (dbrouter.Backend, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database URL")
	}

	config.ConnConfig.ConnectTimeout = timeout

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "database unreachable")
	}

	address := net.JoinHostPort(config.ConnConfig.Host,
		strconv.Itoa(int(config.ConnConfig.Port)))

	return New(pool, address), nil
}

func (p *postgresBackend) Address() string {
	return p.address
}

func (p *postgresBackend) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *postgresBackend) Ping(ctx context.Context) error {
	if p.pool == nil {
		return dbrouter.ErrClosed
	}

	return p.pool.Ping(ctx)
}

func (p *postgresBackend) ReplicationLag(ctx context.Context) (time.Duration, error) {
	if p.pool == nil {
		return 0, dbrouter.ErrClosed
	}

	var lagSeconds float64
	if err := p.pool.QueryRow(ctx, replicationLagQuery).Scan(&lagSeconds); err != nil {
		return 0, errors.Wrap(err, "failed to measure replication lag")
	}

	return time.Duration(lagSeconds * float64(time.Second)), nil
}

func (p *postgresBackend) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}

	return nil
}
