package dbrouter

import (
	"context"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Backend interface {
	io.Closer

	Pool() *pgxpool.Pool
	Ping(ctx context.Context) error
	ReplicationLag(ctx context.Context) (time.Duration, error)
	Address() string
}
