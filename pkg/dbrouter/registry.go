package dbrouter

import (
	"io"
)

// Registry owns the backend handles for the process lifetime. The primary
// is mandatory; replicas that could not be connected at startup are absent
// from the pool. Replica order is stable and indexes the health records.
type Registry interface {
	io.Closer

	Primary() Backend
	Replicas() []Backend
}
