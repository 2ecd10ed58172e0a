package dbrouter

import (
	"errors"
)

var (
	ErrClosed    = errors.New("closed")
	ErrNoPrimary = errors.New("primary unreachable")
)
