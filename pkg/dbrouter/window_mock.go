package dbrouter

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Mock_WindowTracker struct {
	mock.Mock
}

func (m *Mock_WindowTracker) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_WindowTracker) Arm(ctx context.Context, sessionID string) error {
	ret := m.Called(ctx, sessionID)

	var r0 error
	if rf, ok := ret.Get(0).(func(ctx context.Context, sessionID string) error); ok {
		r0 = rf(ctx, sessionID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_WindowTracker) IsActive(ctx context.Context, sessionID string) (bool, error) {
	ret := m.Called(ctx, sessionID)

	var r0 bool
	if rf, ok := ret.Get(0).(func(ctx context.Context, sessionID string) bool); ok {
		r0 = rf(ctx, sessionID)
	} else {
		r0 = ret.Bool(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context, sessionID string) error); ok {
		r1 = rf(ctx, sessionID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_WindowTracker) ActiveCount(ctx context.Context) (int, error) {
	ret := m.Called(ctx)

	var r0 int
	if rf, ok := ret.Get(0).(func(ctx context.Context) int); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Int(0)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
