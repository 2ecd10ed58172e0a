package dbrouter

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Mock_Router struct {
	mock.Mock
}

func (m *Mock_Router) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_Router) GetConnection(ctx context.Context,
	request *GetConnectionRequest) (*Connection, error) {

	ret := m.Called(ctx, request)

	var r0 *Connection
	if rf, ok := ret.Get(0).(func(ctx context.Context, request *GetConnectionRequest) *Connection); ok {
		r0 = rf(ctx, request)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Connection)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context, request *GetConnectionRequest) error); ok {
		r1 = rf(ctx, request)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_Router) Primary(ctx context.Context, sessionID string) (*Connection, error) {
	ret := m.Called(ctx, sessionID)

	var r0 *Connection
	if rf, ok := ret.Get(0).(func(ctx context.Context, sessionID string) *Connection); ok {
		r0 = rf(ctx, sessionID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Connection)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context, sessionID string) error); ok {
		r1 = rf(ctx, sessionID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_Router) CriticalRead(ctx context.Context, sessionID string) (*Connection, error) {
	ret := m.Called(ctx, sessionID)

	var r0 *Connection
	if rf, ok := ret.Get(0).(func(ctx context.Context, sessionID string) *Connection); ok {
		r0 = rf(ctx, sessionID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Connection)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context, sessionID string) error); ok {
		r1 = rf(ctx, sessionID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_Router) Metrics(ctx context.Context) (*MetricsSnapshot, error) {
	ret := m.Called(ctx)

	var r0 *MetricsSnapshot
	if rf, ok := ret.Get(0).(func(ctx context.Context) *MetricsSnapshot); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*MetricsSnapshot)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_Router) Status(ctx context.Context) (*Status, error) {
	ret := m.Called(ctx)

	var r0 *Status
	if rf, ok := ret.Get(0).(func(ctx context.Context) *Status); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Status)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (m *Mock_Router) ForceHealthCheck(ctx context.Context) (*Status, error) {
	ret := m.Called(ctx)

	var r0 *Status
	if rf, ok := ret.Get(0).(func(ctx context.Context) *Status); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Status)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(ctx context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
