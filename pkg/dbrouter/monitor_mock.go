package dbrouter

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Mock_Monitor struct {
	mock.Mock
}

func (m *Mock_Monitor) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_Monitor) Snapshot() []ReplicaHealth {
	ret := m.Called()

	var r0 []ReplicaHealth
	if rf, ok := ret.Get(0).(func() []ReplicaHealth); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]ReplicaHealth)
		}
	}

	return r0
}

func (m *Mock_Monitor) ForceCheck(ctx context.Context) []ReplicaHealth {
	ret := m.Called(ctx)

	var r0 []ReplicaHealth
	if rf, ok := ret.Get(0).(func(ctx context.Context) []ReplicaHealth); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]ReplicaHealth)
		}
	}

	return r0
}

func (m *Mock_Monitor) Subscribe() <-chan []ReplicaHealth {
	ret := m.Called()

	var r0 <-chan []ReplicaHealth
	if rf, ok := ret.Get(0).(func() <-chan []ReplicaHealth); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(<-chan []ReplicaHealth)
		}
	}

	return r0
}
