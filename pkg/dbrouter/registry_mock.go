package dbrouter

import (
	"github.com/stretchr/testify/mock"
)

type Mock_Registry struct {
	mock.Mock
}

func (m *Mock_Registry) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (m *Mock_Registry) Primary() Backend {
	ret := m.Called()

	var r0 Backend
	if rf, ok := ret.Get(0).(func() Backend); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(Backend)
		}
	}

	return r0
}

func (m *Mock_Registry) Replicas() []Backend {
	ret := m.Called()

	var r0 []Backend
	if rf, ok := ret.Get(0).(func() []Backend); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]Backend)
		}
	}

	return r0
}
