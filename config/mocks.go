package config

import (
	"time"

	"github.com/datastax/feed-data-apis/log"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type ConfigMock struct {
	mock.Mock
}

func NewConfigMock() *ConfigMock {
	return &ConfigMock{}
}

func (o *ConfigMock) Default() *ConfigMock {
	o.On("Logger").Return(log.NewZapLogger(zap.NewNop()))
	o.On("MaxCount").Return(DefaultMaxCount)
	o.On("MaxStableQueryCount").Return(DefaultMaxStableQueryCount)
	o.On("StableQueryTTL").Return(DefaultStableQueryTTL)
	o.On("BackendTimeout").Return(DefaultBackendTimeout)
	o.On("Features").Return(DefaultFeatures)
	o.On("Naming").Return(NewDefaultNaming())
	return o
}

func (o *ConfigMock) Logger() log.Logger {
	args := o.Called()
	return args.Get(0).(log.Logger)
}

func (o *ConfigMock) MaxCount() int {
	args := o.Called()
	return args.Int(0)
}

func (o *ConfigMock) MaxStableQueryCount() int {
	args := o.Called()
	return args.Int(0)
}

func (o *ConfigMock) StableQueryTTL() time.Duration {
	args := o.Called()
	return args.Get(0).(time.Duration)
}

func (o *ConfigMock) BackendTimeout() time.Duration {
	args := o.Called()
	return args.Get(0).(time.Duration)
}

func (o *ConfigMock) Features() Features {
	args := o.Called()
	return args.Get(0).(Features)
}

func (o *ConfigMock) Naming() NamingConvention {
	args := o.Called()
	return args.Get(0).(NamingConvention)
}
