package cache

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type SessionMock struct {
	mock.Mock
}

func (o *SessionMock) Execute(ctx context.Context, query string, options *QueryOptions, values ...interface{}) error {
	args := o.Called(query, options, values)
	return args.Error(0)
}

func (o *SessionMock) ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	args := o.Called(query, options, values)
	result, _ := args.Get(0).(ResultSet)
	return result, args.Error(1)
}

type ResultMock struct {
	mock.Mock
}

func (o *ResultMock) Values() []map[string]interface{} {
	args := o.Called()
	return args.Get(0).([]map[string]interface{})
}

// CacheMock can be used to simulate backend failures
type CacheMock struct {
	mock.Mock
}

func (o *CacheMock) Set(ctx context.Context, key string, value []byte) error {
	return o.Called(key, value).Error(0)
}

func (o *CacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := o.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Bool(1), args.Error(2)
}

func (o *CacheMock) Touch(ctx context.Context, key string) error {
	return o.Called(key).Error(0)
}
