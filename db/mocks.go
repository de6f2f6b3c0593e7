package db

import (
	"context"

	"github.com/datastax/feed-data-apis/types"
	"github.com/stretchr/testify/mock"
)

type SessionMock struct {
	mock.Mock
}

func NewSessionMock() *SessionMock {
	return &SessionMock{}
}

func (o *SessionMock) Execute(ctx context.Context, query string, values ...interface{}) error {
	args := o.Called(query, values)
	return args.Error(0)
}

func (o *SessionMock) Query(ctx context.Context, query string, values ...interface{}) ([]types.Record, error) {
	args := o.Called(query, values)
	rows, _ := args.Get(0).([]types.Record)
	return rows, args.Error(1)
}
