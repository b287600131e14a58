package mocks

import (
	"context"

	"messenger-core/core/remote"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of remote.Client
type Client struct {
	mock.Mock
}

func (m *Client) Send(ctx context.Context, req remote.Request) (*remote.Response, error) {
	args := m.Called(ctx, req)
	if fn, ok := args.Get(0).(func(context.Context, remote.Request) (*remote.Response, error)); ok {
		return fn(ctx, req)
	}
	if resp, ok := args.Get(0).(*remote.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}
