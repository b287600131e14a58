package updates_test

import (
	"context"
	"errors"
	"testing"

	"messenger-core/core/updates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRouter_AppliesInOrder(t *testing.T) {
	r := updates.NewRouter(zap.NewNop())

	var seen []string
	r.Handle(updates.KindUsers, func(ctx context.Context, u updates.Update) error {
		seen = append(seen, "users:"+u.Payload.(string))
		return nil
	})
	r.Handle(updates.KindChats, func(ctx context.Context, u updates.Update) error {
		seen = append(seen, "chats:"+u.Payload.(string))
		return nil
	})

	err := r.Apply(context.Background(), updates.Batch{
		{Kind: updates.KindChats, Payload: "a"},
		{Kind: updates.KindUsers, Payload: "b"},
		{Kind: "unknown", Payload: "ignored"},
		{Kind: updates.KindChats, Payload: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"chats:a", "users:b", "chats:c"}, seen)
}

func TestRouter_FirstErrorAborts(t *testing.T) {
	r := updates.NewRouter(nil)
	boom := errors.New("boom")

	calls := 0
	r.Handle(updates.KindMessage, func(ctx context.Context, u updates.Update) error {
		calls++
		if calls == 1 {
			return boom
		}
		return nil
	})

	err := r.Apply(context.Background(), updates.Batch{
		{Kind: updates.KindMessage},
		{Kind: updates.KindMessage},
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRouter_CancelledContext(t *testing.T) {
	r := updates.NewRouter(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Apply(ctx, updates.Batch{{Kind: updates.KindUsers}})
	assert.ErrorIs(t, err, context.Canceled)
}
