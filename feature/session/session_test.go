package session_test

import (
	"context"
	"testing"
	"time"

	"messenger-core/core/actor"
	"messenger-core/core/codec"
	"messenger-core/core/directory"
	"messenger-core/core/persistence"
	"messenger-core/core/remote"
	"messenger-core/core/remote/mocks"
	"messenger-core/core/wire"
	"messenger-core/feature/privacy"
	"messenger-core/feature/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSession(t *testing.T) (*session.Session, *mocks.Client) {
	t.Helper()
	client := &mocks.Client{}
	queue := persistence.NewQueue(persistence.NewMemory(), zap.NewNop())
	t.Cleanup(queue.Close)

	s := session.New(session.Config{MyUserID: 1, AutoconfirmPeriodSeconds: 3600}, client, queue, zap.NewNop())
	t.Cleanup(func() { _ = s.Close() })
	return s, client
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func push(t *testing.T, res wire.Updates) remote.Push {
	t.Helper()
	payload, err := codec.Marshal(res)
	require.NoError(t, err)
	return remote.Push{Method: session.MethodUpdates, Payload: payload}
}

func TestSession_HandlePush(t *testing.T) {
	s, _ := newSession(t)
	ctx := testCtx(t)
	require.NoError(t, s.Start(ctx))

	err := s.HandlePush(ctx, push(t, wire.Updates{
		Users: []wire.User{{ID: 7, AccessHash: 70}},
		Chats: []wire.Chat{{Type: wire.ChatTypeChannel, ID: 500, Megagroup: true, Forum: true}},
		Updates: []wire.Update{
			{Type: wire.UpdateNewChannelMessage, Message: &wire.Message{
				Type:   wire.MessageTypeService,
				ID:     10,
				Peer:   wire.Peer{ChannelID: 500},
				Action: &wire.MessageAction{Type: wire.ActionTopicCreate, Title: "General"},
			}},
			{Type: wire.UpdateNewMessage, Message: &wire.Message{
				Type:  wire.MessageTypeMessage,
				ID:    11,
				Peer:  wire.Peer{UserID: 7},
				Media: &wire.Document{FileID: "voice-1", MimeType: "audio/ogg", Duration: 4},
			}},
			{Type: wire.UpdateNewAuthorization, Authorization: &wire.NewAuthorization{
				Hash: 99, Date: int32(time.Now().Unix()), Device: "Phone", Unconfirmed: true,
			}},
		},
	}))
	require.NoError(t, err)

	assert.True(t, s.Directory.HaveUser(7))

	topic, err := s.Topics.Topic(ctx, directory.ChannelDialog(500), 10)
	require.NoError(t, err)
	assert.Equal(t, "General", topic.Title)

	note, err := s.VoiceNotes.Get(ctx, "voice-1")
	require.NoError(t, err)
	assert.Equal(t, int32(4), note.Duration)

	list, err := s.Account.Unconfirmed(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(99), list[0].Hash)
}

func TestSession_HandlePushIgnoresOtherMethods(t *testing.T) {
	s, _ := newSession(t)
	assert.NoError(t, s.HandlePush(testCtx(t), remote.Push{Method: "ping"}))
	assert.Error(t, s.HandlePush(testCtx(t), remote.Push{Method: session.MethodUpdates, Payload: []byte{0xff}}))
}

func TestSession_Features(t *testing.T) {
	s, _ := newSession(t)
	var names []string
	for _, f := range s.Features(zap.NewNop()) {
		names = append(names, f.Name())
		assert.True(t, f.IsEnabled())
	}
	assert.Equal(t, []string{"voicenote", "privacy", "forumtopic", "account"}, names)
}

func TestSession_CloseAbandonsPendingCalls(t *testing.T) {
	s, client := newSession(t)
	ctx := testCtx(t)

	sent := make(chan struct{})
	release := make(chan struct{})
	client.On("Send", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, req remote.Request) (*remote.Response, error) {
			close(sent)
			<-release
			return remote.NewResponse(req.Token, wire.PrivacyRules{})
		}).Once()

	errc := make(chan error, 1)
	go func() {
		_, err := s.Privacy.Get(ctx, privacy.ShowStatus)
		errc <- err
	}()

	<-sent
	require.NoError(t, s.Close())
	assert.ErrorIs(t, <-errc, actor.ErrClosed)
	close(release)

	_, err := s.VoiceNotes.Get(ctx, "voice-1")
	assert.ErrorIs(t, err, actor.ErrClosed)
}
