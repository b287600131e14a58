package forumtopic_test

import (
	"context"
	"testing"
	"time"

	"messenger-core/core/actor"
	"messenger-core/core/apperr"
	"messenger-core/core/directory"
	"messenger-core/core/query"
	"messenger-core/core/remote"
	"messenger-core/core/remote/mocks"
	"messenger-core/core/updates"
	"messenger-core/core/wire"
	"messenger-core/feature/forumtopic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	myID       = 1
	forumID    = 500
	channelID  = 501
	lockedID   = 502
	basicID    = 10
	randomID   = 555
	threadID   = 77
	topicColor = 0x6FB9F0
)

var forum = directory.ChannelDialog(forumID)

type env struct {
	client  *mocks.Client
	dir     *directory.Directory
	router  *updates.Router
	manager *forumtopic.Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	client := &mocks.Client{}
	dir := directory.New(myID, zap.NewNop())
	dir.OnGetUsers([]wire.User{{ID: myID}})
	dir.OnGetChats([]wire.Chat{
		{Type: wire.ChatTypeChannel, ID: forumID, Megagroup: true, Forum: true, Creator: true},
		{Type: wire.ChatTypeChannel, ID: channelID, Megagroup: true},
		{Type: wire.ChatTypeChannel, ID: lockedID, Megagroup: true, Forum: true, BannedManageTopics: true},
		{Type: wire.ChatTypeChat, ID: basicID},
	})

	router := updates.NewRouter(zap.NewNop())
	dir.RegisterUpdates(router)
	lane := actor.NewLane("forumtopic", zap.NewNop())
	t.Cleanup(lane.Close)

	h := query.NewHandler(lane, client, router, zap.NewNop())
	m := forumtopic.NewManager(h, dir, dir, 0, zap.NewNop())
	m.RandomID = func() int64 { return randomID }
	m.RegisterUpdates(router)
	return &env{client: client, dir: dir, router: router, manager: m}
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func created(msg *wire.Message) wire.Updates {
	return wire.Updates{
		Updates: []wire.Update{
			{Type: wire.UpdateMessageID, ID: msg.ID, RandomID: randomID},
			{Type: wire.UpdateNewChannelMessage, Message: msg},
		},
		Users: []wire.User{{ID: 9, AccessHash: 90}},
	}
}

func topicMessage() *wire.Message {
	return &wire.Message{
		Type: wire.MessageTypeService,
		ID:   threadID,
		Peer: wire.Peer{ChannelID: forumID},
		Date: 1700000000,
		Out:  true,
		Action: &wire.MessageAction{
			Type:      wire.ActionTopicCreate,
			Title:     "Release notes",
			IconColor: topicColor,
		},
	}
}

func reply(res wire.Updates) func(context.Context, remote.Request) (*remote.Response, error) {
	return func(ctx context.Context, req remote.Request) (*remote.Response, error) {
		return remote.NewResponse(req.Token, res)
	}
}

func TestManager_Create(t *testing.T) {
	e := newEnv(t)
	ctx := testCtx(t)

	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		p, ok := r.Params.(wire.CreateForumTopicParams)
		return r.Method == wire.MethodCreateForumTopic && ok &&
			p.ChannelID == forumID &&
			p.Title == "Release notes" &&
			p.RandomID == randomID &&
			p.IconColor == topicColor &&
			p.Flags == wire.CreateForumTopicIconColorMask
	})).Return(reply(created(topicMessage()))).Once()

	topic, err := e.manager.Create(ctx, forum, "  Release\nnotes ", &forumtopic.Icon{Color: topicColor})
	require.NoError(t, err)
	assert.Equal(t, forumtopic.TopicInfo{
		ThreadID:     threadID,
		Title:        "Release notes",
		Icon:         forumtopic.Icon{Color: topicColor},
		CreationDate: 1700000000,
		Creator:      directory.UserDialog(myID),
		IsOutgoing:   true,
	}, topic)

	// Embedded users are stored before the topic is reported.
	assert.True(t, e.dir.HaveUser(9))

	stored, err := e.manager.Topic(ctx, forum, threadID)
	require.NoError(t, err)
	assert.Equal(t, topic, stored)
}

func TestManager_CreateWithoutIcon(t *testing.T) {
	e := newEnv(t)
	ctx := testCtx(t)

	e.client.On("Send", mock.Anything, mock.MatchedBy(func(r remote.Request) bool {
		p := r.Params.(wire.CreateForumTopicParams)
		return p.Flags == 0 && p.IconColor == 0 && p.IconEmojiID == 0
	})).Return(reply(created(topicMessage()))).Once()

	_, err := e.manager.Create(ctx, forum, "Release notes", nil)
	require.NoError(t, err)
}

func TestManager_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		dialog directory.DialogID
		title  string
		icon   *forumtopic.Icon
		kind   error
		msg    string
	}{
		{"unknown chat", directory.ChannelDialog(999), "x", nil, apperr.ErrNotFound, "Chat not found"},
		{"basic group", directory.ChatDialog(basicID), "x", nil, apperr.ErrValidation, "The chat is not a forum"},
		{"not a forum", directory.ChannelDialog(channelID), "x", nil, apperr.ErrValidation, "The chat is not a forum"},
		{"no rights", directory.ChannelDialog(lockedID), "x", nil, apperr.ErrPermission, "Not enough rights to create a topic"},
		{"empty title", forum, " \u200b\n", nil, apperr.ErrValidation, "Title must be non-empty"},
		{"negative color", forum, "x", &forumtopic.Icon{Color: -1}, apperr.ErrValidation, "Invalid icon color specified"},
		{"color too large", forum, "x", &forumtopic.Icon{Color: 0x1000000}, apperr.ErrValidation, "Invalid icon color specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.manager.Create(testCtx(t), tt.dialog, tt.title, tt.icon)
			assert.ErrorIs(t, err, tt.kind)
			assert.EqualError(t, err, tt.msg)
			e.client.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestManager_CreateProtocolViolation(t *testing.T) {
	tests := []struct {
		name string
		res  wire.Updates
	}{
		{"no message for random id", wire.Updates{}},
		{"ordinary message", func() wire.Updates {
			msg := topicMessage()
			msg.Type = wire.MessageTypeMessage
			msg.Action = nil
			return created(msg)
		}()},
		{"other action", func() wire.Updates {
			msg := topicMessage()
			msg.Action.Type = wire.ActionTopicEdit
			return created(msg)
		}()},
		{"other channel", func() wire.Updates {
			msg := topicMessage()
			msg.Peer.ChannelID = channelID
			return created(msg)
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			ctx := testCtx(t)
			e.client.On("Send", mock.Anything, mock.Anything).Return(reply(tt.res)).Once()

			_, err := e.manager.Create(ctx, forum, "Release notes", nil)
			assert.ErrorIs(t, err, apperr.ErrProtocol)
			assert.EqualError(t, err, "invalid result received")

			_, err = e.manager.Topic(ctx, forum, threadID)
			assert.ErrorIs(t, err, apperr.ErrNotFound)
		})
	}
}

func TestManager_CreateChannelError(t *testing.T) {
	e := newEnv(t)
	ctx := testCtx(t)
	e.client.On("Send", mock.Anything, mock.Anything).
		Return(nil, &remote.Error{Code: 400, Message: "CHANNEL_PRIVATE"}).Once()

	_, err := e.manager.Create(ctx, forum, "Release notes", nil)
	assert.ErrorIs(t, err, apperr.ErrTransport)
	assert.EqualError(t, err, "CHANNEL_PRIVATE")
	assert.False(t, e.dir.HaveChannel(forumID))
}

func TestManager_RecordsIncomingTopics(t *testing.T) {
	e := newEnv(t)
	ctx := testCtx(t)

	msg := topicMessage()
	msg.Out = false
	require.NoError(t, e.router.Apply(ctx, updates.Batch{
		{Kind: updates.KindMessage, Payload: msg},
		{Kind: updates.KindMessage, Payload: &wire.Message{Type: wire.MessageTypeMessage, ID: 78, Peer: wire.Peer{ChannelID: forumID}}},
	}))

	topic, err := e.manager.Topic(ctx, forum, threadID)
	require.NoError(t, err)
	assert.Equal(t, "Release notes", topic.Title)
	assert.False(t, topic.IsOutgoing)
	assert.Equal(t, directory.DialogID(0), topic.Creator)

	_, err = e.manager.Topic(ctx, forum, 78)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
