package forumtopic

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"messenger-core/core/actor"
	"messenger-core/core/apperr"
	"messenger-core/core/capability"
	"messenger-core/core/directory"
	"messenger-core/core/query"
	"messenger-core/core/remote"
	"messenger-core/core/updates"
	"messenger-core/core/wire"

	"go.uber.org/zap"
)

// Chats is the part of the directory the manager reads.
type Chats interface {
	MyDialog() directory.DialogID
	HaveDialog(dialog directory.DialogID) bool
	Chat(dialog directory.DialogID) (wire.Chat, bool)
	OnChannelError(channelID int64, err error)
}

// Manager creates forum topics and remembers the topics it has seen. The
// topic table belongs to the owner lane.
type Manager struct {
	handler        *query.Handler
	lane           *actor.Lane
	chats          Chats
	oracle         capability.Oracle
	maxTitleLength int
	logger         *zap.Logger

	// RandomID returns the nonce correlating a creation with its message.
	// It must not return zero.
	RandomID func() int64

	topics map[directory.DialogID]map[int32]TopicInfo
}

// NewManager creates a manager on the handler's lane. A non-positive
// maxTitleLength selects MaxTitleLength.
func NewManager(h *query.Handler, chats Chats, oracle capability.Oracle, maxTitleLength int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxTitleLength <= 0 {
		maxTitleLength = MaxTitleLength
	}
	return &Manager{
		handler:        h,
		lane:           h.Lane(),
		chats:          chats,
		oracle:         oracle,
		maxTitleLength: maxTitleLength,
		logger:         logger.Named("forumtopic"),
		RandomID:       secureRandomID,
		topics:         make(map[directory.DialogID]map[int32]TopicInfo),
	}
}

func secureRandomID() int64 {
	var b [8]byte
	for {
		if _, err := rand.Read(b[:]); err != nil {
			panic(fmt.Sprintf("forumtopic: random source failed: %v", err))
		}
		if id := int64(binary.LittleEndian.Uint64(b[:])); id != 0 {
			return id
		}
	}
}

// RegisterUpdates records topics announced by incoming service messages.
func (m *Manager) RegisterUpdates(r *updates.Router) {
	r.Handle(updates.KindMessage, func(ctx context.Context, u updates.Update) error {
		msg, ok := u.Payload.(*wire.Message)
		if !ok {
			return fmt.Errorf("unexpected message payload %T", u.Payload)
		}
		if !isTopicCreation(msg) || msg.Peer.ChannelID == 0 {
			return nil
		}
		dialog := directory.ChannelDialog(msg.Peer.ChannelID)
		creator := directory.DialogID(0)
		if msg.Out {
			creator = m.chats.MyDialog()
		}
		topic := fromService(msg, creator)
		_, err := actor.Go(m.lane, func() (struct{}, error) {
			if _, ok := m.topic(dialog, topic.ThreadID); !ok {
				m.record(dialog, topic)
			}
			return struct{}{}, nil
		}).Await(ctx)
		return err
	})
}

// Create creates a topic in the forum behind dialog. A nil icon creates a
// topic without color or custom emoji.
func (m *Manager) Create(ctx context.Context, dialog directory.DialogID, title string, icon *Icon) (TopicInfo, error) {
	var (
		channelID int64
		params    wire.CreateForumTopicParams
		creator   directory.DialogID
	)
	p := actor.NewPromise[TopicInfo](m.lane)
	query.Send(ctx, m.handler, query.Query[*wire.Message]{
		Name:   "create_forum_topic",
		Method: wire.MethodCreateForumTopic,
		Validate: func() error {
			if err := m.checkForum(dialog); err != nil {
				return err
			}
			channelID = dialog.ChannelID()
			creator = m.chats.MyDialog()
			if !m.oracle.CanPerform(int64(creator), capability.CreateTopic, int64(dialog)) {
				return apperr.Permission("Not enough rights to create a topic")
			}

			params = wire.CreateForumTopicParams{ChannelID: channelID, IconColor: NoColor}
			params.Title = CleanTitle(title, m.maxTitleLength)
			if params.Title == "" {
				return apperr.Validation("Title must be non-empty")
			}
			if icon != nil {
				if icon.Color < 0 || icon.Color > maxColor {
					return apperr.Validation("Invalid icon color specified")
				}
				params.IconColor = icon.Color
				params.IconEmojiID = icon.CustomEmojiID
			}
			return nil
		},
		Params: func() (any, error) {
			if params.IconColor != NoColor {
				params.Flags |= wire.CreateForumTopicIconColorMask
			} else {
				params.IconColor = 0
			}
			if params.IconEmojiID != 0 {
				params.Flags |= wire.CreateForumTopicIconEmojiIDMask
			}
			params.RandomID = m.RandomID()
			return params, nil
		},
		Parse: func(resp *remote.Response) (*wire.Message, updates.Batch, error) {
			return parseCreated(resp, channelID, params.RandomID)
		},
		OnError: func(err error) {
			m.chats.OnChannelError(channelID, err)
		},
	}, func(msg *wire.Message) (TopicInfo, error) {
		topic := fromService(msg, creator)
		topic.IsOutgoing = true
		topic.IsClosed = false
		m.record(dialog, topic)
		return topic, nil
	}, p)
	return p.Await(ctx)
}

// Topic returns a recorded topic.
func (m *Manager) Topic(ctx context.Context, dialog directory.DialogID, threadID int32) (TopicInfo, error) {
	return actor.Go(m.lane, func() (TopicInfo, error) {
		t, ok := m.topic(dialog, threadID)
		if !ok {
			return TopicInfo{}, apperr.NotFound("Topic not found")
		}
		return t, nil
	}).Await(ctx)
}

func (m *Manager) checkForum(dialog directory.DialogID) error {
	if !m.chats.HaveDialog(dialog) {
		return apperr.NotFound("Chat not found")
	}
	if dialog.Type() != directory.DialogChannel {
		return apperr.Validation("The chat is not a forum")
	}
	c, ok := m.chats.Chat(dialog)
	if !ok || !c.Forum {
		return apperr.Validation("The chat is not a forum")
	}
	return nil
}

func (m *Manager) topic(dialog directory.DialogID, threadID int32) (TopicInfo, bool) {
	t, ok := m.topics[dialog][threadID]
	return t, ok
}

func (m *Manager) record(dialog directory.DialogID, t TopicInfo) {
	byThread, ok := m.topics[dialog]
	if !ok {
		byThread = make(map[int32]TopicInfo)
		m.topics[dialog] = byThread
	}
	byThread[t.ThreadID] = t
	m.logger.Debug("Recorded forum topic",
		zap.Int64("dialog_id", int64(dialog)), zap.Int32("thread_id", t.ThreadID))
}

func isTopicCreation(msg *wire.Message) bool {
	return msg.Type == wire.MessageTypeService && msg.Action != nil && msg.Action.Type == wire.ActionTopicCreate
}

// parseCreated finds the message created for randomID and checks that it
// is the creation of a topic.
func parseCreated(resp *remote.Response, channelID, randomID int64) (*wire.Message, updates.Batch, error) {
	var res wire.Updates
	if err := resp.Decode(&res); err != nil {
		return nil, nil, err
	}
	msg := messageByRandomID(res, channelID, randomID)
	if msg == nil {
		return nil, nil, fmt.Errorf("no message for random id %d", randomID)
	}
	if !isTopicCreation(msg) {
		return nil, nil, errors.New("created message is not a topic creation")
	}
	return msg, updates.FromWire(res), nil
}

func messageByRandomID(res wire.Updates, channelID, randomID int64) *wire.Message {
	var id int32
	found := false
	for _, u := range res.Updates {
		if u.Type == wire.UpdateMessageID && u.RandomID == randomID {
			if found {
				return nil
			}
			id, found = u.ID, true
		}
	}
	if !found {
		return nil
	}
	for _, u := range res.Updates {
		if u.Type != wire.UpdateNewChannelMessage || u.Message == nil {
			continue
		}
		if u.Message.ID == id && u.Message.Peer.ChannelID == channelID {
			return u.Message
		}
	}
	return nil
}
