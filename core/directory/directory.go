package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"messenger-core/core/capability"
	"messenger-core/core/remote"
	"messenger-core/core/updates"
	"messenger-core/core/wire"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Directory is the local store of known users and chats.
type Directory struct {
	myID   int64
	users  *cache.Cache
	chats  *cache.Cache
	logger *zap.Logger
}

// New creates a directory for the session user myID.
func New(myID int64, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		myID:   myID,
		users:  cache.New(cache.NoExpiration, 0),
		chats:  cache.New(cache.NoExpiration, 0),
		logger: logger.Named("directory"),
	}
}

// MyID returns the session user id.
func (d *Directory) MyID() int64 {
	return d.myID
}

// MyDialog returns the dialog of the session user.
func (d *Directory) MyDialog() DialogID {
	return UserDialog(d.myID)
}

// OnGetUsers stores users received from the server. A min user never
// replaces a full one.
func (d *Directory) OnGetUsers(users []wire.User) {
	for _, u := range users {
		if u.ID <= 0 {
			d.logger.Warn("Ignoring user with invalid id", zap.Int64("user_id", u.ID))
			continue
		}
		key := userKey(u.ID)
		if u.Min {
			if existing, ok := d.users.Get(key); ok && !existing.(wire.User).Min {
				continue
			}
		}
		d.users.Set(key, u, cache.NoExpiration)
	}
}

// OnGetChats stores chats and channels received from the server.
func (d *Directory) OnGetChats(chats []wire.Chat) {
	for _, c := range chats {
		switch c.Type {
		case wire.ChatTypeChat:
			d.chats.Set(chatKey(c.ID), c, cache.NoExpiration)
		case wire.ChatTypeChannel:
			d.chats.Set(channelKey(c.ID), c, cache.NoExpiration)
		default:
			d.logger.Warn("Ignoring chat of unknown type",
				zap.String("type", c.Type), zap.Int64("chat_id", c.ID))
		}
	}
}

// RegisterUpdates wires the directory to the users and chats updates.
func (d *Directory) RegisterUpdates(r *updates.Router) {
	r.Handle(updates.KindUsers, func(ctx context.Context, u updates.Update) error {
		users, ok := u.Payload.([]wire.User)
		if !ok {
			return fmt.Errorf("unexpected users payload %T", u.Payload)
		}
		d.OnGetUsers(users)
		return nil
	})
	r.Handle(updates.KindChats, func(ctx context.Context, u updates.Update) error {
		chats, ok := u.Payload.([]wire.Chat)
		if !ok {
			return fmt.Errorf("unexpected chats payload %T", u.Payload)
		}
		d.OnGetChats(chats)
		return nil
	})
}

// User returns a known user.
func (d *Directory) User(id int64) (wire.User, bool) {
	v, ok := d.users.Get(userKey(id))
	if !ok {
		return wire.User{}, false
	}
	return v.(wire.User), true
}

// HaveUser reports whether the user is known.
func (d *Directory) HaveUser(id int64) bool {
	_, ok := d.users.Get(userKey(id))
	return ok
}

// InputUser returns the reference used to send the user to the server.
func (d *Directory) InputUser(id int64) (wire.InputUser, bool) {
	u, ok := d.User(id)
	if !ok {
		return wire.InputUser{}, false
	}
	return wire.InputUser{UserID: u.ID, AccessHash: u.AccessHash}, true
}

// HaveChat reports whether the basic group is known.
func (d *Directory) HaveChat(id int64) bool {
	_, ok := d.chats.Get(chatKey(id))
	return ok
}

// HaveChannel reports whether the channel is known.
func (d *Directory) HaveChannel(id int64) bool {
	_, ok := d.chats.Get(channelKey(id))
	return ok
}

// Channel returns a known channel.
func (d *Directory) Channel(id int64) (wire.Chat, bool) {
	v, ok := d.chats.Get(channelKey(id))
	if !ok {
		return wire.Chat{}, false
	}
	return v.(wire.Chat), true
}

// Chat returns the chat behind a chat or channel dialog.
func (d *Directory) Chat(dialog DialogID) (wire.Chat, bool) {
	var key string
	switch dialog.Type() {
	case DialogChat:
		key = chatKey(dialog.ChatID())
	case DialogChannel:
		key = channelKey(dialog.ChannelID())
	default:
		return wire.Chat{}, false
	}
	v, ok := d.chats.Get(key)
	if !ok {
		return wire.Chat{}, false
	}
	return v.(wire.Chat), true
}

// HaveDialog reports whether the entity behind dialog is known.
func (d *Directory) HaveDialog(dialog DialogID) bool {
	switch dialog.Type() {
	case DialogUser:
		return d.HaveUser(dialog.UserID())
	case DialogChat, DialogChannel:
		_, ok := d.Chat(dialog)
		return ok
	default:
		return false
	}
}

// IsMegagroup reports whether the channel is a known supergroup.
func (d *Directory) IsMegagroup(channelID int64) bool {
	c, ok := d.Channel(channelID)
	return ok && c.Megagroup
}

// OnChannelError reacts to a failed request about a channel. Channels the
// server reports as inaccessible are forgotten.
func (d *Directory) OnChannelError(channelID int64, err error) {
	var rerr *remote.Error
	if !errors.As(err, &rerr) {
		return
	}
	switch rerr.Message {
	case "CHANNEL_PRIVATE", "CHANNEL_INVALID", "CHANNEL_PUBLIC_GROUP_NA":
		d.logger.Info("Forgetting inaccessible channel",
			zap.Int64("channel_id", channelID), zap.String("reason", rerr.Message))
		d.chats.Delete(channelKey(channelID))
	}
}

// CanPerform implements capability.Oracle.
func (d *Directory) CanPerform(actor int64, action capability.Action, target int64) bool {
	if actor != d.myID {
		return false
	}
	switch action {
	case capability.CreateTopic:
		c, ok := d.Chat(DialogID(target))
		if !ok || c.Type != wire.ChatTypeChannel {
			return false
		}
		return c.Creator || c.AdminManageTopics || !c.BannedManageTopics
	default:
		return false
	}
}

func userKey(id int64) string    { return "u" + strconv.FormatInt(id, 10) }
func chatKey(id int64) string    { return "c" + strconv.FormatInt(id, 10) }
func channelKey(id int64) string { return "ch" + strconv.FormatInt(id, 10) }
