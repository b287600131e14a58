package wire

// Remote methods.
const (
	MethodCreateForumTopic     = "channels.createForumTopic"
	MethodGetPrivacy           = "account.getPrivacy"
	MethodSetPrivacy           = "account.setPrivacy"
	MethodGetVoiceNote         = "documents.getVoiceNote"
	MethodChangeAuthorization  = "account.changeAuthorizationSettings"
	MethodResetAuthorization   = "account.resetAuthorization"
	MethodSetAccountTTL        = "account.setAccountTTL"
	MethodGetAccountTTL        = "account.getAccountTTL"
	MethodSetDefaultHistoryTTL = "messages.setDefaultHistoryTTL"
	MethodGetDefaultHistoryTTL = "messages.getDefaultHistoryTTL"

	MethodGetAuthorizations      = "account.getAuthorizations"
	MethodResetAuthorizations    = "auth.resetAuthorizations"
	MethodSetAuthorizationTTL    = "account.setAuthorizationTTL"
	MethodGetWebAuthorizations   = "account.getWebAuthorizations"
	MethodResetWebAuthorization  = "account.resetWebAuthorization"
	MethodResetWebAuthorizations = "account.resetWebAuthorizations"
)

// User is a user object as sent by the server.
type User struct {
	ID         int64  `cbor:"id"`
	AccessHash int64  `cbor:"access_hash,omitempty"`
	FirstName  string `cbor:"first_name,omitempty"`
	LastName   string `cbor:"last_name,omitempty"`
	Contact    bool   `cbor:"contact,omitempty"`
	Min        bool   `cbor:"min,omitempty"`
}

// Chat types.
const (
	ChatTypeChat    = "chat"
	ChatTypeChannel = "channel"
)

// Chat is a basic group or a channel.
type Chat struct {
	Type      string `cbor:"_type"`
	ID        int64  `cbor:"id"`
	Title     string `cbor:"title,omitempty"`
	Megagroup bool   `cbor:"megagroup,omitempty"`
	Forum     bool   `cbor:"forum,omitempty"`
	Creator   bool   `cbor:"creator,omitempty"`
	// AdminManageTopics is set when the current user is an administrator
	// allowed to manage topics.
	AdminManageTopics bool `cbor:"admin_manage_topics,omitempty"`
	// BannedManageTopics is set when ordinary members may not create topics.
	BannedManageTopics bool `cbor:"banned_manage_topics,omitempty"`
}

// Message types.
const (
	MessageTypeMessage = "message"
	MessageTypeService = "messageService"
)

// Message action types.
const (
	ActionTopicCreate = "messageActionTopicCreate"
	ActionTopicEdit   = "messageActionTopicEdit"
)

// Peer identifies a chat on the server.
type Peer struct {
	UserID    int64 `cbor:"user_id,omitempty"`
	ChatID    int64 `cbor:"chat_id,omitempty"`
	ChannelID int64 `cbor:"channel_id,omitempty"`
}

// Message is an ordinary or service message.
type Message struct {
	Type   string         `cbor:"_type"`
	ID     int32          `cbor:"id"`
	Peer   Peer           `cbor:"peer"`
	Date   int32          `cbor:"date"`
	Out    bool           `cbor:"out,omitempty"`
	Action *MessageAction `cbor:"action,omitempty"`
	Media  *Document      `cbor:"media,omitempty"`
}

// MessageAction is the payload of a service message.
type MessageAction struct {
	Type        string `cbor:"_type"`
	Title       string `cbor:"title,omitempty"`
	IconColor   int32  `cbor:"icon_color,omitempty"`
	IconEmojiID int64  `cbor:"icon_emoji_id,omitempty"`
}

// Update types.
const (
	UpdateMessageID         = "updateMessageID"
	UpdateNewMessage        = "updateNewMessage"
	UpdateNewChannelMessage = "updateNewChannelMessage"
	UpdateNewAuthorization  = "updateNewAuthorization"
)

// Update is one entry of an Updates container.
type Update struct {
	Type     string   `cbor:"_type"`
	ID       int32    `cbor:"id,omitempty"`
	RandomID int64    `cbor:"random_id,omitempty"`
	Message  *Message `cbor:"message,omitempty"`

	Authorization *NewAuthorization `cbor:"authorization,omitempty"`
}

// Updates is the container most state-changing methods return.
type Updates struct {
	Updates []Update `cbor:"updates"`
	Users   []User   `cbor:"users,omitempty"`
	Chats   []Chat   `cbor:"chats,omitempty"`
	Date    int32    `cbor:"date,omitempty"`
}

// Bool is the result of methods that only acknowledge.
type Bool struct {
	Value bool `cbor:"value"`
}

// Int is the result of methods returning a single number.
type Int struct {
	Value int32 `cbor:"value"`
}
