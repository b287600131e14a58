package forumtopic

import (
	"strings"
	"unicode"

	"messenger-core/core/directory"
	"messenger-core/core/wire"
)

// MaxTitleLength is the default limit on topic titles, in characters.
const MaxTitleLength = 128

// NoColor marks an icon without a color.
const NoColor int32 = -1

const maxColor = 0xFFFFFF

// Icon is the icon of a topic.
type Icon struct {
	Color         int32 `json:"color"`
	CustomEmojiID int64 `json:"custom_emoji_id,string"`
}

// TopicInfo describes a created topic. Values are immutable once recorded.
type TopicInfo struct {
	ThreadID     int32
	Title        string
	Icon         Icon
	CreationDate int32
	Creator      directory.DialogID
	IsOutgoing   bool
	IsClosed     bool
}

// fromService builds a topic from its creation message.
func fromService(msg *wire.Message, creator directory.DialogID) TopicInfo {
	a := msg.Action
	return TopicInfo{
		ThreadID:     msg.ID,
		Title:        a.Title,
		Icon:         Icon{Color: a.IconColor, CustomEmojiID: a.IconEmojiID},
		CreationDate: msg.Date,
		Creator:      creator,
		IsOutgoing:   msg.Out,
	}
}

// Object is the JSON representation of a topic.
type Object struct {
	MessageThreadID int32  `json:"message_thread_id"`
	Name            string `json:"name"`
	Icon            Icon   `json:"icon"`
	CreationDate    int32  `json:"creation_date"`
	CreatorID       int64  `json:"creator_id"`
	IsOutgoing      bool   `json:"is_outgoing"`
	IsClosed        bool   `json:"is_closed"`
}

// Object returns the JSON representation of t.
func (t TopicInfo) Object() Object {
	return Object{
		MessageThreadID: t.ThreadID,
		Name:            t.Title,
		Icon:            t.Icon,
		CreationDate:    t.CreationDate,
		CreatorID:       int64(t.Creator),
		IsOutgoing:      t.IsOutgoing,
		IsClosed:        t.IsClosed,
	}
}

// CleanTitle collapses whitespace and control characters into single
// spaces, removes invisible characters, trims the result and cuts it to at
// most maxLength characters.
func CleanTitle(title string, maxLength int) string {
	var b strings.Builder
	space := false
	for _, r := range title {
		switch {
		case isInvisible(r):
			continue
		case unicode.IsSpace(r) || unicode.IsControl(r):
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}

	out := []rune(strings.TrimSpace(b.String()))
	if maxLength > 0 && len(out) > maxLength {
		out = out[:maxLength]
	}
	return strings.TrimSpace(string(out))
}

func isInvisible(r rune) bool {
	switch r {
	case '\u00ad', '\u200b', '\u200c', '\u200d', '\u200e', '\u200f', '\u2060', '\ufeff':
		return true
	}
	return false
}
