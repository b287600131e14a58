package directory

import "strconv"

const (
	maxChatID    = 999999999999
	zeroChannel  = -1000000000000
	maxChannelID = 1000000000000 - 1
)

// DialogType is the kind of entity a DialogID refers to.
type DialogType int

const (
	DialogNone DialogType = iota
	DialogUser
	DialogChat
	DialogChannel
)

func (t DialogType) String() string {
	switch t {
	case DialogUser:
		return "user"
	case DialogChat:
		return "chat"
	case DialogChannel:
		return "channel"
	default:
		return "none"
	}
}

// DialogID identifies a user, basic group or channel.
type DialogID int64

// UserDialog returns the dialog of a user.
func UserDialog(userID int64) DialogID {
	return DialogID(userID)
}

// ChatDialog returns the dialog of a basic group.
func ChatDialog(chatID int64) DialogID {
	return DialogID(-chatID)
}

// ChannelDialog returns the dialog of a channel or supergroup.
func ChannelDialog(channelID int64) DialogID {
	return DialogID(zeroChannel - channelID)
}

// Type returns the dialog kind, DialogNone for ids outside every range.
func (d DialogID) Type() DialogType {
	switch {
	case d > 0:
		return DialogUser
	case d < 0 && d >= -maxChatID:
		return DialogChat
	case d < zeroChannel && d >= zeroChannel-maxChannelID:
		return DialogChannel
	default:
		return DialogNone
	}
}

// UserID returns the user id of a user dialog.
func (d DialogID) UserID() int64 {
	return int64(d)
}

// ChatID returns the basic group id of a chat dialog.
func (d DialogID) ChatID() int64 {
	return -int64(d)
}

// ChannelID returns the channel id of a channel dialog.
func (d DialogID) ChannelID() int64 {
	return zeroChannel - int64(d)
}

func (d DialogID) String() string {
	return strconv.FormatInt(int64(d), 10)
}
