package privacy

import "messenger-core/core/apperr"

// Setting names a privacy setting.
type Setting string

const (
	ShowStatus                Setting = "show_status"
	ShowProfilePhoto          Setting = "show_profile_photo"
	ShowLinkInForwarded       Setting = "show_link_in_forwarded_messages"
	ShowPhoneNumber           Setting = "show_phone_number"
	ShowBio                   Setting = "show_bio"
	AllowChatInvites          Setting = "allow_chat_invites"
	AllowCalls                Setting = "allow_calls"
	AllowPeerToPeerCalls      Setting = "allow_peer_to_peer_calls"
	AllowFindingByPhoneNumber Setting = "allow_finding_by_phone_number"
	AllowVoiceMessages        Setting = "allow_private_voice_and_video_note_messages"
)

var settingKeys = map[Setting]string{
	ShowStatus:                "inputPrivacyKeyStatusTimestamp",
	ShowProfilePhoto:          "inputPrivacyKeyProfilePhoto",
	ShowLinkInForwarded:       "inputPrivacyKeyForwards",
	ShowPhoneNumber:           "inputPrivacyKeyPhoneNumber",
	ShowBio:                   "inputPrivacyKeyAbout",
	AllowChatInvites:          "inputPrivacyKeyChatInvite",
	AllowCalls:                "inputPrivacyKeyPhoneCall",
	AllowPeerToPeerCalls:      "inputPrivacyKeyPhoneP2P",
	AllowFindingByPhoneNumber: "inputPrivacyKeyAddedByPhone",
	AllowVoiceMessages:        "inputPrivacyKeyVoiceMessages",
}

// ParseSetting validates a setting name.
func ParseSetting(name string) (Setting, error) {
	s := Setting(name)
	if _, ok := settingKeys[s]; !ok {
		return "", apperr.Validation("Unsupported privacy setting %q", name)
	}
	return s, nil
}

// Key returns the server key of s.
func (s Setting) Key() string {
	return settingKeys[s]
}
