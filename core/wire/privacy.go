package wire

// Privacy rule constructors received from the server.
const (
	PrivacyValueAllowContacts            = "privacyValueAllowContacts"
	PrivacyValueAllowCloseFriends        = "privacyValueAllowCloseFriends"
	PrivacyValueAllowAll                 = "privacyValueAllowAll"
	PrivacyValueAllowUsers               = "privacyValueAllowUsers"
	PrivacyValueAllowChatParticipants    = "privacyValueAllowChatParticipants"
	PrivacyValueDisallowContacts         = "privacyValueDisallowContacts"
	PrivacyValueDisallowAll              = "privacyValueDisallowAll"
	PrivacyValueDisallowUsers            = "privacyValueDisallowUsers"
	PrivacyValueDisallowChatParticipants = "privacyValueDisallowChatParticipants"
)

// Privacy rule constructors sent to the server.
const (
	InputPrivacyValueAllowContacts            = "inputPrivacyValueAllowContacts"
	InputPrivacyValueAllowCloseFriends        = "inputPrivacyValueAllowCloseFriends"
	InputPrivacyValueAllowAll                 = "inputPrivacyValueAllowAll"
	InputPrivacyValueAllowUsers               = "inputPrivacyValueAllowUsers"
	InputPrivacyValueAllowChatParticipants    = "inputPrivacyValueAllowChatParticipants"
	InputPrivacyValueDisallowContacts         = "inputPrivacyValueDisallowContacts"
	InputPrivacyValueDisallowAll              = "inputPrivacyValueDisallowAll"
	InputPrivacyValueDisallowUsers            = "inputPrivacyValueDisallowUsers"
	InputPrivacyValueDisallowChatParticipants = "inputPrivacyValueDisallowChatParticipants"
)

// PrivacyValue is a privacy rule as the server reports it. Chats holds
// server chat or channel ids, without dialog encoding.
type PrivacyValue struct {
	Type  string  `cbor:"_type"`
	Users []int64 `cbor:"users,omitempty"`
	Chats []int64 `cbor:"chats,omitempty"`
}

// InputUser references a user the client has access to.
type InputUser struct {
	UserID     int64 `cbor:"user_id"`
	AccessHash int64 `cbor:"access_hash"`
}

// InputPrivacyValue is a privacy rule as the client sends it.
type InputPrivacyValue struct {
	Type  string      `cbor:"_type"`
	Users []InputUser `cbor:"users,omitempty"`
	Chats []int64     `cbor:"chats,omitempty"`
}

// PrivacyRules is the result of the privacy get/set methods.
type PrivacyRules struct {
	Rules []PrivacyValue `cbor:"rules"`
	Users []User         `cbor:"users,omitempty"`
	Chats []Chat         `cbor:"chats,omitempty"`
}

// GetPrivacyParams are the parameters of MethodGetPrivacy.
type GetPrivacyParams struct {
	Key string `cbor:"key"`
}

// SetPrivacyParams are the parameters of MethodSetPrivacy.
type SetPrivacyParams struct {
	Key   string              `cbor:"key"`
	Rules []InputPrivacyValue `cbor:"rules"`
}
