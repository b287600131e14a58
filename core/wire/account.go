package wire

// CreateForumTopicParams are the parameters of MethodCreateForumTopic.
type CreateForumTopicParams struct {
	Flags       int32  `cbor:"flags"`
	ChannelID   int64  `cbor:"channel_id"`
	Title       string `cbor:"title"`
	IconColor   int32  `cbor:"icon_color,omitempty"`
	IconEmojiID int64  `cbor:"icon_emoji_id,omitempty"`
	RandomID    int64  `cbor:"random_id"`
}

// CreateForumTopic flags.
const (
	CreateForumTopicIconColorMask   int32 = 1 << 0
	CreateForumTopicIconEmojiIDMask int32 = 1 << 3
)

// ChangeAuthorizationParams are the parameters of MethodChangeAuthorization.
// Nil settings are left unchanged.
type ChangeAuthorizationParams struct {
	Hash                      int64 `cbor:"hash"`
	Confirmed                 bool  `cbor:"confirmed"`
	EncryptedRequestsDisabled *bool `cbor:"encrypted_requests_disabled,omitempty"`
	CallRequestsDisabled      *bool `cbor:"call_requests_disabled,omitempty"`
}

// ResetAuthorizationParams are the parameters of MethodResetAuthorization.
type ResetAuthorizationParams struct {
	Hash int64 `cbor:"hash"`
}

// AccountTTLParams are the parameters of MethodSetAccountTTL.
type AccountTTLParams struct {
	Days int32 `cbor:"days"`
}

// HistoryTTLParams are the parameters of MethodSetDefaultHistoryTTL.
type HistoryTTLParams struct {
	Period int32 `cbor:"period"`
}

// NewAuthorization announces a login on another device. Unconfirmed is set
// while the login still waits for confirmation from an existing session.
type NewAuthorization struct {
	Hash        int64  `cbor:"hash"`
	Date        int32  `cbor:"date"`
	Device      string `cbor:"device,omitempty"`
	Location    string `cbor:"location,omitempty"`
	Unconfirmed bool   `cbor:"unconfirmed,omitempty"`
}

// Authorization is a session of the account as listed by
// MethodGetAuthorizations.
type Authorization struct {
	Hash                      int64  `cbor:"hash"`
	Current                   bool   `cbor:"current,omitempty"`
	OfficialApp               bool   `cbor:"official_app,omitempty"`
	PasswordPending           bool   `cbor:"password_pending,omitempty"`
	EncryptedRequestsDisabled bool   `cbor:"encrypted_requests_disabled,omitempty"`
	CallRequestsDisabled      bool   `cbor:"call_requests_disabled,omitempty"`
	Unconfirmed               bool   `cbor:"unconfirmed,omitempty"`
	APIID                     int32  `cbor:"api_id"`
	AppName                   string `cbor:"app_name,omitempty"`
	AppVersion                string `cbor:"app_version,omitempty"`
	DeviceModel               string `cbor:"device_model,omitempty"`
	Platform                  string `cbor:"platform,omitempty"`
	SystemVersion             string `cbor:"system_version,omitempty"`
	DateCreated               int32  `cbor:"date_created"`
	DateActive                int32  `cbor:"date_active"`
	IP                        string `cbor:"ip,omitempty"`
	Country                   string `cbor:"country,omitempty"`
	Region                    string `cbor:"region,omitempty"`
}

// Authorizations is the result of MethodGetAuthorizations.
type Authorizations struct {
	TTLDays        int32           `cbor:"authorization_ttl_days"`
	Authorizations []Authorization `cbor:"authorizations"`
}

// AuthorizationTTLParams are the parameters of MethodSetAuthorizationTTL.
type AuthorizationTTLParams struct {
	Days int32 `cbor:"authorization_ttl_days"`
}

// WebAuthorization is a website logged in through a bot.
type WebAuthorization struct {
	Hash        int64  `cbor:"hash"`
	BotID       int64  `cbor:"bot_id"`
	Domain      string `cbor:"domain"`
	Browser     string `cbor:"browser,omitempty"`
	Platform    string `cbor:"platform,omitempty"`
	DateCreated int32  `cbor:"date_created"`
	DateActive  int32  `cbor:"date_active"`
	IP          string `cbor:"ip,omitempty"`
	Region      string `cbor:"region,omitempty"`
}

// WebAuthorizations is the result of MethodGetWebAuthorizations.
type WebAuthorizations struct {
	Authorizations []WebAuthorization `cbor:"authorizations"`
	Users          []User             `cbor:"users,omitempty"`
}

// ResetWebAuthorizationParams are the parameters of
// MethodResetWebAuthorization.
type ResetWebAuthorizationParams struct {
	Hash int64 `cbor:"hash"`
}
