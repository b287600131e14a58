package account

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"messenger-core/core/actor"
	"messenger-core/core/apperr"
	"messenger-core/core/query"
	"messenger-core/core/remote"
	"messenger-core/core/updates"
	"messenger-core/core/wire"
)

// Bounds of the inactive session TTL, in days.
const (
	MinInactiveSessionTTLDays = 1
	MaxInactiveSessionTTLDays = 366
)

// Session is an active login of the account.
type Session struct {
	ID                    int64  `json:"id,string"`
	IsCurrent             bool   `json:"is_current"`
	IsPasswordPending     bool   `json:"is_password_pending"`
	IsUnconfirmed         bool   `json:"is_unconfirmed"`
	CanAcceptSecretChats  bool   `json:"can_accept_secret_chats"`
	CanAcceptCalls        bool   `json:"can_accept_calls"`
	APIID                 int32  `json:"api_id"`
	ApplicationName       string `json:"application_name"`
	ApplicationVersion    string `json:"application_version"`
	IsOfficialApplication bool   `json:"is_official_application"`
	DeviceModel           string `json:"device_model"`
	Platform              string `json:"platform"`
	SystemVersion         string `json:"system_version"`
	LogInDate             int32  `json:"log_in_date"`
	LastActiveDate        int32  `json:"last_active_date"`
	IPAddress             string `json:"ip_address"`
	Location              string `json:"location"`
}

// Sessions is the list of active sessions.
type Sessions struct {
	Sessions               []Session `json:"sessions"`
	InactiveSessionTTLDays int32     `json:"inactive_session_ttl_days"`
}

// Website is a website the account logged in to through a bot.
type Website struct {
	ID             int64  `json:"id,string"`
	DomainName     string `json:"domain_name"`
	BotUserID      int64  `json:"bot_user_id"`
	Browser        string `json:"browser"`
	Platform       string `json:"platform"`
	LogInDate      int32  `json:"log_in_date"`
	LastActiveDate int32  `json:"last_active_date"`
	IPAddress      string `json:"ip_address"`
	Location       string `json:"location"`
}

func location(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, func(s string) bool { return s == "" }), ", ")
}

func sessionFromWire(a wire.Authorization) Session {
	return Session{
		ID:                    a.Hash,
		IsCurrent:             a.Current,
		IsPasswordPending:     a.PasswordPending,
		IsUnconfirmed:         a.Unconfirmed,
		CanAcceptSecretChats:  !a.EncryptedRequestsDisabled,
		CanAcceptCalls:        !a.CallRequestsDisabled,
		APIID:                 a.APIID,
		ApplicationName:       a.AppName,
		ApplicationVersion:    a.AppVersion,
		IsOfficialApplication: a.OfficialApp,
		DeviceModel:           a.DeviceModel,
		Platform:              a.Platform,
		SystemVersion:         a.SystemVersion,
		LogInDate:             a.DateCreated,
		LastActiveDate:        a.DateActive,
		IPAddress:             a.IP,
		Location:              location(a.Region, a.Country),
	}
}

// sortSessions puts the current session first, then sessions waiting for a
// password, then the rest by last activity, newest first.
func sortSessions(ss []Session) {
	slices.SortStableFunc(ss, func(a, b Session) int {
		if a.IsCurrent != b.IsCurrent {
			if a.IsCurrent {
				return -1
			}
			return 1
		}
		if a.IsPasswordPending != b.IsPasswordPending {
			if a.IsPasswordPending {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.LastActiveDate, a.LastActiveDate)
	})
}

// GetActiveSessions lists the sessions of the account.
func (m *Manager) GetActiveSessions(ctx context.Context) (Sessions, error) {
	p := actor.NewPromise[Sessions](m.lane)
	query.Send(ctx, m.handler, query.Query[wire.Authorizations]{
		Name:   "get_active_sessions",
		Method: wire.MethodGetAuthorizations,
		Parse:  query.Decode[wire.Authorizations](),
	}, func(res wire.Authorizations) (Sessions, error) {
		out := Sessions{
			Sessions:               make([]Session, 0, len(res.Authorizations)),
			InactiveSessionTTLDays: res.TTLDays,
		}
		for _, a := range res.Authorizations {
			out.Sessions = append(out.Sessions, sessionFromWire(a))
		}
		sortSessions(out.Sessions)
		return out, nil
	}, p)
	return p.Await(ctx)
}

// TerminateAllOtherSessions logs out every session but the current one.
// Unconfirmed logins belong to those sessions and are forgotten too.
func (m *Manager) TerminateAllOtherSessions(ctx context.Context) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:   "terminate_all_other_sessions",
		Method: wire.MethodResetAuthorizations,
		Params: func() (any, error) {
			m.confirmAll()
			return nil, nil
		},
	})
}

// ToggleSessionCanAcceptCalls allows or forbids incoming calls on a session.
func (m *Manager) ToggleSessionCanAcceptCalls(ctx context.Context, hash int64, canAcceptCalls bool) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:     "toggle_session_can_accept_calls",
		Method:   wire.MethodChangeAuthorization,
		Validate: validSession(hash),
		Params: func() (any, error) {
			disabled := !canAcceptCalls
			return wire.ChangeAuthorizationParams{Hash: hash, CallRequestsDisabled: &disabled}, nil
		},
	})
}

// ToggleSessionCanAcceptSecretChats allows or forbids incoming secret chats
// on a session.
func (m *Manager) ToggleSessionCanAcceptSecretChats(ctx context.Context, hash int64, canAcceptSecretChats bool) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:     "toggle_session_can_accept_secret_chats",
		Method:   wire.MethodChangeAuthorization,
		Validate: validSession(hash),
		Params: func() (any, error) {
			disabled := !canAcceptSecretChats
			return wire.ChangeAuthorizationParams{Hash: hash, EncryptedRequestsDisabled: &disabled}, nil
		},
	})
}

// SetInactiveSessionTTL sets after how many days of inactivity sessions are
// terminated.
func (m *Manager) SetInactiveSessionTTL(ctx context.Context, days int32) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:   "set_inactive_session_ttl",
		Method: wire.MethodSetAuthorizationTTL,
		Validate: func() error {
			if days < MinInactiveSessionTTLDays || days > MaxInactiveSessionTTLDays {
				return apperr.Validation("Inactive session TTL must be between %d and %d days", MinInactiveSessionTTLDays, MaxInactiveSessionTTLDays)
			}
			return nil
		},
		Params: func() (any, error) {
			return wire.AuthorizationTTLParams{Days: days}, nil
		},
	})
}

// GetConnectedWebsites lists the websites logged in through bots. The bot
// users are stored before the list is returned.
func (m *Manager) GetConnectedWebsites(ctx context.Context) ([]Website, error) {
	p := actor.NewPromise[[]Website](m.lane)
	query.Send(ctx, m.handler, query.Query[wire.WebAuthorizations]{
		Name:   "get_connected_websites",
		Method: wire.MethodGetWebAuthorizations,
		Parse:  parseWebsites,
	}, func(res wire.WebAuthorizations) ([]Website, error) {
		out := make([]Website, 0, len(res.Authorizations))
		for _, a := range res.Authorizations {
			out = append(out, Website{
				ID:             a.Hash,
				DomainName:     a.Domain,
				BotUserID:      a.BotID,
				Browser:        a.Browser,
				Platform:       a.Platform,
				LogInDate:      a.DateCreated,
				LastActiveDate: a.DateActive,
				IPAddress:      a.IP,
				Location:       a.Region,
			})
		}
		return out, nil
	}, p)
	return p.Await(ctx)
}

func parseWebsites(resp *remote.Response) (wire.WebAuthorizations, updates.Batch, error) {
	var res wire.WebAuthorizations
	if err := resp.Decode(&res); err != nil {
		return res, nil, err
	}
	var batch updates.Batch
	if len(res.Users) > 0 {
		batch = append(batch, updates.Update{Kind: updates.KindUsers, Payload: res.Users})
	}
	return res, batch, nil
}

// DisconnectWebsite logs out of one website.
func (m *Manager) DisconnectWebsite(ctx context.Context, websiteID int64) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:   "disconnect_website",
		Method: wire.MethodResetWebAuthorization,
		Validate: func() error {
			if websiteID == 0 {
				return apperr.Validation("Invalid website identifier")
			}
			return nil
		},
		Params: func() (any, error) {
			return wire.ResetWebAuthorizationParams{Hash: websiteID}, nil
		},
	})
}

// DisconnectAllWebsites logs out of every connected website.
func (m *Manager) DisconnectAllWebsites(ctx context.Context) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:   "disconnect_all_websites",
		Method: wire.MethodResetWebAuthorizations,
	})
}
