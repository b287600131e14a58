package privacy

import (
	"fmt"
	"slices"

	"messenger-core/core/apperr"
	"messenger-core/core/directory"
	"messenger-core/core/wire"

	"go.uber.org/zap"
)

// Kind is the variant of a Rule.
type Kind int

const (
	AllowContacts Kind = iota + 1
	AllowCloseFriends
	AllowAll
	AllowUsers
	AllowChatMembers
	RestrictContacts
	RestrictAll
	RestrictUsers
	RestrictChatMembers
)

// Caller-facing rule types.
const (
	TypeAllowContacts       = "userPrivacySettingRuleAllowContacts"
	TypeAllowCloseFriends   = "userPrivacySettingRuleAllowCloseFriends"
	TypeAllowAll            = "userPrivacySettingRuleAllowAll"
	TypeAllowUsers          = "userPrivacySettingRuleAllowUsers"
	TypeAllowChatMembers    = "userPrivacySettingRuleAllowChatMembers"
	TypeRestrictContacts    = "userPrivacySettingRuleRestrictContacts"
	TypeRestrictAll         = "userPrivacySettingRuleRestrictAll"
	TypeRestrictUsers       = "userPrivacySettingRuleRestrictUsers"
	TypeRestrictChatMembers = "userPrivacySettingRuleRestrictChatMembers"
)

var kinds = []struct {
	kind  Kind
	api   string
	value string
	input string
}{
	{AllowContacts, TypeAllowContacts, wire.PrivacyValueAllowContacts, wire.InputPrivacyValueAllowContacts},
	{AllowCloseFriends, TypeAllowCloseFriends, wire.PrivacyValueAllowCloseFriends, wire.InputPrivacyValueAllowCloseFriends},
	{AllowAll, TypeAllowAll, wire.PrivacyValueAllowAll, wire.InputPrivacyValueAllowAll},
	{AllowUsers, TypeAllowUsers, wire.PrivacyValueAllowUsers, wire.InputPrivacyValueAllowUsers},
	{AllowChatMembers, TypeAllowChatMembers, wire.PrivacyValueAllowChatParticipants, wire.InputPrivacyValueAllowChatParticipants},
	{RestrictContacts, TypeRestrictContacts, wire.PrivacyValueDisallowContacts, wire.InputPrivacyValueDisallowContacts},
	{RestrictAll, TypeRestrictAll, wire.PrivacyValueDisallowAll, wire.InputPrivacyValueDisallowAll},
	{RestrictUsers, TypeRestrictUsers, wire.PrivacyValueDisallowUsers, wire.InputPrivacyValueDisallowUsers},
	{RestrictChatMembers, TypeRestrictChatMembers, wire.PrivacyValueDisallowChatParticipants, wire.InputPrivacyValueDisallowChatParticipants},
}

func (k Kind) String() string {
	for _, e := range kinds {
		if e.kind == k {
			return e.api
		}
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) hasUsers() bool {
	return k == AllowUsers || k == RestrictUsers
}

func (k Kind) hasChats() bool {
	return k == AllowChatMembers || k == RestrictChatMembers
}

// Rule is one entry of a privacy rule list.
type Rule struct {
	Kind    Kind
	UserIDs []int64
	Dialogs []directory.DialogID
}

// Equal reports whether r and o are the same rule.
func (r Rule) Equal(o Rule) bool {
	return r.Kind == o.Kind && slices.Equal(r.UserIDs, o.UserIDs) && slices.Equal(r.Dialogs, o.Dialogs)
}

// Rules is an ordered rule list.
type Rules []Rule

// Equal reports whether rs and o hold the same rules in the same order.
func (rs Rules) Equal(o Rules) bool {
	return slices.EqualFunc(rs, o, Rule.Equal)
}

// APIRule is a rule in the caller-facing schema.
type APIRule struct {
	Type    string  `json:"@type"`
	UserIDs []int64 `json:"user_ids,omitempty"`
	ChatIDs []int64 `json:"chat_ids,omitempty"`
}

// Resolver answers which users and chats are known locally.
type Resolver interface {
	HaveUser(id int64) bool
	HaveChat(id int64) bool
	HaveChannel(id int64) bool
	IsMegagroup(channelID int64) bool
	HaveDialog(dialog directory.DialogID) bool
	InputUser(id int64) (wire.InputUser, bool)
}

// Canonicalize returns the canonical form of rules: source order is kept and
// the trailing RestrictAll, the implicit default, is removed. A run of
// trailing RestrictAll rules counts as one. It does not modify its argument.
func Canonicalize(rules Rules) Rules {
	n := len(rules)
	for n > 0 && rules[n-1].Kind == RestrictAll {
		n--
	}
	return slices.Clone(rules[:n])
}

// FromAPI translates caller rules. Unknown users and unsuitable chats are
// dropped; an unknown rule type is a validation error.
func FromAPI(res Resolver, in []APIRule, logger *zap.Logger) (Rules, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rules := make(Rules, 0, len(in))
	for _, a := range in {
		kind, ok := kindOfAPI(a.Type)
		if !ok {
			return nil, apperr.Validation("Unsupported privacy rule %q", a.Type)
		}
		r := Rule{Kind: kind}
		if kind.hasUsers() {
			r.UserIDs = filterUsers(res, a.UserIDs, func(id int64) {
				logger.Info("Ignore unknown user", zap.Int64("user_id", id))
			})
		}
		if kind.hasChats() {
			r.Dialogs = dialogsFromAPI(res, a.ChatIDs, logger)
		}
		rules = append(rules, r)
	}
	return Canonicalize(rules), nil
}

// FromWire translates server rules. Server chat ids are looked up as basic
// groups first and channels second.
func FromWire(res Resolver, in []wire.PrivacyValue, logger *zap.Logger) (Rules, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rules := make(Rules, 0, len(in))
	for _, v := range in {
		kind, ok := kindOfValue(v.Type)
		if !ok {
			return nil, fmt.Errorf("unknown privacy value %q", v.Type)
		}
		r := Rule{Kind: kind}
		if kind.hasUsers() {
			r.UserIDs = filterUsers(res, v.Users, func(id int64) {
				logger.Error("Receive unknown user", zap.Int64("user_id", id))
			})
		}
		if kind.hasChats() {
			r.Dialogs = dialogsFromServer(res, v.Chats, logger)
		}
		rules = append(rules, r)
	}
	return Canonicalize(rules), nil
}

func filterUsers(res Resolver, ids []int64, drop func(int64)) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !res.HaveUser(id) {
			drop(id)
			continue
		}
		out = append(out, id)
	}
	return out
}

func dialogsFromAPI(res Resolver, chatIDs []int64, logger *zap.Logger) []directory.DialogID {
	out := make([]directory.DialogID, 0, len(chatIDs))
	for _, id := range chatIDs {
		d := directory.DialogID(id)
		if !res.HaveDialog(d) {
			logger.Info("Ignore not found chat", zap.Int64("chat_id", id))
			continue
		}
		switch d.Type() {
		case directory.DialogChat:
			out = append(out, d)
		case directory.DialogChannel:
			if !res.IsMegagroup(d.ChannelID()) {
				logger.Info("Ignore broadcast channel", zap.Int64("chat_id", id))
				continue
			}
			out = append(out, d)
		default:
			logger.Info("Ignore chat", zap.Int64("chat_id", id))
		}
	}
	return out
}

func dialogsFromServer(res Resolver, serverIDs []int64, logger *zap.Logger) []directory.DialogID {
	out := make([]directory.DialogID, 0, len(serverIDs))
	for _, id := range serverIDs {
		switch {
		case res.HaveChat(id):
			out = append(out, directory.ChatDialog(id))
		case res.HaveChannel(id):
			if !res.IsMegagroup(id) {
				logger.Error("Receive broadcast channel", zap.Int64("chat_id", id))
				continue
			}
			out = append(out, directory.ChannelDialog(id))
		default:
			logger.Error("Receive unknown group from the server", zap.Int64("chat_id", id))
		}
	}
	return out
}

// APIObjects projects rs onto the caller schema.
func (rs Rules) APIObjects() []APIRule {
	out := make([]APIRule, 0, len(rs))
	for _, r := range rs {
		a := APIRule{Type: r.Kind.String()}
		if r.Kind.hasUsers() {
			a.UserIDs = slices.Clone(r.UserIDs)
		}
		if r.Kind.hasChats() {
			a.ChatIDs = make([]int64, len(r.Dialogs))
			for i, d := range r.Dialogs {
				a.ChatIDs[i] = int64(d)
			}
		}
		out = append(out, a)
	}
	return out
}

// InputRules projects rs onto the schema sent to the server.
func (rs Rules) InputRules(res Resolver) []wire.InputPrivacyValue {
	out := make([]wire.InputPrivacyValue, 0, len(rs))
	for _, r := range rs {
		v := wire.InputPrivacyValue{Type: inputType(r.Kind)}
		if r.Kind.hasUsers() {
			for _, id := range r.UserIDs {
				if u, ok := res.InputUser(id); ok {
					v.Users = append(v.Users, u)
				}
			}
		}
		if r.Kind.hasChats() {
			for _, d := range r.Dialogs {
				switch d.Type() {
				case directory.DialogChat:
					v.Chats = append(v.Chats, d.ChatID())
				case directory.DialogChannel:
					v.Chats = append(v.Chats, d.ChannelID())
				}
			}
		}
		out = append(out, v)
	}
	if n := len(out); n > 0 && out[n-1].Type == wire.InputPrivacyValueDisallowAll {
		out = out[:n-1]
	}
	return out
}

// RestrictedUserIDs returns the sorted, de-duplicated ids of every
// RestrictUsers rule.
func (rs Rules) RestrictedUserIDs() []int64 {
	var out []int64
	for _, r := range rs {
		if r.Kind == RestrictUsers {
			out = append(out, r.UserIDs...)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func kindOfAPI(t string) (Kind, bool) {
	for _, e := range kinds {
		if e.api == t {
			return e.kind, true
		}
	}
	return 0, false
}

func kindOfValue(t string) (Kind, bool) {
	for _, e := range kinds {
		if e.value == t {
			return e.kind, true
		}
	}
	return 0, false
}

func inputType(k Kind) string {
	for _, e := range kinds {
		if e.kind == k {
			return e.input
		}
	}
	panic(fmt.Sprintf("privacy: unknown rule kind %d", int(k)))
}
