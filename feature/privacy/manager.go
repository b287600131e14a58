package privacy

import (
	"context"
	"errors"
	"slices"

	"messenger-core/core/actor"
	"messenger-core/core/query"
	"messenger-core/core/remote"
	"messenger-core/core/updates"
	"messenger-core/core/wire"

	"go.uber.org/zap"
)

// Manager reads and writes privacy settings and caches the last known rules
// of every setting. Cache and pending tables belong to the owner lane.
type Manager struct {
	handler  *query.Handler
	lane     *actor.Lane
	resolver Resolver
	logger   *zap.Logger

	cache   map[Setting]Rules
	pending map[Setting][]*actor.Promise[Rules]
}

// NewManager creates a manager on the handler's lane.
func NewManager(h *query.Handler, resolver Resolver, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		handler:  h,
		lane:     h.Lane(),
		resolver: resolver,
		logger:   logger.Named("privacy"),
		cache:    make(map[Setting]Rules),
		pending:  make(map[Setting][]*actor.Promise[Rules]),
	}
}

// Get returns the rules of setting. A cached value is returned without a
// round trip; concurrent Gets of an uncached setting share one request.
func (m *Manager) Get(ctx context.Context, setting Setting) (Rules, error) {
	if _, err := ParseSetting(string(setting)); err != nil {
		return nil, err
	}

	p := actor.NewPromise[Rules](m.lane)
	posted := m.lane.Post(func() {
		if rules, ok := m.cache[setting]; ok {
			p.Resolve(clone(rules))
			return
		}
		waiters := m.pending[setting]
		m.pending[setting] = append(waiters, p)
		if len(waiters) == 0 {
			m.fetch(context.WithoutCancel(ctx), setting)
		}
	})
	if !posted {
		return nil, actor.ErrClosed
	}
	return p.Await(ctx)
}

// fetch runs on the lane and settles every pending Get of setting.
func (m *Manager) fetch(ctx context.Context, setting Setting) {
	inner := actor.NewPromise[Rules](m.lane)
	query.Send(ctx, m.handler, query.Query[wire.PrivacyRules]{
		Name:   "get_privacy",
		Method: wire.MethodGetPrivacy,
		Params: func() (any, error) {
			return wire.GetPrivacyParams{Key: setting.Key()}, nil
		},
		Parse: parseRules,
	}, m.commit(setting), inner)

	go func() {
		rules, err := inner.Await(context.Background())
		if errors.Is(err, actor.ErrClosed) && !inner.Settled() {
			return
		}
		m.lane.Post(func() {
			waiters := m.pending[setting]
			delete(m.pending, setting)
			for _, w := range waiters {
				if err != nil {
					w.Reject(err)
				} else {
					w.Resolve(clone(rules))
				}
			}
		})
	}()
}

// Set replaces the rules of setting and returns the rules the server
// confirmed.
func (m *Manager) Set(ctx context.Context, setting Setting, in []APIRule) (Rules, error) {
	if _, err := ParseSetting(string(setting)); err != nil {
		return nil, err
	}

	var rules Rules
	p := actor.NewPromise[Rules](m.lane)
	query.Send(ctx, m.handler, query.Query[wire.PrivacyRules]{
		Name:   "set_privacy",
		Method: wire.MethodSetPrivacy,
		Validate: func() error {
			var err error
			rules, err = FromAPI(m.resolver, in, m.logger)
			return err
		},
		Params: func() (any, error) {
			return wire.SetPrivacyParams{Key: setting.Key(), Rules: rules.InputRules(m.resolver)}, nil
		},
		Parse: parseRules,
	}, m.commit(setting), p)
	return p.Await(ctx)
}

// Cached returns the cached rules of setting without a round trip.
func (m *Manager) Cached(ctx context.Context, setting Setting) (Rules, bool, error) {
	type cached struct {
		rules Rules
		ok    bool
	}
	c, err := actor.Go(m.lane, func() (cached, error) {
		rules, ok := m.cache[setting]
		return cached{clone(rules), ok}, nil
	}).Await(ctx)
	return c.rules, c.ok, err
}

// commit runs on the lane after the embedded users and chats are stored.
func (m *Manager) commit(setting Setting) func(wire.PrivacyRules) (Rules, error) {
	return func(res wire.PrivacyRules) (Rules, error) {
		rules, err := FromWire(m.resolver, res.Rules, m.logger)
		if err != nil {
			m.logger.Error("Invalid privacy rules received", zap.String("setting", string(setting)), zap.Error(err))
			return nil, err
		}
		m.cache[setting] = rules
		return clone(rules), nil
	}
}

func parseRules(resp *remote.Response) (wire.PrivacyRules, updates.Batch, error) {
	var res wire.PrivacyRules
	if err := resp.Decode(&res); err != nil {
		return res, nil, err
	}
	for _, v := range res.Rules {
		if _, ok := kindOfValue(v.Type); !ok {
			return res, nil, errors.New("unknown privacy value " + v.Type)
		}
	}
	var batch updates.Batch
	if len(res.Users) > 0 {
		batch = append(batch, updates.Update{Kind: updates.KindUsers, Payload: res.Users})
	}
	if len(res.Chats) > 0 {
		batch = append(batch, updates.Update{Kind: updates.KindChats, Payload: res.Chats})
	}
	return res, batch, nil
}

func clone(rules Rules) Rules {
	if rules == nil {
		return nil
	}
	out := make(Rules, len(rules))
	for i, r := range rules {
		out[i] = Rule{
			Kind:    r.Kind,
			UserIDs: slices.Clone(r.UserIDs),
			Dialogs: slices.Clone(r.Dialogs),
		}
	}
	return out
}
