package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"messenger-core/core/actor"
	"messenger-core/core/apperr"
	"messenger-core/core/query"
	"messenger-core/core/updates"
	"messenger-core/core/wire"

	"go.uber.org/zap"
)

const (
	MinAccountTTLDays = 30
	MaxAccountTTLDays = 730
)

// Persister stores the unconfirmed authorization list.
type Persister interface {
	Save(key string, blob []byte)
	Erase(key string)
	Load(ctx context.Context, key string) ([]byte, bool, error)
}

// Manager tracks unconfirmed logins and changes account-wide settings. The
// authorization list and its expiry timer belong to the owner lane.
type Manager struct {
	handler   *query.Handler
	lane      *actor.Lane
	persister Persister
	period    time.Duration
	logger    *zap.Logger

	// Now is the clock used for expiry.
	Now func() time.Time

	unconfirmed authorizations
	timer       *time.Timer

	mu        sync.RWMutex
	listeners []func(first *UnconfirmedAuthorization)
}

// NewManager creates a manager on the handler's lane. A non-positive period
// selects DefaultAutoconfirmPeriod.
func NewManager(h *query.Handler, persister Persister, period time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if period <= 0 {
		period = DefaultAutoconfirmPeriod
	}
	return &Manager{
		handler:   h,
		lane:      h.Lane(),
		persister: persister,
		period:    period,
		logger:    logger.Named("account"),
		Now:       time.Now,
	}
}

// OnUnconfirmedChanged registers fn to run, on the owner lane, whenever the
// oldest unconfirmed authorization changes. fn receives nil once none is
// left.
func (m *Manager) OnUnconfirmedChanged(fn func(first *UnconfirmedAuthorization)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// RegisterUpdates applies authorization notifications.
func (m *Manager) RegisterUpdates(r *updates.Router) {
	r.Handle(updates.KindAuthorization, func(ctx context.Context, u updates.Update) error {
		a, ok := u.Payload.(wire.NewAuthorization)
		if !ok {
			return fmt.Errorf("unexpected authorization payload %T", u.Payload)
		}
		if !a.Unconfirmed {
			_, err := m.OnConfirmAuthorization(ctx, a.Hash)
			return err
		}
		return m.OnNewUnconfirmedAuthorization(ctx, a.Hash, a.Date, a.Device, a.Location)
	})
}

// Load restores the persisted list, dropping entries that expired while the
// session was down.
func (m *Manager) Load(ctx context.Context) error {
	blob, found, err := m.persister.Load(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to load unconfirmed authorizations: %w", err)
	}
	if !found {
		return nil
	}
	as, err := unmarshalAuthorizations(blob)
	if err != nil {
		m.logger.Error("Failed to decode unconfirmed authorizations", zap.Error(err))
		m.persister.Erase(StorageKey)
		return nil
	}

	_, err = actor.Go(m.lane, func() (struct{}, error) {
		before := m.unconfirmed.first()
		for _, a := range as {
			m.unconfirmed.add(a)
		}
		if m.unconfirmed.expire(m.Now(), m.period) > 0 {
			m.save()
		}
		m.changed(before)
		m.schedule()
		return struct{}{}, nil
	}).Await(ctx)
	return err
}

// OnNewUnconfirmedAuthorization records a login waiting for confirmation.
func (m *Manager) OnNewUnconfirmedAuthorization(ctx context.Context, hash int64, date int32, device, location string) error {
	_, err := actor.Go(m.lane, func() (struct{}, error) {
		if hash == 0 {
			m.logger.Error("Receive empty unconfirmed authorization")
			return struct{}{}, nil
		}
		now := m.Now()
		if int64(date) > now.Unix() {
			m.logger.Info("Receive unconfirmed authorization from the future",
				zap.Int64("hash", hash), zap.Int32("date", date))
			date = int32(now.Unix())
		}
		a := UnconfirmedAuthorization{Hash: hash, Date: date, Device: device, Location: location}
		if !a.expiresAt(m.period).After(now) {
			m.logger.Info("Ignore expired unconfirmed authorization", zap.Int64("hash", hash))
			return struct{}{}, nil
		}

		before := m.unconfirmed.first()
		if !m.unconfirmed.add(a) {
			m.logger.Info("Ignore duplicate unconfirmed authorization", zap.Int64("hash", hash))
			return struct{}{}, nil
		}
		m.save()
		m.changed(before)
		m.schedule()
		return struct{}{}, nil
	}).Await(ctx)
	return err
}

// OnConfirmAuthorization forgets the login hash. It reports whether the
// login was known.
func (m *Manager) OnConfirmAuthorization(ctx context.Context, hash int64) (bool, error) {
	return actor.Go(m.lane, func() (bool, error) {
		return m.confirm(hash), nil
	}).Await(ctx)
}

// Unconfirmed returns the unconfirmed authorizations, oldest first.
func (m *Manager) Unconfirmed(ctx context.Context) ([]UnconfirmedAuthorization, error) {
	return actor.Go(m.lane, func() ([]UnconfirmedAuthorization, error) {
		m.expire()
		return append([]UnconfirmedAuthorization(nil), m.unconfirmed...), nil
	}).Await(ctx)
}

// ConfirmSession confirms the login hash on the server.
func (m *Manager) ConfirmSession(ctx context.Context, hash int64) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:     "confirm_session",
		Method:   wire.MethodChangeAuthorization,
		Validate: validSession(hash),
		Params: func() (any, error) {
			// The local entry goes whatever the server answers.
			m.confirm(hash)
			return wire.ChangeAuthorizationParams{Hash: hash, Confirmed: true}, nil
		},
	})
}

// TerminateSession logs out the session hash.
func (m *Manager) TerminateSession(ctx context.Context, hash int64) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:     "terminate_session",
		Method:   wire.MethodResetAuthorization,
		Validate: validSession(hash),
		Params: func() (any, error) {
			m.confirm(hash)
			return wire.ResetAuthorizationParams{Hash: hash}, nil
		},
	})
}

// SetAccountTTL sets the inactivity period after which the account is
// deleted.
func (m *Manager) SetAccountTTL(ctx context.Context, days int32) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:   "set_account_ttl",
		Method: wire.MethodSetAccountTTL,
		Validate: func() error {
			if days < MinAccountTTLDays || days > MaxAccountTTLDays {
				return apperr.Validation("Account TTL must be between %d and %d days", MinAccountTTLDays, MaxAccountTTLDays)
			}
			return nil
		},
		Params: func() (any, error) {
			return wire.AccountTTLParams{Days: days}, nil
		},
	})
}

// GetAccountTTL returns the account inactivity period in days.
func (m *Manager) GetAccountTTL(ctx context.Context) (int32, error) {
	return m.sendInt(ctx, "get_account_ttl", wire.MethodGetAccountTTL)
}

// SetDefaultMessageTTL sets the auto-delete time of new chats, in seconds.
// Zero disables it.
func (m *Manager) SetDefaultMessageTTL(ctx context.Context, seconds int32) error {
	return m.sendBool(ctx, query.Query[wire.Bool]{
		Name:   "set_default_message_ttl",
		Method: wire.MethodSetDefaultHistoryTTL,
		Validate: func() error {
			if seconds < 0 {
				return apperr.Validation("Message auto-delete time can't be negative")
			}
			return nil
		},
		Params: func() (any, error) {
			return wire.HistoryTTLParams{Period: seconds}, nil
		},
	})
}

// GetDefaultMessageTTL returns the auto-delete time of new chats.
func (m *Manager) GetDefaultMessageTTL(ctx context.Context) (int32, error) {
	return m.sendInt(ctx, "get_default_message_ttl", wire.MethodGetDefaultHistoryTTL)
}

// Close stops the expiry timer.
func (m *Manager) Close() {
	_, err := actor.Go(m.lane, func() (struct{}, error) {
		if m.timer != nil {
			m.timer.Stop()
			m.timer = nil
		}
		return struct{}{}, nil
	}).Await(context.Background())
	if err != nil && !errors.Is(err, actor.ErrClosed) {
		m.logger.Warn("Failed to stop expiry timer", zap.Error(err))
	}
}

func (m *Manager) sendBool(ctx context.Context, q query.Query[wire.Bool]) error {
	q.Parse = query.Decode[wire.Bool]()
	p := actor.NewPromise[struct{}](m.lane)
	query.Send(ctx, m.handler, q, func(res wire.Bool) (struct{}, error) {
		if !res.Value {
			m.logger.Warn("Server declined request", zap.String("query", q.Name))
		}
		return struct{}{}, nil
	}, p)
	_, err := p.Await(ctx)
	return err
}

func (m *Manager) sendInt(ctx context.Context, name, method string) (int32, error) {
	p := actor.NewPromise[int32](m.lane)
	query.Send(ctx, m.handler, query.Query[wire.Int]{
		Name:   name,
		Method: method,
		Parse:  query.Decode[wire.Int](),
	}, func(res wire.Int) (int32, error) {
		return res.Value, nil
	}, p)
	return p.Await(ctx)
}

func validSession(hash int64) func() error {
	return func() error {
		if hash == 0 {
			return apperr.Validation("Invalid session identifier")
		}
		return nil
	}
}

// confirm runs on the lane.
func (m *Manager) confirm(hash int64) bool {
	before := m.unconfirmed.first()
	if !m.unconfirmed.remove(hash) {
		return false
	}
	m.save()
	m.changed(before)
	m.schedule()
	return true
}

// confirmAll forgets every login. It runs on the lane.
func (m *Manager) confirmAll() {
	if len(m.unconfirmed) == 0 {
		return
	}
	before := m.unconfirmed.first()
	m.unconfirmed = nil
	m.save()
	m.changed(before)
	m.schedule()
}

// expire runs on the lane.
func (m *Manager) expire() {
	before := m.unconfirmed.first()
	if m.unconfirmed.expire(m.Now(), m.period) == 0 {
		return
	}
	m.save()
	m.changed(before)
	m.schedule()
}

func (m *Manager) save() {
	if len(m.unconfirmed) == 0 {
		m.persister.Erase(StorageKey)
		return
	}
	blob, err := m.unconfirmed.marshal()
	if err != nil {
		m.logger.Error("Failed to encode unconfirmed authorizations", zap.Error(err))
		return
	}
	m.persister.Save(StorageKey, blob)
}

// changed notifies the listeners when the oldest entry is no longer before.
func (m *Manager) changed(before *UnconfirmedAuthorization) {
	after := m.unconfirmed.first()
	if before == nil && after == nil {
		return
	}
	if before != nil && after != nil && *before == *after {
		return
	}
	m.mu.RLock()
	listeners := m.listeners
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(after)
	}
}

// schedule arms the timer for the oldest entry.
func (m *Manager) schedule() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	first := m.unconfirmed.first()
	if first == nil {
		return
	}
	delay := first.expiresAt(m.period).Sub(m.Now())
	m.timer = time.AfterFunc(max(delay, 0), func() {
		m.lane.Post(m.expire)
	})
}
