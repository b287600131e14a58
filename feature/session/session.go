package session

import (
	"context"
	"fmt"
	"io"

	"messenger-core/core/actor"
	"messenger-core/core/directory"
	"messenger-core/core/identity"
	"messenger-core/core/loader"
	"messenger-core/core/query"
	"messenger-core/core/remote"
	"messenger-core/core/updates"
	"messenger-core/core/wire"
	"messenger-core/feature/account"
	"messenger-core/feature/forumtopic"
	"messenger-core/feature/privacy"
	"messenger-core/feature/voicenote"

	"go.uber.org/zap"
)

// MethodUpdates is the method of pushed update frames.
const MethodUpdates = "updates"

// Session wires the managers of one user together.
type Session struct {
	Lane       *actor.Lane
	Directory  *directory.Directory
	Identities *identity.Registry[string]
	Router     *updates.Router
	Handler    *query.Handler

	VoiceNotes *voicenote.Manager
	Privacy    *privacy.Manager
	Topics     *forumtopic.Manager
	Account    *account.Manager

	client remote.Client
	logger *zap.Logger
}

// New builds a session on top of client. Authorization state is persisted
// through persister.
func New(cfg Config, client remote.Client, persister account.Persister, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.Int64("my_user_id", cfg.MyUserID))

	lane := actor.NewLane("session", logger)
	dir := directory.New(cfg.MyUserID, logger)
	registry := identity.NewRegistry[string]()
	router := updates.NewRouter(logger)
	h := query.NewHandler(lane, client, router, logger)

	s := &Session{
		Lane:       lane,
		Directory:  dir,
		Identities: registry,
		Router:     router,
		Handler:    h,
		VoiceNotes: voicenote.NewManager(h, registry, logger),
		Privacy:    privacy.NewManager(h, dir, logger),
		Topics:     forumtopic.NewManager(h, dir, dir, cfg.MaxTopicTitleLength, logger),
		Account:    account.NewManager(h, persister, cfg.AutoconfirmPeriod(), logger),
		client:     client,
		logger:     logger.Named("session"),
	}

	dir.RegisterUpdates(router)
	s.VoiceNotes.RegisterUpdates(router)
	s.Topics.RegisterUpdates(router)
	s.Account.RegisterUpdates(router)
	return s
}

// Start restores persisted state.
func (s *Session) Start(ctx context.Context) error {
	if err := s.Account.Load(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	s.logger.Info("Session started")
	return nil
}

// Features returns the HTTP features of the session's managers.
func (s *Session) Features(logger *zap.Logger) []loader.Feature {
	return []loader.Feature{
		voicenote.NewFeature(s.VoiceNotes, logger),
		privacy.NewFeature(s.Privacy, logger),
		forumtopic.NewFeature(s.Topics, logger),
		account.NewFeature(s.Account, logger),
	}
}

// HandlePush applies an updates frame pushed by the server. Other frames
// are ignored.
func (s *Session) HandlePush(ctx context.Context, p remote.Push) error {
	if p.Method != MethodUpdates {
		s.logger.Debug("Ignoring pushed frame", zap.String("method", p.Method))
		return nil
	}
	var res wire.Updates
	if err := p.Decode(&res); err != nil {
		s.logger.Error("Protocol violation", zap.String("method", p.Method), zap.Error(err), zap.Binary("payload", p.Payload))
		return fmt.Errorf("failed to decode pushed updates: %w", err)
	}
	return s.Router.Apply(ctx, updates.FromWire(res))
}

// Close tears the session down. Pending calls are never settled; their
// waiters see actor.ErrClosed. A client implementing io.Closer is closed
// too.
func (s *Session) Close() error {
	s.Account.Close()
	s.Lane.Close()
	s.Lane.Wait()
	if c, ok := s.client.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	s.logger.Info("Session closed")
	return nil
}
