package updates

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Update kinds produced by the managers.
const (
	KindUsers         = "users"
	KindChats         = "chats"
	KindMessage       = "message"
	KindAuthorization = "authorization"
)

// Update is one embedded state change.
type Update struct {
	Kind    string
	Payload any
}

// Batch is an ordered list of updates.
type Batch []Update

// Dispatcher applies embedded updates.
type Dispatcher interface {
	// Apply applies every update of the batch, in order. It may block and is
	// never called on an owner lane.
	Apply(ctx context.Context, batch Batch) error
}

// HandlerFunc applies a single update.
type HandlerFunc func(ctx context.Context, u Update) error

// Router dispatches updates to handlers registered by kind.
type Router struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
}

// NewRouter creates an empty router.
func NewRouter(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		logger:   logger.Named("updates"),
		handlers: make(map[string][]HandlerFunc),
	}
}

// Handle registers fn for kind. Several handlers for one kind run in
// registration order.
func (r *Router) Handle(kind string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = append(r.handlers[kind], fn)
}

// Apply implements Dispatcher.
func (r *Router) Apply(ctx context.Context, batch Batch) error {
	for i, u := range batch {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.mu.RLock()
		handlers := r.handlers[u.Kind]
		r.mu.RUnlock()

		if len(handlers) == 0 {
			r.logger.Debug("Skipping update without handler", zap.String("kind", u.Kind))
			continue
		}
		for _, fn := range handlers {
			if err := fn(ctx, u); err != nil {
				return fmt.Errorf("failed to apply update %d (%s): %w", i, u.Kind, err)
			}
		}
	}
	return nil
}
