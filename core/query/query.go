package query

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"messenger-core/core/actor"
	"messenger-core/core/apperr"
	"messenger-core/core/remote"
	"messenger-core/core/updates"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "messenger-core/query"

// State is the lifecycle position of an invocation.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateDispatched
	StateApplying
	StateFailed
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateDispatched:
		return "dispatched"
	case StateApplying:
		return "applying"
	case StateFailed:
		return "failed"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Query describes one remote operation returning R.
type Query[R any] struct {
	// Name identifies the query in logs and spans.
	Name   string
	Method string
	// Params is evaluated after validation, on the owner lane. It may be nil
	// for methods without parameters.
	Params func() (any, error)
	// Validate runs on the owner lane before anything is sent.
	Validate func() error
	// Parse turns the response into a result and the updates it carries.
	// It runs off the lane and must not touch manager state.
	Parse func(resp *remote.Response) (R, updates.Batch, error)
	// OnError runs on the owner lane when the remote call fails.
	OnError func(err error)
}

// Invocation tracks a single Send.
type Invocation struct {
	Name  string
	Token string

	mu      sync.Mutex
	state   State
	history []State
}

func newInvocation(name string) *Invocation {
	return &Invocation{
		Name:    name,
		Token:   uuid.NewString(),
		state:   StateIdle,
		history: []State{StateIdle},
	}
}

// State returns the current state.
func (i *Invocation) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// History returns every state the invocation went through, in order.
func (i *Invocation) History() []State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]State(nil), i.history...)
}

func (i *Invocation) set(s State) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.state = s
	i.history = append(i.history, s)
}

// Handler dispatches queries for the managers sharing one owner lane.
type Handler struct {
	lane       *actor.Lane
	client     remote.Client
	dispatcher updates.Dispatcher
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewHandler creates a handler. The logger may be nil.
func NewHandler(lane *actor.Lane, client remote.Client, dispatcher updates.Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		lane:       lane,
		client:     client,
		dispatcher: dispatcher,
		logger:     logger.Named("query"),
		tracer:     otel.Tracer(tracerName),
	}
}

// Lane returns the owner lane.
func (h *Handler) Lane() *actor.Lane {
	return h.lane
}

// Send runs q and settles p with commit's result. commit runs on the owner
// lane after the embedded updates have been applied.
//
// If the lane is closed before Send, p is rejected with actor.ErrClosed. If it
// closes later, p is never settled.
func Send[R, T any](ctx context.Context, h *Handler, q Query[R], commit func(R) (T, error), p *actor.Promise[T]) *Invocation {
	inv := newInvocation(q.Name)
	posted := h.lane.Post(func() {
		start(ctx, h, q, commit, p, inv)
	})
	if !posted {
		p.Reject(actor.ErrClosed)
	}
	return inv
}

func start[R, T any](ctx context.Context, h *Handler, q Query[R], commit func(R) (T, error), p *actor.Promise[T], inv *Invocation) {
	inv.set(StateValidating)
	if q.Validate != nil {
		if err := q.Validate(); err != nil {
			fail(inv, p, err)
			return
		}
	}

	var params any
	if q.Params != nil {
		var err error
		if params, err = q.Params(); err != nil {
			fail(inv, p, err)
			return
		}
	}

	spanCtx, span := h.tracer.Start(ctx, "query."+q.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("query.method", q.Method),
			attribute.String("query.token", inv.Token),
		))

	inv.set(StateDispatched)
	req := remote.Request{Token: inv.Token, Method: q.Method, Params: params}
	go complete(spanCtx, span, h, q, commit, p, inv, req)
}

func complete[R, T any](ctx context.Context, span trace.Span, h *Handler, q Query[R], commit func(R) (T, error), p *actor.Promise[T], inv *Invocation, req remote.Request) {
	log := h.logger.With(
		zap.String("query", q.Name),
		zap.String("method", q.Method),
		zap.String("token", inv.Token),
	)

	resp, err := h.client.Send(ctx, req)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			err = apperr.Transport(err)
		}
		endSpan(span, err)
		h.reenter(log, func() {
			if q.OnError != nil {
				q.OnError(err)
			}
			fail(inv, p, err)
		})
		return
	}

	result, batch, err := parse(q, resp, inv.Token)
	if err != nil {
		log.Error("Protocol violation",
			zap.Error(err),
			zap.String("response_token", resp.Token),
			zap.Binary("result", resp.Result))
		perr := apperr.Protocol(err.Error())
		endSpan(span, perr)
		h.reenter(log, func() {
			fail(inv, p, perr)
		})
		return
	}

	if !h.lane.Alive() {
		endSpan(span, actor.ErrClosed)
		log.Debug("Dropping completion of closed owner")
		return
	}

	inv.set(StateApplying)
	if len(batch) > 0 {
		span.AddEvent("apply_updates", trace.WithAttributes(attribute.Int("updates", len(batch))))
		if err := h.dispatcher.Apply(ctx, batch); err != nil {
			log.Warn("Failed to apply embedded updates", zap.Error(err))
			endSpan(span, err)
			h.reenter(log, func() {
				fail(inv, p, err)
			})
			return
		}
	}

	endSpan(span, nil)
	h.reenter(log, func() {
		v, err := commit(result)
		if err != nil {
			fail(inv, p, err)
			return
		}
		p.Resolve(v)
		inv.set(StateResolved)
	})
}

func parse[R any](q Query[R], resp *remote.Response, token string) (R, updates.Batch, error) {
	var zero R
	if resp == nil {
		return zero, nil, errors.New("nil response")
	}
	if resp.Token != token {
		return zero, nil, fmt.Errorf("response token %q does not match request", resp.Token)
	}
	if q.Parse == nil {
		return zero, nil, nil
	}
	return q.Parse(resp)
}

func (h *Handler) reenter(log *zap.Logger, task func()) {
	if !h.lane.Post(task) {
		log.Debug("Dropping completion of closed owner")
	}
}

func fail[T any](inv *Invocation, p *actor.Promise[T], err error) {
	inv.set(StateFailed)
	p.Reject(err)
	inv.set(StateResolved)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Decode returns a Parse function that decodes the whole result into R and
// carries no updates.
func Decode[R any]() func(resp *remote.Response) (R, updates.Batch, error) {
	return func(resp *remote.Response) (R, updates.Batch, error) {
		var r R
		if err := resp.Decode(&r); err != nil {
			return r, nil, err
		}
		return r, nil, nil
	}
}
