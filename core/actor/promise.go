package actor

import (
	"context"
	"sync"
)

// Promise is a single-resolution result slot.
type Promise[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
	owner *Lane
}

// NewPromise creates an unsettled promise owned by lane. The owner may be nil
// for promises that do not depend on a lane.
func NewPromise[T any](owner *Lane) *Promise[T] {
	return &Promise[T]{done: make(chan struct{}), owner: owner}
}

// Resolve settles the promise with v. It reports whether this call settled it.
func (p *Promise[T]) Resolve(v T) bool {
	return p.settle(v, nil)
}

// Reject settles the promise with err. It reports whether this call settled it.
func (p *Promise[T]) Reject(err error) bool {
	var zero T
	return p.settle(zero, err)
}

func (p *Promise[T]) settle(v T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value, p.err = v, err
		settled = true
		close(p.done)
	})
	return settled
}

// Done is closed once the promise is settled.
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the promise has been resolved or rejected.
func (p *Promise[T]) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await waits for the result. If the owner lane closes first it returns
// ErrClosed and the promise stays unsettled.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	var ownerDone <-chan struct{}
	if p.owner != nil {
		ownerDone = p.owner.Done()
	}

	var zero T
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-ownerDone:
		select {
		case <-p.done:
			return p.value, p.err
		default:
			return zero, ErrClosed
		}
	}
}

// Go runs fn on lane and settles the returned promise with its result. If the
// lane is already closed the promise is rejected with ErrClosed immediately.
func Go[T any](lane *Lane, fn func() (T, error)) *Promise[T] {
	p := NewPromise[T](lane)
	posted := lane.Post(func() {
		v, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	})
	if !posted {
		p.Reject(ErrClosed)
	}
	return p
}
