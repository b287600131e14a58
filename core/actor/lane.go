package actor

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned when work is offered to, or awaited on, a closed lane.
var ErrClosed = errors.New("owner is closed")

// Lane runs posted tasks sequentially on a dedicated goroutine.
type Lane struct {
	name   string
	logger *zap.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// NewLane starts a lane. The logger may be nil.
func NewLane(name string, logger *zap.Logger) *Lane {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Lane{
		name:    name,
		logger:  logger.With(zap.String("lane", name)),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

// Name returns the lane name.
func (l *Lane) Name() string {
	return l.name
}

// Post queues task for execution. It never blocks and returns false if the
// lane is closed, in which case the task will never run.
func (l *Lane) Post(task func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Alive reports whether the lane still accepts and runs tasks.
func (l *Lane) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed
}

// Done is closed when the lane is closed.
func (l *Lane) Done() <-chan struct{} {
	return l.done
}

// Close stops the lane. Queued tasks that have not started are dropped; a
// task that is already running finishes. Close does not wait, so it is safe
// to call from a task on the lane itself. Use Wait to block until the lane
// goroutine has exited.
func (l *Lane) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	dropped := len(l.queue)
	l.queue = nil
	l.mu.Unlock()

	close(l.done)
	if dropped > 0 {
		l.logger.Debug("Dropped queued tasks on close", zap.Int("count", dropped))
	}
}

// Wait blocks until the lane goroutine has exited after Close.
func (l *Lane) Wait() {
	<-l.stopped
}

func (l *Lane) run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.done:
			return
		case <-l.wake:
		}
		for {
			task, ok := l.next()
			if !ok {
				break
			}
			task()
		}
	}
}

func (l *Lane) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || len(l.queue) == 0 {
		return nil, false
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, true
}
