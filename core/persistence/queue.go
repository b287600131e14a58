package persistence

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const writeTimeout = 30 * time.Second

type op struct {
	blob  []byte
	erase bool
}

// Queue writes to a Store from a background goroutine. Writes to the same
// key are coalesced; the latest one wins.
type Queue struct {
	store  Store
	logger *zap.Logger

	mu       sync.Mutex
	pending  map[string]op
	order    []string
	inflight map[string]op
	flushes  []chan struct{}
	closed   bool

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// NewQueue starts a queue in front of store.
func NewQueue(store Store, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Queue{
		store:    store,
		logger:   logger.Named("persistence"),
		pending:  make(map[string]op),
		inflight: make(map[string]op),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go q.run()
	return q
}

// Save schedules blob to be written under key. It never blocks.
func (q *Queue) Save(key string, blob []byte) {
	q.enqueue(key, op{blob: append([]byte(nil), blob...)})
}

// Erase schedules key to be removed. It never blocks.
func (q *Queue) Erase(key string) {
	q.enqueue(key, op{erase: true})
}

func (q *Queue) enqueue(key string, o op) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("Dropping write to closed queue", zap.String("key", key))
		return
	}
	if _, ok := q.pending[key]; !ok {
		q.order = append(q.order, key)
	}
	q.pending[key] = o
	q.mu.Unlock()
	q.signal()
}

// Load reads key, seeing writes that are still queued.
func (q *Queue) Load(ctx context.Context, key string) ([]byte, bool, error) {
	q.mu.Lock()
	o, ok := q.pending[key]
	if !ok {
		o, ok = q.inflight[key]
	}
	q.mu.Unlock()
	if ok {
		if o.erase {
			return nil, false, nil
		}
		return append([]byte(nil), o.blob...), true, nil
	}
	return q.store.Load(ctx, key)
}

// Flush waits until every write queued before the call has been attempted.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	if len(q.order) == 0 && len(q.inflight) == 0 {
		q.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	q.flushes = append(q.flushes, ch)
	q.mu.Unlock()
	q.signal()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes what is still queued and stops the queue.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.stopped
		return
	}
	q.closed = true
	q.mu.Unlock()

	close(q.done)
	<-q.stopped
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run() {
	defer close(q.stopped)
	for {
		select {
		case <-q.wake:
			q.drain()
		case <-q.done:
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.order) == 0 {
			waiters := q.flushes
			q.flushes = nil
			q.mu.Unlock()
			for _, ch := range waiters {
				close(ch)
			}
			return
		}
		key := q.order[0]
		q.order = q.order[1:]
		o := q.pending[key]
		delete(q.pending, key)
		q.inflight[key] = o
		q.mu.Unlock()

		q.write(key, o)

		q.mu.Lock()
		delete(q.inflight, key)
		q.mu.Unlock()
	}
}

func (q *Queue) write(key string, o op) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var err error
	if o.erase {
		err = q.store.Erase(ctx, key)
	} else {
		err = q.store.Save(ctx, key, o.blob)
	}
	if err != nil {
		q.logger.Error("Failed to persist", zap.String("key", key), zap.Bool("erase", o.erase), zap.Error(err))
	}
}
