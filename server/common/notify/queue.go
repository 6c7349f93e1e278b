package notify

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("notify: queue closed")

// Queue is the process-wide publish point for freshly stored media
// URLs. Publish never blocks; Next blocks until an item arrives. With
// several concurrent waiters each item is handed to exactly one of
// them, so the queue is a work feed, not a broadcast bus.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []string
	closed bool
}

func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *Queue) Publish(url string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, url)
	q.cond.Signal()
}

// Next returns the oldest pending item, blocking until one is
// published, the context is cancelled, or the queue is closed.
func (q *Queue) Next(ctx context.Context) (string, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if q.closed {
			return "", ErrClosed
		}
		q.cond.Wait()
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, nil
}

// Pending reports how many items are queued but not yet delivered.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close wakes every blocked waiter with ErrClosed. Further publishes
// are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
