package scheduler

import (
	"container/heap"
	"context"
	"sync"
)

// Queue is a single shared priority work queue: Add from any goroutine,
// Get blocks until an item is available, the queue is closed and
// drained, or ctx is cancelled. Retry escalates a failed item to HIGH
// priority up to maxRetries, after which it is recorded as Failed.
type Queue struct {
	mu         sync.Mutex
	cond       *sync.Cond
	heap       itemHeap
	maxRetries int
	seq        int64
	processed  int
	failed     []Failed
	closed     bool
}

// NewQueue constructs an empty Queue. maxRetries <= 0 means no retries:
// a failed item is recorded as Failed on its first failure.
func NewQueue(maxRetries int) *Queue {
	q := &Queue{maxRetries: maxRetries}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Add enqueues payload at the given priority.
func (q *Queue) Add(payload any, priority Priority) *Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	item := &Item{Payload: payload, Priority: priority, seq: q.seq}
	heap.Push(&q.heap, item)
	q.cond.Broadcast()
	return item
}

// Get blocks until an item is available, the queue is closed and
// drained (returns nil, nil), or ctx is cancelled (returns nil, ctx.Err()).
func (q *Queue) Get(ctx context.Context) (*Item, error) {
	stopWaiting := make(chan struct{})
	defer close(stopWaiting)
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		case <-stopWaiting:
		}
	}()

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.heap) == 0 && !q.closed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(q.heap) == 0 {
		return nil, nil
	}
	return heap.Pop(&q.heap).(*Item), nil
}

// RetryFailed records a failed attempt at item. Below maxRetries it is
// requeued at HIGH priority; at or beyond maxRetries it moves to Failed.
func (q *Queue) RetryFailed(item *Item, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item.RetryCount++
	if item.RetryCount < q.maxRetries {
		item.Priority = HIGH
		q.seq++
		item.seq = q.seq
		heap.Push(&q.heap, item)
		q.cond.Broadcast()
		return
	}
	q.failed = append(q.failed, Failed{Item: item, Error: err})
}

// MarkProcessed records one successful completion for Stats.
func (q *Queue) MarkProcessed() {
	q.mu.Lock()
	q.processed++
	q.mu.Unlock()
}

// Close marks the queue as complete: Get returns (nil, nil) once
// drained instead of blocking for more work that will never arrive.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Stats summarizes queue state for the run summary.
type Stats struct {
	Pending    int
	Processed  int
	FailedN    int
	MaxRetries int
	Closed     bool
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Pending:    len(q.heap),
		Processed:  q.processed,
		FailedN:    len(q.failed),
		MaxRetries: q.maxRetries,
		Closed:     q.closed,
	}
}

// Failed returns a copy of the items that exhausted their retries.
func (q *Queue) Failed() []Failed {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Failed, len(q.failed))
	copy(out, q.failed)
	return out
}
