package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fatalError struct{ msg string }

func (e *fatalError) Error() string { return e.msg }

func TestPoolProcessesAllItemsThenDrains(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 10; i++ {
		q.Add(i, NORMAL)
	}
	q.Close()

	var processed int32
	pool := &Pool{
		Queue:   q,
		Workers: 4,
		Process: func(ctx context.Context, item *Item) error {
			atomic.AddInt32(&processed, 1)
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- pool.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not drain in time")
	}

	if got := atomic.LoadInt32(&processed); got != 10 {
		t.Fatalf("processed = %d, want 10", got)
	}
	if stats := q.Stats(); stats.Processed != 10 {
		t.Fatalf("Stats().Processed = %d, want 10", stats.Processed)
	}
}

func TestPoolRetriesTransientFailuresThenSucceeds(t *testing.T) {
	q := NewQueue(3)
	q.Add("flaky", NORMAL)
	q.Close()

	var attempts int32
	pool := &Pool{
		Queue:   q,
		Workers: 1,
		Process: func(ctx context.Context, item *Item) error {
			if atomic.AddInt32(&attempts, 1) < 2 {
				return errors.New("transient")
			}
			return nil
		},
	}

	if err := pool.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if atomic.LoadInt32(&attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if stats := q.Stats(); stats.Processed != 1 || stats.FailedN != 0 {
		t.Fatalf("stats = %+v, want 1 processed, 0 failed", stats)
	}
}

func TestPoolDropsItemAfterExhaustingRetries(t *testing.T) {
	q := NewQueue(2)
	q.Add("always fails", NORMAL)
	q.Close()

	pool := &Pool{
		Queue:   q,
		Workers: 1,
		Process: func(ctx context.Context, item *Item) error {
			return errors.New("permanent failure")
		},
	}

	if err := pool.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	stats := q.Stats()
	if stats.FailedN != 1 || stats.Processed != 0 {
		t.Fatalf("stats = %+v, want 1 failed, 0 processed", stats)
	}
}

func TestPoolFatalErrorCancelsAllWorkers(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 5; i++ {
		q.Add(i, NORMAL)
	}

	pool := &Pool{
		Queue:   q,
		Workers: 3,
		Process: func(ctx context.Context, item *Item) error {
			if item.Payload == 2 {
				return &fatalError{msg: "quota exhausted"}
			}
			<-ctx.Done()
			return ctx.Err()
		},
		IsFatal: func(err error) bool {
			var fe *fatalError
			return errors.As(err, &fe)
		},
	}

	done := make(chan error, 1)
	go func() { done <- pool.Run(context.Background()) }()

	select {
	case err := <-done:
		var fe *fatalError
		if !errors.As(err, &fe) {
			t.Fatalf("Run err = %v, want a fatalError", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after a fatal error")
	}
}
