package scheduler

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ProcessFunc handles one item. A nil error marks it processed; a
// non-nil error is classified by IsFatal to decide whether it escalates
// to a group-wide cancellation or is handed back to the queue's own
// retry-then-fail bookkeeping.
type ProcessFunc func(ctx context.Context, item *Item) error

// Pool runs Workers goroutines pulling from Queue until it drains, ctx
// is cancelled, or a fatal error is returned by Process. It mirrors the
// teacher's lane worker loop (poll, process, continue) fanned out across
// a bounded goroutine count instead of one goroutine per fixed lane,
// cancellation propagated with errgroup instead of a hand-rolled
// WaitGroup plus first-error variable.
type Pool struct {
	Queue   *Queue
	Workers int
	Process ProcessFunc
	IsFatal func(error) bool
	Log     *slog.Logger
}

// Run blocks until every worker exits: the queue closed and drained,
// ctx was cancelled, or a fatal error was returned. The first fatal
// error (if any) is returned; a clean drain or cancellation returns the
// context's error or nil.
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		g.Go(func() error { return p.worker(gctx) })
	}
	return g.Wait()
}

func (p *Pool) worker(ctx context.Context) error {
	for {
		item, err := p.Queue.Get(ctx)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}

		if procErr := p.Process(ctx, item); procErr != nil {
			if p.IsFatal != nil && p.IsFatal(procErr) {
				return procErr
			}
			if p.Log != nil {
				p.Log.Warn("work item failed, will retry or drop",
					slog.Int("retry_count", item.RetryCount),
					slog.Any("error", procErr),
				)
			}
			p.Queue.RetryFailed(item, procErr)
			continue
		}
		p.Queue.MarkProcessed()
	}
}
