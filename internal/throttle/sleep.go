package throttle

import (
	"context"
	"time"
)

// SleepWithContext blocks for d, returning early with ctx.Err() if ctx is
// cancelled first.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
