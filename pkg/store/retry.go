package store

import (
	"context"
	"log/slog"
	"time"
)

// Retry configures LoadWithRetry.
type Retry struct {
	Attempts int
	Pause    time.Duration
}

// DefaultRetry waits up to about five seconds for a record to appear.
var DefaultRetry = Retry{Attempts: 50, Pause: 100 * time.Millisecond}

// LoadWithRetry calls load until it returns something other than a
// not-found error, or until attempts are exhausted. A worker uses it to
// read a job that another process has just written.
func LoadWithRetry[T any](
	ctx context.Context,
	r Retry,
	load func(context.Context) (T, error),
) (T, error) {
	var res T
	var err error
	attempts := max(r.Attempts, 1)
	for i := range attempts {
		res, err = load(ctx)
		if err == nil || !IsNotFound(err) {
			return res, err
		}
		slog.Debug("Record is not visible yet", "attempt", i+1)
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(r.Pause):
		}
	}
	return res, err
}
