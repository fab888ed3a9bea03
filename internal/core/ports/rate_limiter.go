package ports

import (
	"context"
	"time"
)

// RateLimiter is a fixed-window counter store. Keys are scoped strings
// (e.g. "ratelimit:login:<ip>"); the window starts when a key is first
// recorded and resets when it expires.
type RateLimiter interface {
	// Peek returns the current count for key and the time remaining until
	// the window resets. A key that has never been recorded yields (0, 0).
	Peek(ctx context.Context, key string) (count int64, resetIn time.Duration, err error)
	// Record increments the counter, starting the window on first use, and
	// returns the new count.
	Record(ctx context.Context, key string, window time.Duration) (int64, error)
}
