package crawl

import (
	"context"
	"time"
)

// Default retry settings for source fetches.
const (
	DefaultMaxAttempts    = 5
	DefaultInitialBackoff = 300 * time.Millisecond
	DefaultBackoffFactor  = 2
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// BackoffDelays returns the waits between attempts for an exponential
// backoff: initial, initial*factor, initial*factor², ... for attempts-1 retries.
// Fewer than two attempts means no retries and returns an empty slice.
func BackoffDelays(initial time.Duration, factor float64, attempts int) []time.Duration {
	if attempts < 2 {
		return []time.Duration{}
	}
	delays := make([]time.Duration, attempts-1)
	d := initial
	for i := range delays {
		delays[i] = d
		d = time.Duration(float64(d) * factor)
	}
	return delays
}

// DefaultRetryDelays returns the backoff delays for fetch retries:
// 300ms, 600ms, 1.2s, 2.4s (five attempts in total).
func DefaultRetryDelays() []time.Duration {
	return BackoffDelays(DefaultInitialBackoff, DefaultBackoffFactor, DefaultMaxAttempts)
}

// FetchWithRetry attempts to fetch a URL with the default exponential backoff.
// The logger function, if provided, is called for each failed attempt.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable delays.
// It makes len(delays)+1 attempts and returns the last error once they are
// exhausted.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if logger != nil {
			logger("fetch %s failed (attempt %d/%d): %v", url, attempt+1, maxAttempts, err)
		}

		// Don't wait after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if err := wait(ctx, delays[attempt]); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
