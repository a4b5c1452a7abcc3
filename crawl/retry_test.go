package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/ciap/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDelays(t *testing.T) {
	t.Parallel()

	t.Run("doubles from the initial delay", func(t *testing.T) {
		t.Parallel()

		delays := crawl.BackoffDelays(300*time.Millisecond, 2, 5)

		assert.Equal(t, []time.Duration{
			300 * time.Millisecond,
			600 * time.Millisecond,
			1200 * time.Millisecond,
			2400 * time.Millisecond,
		}, delays)
	})

	t.Run("single attempt has no delays", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, crawl.BackoffDelays(time.Second, 2, 1))
		assert.Empty(t, crawl.BackoffDelays(time.Second, 2, 0))
	})

	t.Run("defaults match the builder configuration", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, crawl.BackoffDelays(300*time.Millisecond, 2, 5), crawl.DefaultRetryDelays())
	})
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately on success", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "<html></html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, []time.Duration{time.Hour})

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds on the third attempt after backing off 300ms then 600ms", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "<a>K86 - Hipertensão</a>", nil
		}

		start := time.Now()
		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/K/7/", fetch, nil,
			crawl.BackoffDelays(300*time.Millisecond, 2, 5))
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Equal(t, "<a>K86 - Hipertensão</a>", html)
		assert.Equal(t, 3, calls)
		assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond)
	})

	t.Run("returns last error after exhausting attempts", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", fmt.Errorf("HTTP 503 (call %d)", calls)
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil,
			[]time.Duration{time.Millisecond, time.Millisecond})

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "call 3")
	})

	t.Run("logs every failed attempt", func(t *testing.T) {
		t.Parallel()

		var lines []string
		logger := func(format string, args ...any) {
			lines = append(lines, fmt.Sprintf(format, args...))
		}
		fetch := func(ctx context.Context, url string) (string, error) {
			return "", errors.New("timeout")
		}

		_, _ = crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, logger,
			[]time.Duration{time.Millisecond})

		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "attempt 1/2")
		assert.Contains(t, lines[1], "attempt 2/2")
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		fetch := func(ctx context.Context, url string) (string, error) {
			return "", errors.New("unavailable")
		}

		start := time.Now()
		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
}
