// Package crawl builds the catalog from the remote classification source.
// It walks every chapter and component page, fetching with retry, parsing,
// and aggregating entries into a single sorted catalog.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/ciap"
	"github.com/google/uuid"
)

// DefaultBaseURL is the classification source browsed by the Builder.
const DefaultBaseURL = "https://icpc2.danielpinto.net"

// DefaultPagePause is the pause between two successive page requests.
const DefaultPagePause = 80 * time.Millisecond

// MinPlausibleEntries is the catalog size below which a build is suspicious.
// Smaller builds still succeed but are logged as warnings.
const MinPlausibleEntries = 100

// Builder fetches every chapter/component page of the source and aggregates
// the entries found. Pages are fetched one after another, and Pause elapses
// between the end of one page (retries included) and the next request.
// A zero Pause fetches pages back to back.
type Builder struct {
	Fetcher     ciap.Fetcher
	Parser      ciap.EntryParser
	Logger      *slog.Logger
	Pause       time.Duration
	BaseURL     string
	Chapters    []string
	Components  []int
	RetryDelays []time.Duration
}

// Result holds the outcome of a build.
type Result struct {
	RunID   string
	Entries []ciap.Entry
	Pages   int
	Failed  int
}

// PageEvent reports the outcome of one chapter/component page.
type PageEvent struct {
	Chapter   string
	Component int
	URL       string
	Count     int
	Err       error
	Completed int
	Total     int
}

// PageFunc is a callback for reporting build progress.
type PageFunc func(event PageEvent)

// PageURL returns the source URL of a chapter/component page.
func PageURL(base, chapter string, component int) string {
	return fmt.Sprintf("%s/%s/%d/", strings.TrimRight(base, "/"), chapter, component)
}

// Build fetches all pages and returns the aggregated, sorted entries.
// A page that still fails after its retries is reported through progress
// and skipped. Build only returns an error for an invalid base URL or when
// ctx is canceled.
func (b *Builder) Build(ctx context.Context, progress PageFunc) (*Result, error) {
	base := b.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, ciap.Errorf(ciap.EINVALID, "invalid source URL %q", base)
	}

	chapters := b.Chapters
	if chapters == nil {
		chapters = ciap.Chapters
	}
	components := b.Components
	if components == nil {
		components = ciap.Components
	}
	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	result := &Result{RunID: uuid.New().String()}
	logger = logger.With("run", result.RunID)
	logger.Info("build started", "source", base, "pages", len(chapters)*len(components))

	total := len(chapters) * len(components)
	agg := NewAggregator()
	fetchFn := func(ctx context.Context, url string) (string, error) {
		return b.Fetcher.Fetch(ctx, url)
	}
	retryLog := func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	}

	for _, ch := range chapters {
		for _, comp := range components {
			if result.Pages > 0 {
				if err := wait(ctx, b.Pause); err != nil {
					return nil, err
				}
			} else if err := ctx.Err(); err != nil {
				return nil, err
			}

			pageURL := PageURL(base, ch, comp)
			result.Pages++
			event := PageEvent{
				Chapter:   ch,
				Component: comp,
				URL:       pageURL,
				Completed: result.Pages,
				Total:     total,
			}

			entries, err := b.fetchPage(ctx, pageURL, ch, fetchFn, retryLog, delays)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				result.Failed++
				event.Err = err
				logger.Warn("page skipped", "chapter", ch, "component", comp, "url", pageURL, "err", err)
				if progress != nil {
					progress(event)
				}
				continue
			}

			for _, prev := range agg.Add(entries...) {
				logger.Debug("entry overwritten",
					"code", prev.Code,
					"previous", prev.Title,
					"chapter", ch,
					"component", comp,
				)
			}

			event.Count = len(entries)
			if progress != nil {
				progress(event)
			}
		}
	}

	result.Entries = agg.Entries()
	if len(result.Entries) < MinPlausibleEntries {
		logger.Warn("catalog looks incomplete, check the network or the source",
			"entries", len(result.Entries),
			"expected_at_least", MinPlausibleEntries,
		)
	}
	logger.Info("build finished",
		"entries", len(result.Entries),
		"pages", result.Pages,
		"failed", result.Failed,
	)

	return result, nil
}

// fetchPage fetches one page with retry and parses its entries.
func (b *Builder) fetchPage(ctx context.Context, pageURL, chapter string, fetch FetchFunc, logf LogFunc, delays []time.Duration) ([]ciap.Entry, error) {
	html, err := FetchWithRetryDelays(ctx, pageURL, fetch, logf, delays)
	if err != nil {
		return nil, err
	}
	return b.Parser.ParseEntries(html, chapter)
}
