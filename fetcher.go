package ciap

import "context"

// Fetcher retrieves raw page markup from URLs.
type Fetcher interface {
	// Fetch issues a GET for url and returns the response body.
	// Non-2xx responses, network errors and timeouts are errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// EntryParser extracts catalog entries from a fetched source page.
type EntryParser interface {
	// ParseEntries returns the entries listed on a page of the given chapter.
	// Anchors that do not look like "<Code> - <Title>" are ignored.
	ParseEntries(html string, chapter string) ([]Entry, error)
}
