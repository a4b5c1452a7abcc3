package mock

import (
	"context"

	"github.com/fwojciec/ciap"
)

var (
	_ ciap.Fetcher     = (*Fetcher)(nil)
	_ ciap.EntryParser = (*EntryParser)(nil)
)

// Fetcher is a mock implementation of ciap.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// EntryParser is a mock implementation of ciap.EntryParser.
type EntryParser struct {
	ParseEntriesFn func(html string, chapter string) ([]ciap.Entry, error)
}

func (p *EntryParser) ParseEntries(html string, chapter string) ([]ciap.Entry, error) {
	return p.ParseEntriesFn(html, chapter)
}
