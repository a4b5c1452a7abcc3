package mock

import (
	"context"

	"github.com/fwojciec/ciap"
)

// Compile-time interface verification.
var (
	_ ciap.CatalogService = (*CatalogService)(nil)
	_ ciap.ArtifactStore  = (*ArtifactStore)(nil)
	_ ciap.EntryService   = (*EntryService)(nil)
)

// CatalogService is a mock implementation of ciap.CatalogService.
type CatalogService struct {
	LookupFn func(code string) (ciap.Entry, bool)
	SearchFn func(query string, limit int) []ciap.Entry
	LenFn    func() int
}

func (s *CatalogService) Lookup(code string) (ciap.Entry, bool) {
	return s.LookupFn(code)
}

func (s *CatalogService) Search(query string, limit int) []ciap.Entry {
	return s.SearchFn(query, limit)
}

func (s *CatalogService) Len() int {
	return s.LenFn()
}

// ArtifactStore is a mock implementation of ciap.ArtifactStore.
type ArtifactStore struct {
	WriteEntriesFn func(ctx context.Context, entries []ciap.Entry) (*ciap.ArtifactInfo, error)
	ReadEntriesFn  func(ctx context.Context) ([]ciap.Entry, *ciap.ArtifactInfo, error)
}

func (s *ArtifactStore) WriteEntries(ctx context.Context, entries []ciap.Entry) (*ciap.ArtifactInfo, error) {
	return s.WriteEntriesFn(ctx, entries)
}

func (s *ArtifactStore) ReadEntries(ctx context.Context) ([]ciap.Entry, *ciap.ArtifactInfo, error) {
	return s.ReadEntriesFn(ctx)
}

// EntryService is a mock implementation of ciap.EntryService.
type EntryService struct {
	ImportEntriesFn   func(ctx context.Context, entries []ciap.Entry, fingerprint string) (*ciap.Import, error)
	FindEntryByCodeFn func(ctx context.Context, code string) (*ciap.Entry, error)
	FindEntriesFn     func(ctx context.Context, filter ciap.EntryFilter) ([]*ciap.Entry, error)
	LatestImportFn    func(ctx context.Context) (*ciap.Import, error)
}

func (s *EntryService) ImportEntries(ctx context.Context, entries []ciap.Entry, fingerprint string) (*ciap.Import, error) {
	return s.ImportEntriesFn(ctx, entries, fingerprint)
}

func (s *EntryService) FindEntryByCode(ctx context.Context, code string) (*ciap.Entry, error) {
	return s.FindEntryByCodeFn(ctx, code)
}

func (s *EntryService) FindEntries(ctx context.Context, filter ciap.EntryFilter) ([]*ciap.Entry, error) {
	return s.FindEntriesFn(ctx, filter)
}

func (s *EntryService) LatestImport(ctx context.Context) (*ciap.Import, error) {
	return s.LatestImportFn(ctx)
}
