package ciap

import (
	"context"
	"time"
)

// DefaultSearchLimit is the number of results Search returns when no
// positive limit is given.
const DefaultSearchLimit = 30

// CatalogService provides read-only access to a trusted catalog.
// Implementations must be safe for concurrent use.
type CatalogService interface {
	// Lookup returns the entry for code after trimming and uppercasing it.
	// Malformed or unknown codes return false.
	Lookup(code string) (Entry, bool)

	// Search returns entries whose code or title contains query,
	// case-insensitively, in catalog order, truncated to limit.
	// An empty query returns no entries.
	Search(query string, limit int) []Entry

	// Len returns the number of entries in the catalog.
	Len() int
}

// ArtifactInfo describes a persisted catalog artifact.
type ArtifactInfo struct {
	Path        string
	Count       int
	Fingerprint string
}

// ArtifactStore persists the catalog artifact.
type ArtifactStore interface {
	// WriteEntries replaces the artifact with entries.
	WriteEntries(ctx context.Context, entries []Entry) (*ArtifactInfo, error)

	// ReadEntries loads the artifact.
	// Returns ENOTFOUND if the artifact does not exist and EINVALID if it
	// cannot be parsed as a list of entries.
	ReadEntries(ctx context.Context) ([]Entry, *ArtifactInfo, error)
}

// Import records one load of an artifact into an EntryService.
type Import struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Count       int       `json:"count"`
	ImportedAt  time.Time `json:"importedAt"`
}

// EntryService represents a queryable store of catalog entries.
type EntryService interface {
	// ImportEntries replaces all entries with the given trusted entries.
	// Importing an artifact whose fingerprint matches the latest import is a
	// no-op that returns the latest import.
	ImportEntries(ctx context.Context, entries []Entry, fingerprint string) (*Import, error)

	// FindEntryByCode retrieves an entry by code.
	// Returns ENOTFOUND if the entry does not exist.
	FindEntryByCode(ctx context.Context, code string) (*Entry, error)

	// FindEntries retrieves entries matching the filter, ordered by code.
	FindEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	// LatestImport returns the most recent import.
	// Returns ENOTFOUND if nothing has been imported.
	LatestImport(ctx context.Context) (*Import, error)
}

// EntryFilter represents a filter for FindEntries.
type EntryFilter struct {
	Chapter   *string    `json:"chapter"`
	Component *Component `json:"component"`
	Query     *string    `json:"query"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
