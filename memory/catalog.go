// Package memory provides the in-memory catalog used at runtime.
package memory

import (
	"strings"

	"github.com/fwojciec/ciap"
)

// Ensure Catalog implements ciap.CatalogService at compile time.
var _ ciap.CatalogService = (*Catalog)(nil)

// Catalog serves lookups and searches over a trusted artifact loaded once.
// It is never mutated after construction and is safe for concurrent use.
type Catalog struct {
	entries []ciap.Entry
	byCode  map[string]int
	// lowercase code and title, aligned with entries
	codes  []string
	titles []string
}

// NewCatalog returns a Catalog over a copy of entries, keeping their order.
// When codes repeat, Lookup returns the first one.
func NewCatalog(entries []ciap.Entry) *Catalog {
	c := &Catalog{
		entries: make([]ciap.Entry, len(entries)),
		byCode:  make(map[string]int, len(entries)),
		codes:   make([]string, len(entries)),
		titles:  make([]string, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range c.entries {
		if _, ok := c.byCode[e.Code]; !ok {
			c.byCode[e.Code] = i
		}
		c.codes[i] = strings.ToLower(e.Code)
		c.titles[i] = strings.ToLower(e.Title)
	}
	return c
}

// Lookup returns the entry for code. Input is trimmed and uppercased first;
// malformed codes are reported as not found.
func (c *Catalog) Lookup(code string) (ciap.Entry, bool) {
	code = ciap.NormalizeCode(code)
	if !ciap.ValidCode(code) {
		return ciap.Entry{}, false
	}
	i, ok := c.byCode[code]
	if !ok {
		return ciap.Entry{}, false
	}
	return c.entries[i], true
}

// Search returns up to limit entries whose code or title contains query,
// ignoring case, in catalog order. A non-positive limit means
// ciap.DefaultSearchLimit. A blank query returns an empty slice without
// scanning the catalog.
func (c *Catalog) Search(query string, limit int) []ciap.Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []ciap.Entry{}
	}
	if limit <= 0 {
		limit = ciap.DefaultSearchLimit
	}

	out := make([]ciap.Entry, 0, min(limit, 8))
	for i := range c.entries {
		if strings.Contains(c.codes[i], q) || strings.Contains(c.titles[i], q) {
			out = append(out, c.entries[i])
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []ciap.Entry {
	out := make([]ciap.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
