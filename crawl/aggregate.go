package crawl

import (
	"sort"

	"github.com/fwojciec/ciap"
)

// Aggregator accumulates parsed entries keyed by code. A later entry for a
// code replaces the earlier one.
type Aggregator struct {
	entries map[string]ciap.Entry
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{entries: make(map[string]ciap.Entry)}
}

// Add stores entries, overwriting any previous entry with the same code.
// It returns the previous entries that were replaced by a different value.
func (a *Aggregator) Add(entries ...ciap.Entry) (replaced []ciap.Entry) {
	for _, e := range entries {
		if prev, ok := a.entries[e.Code]; ok && prev != e {
			replaced = append(replaced, prev)
		}
		a.entries[e.Code] = e
	}
	return replaced
}

// Len returns the number of distinct codes.
func (a *Aggregator) Len() int {
	return len(a.entries)
}

// Entries returns the accumulated entries sorted by code.
func (a *Aggregator) Entries() []ciap.Entry {
	out := make([]ciap.Entry, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
