package crawl_test

import (
	"testing"

	"github.com/fwojciec/ciap"
	"github.com/fwojciec/ciap/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator(t *testing.T) {
	t.Parallel()

	t.Run("sorts entries by code", func(t *testing.T) {
		t.Parallel()

		agg := crawl.NewAggregator()
		agg.Add(
			ciap.Entry{Code: "K86", Title: "Hipertensão", Chapter: "K"},
			ciap.Entry{Code: "A01", Title: "Dor generalizada", Chapter: "A"},
			ciap.Entry{Code: "D01", Title: "Dor abdominal", Chapter: "D"},
		)

		entries := agg.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "A01", entries[0].Code)
		assert.Equal(t, "D01", entries[1].Code)
		assert.Equal(t, "K86", entries[2].Code)
	})

	t.Run("last write wins for the same code", func(t *testing.T) {
		t.Parallel()

		agg := crawl.NewAggregator()
		agg.Add(ciap.Entry{Code: "K86", Title: "first", Chapter: "K"})
		replaced := agg.Add(ciap.Entry{Code: "K86", Title: "second", Chapter: "K"})

		require.Len(t, replaced, 1)
		assert.Equal(t, "first", replaced[0].Title)
		assert.Equal(t, 1, agg.Len())
		assert.Equal(t, "second", agg.Entries()[0].Title)
	})

	t.Run("adding the same page twice is idempotent", func(t *testing.T) {
		t.Parallel()

		page := []ciap.Entry{
			{Code: "K86", Title: "Hipertensão sem complicações", Chapter: "K"},
			{Code: "K87", Title: "Hipertensão com complicações", Chapter: "K"},
		}

		once := crawl.NewAggregator()
		once.Add(page...)

		twice := crawl.NewAggregator()
		twice.Add(page...)
		replaced := twice.Add(page...)

		assert.Empty(t, replaced)
		assert.Equal(t, once.Entries(), twice.Entries())
	})
}
