// Package goquery extracts catalog entries from source pages using goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ciap"
)

// Ensure Parser implements ciap.EntryParser at compile time.
var _ ciap.EntryParser = (*Parser)(nil)

// entryTextRE matches anchor text of the form "K86 - Title".
var entryTextRE = regexp.MustCompile(`^([A-Za-z][0-9]{2})\s*-\s*(.+)$`)

// Parser reads entries from the anchors of a source listing page.
type Parser struct {
	selector string
}

// NewParser creates a Parser that scans every anchor of the page.
func NewParser() *Parser {
	return &Parser{selector: "a"}
}

// ParseEntries returns one entry per anchor whose trimmed text matches
// "<letter><2 digits> - <title>", in document order. The chapter of every
// entry is the page's chapter, not the letter of the code.
func (p *Parser) ParseEntries(html string, chapter string) ([]ciap.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, ciap.Errorf(ciap.EINVALID, "failed to parse HTML: %v", err)
	}

	var entries []ciap.Entry
	doc.Find(p.selector).Each(func(_ int, sel *goquery.Selection) {
		entry, ok := ParseEntryText(sel.Text(), chapter)
		if ok {
			entries = append(entries, entry)
		}
	})
	return entries, nil
}

// ParseEntryText parses a single anchor text. Returns false if the text does
// not look like a catalog entry, including codes outside the 01-99 ranges.
func ParseEntryText(text string, chapter string) (ciap.Entry, bool) {
	m := entryTextRE.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ciap.Entry{}, false
	}
	code := strings.ToUpper(m[1])
	if ciap.ComponentOf(code) == ciap.ComponentInvalid {
		return ciap.Entry{}, false
	}
	title := strings.TrimSpace(m[2])
	if title == "" {
		return ciap.Entry{}, false
	}
	return ciap.Entry{
		Code:    code,
		Title:   title,
		Chapter: chapter,
	}, true
}
