package slog

import (
	"log/slog"

	"github.com/fwojciec/ciap"
)

var _ ciap.EntryParser = (*LoggingParser)(nil)

// LoggingParser wraps an EntryParser with debug logging.
type LoggingParser struct {
	next   ciap.EntryParser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next ciap.EntryParser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// ParseEntries delegates to the wrapped parser and logs the entry count.
func (p *LoggingParser) ParseEntries(html string, chapter string) (entries []ciap.Entry, err error) {
	defer func() {
		p.logger.Debug("parse",
			"chapter", chapter,
			"count", len(entries),
			"err", err,
		)
	}()
	return p.next.ParseEntries(html, chapter)
}
