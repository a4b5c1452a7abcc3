package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ciap"
)

var _ ciap.ArtifactStore = (*LoggingArtifactStore)(nil)

// LoggingArtifactStore wraps an ArtifactStore with logging.
type LoggingArtifactStore struct {
	next   ciap.ArtifactStore
	logger *slog.Logger
}

// NewLoggingArtifactStore creates a new LoggingArtifactStore.
func NewLoggingArtifactStore(next ciap.ArtifactStore, logger *slog.Logger) *LoggingArtifactStore {
	return &LoggingArtifactStore{next: next, logger: logger}
}

// WriteEntries delegates to the wrapped store and logs the written artifact.
func (s *LoggingArtifactStore) WriteEntries(ctx context.Context, entries []ciap.Entry) (info *ciap.ArtifactInfo, err error) {
	defer func(begin time.Time) {
		s.logger.Info("artifact written",
			append(infoAttrs(info),
				"entries", len(entries),
				"duration", time.Since(begin),
				"err", err,
			)...,
		)
	}(time.Now())
	return s.next.WriteEntries(ctx, entries)
}

// ReadEntries delegates to the wrapped store and logs the loaded artifact.
func (s *LoggingArtifactStore) ReadEntries(ctx context.Context) (entries []ciap.Entry, info *ciap.ArtifactInfo, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("artifact read",
			append(infoAttrs(info),
				"entries", len(entries),
				"duration", time.Since(begin),
				"err", err,
			)...,
		)
	}(time.Now())
	return s.next.ReadEntries(ctx)
}

func infoAttrs(info *ciap.ArtifactInfo) []any {
	if info == nil {
		return nil
	}
	return []any{"path", info.Path, "fingerprint", info.Fingerprint}
}
