// Package fs provides file-based storage for the catalog artifact.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ciap"
)

// DefaultArtifactPath is where the catalog artifact lives relative to the
// working directory.
const DefaultArtifactPath = "assets/ciap/ciap.json"

// Ensure ArtifactStore implements ciap.ArtifactStore at compile time.
var _ ciap.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore reads and writes the catalog as a single JSON array.
// Writes go to a temporary file in the same directory which is renamed over
// the artifact, so readers never observe a partial file.
type ArtifactStore struct {
	path string
}

// NewArtifactStore creates a store for the artifact at path.
func NewArtifactStore(path string) *ArtifactStore {
	return &ArtifactStore{path: path}
}

// Path returns the artifact location.
func (s *ArtifactStore) Path() string {
	return s.path
}

// WriteEntries replaces the artifact with entries, creating parent
// directories as needed.
func (s *ArtifactStore) WriteEntries(ctx context.Context, entries []ciap.Entry) (*ciap.ArtifactInfo, error) {
	if entries == nil {
		entries = []ciap.Entry{}
	}
	data, err := EncodeEntries(entries)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return nil, err
	}

	return &ciap.ArtifactInfo{
		Path:        s.path,
		Count:       len(entries),
		Fingerprint: Fingerprint(data),
	}, nil
}

// ReadEntries loads the artifact.
func (s *ArtifactStore) ReadEntries(ctx context.Context) ([]ciap.Entry, *ciap.ArtifactInfo, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, ciap.Errorf(ciap.ENOTFOUND, "artifact %s not found", s.path)
	}
	if err != nil {
		return nil, nil, err
	}

	entries, err := DecodeEntries(data)
	if err != nil {
		return nil, nil, err
	}

	return entries, &ciap.ArtifactInfo{
		Path:        s.path,
		Count:       len(entries),
		Fingerprint: Fingerprint(data),
	}, nil
}

// EncodeEntries renders entries as an indented JSON array.
func EncodeEntries(entries []ciap.Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeEntries parses a JSON array of entries.
// Returns EINVALID if data is not a JSON array of objects.
func DecodeEntries(data []byte) ([]ciap.Entry, error) {
	var entries []ciap.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, ciap.Errorf(ciap.EINVALID, "artifact is not a list of entries: %v", err)
	}
	if entries == nil {
		return nil, ciap.Errorf(ciap.EINVALID, "artifact is not a list of entries: null")
	}
	return entries, nil
}

// Fingerprint returns a short content hash of an artifact.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
