package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/ciap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ciap.EntryService = (*EntryService)(nil)

// EntryService implements ciap.EntryService using SQLite.
type EntryService struct {
	db *DB
}

// NewEntryService creates a new EntryService.
func NewEntryService(db *DB) *EntryService {
	return &EntryService{db: db}
}

// ImportEntries replaces the stored catalog in a single transaction.
func (s *EntryService) ImportEntries(ctx context.Context, entries []ciap.Entry, fingerprint string) (*ciap.Import, error) {
	if fingerprint == "" {
		return nil, ciap.Errorf(ciap.EINVALID, "import fingerprint required")
	}
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, err
		}
	}

	latest, err := s.LatestImport(ctx)
	if err != nil && ciap.ErrorCode(err) != ciap.ENOTFOUND {
		return nil, err
	}
	if latest != nil && latest.Fingerprint == fingerprint {
		return latest, nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (code, title, chapter, component, code_lower, title_lower, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.Code, e.Title, e.Chapter, ciap.ComponentOf(e.Code).String(),
			strings.ToLower(e.Code), strings.ToLower(e.Title), i,
		); err != nil {
			return nil, err
		}
	}

	imp := &ciap.Import{
		ID:          uuid.New().String(),
		Fingerprint: fingerprint,
		Count:       len(entries),
		ImportedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (id, fingerprint, count, imported_at)
		VALUES (?, ?, ?, ?)
	`, imp.ID, imp.Fingerprint, imp.Count, imp.ImportedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return imp, nil
}

// FindEntryByCode retrieves an entry by code.
func (s *EntryService) FindEntryByCode(ctx context.Context, code string) (*ciap.Entry, error) {
	code = ciap.NormalizeCode(code)

	var e ciap.Entry
	err := s.db.QueryRowContext(ctx, `
		SELECT code, title, chapter
		FROM entries
		WHERE code = ?
	`, code).Scan(&e.Code, &e.Title, &e.Chapter)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ciap.Errorf(ciap.ENOTFOUND, "entry %s not found", code)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindEntries retrieves entries matching the filter, in catalog order.
func (s *EntryService) FindEntries(ctx context.Context, filter ciap.EntryFilter) ([]*ciap.Entry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT code, title, chapter FROM entries WHERE 1=1")

	if filter.Chapter != nil {
		query.WriteString(" AND chapter = ?")
		args = append(args, *filter.Chapter)
	}
	if filter.Component != nil {
		query.WriteString(" AND component = ?")
		args = append(args, filter.Component.String())
	}
	if filter.Query != nil {
		q := strings.ToLower(strings.TrimSpace(*filter.Query))
		if q == "" {
			return []*ciap.Entry{}, nil
		}
		query.WriteString(" AND (instr(code_lower, ?) > 0 OR instr(title_lower, ?) > 0)")
		args = append(args, q, q)
	}

	query.WriteString(" ORDER BY position")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*ciap.Entry{}
	for rows.Next() {
		var e ciap.Entry
		if err := rows.Scan(&e.Code, &e.Title, &e.Chapter); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// LatestImport returns the most recent import.
func (s *EntryService) LatestImport(ctx context.Context) (*ciap.Import, error) {
	var imp ciap.Import
	var importedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, fingerprint, count, imported_at
		FROM imports
		ORDER BY imported_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&imp.ID, &imp.Fingerprint, &imp.Count, &importedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ciap.Errorf(ciap.ENOTFOUND, "no catalog imported")
	}
	if err != nil {
		return nil, err
	}

	imp.ImportedAt, err = parseRFC3339(importedAt, "imported_at")
	if err != nil {
		return nil, err
	}
	return &imp, nil
}
