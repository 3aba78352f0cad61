package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/harq/internal/har"
)

// Row is one exported entry as read back from the database.
type Row struct {
	Index           int
	Method          string
	URL             string
	Host            string
	Path            string
	Status          int
	StatusText      string
	MimeType        *string
	TimeMS          float64
	Started         string
	ServerIP        *string
	GQLOperation    *string
	GQLType         *string
	RequestHeaders  []har.Header
	ResponseHeaders []har.Header
	RequestBody     *string
	ResponseBody    *string
}

// ListExports returns every export, oldest first.
//
// Returns an empty slice (not nil) if the database has no exports.
func (s *Store) ListExports(ctx context.Context) ([]Export, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, filter, created_at, entry_count
		FROM exports
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	exports := []Export{}
	for rows.Next() {
		var exp Export
		if err := rows.Scan(&exp.ID, &exp.Source, &exp.Filter, &exp.CreatedAt, &exp.EntryCount); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return exports, nil
}

// CountEntries returns the number of entries stored for an export.
func (s *Store) CountEntries(ctx context.Context, exportID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE export_id = ?`, exportID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// ReadEntries returns the entries of an export ordered by index.
func (s *Store) ReadEntries(ctx context.Context, exportID string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, method, url, host, path, status, status_text, mime_type, time_ms, started,
		       server_ip, gql_operation, gql_type, request_headers, response_headers, request_body, response_body
		FROM entries
		WHERE export_id = ?
		ORDER BY idx ASC
	`, exportID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows) (Row, error) {
	var (
		r                       Row
		mime, ip, op, typ       sql.NullString
		reqBody, respBody       sql.NullString
		reqHeaders, respHeaders string
	)
	err := rows.Scan(&r.Index, &r.Method, &r.URL, &r.Host, &r.Path, &r.Status, &r.StatusText, &mime, &r.TimeMS,
		&r.Started, &ip, &op, &typ, &reqHeaders, &respHeaders, &reqBody, &respBody)
	if err != nil {
		return Row{}, fmt.Errorf("scan entry: %w", err)
	}

	if r.RequestHeaders, err = unmarshalHeaders(reqHeaders); err != nil {
		return Row{}, fmt.Errorf("entry %d: %w", r.Index, err)
	}
	if r.ResponseHeaders, err = unmarshalHeaders(respHeaders); err != nil {
		return Row{}, fmt.Errorf("entry %d: %w", r.Index, err)
	}
	r.MimeType = nullString(mime)
	r.ServerIP = nullString(ip)
	r.GQLOperation = nullString(op)
	r.GQLType = nullString(typ)
	r.RequestBody = nullString(reqBody)
	r.ResponseBody = nullString(respBody)
	return r, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
