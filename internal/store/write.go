package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/harq/internal/filter"
)

// Export describes one export run.
type Export struct {
	ID         string `json:"id" yaml:"id"`
	Source     string `json:"source" yaml:"source"`
	Filter     string `json:"filter,omitempty" yaml:"filter,omitempty"`
	CreatedAt  int64  `json:"created_at" yaml:"created_at"`
	EntryCount int    `json:"entry_count" yaml:"entry_count"`
}

// WriteExport stores entries as a new export in a single transaction.
// ID, CreatedAt and EntryCount are assigned here; the completed Export is
// returned. Entry indexes are stored 1-based.
func (s *Store) WriteExport(ctx context.Context, exp Export, entries []filter.Indexed) (Export, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Export{}, fmt.Errorf("write export: generate id: %w", err)
	}
	exp.ID = id.String()
	exp.CreatedAt = s.now().UnixMilli()
	exp.EntryCount = len(entries)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Export{}, fmt.Errorf("write export: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO exports (id, source, filter, created_at, entry_count)
		VALUES (?, ?, ?, ?, ?)
	`, exp.ID, exp.Source, exp.Filter, exp.CreatedAt, exp.EntryCount)
	if err != nil {
		return Export{}, fmt.Errorf("write export: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries
		(export_id, idx, method, url, host, path, status, status_text, mime_type, time_ms, started,
		 server_ip, gql_operation, gql_type, request_headers, response_headers, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Export{}, fmt.Errorf("write export: prepare: %w", err)
	}
	defer stmt.Close()

	for _, ix := range entries {
		e := ix.Entry
		reqHeaders, err := marshalHeaders(e.Request.Headers)
		if err != nil {
			return Export{}, fmt.Errorf("write entry %d: %w", ix.Index+1, err)
		}
		respHeaders, err := marshalHeaders(e.Response.Headers)
		if err != nil {
			return Export{}, fmt.Errorf("write entry %d: %w", ix.Index+1, err)
		}

		_, err = stmt.ExecContext(ctx,
			exp.ID,
			ix.Index+1,
			e.Request.Method,
			e.Request.URL,
			deref(fieldText(filter.FieldHost, e)),
			deref(fieldText(filter.FieldPath, e)),
			e.Response.Status,
			e.Response.StatusText,
			nullable(e.ContentType()),
			e.Time,
			e.StartedDateTime,
			e.ServerIPAddress,
			fieldText(filter.FieldGQLOperationName, e),
			fieldText(filter.FieldGQLOperationType, e),
			reqHeaders,
			respHeaders,
			nullable(e.RequestBody()),
			nullable(e.TextContent()),
		)
		if err != nil {
			return Export{}, fmt.Errorf("write entry %d: %w", ix.Index+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Export{}, fmt.Errorf("write export: commit: %w", err)
	}

	s.logger.Info("exported entries", "export", exp.ID, "entries", exp.EntryCount)
	return exp, nil
}
