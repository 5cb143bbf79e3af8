package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hetio-cli/backend/internal/hetnet"
)

// Exists reports whether a document with the record's key is stored.
// The lookup is bounded to a single row.
func (s *Store) Exists(ctx context.Context, rec hetnet.Record) (bool, error) {
	var query string
	var args []any
	switch r := rec.(type) {
	case hetnet.Node:
		query = `SELECT 1 FROM nodes WHERE id = ? LIMIT 1`
		args = []any{r.ID}
	case hetnet.Edge:
		query = `SELECT 1 FROM edges WHERE source = ? AND target = ? AND metaedge = ? LIMIT 1`
		args = []any{r.Source, r.Target, r.Metaedge}
	default:
		return false, fmt.Errorf("unsupported record type %T", rec)
	}

	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return true, nil
}

// Insert stores the record. It reports false when a document with the same
// key already exists (a concurrent writer won the race); nothing is changed
// in that case.
func (s *Store) Insert(ctx context.Context, rec hetnet.Record) (bool, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encoding document: %w", err)
	}

	var query string
	var args []any
	switch r := rec.(type) {
	case hetnet.Node:
		query = `INSERT INTO nodes (id, name, kind, doc) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`
		args = []any{r.ID, r.Name, string(r.Kind), string(doc)}
	case hetnet.Edge:
		query = `INSERT INTO edges (source, target, metaedge, doc) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`
		args = []any{r.Source, r.Target, r.Metaedge, string(doc)}
	default:
		return false, fmt.Errorf("unsupported record type %T", rec)
	}

	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("insert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert: %w", err)
	}
	return affected > 0, nil
}

// Reset deletes every edge and node document
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"edges", "nodes"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	s.logger.Info("Primary store cleared")
	return nil
}

// Counts returns the number of stored nodes and edges
func (s *Store) Counts(ctx context.Context) (nodes, edges int64, err error) {
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&nodes); err != nil {
		return 0, 0, fmt.Errorf("counting nodes: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges`).Scan(&edges); err != nil {
		return 0, 0, fmt.Errorf("counting edges: %w", err)
	}
	return nodes, edges, nil
}

// Edges returns the stored edge documents, decoded, ordered by key
func (s *Store) Edges(ctx context.Context) ([]hetnet.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM edges ORDER BY source, target, metaedge`)
	if err != nil {
		return nil, fmt.Errorf("listing edges: %w", err)
	}
	defer rows.Close()

	var out []hetnet.Edge
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var e hetnet.Edge
		if err := json.Unmarshal([]byte(doc), &e); err != nil {
			s.logger.Warn("Skipping undecodable edge document", zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
