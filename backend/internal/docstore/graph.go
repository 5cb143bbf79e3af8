package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hetio-cli/backend/internal/hetnet"
)

// neighborBatch bounds the number of ids bound into one IN clause
const neighborBatch = 500

// Node returns the node with the given id, or nil if absent
func (s *Store) Node(ctx context.Context, id string) (*hetnet.Node, error) {
	var n hetnet.Node
	var kind string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, name, kind FROM nodes WHERE id = ?`), id).
		Scan(&n.ID, &n.Name, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching node %s: %w", id, err)
	}
	n.Kind = hetnet.Kind(kind)
	return &n, nil
}

// FindNode returns the first node of kind whose name matches exactly, or nil
func (s *Store) FindNode(ctx context.Context, kind hetnet.Kind, name string) (*hetnet.Node, error) {
	var n hetnet.Node
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, name FROM nodes WHERE kind = ? AND name = ? ORDER BY id LIMIT 1`),
		string(kind), name,
	).Scan(&n.ID, &n.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding %s %q: %w", kind, name, err)
	}
	n.Kind = kind
	return &n, nil
}

// Neighbors follows metaedge one hop from each of ids and returns the
// vertices reached. Edges whose far endpoint has no node document are
// not returned.
func (s *Store) Neighbors(ctx context.Context, ids []string, m hetnet.MetaedgeInfo, dir hetnet.Direction) ([]hetnet.Adjacency, error) {
	if _, ok := hetnet.LookupMetaedge(m.Abbrev); !ok {
		return nil, fmt.Errorf("unknown metaedge %q", m.Abbrev)
	}

	near, far, farKind := "source", "target", m.Target
	if dir == hetnet.Incoming {
		near, far, farKind = "target", "source", m.Source
	}

	var out []hetnet.Adjacency
	for start := 0; start < len(ids); start += neighborBatch {
		end := min(start+neighborBatch, len(ids))
		batch := ids[start:end]

		// column names come from the two fixed branches above
		query := fmt.Sprintf(`
			SELECT e.%s, n.id, n.name
			FROM edges e
			JOIN nodes n ON n.id = e.%s
			WHERE e.metaedge = ? AND n.kind = ? AND e.%s IN (%s)
			ORDER BY e.%s, n.id`,
			near, far, near, placeholders(len(batch)), near)

		args := make([]any, 0, len(batch)+2)
		args = append(args, m.Abbrev, string(farKind))
		for _, id := range batch {
			args = append(args, id)
		}

		rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
		if err != nil {
			return nil, fmt.Errorf("neighbors via %s: %w", m.Abbrev, err)
		}
		for rows.Next() {
			var adj hetnet.Adjacency
			if err := rows.Scan(&adj.From, &adj.To.ID, &adj.To.Name); err != nil {
				rows.Close()
				return nil, err
			}
			adj.To.Kind = farKind
			out = append(out, adj)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
