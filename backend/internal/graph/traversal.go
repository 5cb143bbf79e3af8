package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"hetio-cli/backend/internal/hetnet"
)

// Node returns the vertex with the given id, or nil if absent. The label
// is taken from the id's kind prefix.
func (r *Repository) Node(ctx context.Context, id string) (*hetnet.Node, error) {
	kind, _, err := hetnet.SplitID(id)
	if err != nil || !kind.Valid() {
		return nil, nil
	}
	query, err := nodeQuery(kind)
	if err != nil {
		return nil, err
	}
	return r.single(ctx, kind, query, map[string]interface{}{"id": id})
}

// FindNode returns a vertex of kind with exactly the given name, or nil
func (r *Repository) FindNode(ctx context.Context, kind hetnet.Kind, name string) (*hetnet.Node, error) {
	query, err := findNodeQuery(kind)
	if err != nil {
		return nil, err
	}
	return r.single(ctx, kind, query, map[string]interface{}{"name": name})
}

func (r *Repository) single(ctx context.Context, kind hetnet.Kind, query string, params map[string]interface{}) (*hetnet.Node, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, nil
	}

	record := result.Record()
	return &hetnet.Node{
		ID:   getStringFromRecord(record, "id"),
		Name: getStringFromRecord(record, "name"),
		Kind: kind,
	}, nil
}

// Neighbors follows m one hop from each vertex in ids
func (r *Repository) Neighbors(ctx context.Context, ids []string, m hetnet.MetaedgeInfo, dir hetnet.Direction) ([]hetnet.Adjacency, error) {
	query, err := neighborsQuery(m, dir)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	farKind := m.Target
	if dir == hetnet.Incoming {
		farKind = m.Source
	}

	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("neighbors via %s: %w", m.Abbrev, err)
	}

	var out []hetnet.Adjacency
	for result.Next(ctx) {
		record := result.Record()
		out = append(out, hetnet.Adjacency{
			From: getStringFromRecord(record, "from"),
			To: hetnet.Node{
				ID:   getStringFromRecord(record, "id"),
				Name: getStringFromRecord(record, "name"),
				Kind: farKind,
			},
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("neighbors via %s: %w", m.Abbrev, err)
	}
	return out, nil
}
