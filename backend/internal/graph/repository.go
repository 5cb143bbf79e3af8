package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"hetio-cli/backend/internal/hetnet"
	"hetio-cli/backend/pkg/logger"
)

// Repository mirrors ingested records into Neo4j and answers traversals
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// NewRepository creates a new graph repository. An empty database selects
// the server's default database.
func NewRepository(driver neo4j.DriverWithContext, database string) *Repository {
	return &Repository{
		driver:   driver,
		database: database,
		logger:   logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

func (r *Repository) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: r.database})
}

// EnsureSchema creates the id uniqueness constraints and name indexes for
// every kind. Failures are logged; they only cost lookup speed.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, stmt := range constraintStatements() {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			r.logger.Warn("Failed to create constraint or index (may already exist)", zap.String("statement", stmt), zap.Error(err))
		}
	}
	return nil
}

// Upsert merges the record into the mirror: a node by id with its name
// updated, or an edge between existing endpoints. An edge whose endpoints
// are missing is a no-op.
func (r *Repository) Upsert(ctx context.Context, rec hetnet.Record) error {
	switch v := rec.(type) {
	case hetnet.Node:
		return r.upsertNode(ctx, v)
	case hetnet.Edge:
		return r.upsertEdge(ctx, v)
	default:
		return fmt.Errorf("unsupported record type %T", rec)
	}
}

func (r *Repository) upsertNode(ctx context.Context, node hetnet.Node) error {
	query, err := nodeUpsertQuery(node.Kind)
	if err != nil {
		return err
	}

	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err = session.Run(ctx, query, map[string]interface{}{
		"id":   node.ID,
		"name": node.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert node: %w", err)
	}
	return nil
}

func (r *Repository) upsertEdge(ctx context.Context, edge hetnet.Edge) error {
	m, ok := hetnet.LookupMetaedge(edge.Metaedge)
	if !ok {
		return fmt.Errorf("unknown metaedge %q", edge.Metaedge)
	}
	query, err := edgeUpsertQuery(m)
	if err != nil {
		return err
	}

	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, map[string]interface{}{
		"source":   edge.Source,
		"target":   edge.Target,
		"metaedge": edge.Metaedge,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert edge: %w", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return fmt.Errorf("failed to read upsert result: %w", err)
	}
	if getInt64FromRecord(record, "merged") == 0 {
		r.logger.Debug("Mirror edge skipped, endpoint vertex missing",
			zap.String("source", edge.Source),
			zap.String("target", edge.Target),
			zap.String("metaedge", edge.Metaedge),
		)
	}
	return nil
}

// Reset deletes all nodes and relationships
func (r *Repository) Reset(ctx context.Context) error {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	query := `
		MATCH (n)
		DETACH DELETE n
	`

	if _, err := session.Run(ctx, query, nil); err != nil {
		return fmt.Errorf("failed to delete all data: %w", err)
	}

	r.logger.Info("Graph mirror cleared")
	return nil
}

// Counts returns the number of vertices and relationships in the mirror
func (r *Repository) Counts(ctx context.Context) (nodes, edges int64, err error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	query := `
		CALL { MATCH (n) RETURN count(n) AS nodes }
		CALL { MATCH ()-[r]->() RETURN count(r) AS edges }
		RETURN nodes, edges
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count mirror: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read counts: %w", err)
	}
	return getInt64FromRecord(record, "nodes"), getInt64FromRecord(record, "edges"), nil
}
