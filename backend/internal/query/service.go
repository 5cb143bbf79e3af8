// Package query answers the fixed disease questions over either store.
package query

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"hetio-cli/backend/internal/hetnet"
	"hetio-cli/backend/internal/ingest"
	"hetio-cli/backend/internal/source"
	apperrors "hetio-cli/backend/pkg/errors"
	"hetio-cli/backend/pkg/logger"
)

// Graph is the read side shared by the primary store and the mirror
type Graph interface {
	Node(ctx context.Context, id string) (*hetnet.Node, error)
	FindNode(ctx context.Context, kind hetnet.Kind, name string) (*hetnet.Node, error)
	Neighbors(ctx context.Context, ids []string, m hetnet.MetaedgeInfo, dir hetnet.Direction) ([]hetnet.Adjacency, error)
}

// Registrar writes new records into both stores
type Registrar interface {
	Ingest(ctx context.Context, seq source.Sequence) (ingest.Summary, error)
}

// Service runs the disease queries
type Service struct {
	graph     Graph
	registrar Registrar
	logger    *zap.Logger
}

// NewService creates a query service. registrar may be nil when disease
// registration is not needed.
func NewService(graph Graph, registrar Registrar) *Service {
	return &Service{
		graph:     graph,
		registrar: registrar,
		logger:    logger.Get(),
	}
}

// disease validates id and fetches the disease vertex
func (s *Service) disease(ctx context.Context, id string) (*hetnet.Node, error) {
	if !hetnet.HasKind(id, hetnet.KindDisease) {
		return nil, apperrors.NewInvalidIdentifierError(id, string(hetnet.KindDisease))
	}
	node, err := s.graph.Node(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, apperrors.NewNotFoundWarning("disease", id)
	}
	return node, nil
}

// hop follows one metaedge from ids, keyed by the id of the reached vertex
func (s *Service) hop(ctx context.Context, ids []string, abbrev string, dir hetnet.Direction) (map[string]hetnet.Node, error) {
	adj, err := s.graph.Neighbors(ctx, ids, hetnet.MustMetaedge(abbrev), dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]hetnet.Node, len(adj))
	for _, a := range adj {
		out[a.To.ID] = a.To
	}
	return out, nil
}

func keys(m map[string]hetnet.Node) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// sortedNames returns the display names, case-insensitive with the raw
// string breaking ties
func sortedNames(m map[string]hetnet.Node) []string {
	out := make([]string, 0, len(m))
	for _, n := range m {
		out = append(out, n.Name)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i]), strings.ToLower(out[j])
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}
