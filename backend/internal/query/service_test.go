package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetio-cli/backend/internal/docstore"
	"hetio-cli/backend/internal/hetnet"
	"hetio-cli/backend/internal/ingest"
	"hetio-cli/backend/internal/source"
	apperrors "hetio-cli/backend/pkg/errors"
)

// countingGraph counts store accesses
type countingGraph struct {
	calls int
}

func (g *countingGraph) Node(context.Context, string) (*hetnet.Node, error) {
	g.calls++
	return nil, nil
}

func (g *countingGraph) FindNode(context.Context, hetnet.Kind, string) (*hetnet.Node, error) {
	g.calls++
	return nil, nil
}

func (g *countingGraph) Neighbors(context.Context, []string, hetnet.MetaedgeInfo, hetnet.Direction) ([]hetnet.Adjacency, error) {
	g.calls++
	return nil, nil
}

type nopMirror struct{}

func (nopMirror) Upsert(context.Context, hetnet.Record) error { return nil }
func (nopMirror) Reset(context.Context) error                { return nil }

// newFixture loads records into an in-memory primary store and returns a
// service querying it
func newFixture(t *testing.T, records ...hetnet.Record) (*Service, *docstore.Store) {
	t.Helper()
	ctx := context.Background()
	store, err := docstore.Open(ctx, docstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ing := ingest.NewIngestor(store, nopMirror{})
	sum, err := ing.Ingest(ctx, source.Records(records...))
	require.NoError(t, err)
	require.Zero(t, sum.Failed)

	return NewService(store, ing), store
}

func node(id, name string) hetnet.Node {
	kind, _, _ := hetnet.SplitID(id)
	return hetnet.Node{ID: id, Name: name, Kind: kind}
}

func edge(source, metaedge, target string) hetnet.Edge {
	return hetnet.Edge{Source: source, Target: target, Metaedge: metaedge}
}

func TestDiseaseSummary_ConcreteCase(t *testing.T) {
	svc, _ := newFixture(t,
		node("Disease::D1", "X"),
		node("Compound::C1", "Aspirin"),
		edge("Compound::C1", "CtD", "Disease::D1"),
	)

	got, err := svc.DiseaseSummary(context.Background(), "Disease::D1")
	require.NoError(t, err)
	assert.Equal(t, &DiseaseSummary{
		DiseaseID:   "Disease::D1",
		DiseaseName: "X",
		Drugs:       []string{"Aspirin"},
		Genes:       []string{},
		Anatomies:   []string{},
	}, got)
}

func TestDiseaseSummary_SortsAndDeduplicates(t *testing.T) {
	svc, _ := newFixture(t,
		node("Disease::D1", "X"),
		node("Compound::C1", "aspirin"),
		node("Compound::C2", "Beta"),
		node("Compound::C3", "Aspirin"),
		node("Gene::G1", "TP53"),
		node("Anatomy::A1", "kidney"),
		edge("Compound::C1", "CtD", "Disease::D1"),
		edge("Compound::C1", "CpD", "Disease::D1"),
		edge("Compound::C2", "CpD", "Disease::D1"),
		edge("Compound::C3", "CtD", "Disease::D1"),
		edge("Disease::D1", "DaG", "Gene::G1"),
		edge("Disease::D1", "DlA", "Anatomy::A1"),
	)

	got, err := svc.DiseaseSummary(context.Background(), "Disease::D1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aspirin", "aspirin", "Beta"}, got.Drugs)
	assert.Equal(t, []string{"TP53"}, got.Genes)
	assert.Equal(t, []string{"kidney"}, got.Anatomies)
}

func TestDiseaseSummary_NotFound(t *testing.T) {
	svc, _ := newFixture(t)

	got, err := svc.DiseaseSummary(context.Background(), "Disease::missing")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, apperrors.IsWarning(err))
}

func inferenceFixture() []hetnet.Record {
	return []hetnet.Record{
		node("Disease::D1", "X"),
		node("Anatomy::A1", "kidney"),
		node("Gene::G1", "TP53"),
		node("Compound::C1", "Aspirin"),
		edge("Disease::D1", "DlA", "Anatomy::A1"),
		edge("Anatomy::A1", "AuG", "Gene::G1"),
		edge("Compound::C1", "CdG", "Gene::G1"),
	}
}

func TestInferTreatments_ConcreteCase(t *testing.T) {
	svc, _ := newFixture(t, inferenceFixture()...)

	got, err := svc.InferTreatments(context.Background(), "Disease::D1")
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{ID: "Compound::C1", Name: "Aspirin"}}, got)
}

func TestInferTreatments_ExcludesKnownTreatments(t *testing.T) {
	records := append(inferenceFixture(), edge("Compound::C1", "CtD", "Disease::D1"))
	svc, _ := newFixture(t, records...)

	got, err := svc.InferTreatments(context.Background(), "Disease::D1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInferTreatments_RequiresOppositeDirections(t *testing.T) {
	svc, _ := newFixture(t,
		node("Disease::D1", "X"),
		node("Anatomy::A1", "kidney"),
		node("Gene::G1", "TP53"),
		node("Gene::G2", "EGFR"),
		node("Compound::C1", "Same"),
		node("Compound::C2", "Opposite"),
		edge("Disease::D1", "DlA", "Anatomy::A1"),
		edge("Anatomy::A1", "AdG", "Gene::G1"),
		edge("Compound::C1", "CdG", "Gene::G1"),
		edge("Compound::C2", "CuG", "Gene::G1"),
		edge("Anatomy::A1", "AeG", "Gene::G2"),
		edge("Compound::C1", "CuG", "Gene::G2"),
	)

	got, err := svc.InferTreatments(context.Background(), "Disease::D1")
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{ID: "Compound::C2", Name: "Opposite"}}, got)
}

func TestQueries_InvalidIdentifier(t *testing.T) {
	graph := &countingGraph{}
	svc := NewService(graph, nil)
	ctx := context.Background()

	for _, id := range []string{"Compound::C1", "D1", "Disease::", "disease::D1", ""} {
		_, err := svc.DiseaseSummary(ctx, id)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeQuery), id)
		assert.False(t, apperrors.IsWarning(err), id)

		_, err = svc.InferTreatments(ctx, id)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeQuery), id)
	}
	assert.Zero(t, graph.calls)
}

func TestRegisterDisease(t *testing.T) {
	fixture := inferenceFixture()
	withoutDisease := append(fixture[1:4:4], fixture[5:]...)
	svc, store := newFixture(t, withoutDisease...)
	ctx := context.Background()

	_, err := svc.InferTreatments(ctx, "Disease::D1")
	require.True(t, apperrors.IsWarning(err))

	registered, err := svc.RegisterDisease(ctx, "Disease::D1", "X", "kidney")
	require.NoError(t, err)
	assert.Equal(t, "X", registered.Name)

	got, err := svc.InferTreatments(ctx, "Disease::D1")
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{ID: "Compound::C1", Name: "Aspirin"}}, got)

	again, err := svc.RegisterDisease(ctx, "Disease::D1", "renamed", "kidney")
	require.NoError(t, err)
	assert.Equal(t, "X", again.Name)

	nodes, edges, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), nodes)
	assert.Equal(t, int64(3), edges)
}

func TestRegisterDisease_UnknownAnatomy(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.RegisterDisease(context.Background(), "Disease::D9", "Y", "nowhere")
	require.Error(t, err)
	assert.True(t, apperrors.IsWarning(err))
}

// laggingGraph hides vertices that only the primary store holds
type laggingGraph struct {
	Graph
	missing map[string]bool
}

func (g laggingGraph) Node(ctx context.Context, id string) (*hetnet.Node, error) {
	if g.missing[id] {
		return nil, nil
	}
	return g.Graph.Node(ctx, id)
}

func TestRegisterDisease_StoresOutOfStep(t *testing.T) {
	ctx := context.Background()
	store, err := docstore.Open(ctx, docstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	ing := ingest.NewIngestor(store, nopMirror{})
	_, err = ing.Ingest(ctx, source.Records(node("Disease::D1", "X"), node("Anatomy::A1", "kidney")))
	require.NoError(t, err)

	svc := NewService(laggingGraph{Graph: store, missing: map[string]bool{"Disease::D1": true}}, ing)

	registered, err := svc.RegisterDisease(ctx, "Disease::D1", "X", "kidney")
	assert.Nil(t, registered)
	require.Error(t, err)
	assert.False(t, apperrors.IsWarning(err))
	assert.Contains(t, err.Error(), "not in the query store")

	_, edges, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, edges)
}
