package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetio-cli/backend/internal/hetnet"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustInsert(t *testing.T, s *Store, recs ...hetnet.Record) {
	t.Helper()
	for _, r := range recs {
		inserted, err := s.Insert(context.Background(), r)
		require.NoError(t, err)
		require.True(t, inserted, r.Key())
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mongodb", "mongodb://localhost")
	assert.Error(t, err)
}

func TestExistsAndInsert(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	node := hetnet.Node{ID: "Disease::DOID:263", Name: "kidney cancer", Kind: hetnet.KindDisease}
	exists, err := s.Exists(ctx, node)
	require.NoError(t, err)
	assert.False(t, exists)

	mustInsert(t, s, node)

	exists, err = s.Exists(ctx, node)
	require.NoError(t, err)
	assert.True(t, exists)

	// second insert of the same key changes nothing
	inserted, err := s.Insert(ctx, hetnet.Node{ID: node.ID, Name: "renamed", Kind: hetnet.KindDisease})
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := s.Node(ctx, node.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "kidney cancer", got.Name)
}

func TestEdgeKeyIsTriple(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	treats := hetnet.Edge{Source: "Compound::C1", Target: "Disease::D1", Metaedge: "CtD"}
	palliates := hetnet.Edge{Source: "Compound::C1", Target: "Disease::D1", Metaedge: "CpD"}
	mustInsert(t, s, treats)

	exists, err := s.Exists(ctx, palliates)
	require.NoError(t, err)
	assert.False(t, exists)
	mustInsert(t, s, palliates)

	_, edges, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, edges)
}

func TestEdgesKeepOriginalMetaedge(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	mustInsert(t, s, hetnet.Edge{Source: "Gene::1", Target: "Gene::2", Metaedge: "Gr>G"})

	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "Gr>G", edges[0].Metaedge)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	mustInsert(t, s,
		hetnet.Node{ID: "Gene::1", Name: "A1BG", Kind: hetnet.KindGene},
		hetnet.Edge{Source: "Gene::1", Target: "Gene::2", Metaedge: "GiG"},
	)

	require.NoError(t, s.Reset(ctx))
	nodes, edges, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, nodes)
	assert.Zero(t, edges)
}

func TestNeighbors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	mustInsert(t, s,
		hetnet.Node{ID: "Disease::D1", Name: "X", Kind: hetnet.KindDisease},
		hetnet.Node{ID: "Compound::C1", Name: "Aspirin", Kind: hetnet.KindCompound},
		hetnet.Node{ID: "Compound::C2", Name: "Ibuprofen", Kind: hetnet.KindCompound},
		hetnet.Node{ID: "Anatomy::A1", Name: "kidney", Kind: hetnet.KindAnatomy},
		hetnet.Edge{Source: "Compound::C1", Target: "Disease::D1", Metaedge: "CtD"},
		hetnet.Edge{Source: "Compound::C2", Target: "Disease::D1", Metaedge: "CpD"},
		hetnet.Edge{Source: "Disease::D1", Target: "Anatomy::A1", Metaedge: "DlA"},
		// dangling edge: no node document for the anatomy
		hetnet.Edge{Source: "Disease::D1", Target: "Anatomy::A404", Metaedge: "DlA"},
	)

	treats, err := s.Neighbors(ctx, []string{"Disease::D1"}, hetnet.MustMetaedge("CtD"), hetnet.Incoming)
	require.NoError(t, err)
	require.Len(t, treats, 1)
	assert.Equal(t, "Disease::D1", treats[0].From)
	assert.Equal(t, hetnet.Node{ID: "Compound::C1", Name: "Aspirin", Kind: hetnet.KindCompound}, treats[0].To)

	sites, err := s.Neighbors(ctx, []string{"Disease::D1"}, hetnet.MustMetaedge("DlA"), hetnet.Outgoing)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "kidney", sites[0].To.Name)

	none, err := s.Neighbors(ctx, nil, hetnet.MustMetaedge("DlA"), hetnet.Outgoing)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.Neighbors(ctx, []string{"Disease::D1"}, hetnet.MetaedgeInfo{Abbrev: "x`y"}, hetnet.Outgoing)
	assert.Error(t, err)
}

func TestFindNode(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	mustInsert(t, s, hetnet.Node{ID: "Anatomy::UBERON:0002113", Name: "kidney", Kind: hetnet.KindAnatomy})

	n, err := s.FindNode(ctx, hetnet.KindAnatomy, "kidney")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "Anatomy::UBERON:0002113", n.ID)

	n, err = s.FindNode(ctx, hetnet.KindAnatomy, "liver")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	mustInsert(t, s,
		hetnet.Node{ID: "Compound::C1", Name: "Aspirin", Kind: hetnet.KindCompound},
		hetnet.Node{ID: "Compound::C2", Name: "Ibuprofen", Kind: hetnet.KindCompound},
		hetnet.Edge{Source: "Compound::C1", Target: "Gene::G1", Metaedge: "CdG"},
		hetnet.Edge{Source: "Compound::C1", Target: "Gene::G2", Metaedge: "CuG"},
		hetnet.Edge{Source: "Compound::C2", Target: "Gene::G1", Metaedge: "CuG"},
		hetnet.Edge{Source: "Compound::C1", Target: "Disease::D1", Metaedge: "CtD"},
		hetnet.Edge{Source: "Compound::C2", Target: "Disease::D1", Metaedge: "CpD"},
		hetnet.Edge{Source: "Compound::C2", Target: "Disease::D2", Metaedge: "CtD"},
	)

	st, err := s.Stats(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Nodes)
	assert.EqualValues(t, 6, st.Edges)
	assert.Equal(t, []Count{{Label: "Compound", Count: 2}}, st.NodesByKind)

	require.Len(t, st.TopCompoundsByGene, 2)
	assert.Equal(t, CompoundReach{ID: "Compound::C1", Name: "Aspirin", Genes: 2, Diseases: 1}, st.TopCompoundsByGene[0])
	assert.Equal(t, CompoundReach{ID: "Compound::C2", Name: "Ibuprofen", Genes: 1, Diseases: 2}, st.TopCompoundsByGene[1])

	// D1 has two drugs, D2 has one
	assert.ElementsMatch(t, []DrugBucket{{Drugs: 2, Diseases: 1}, {Drugs: 1, Diseases: 1}}, st.DiseasesByDrugs)
}

func TestRebind(t *testing.T) {
	s := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT 1 FROM edges WHERE source = $1 AND target = $2", s.rebind("SELECT 1 FROM edges WHERE source = ? AND target = ?"))

	s.driver = DriverSQLite
	assert.Equal(t, "x = ?", s.rebind("x = ?"))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
