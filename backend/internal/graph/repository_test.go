package graph

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetio-cli/backend/internal/hetnet"
)

func TestQuoteLabel(t *testing.T) {
	label, err := quoteLabel(hetnet.KindSideEffect)
	require.NoError(t, err)
	assert.Equal(t, "`Side Effect`", label)

	_, err = quoteLabel(hetnet.Kind("Disease` DETACH DELETE n //"))
	assert.Error(t, err)
}

func TestQuoteRelType_Sanitized(t *testing.T) {
	relType, err := quoteRelType(hetnet.MustMetaedge(hetnet.GeneRegulatesGene))
	require.NoError(t, err)
	assert.Equal(t, "`GrG`", relType)

	forged := hetnet.MetaedgeInfo{Abbrev: "CtD", Source: hetnet.KindGene, Target: hetnet.KindDisease}
	_, err = quoteRelType(forged)
	assert.Error(t, err, "an entry differing from the vocabulary must be rejected")
}

func TestEdgeUpsertQuery(t *testing.T) {
	query, err := edgeUpsertQuery(hetnet.MustMetaedge(hetnet.GeneRegulatesGene))
	require.NoError(t, err)

	assert.Contains(t, query, "MATCH (a:`Gene` {id: $source})")
	assert.Contains(t, query, "MERGE (a)-[r:`GrG`]->(b)")
	assert.Contains(t, query, "SET r.metaedge = $metaedge")
	assert.NotContains(t, query, "Gr>G")
}

func TestNeighborsQuery_Direction(t *testing.T) {
	ctd := hetnet.MustMetaedge(hetnet.CompoundTreatsDisease)

	out, err := neighborsQuery(ctd, hetnet.Outgoing)
	require.NoError(t, err)
	assert.Contains(t, out, "(s:`Compound` {id: id})-[:`CtD`]->(t:`Disease`)")

	in, err := neighborsQuery(ctd, hetnet.Incoming)
	require.NoError(t, err)
	assert.Contains(t, in, "(s:`Disease` {id: id})<-[:`CtD`]-(t:`Compound`)")
	assert.True(t, strings.HasPrefix(in, "UNWIND $ids AS id"))
}

func TestConstraintStatements(t *testing.T) {
	stmts := constraintStatements()
	assert.Len(t, stmts, 2*len(hetnet.Kinds()))
	assert.Contains(t, stmts, "CREATE CONSTRAINT hetio_side_effect_id IF NOT EXISTS FOR (n:`Side Effect`) REQUIRE n.id IS UNIQUE")
}

// TestRepository_Mirror requires a running Neo4j instance whose contents
// may be cleared. Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD.
func TestRepository_Mirror(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}

	repo := NewRepository(driver, os.Getenv("NEO4J_DATABASE"))
	defer repo.Close(ctx)

	require.NoError(t, repo.Reset(ctx))
	defer func() { _ = repo.Reset(ctx) }()
	require.NoError(t, repo.EnsureSchema(ctx))

	gene1 := hetnet.Node{ID: "Gene::1", Name: "G1", Kind: hetnet.KindGene}
	gene2 := hetnet.Node{ID: "Gene::2", Name: "G2", Kind: hetnet.KindGene}
	regulates := hetnet.Edge{Source: gene1.ID, Target: gene2.ID, Metaedge: hetnet.GeneRegulatesGene}

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Upsert(ctx, gene1))
		require.NoError(t, repo.Upsert(ctx, gene2))
		require.NoError(t, repo.Upsert(ctx, regulates))
	}
	// missing endpoint: no-op
	require.NoError(t, repo.Upsert(ctx, hetnet.Edge{Source: gene1.ID, Target: "Gene::404", Metaedge: hetnet.GeneRegulatesGene}))

	nodes, edges, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), nodes)
	assert.Equal(t, int64(1), edges)

	got, err := repo.Node(ctx, gene1.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "G1", got.Name)

	found, err := repo.FindNode(ctx, hetnet.KindGene, "G2")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, gene2.ID, found.ID)

	adj, err := repo.Neighbors(ctx, []string{gene2.ID}, hetnet.MustMetaedge(hetnet.GeneRegulatesGene), hetnet.Incoming)
	require.NoError(t, err)
	require.Len(t, adj, 1)
	assert.Equal(t, gene1.ID, adj[0].To.ID)

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead, DatabaseName: os.Getenv("NEO4J_DATABASE")})
	defer session.Close(ctx)
	result, err := session.Run(ctx, "MATCH ()-[r:GrG]->() RETURN r.metaedge AS metaedge", nil)
	require.NoError(t, err)
	record, err := result.Single(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Gr>G", getStringFromRecord(record, "metaedge"))
}

func TestRepository_NodeUnknownKind(t *testing.T) {
	repo := &Repository{}
	node, err := repo.Node(context.Background(), "Planet::earth")
	assert.NoError(t, err)
	assert.Nil(t, node)
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := envOr("NEO4J_URI", "bolt://localhost:7687")
	user := envOr("NEO4J_USER", "neo4j")
	password := envOr("NEO4J_PASSWORD", "password")

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
