package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetio-cli/backend/internal/docstore"
	"hetio-cli/backend/pkg/config"
	apperrors "hetio-cli/backend/pkg/errors"
)

func TestOpen_UnreachableGraph(t *testing.T) {
	cfg := config.Default()
	cfg.PrimaryDSN = ":memory:"
	cfg.Neo4jURI = "bolt://127.0.0.1:1"

	a, err := Open(context.Background(), cfg)
	assert.Nil(t, a)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStore))
}

func TestOpen_BadPrimaryDriver(t *testing.T) {
	cfg := config.Default()
	cfg.PrimaryDriver = "oracle"
	cfg.Neo4jURI = "bolt://127.0.0.1:1"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeStore))
}

func TestQueryGraph_SelectsBackend(t *testing.T) {
	store, err := docstore.Open(context.Background(), docstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := config.Default()
	cfg.QueryBackend = config.BackendPrimary
	a := &App{Config: cfg, Primary: store}
	assert.Same(t, store, a.queryGraph())
}

func TestClose_PartiallyOpened(t *testing.T) {
	a := &App{Config: config.Default()}
	assert.NoError(t, a.Close(context.Background()))
}
