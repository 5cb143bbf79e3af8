// Package app opens the two stores once per process and wires the services
// that use them.
package app

import (
	"context"
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hetio-cli/backend/internal/docstore"
	"hetio-cli/backend/internal/graph"
	"hetio-cli/backend/internal/ingest"
	"hetio-cli/backend/internal/query"
	"hetio-cli/backend/pkg/config"
	apperrors "hetio-cli/backend/pkg/errors"
	"hetio-cli/backend/pkg/logger"
)

// App holds the open stores and the services built on them
type App struct {
	Config   *config.Config
	Primary  *docstore.Store
	Mirror   *graph.Repository
	Ingestor *ingest.Ingestor
	Loader   *ingest.Loader
	Queries  *query.Service
}

// Open connects to both stores concurrently. If either fails, whatever was
// opened is closed again and a *errors.StoreConnectionError is returned.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()
	a := &App{Config: cfg}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		store, err := docstore.Open(gctx, cfg.PrimaryDriver, cfg.PrimaryDSN)
		if err != nil {
			return apperrors.NewStoreConnectionError("primary", cfg.PrimaryDriver+":"+cfg.PrimaryDSN, err)
		}
		a.Primary = store
		return nil
	})
	g.Go(func() error {
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			return apperrors.NewStoreConnectionError("graph", cfg.Neo4jURI, err)
		}
		if err := driver.VerifyConnectivity(gctx); err != nil {
			driver.Close(context.Background())
			return apperrors.NewStoreConnectionError("graph", cfg.Neo4jURI, err)
		}
		a.Mirror = graph.NewRepository(driver, cfg.Neo4jDatabase)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.Close(context.Background())
		return nil, err
	}

	if err := a.Mirror.EnsureSchema(ctx); err != nil {
		log.Warn("Failed to ensure graph schema", zap.Error(err))
	}

	a.Ingestor = ingest.NewIngestor(a.Primary, a.Mirror, ingest.WithTimeout(cfg.OperationTimeout))
	a.Loader = ingest.NewLoader(a.Ingestor)
	a.Queries = query.NewService(a.queryGraph(), a.Ingestor)

	log.Info("Stores connected",
		zap.String("primary", cfg.PrimaryDriver),
		zap.String("graph", cfg.Neo4jURI),
		zap.String("query_backend", cfg.QueryBackend),
	)
	return a, nil
}

func (a *App) queryGraph() query.Graph {
	if a.Config.QueryBackend == config.BackendPrimary {
		return a.Primary
	}
	return a.Mirror
}

// Close releases both stores. It is safe to call on a partially opened App.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Mirror != nil {
		errs = append(errs, a.Mirror.Close(ctx))
		a.Mirror = nil
	}
	if a.Primary != nil {
		errs = append(errs, a.Primary.Close())
		a.Primary = nil
	}
	return errors.Join(errs...)
}
