package app

import (
	"context"

	"hetio-cli/backend/internal/docstore"
	"hetio-cli/backend/internal/hetnet"
	"hetio-cli/backend/internal/ingest"
	"hetio-cli/backend/internal/query"
)

// Backend is what the console, the HTTP API and the CLI commands need
type Backend interface {
	Load(ctx context.Context, opts ingest.LoadOptions) (*ingest.LoadReport, error)
	DiseaseSummary(ctx context.Context, id string) (*query.DiseaseSummary, error)
	InferTreatments(ctx context.Context, id string) ([]query.Candidate, error)
	RegisterDisease(ctx context.Context, id, name, anatomyName string) (*hetnet.Node, error)
	Stats(ctx context.Context, limit int) (*docstore.Stats, error)
}

var _ Backend = (*App)(nil)

// Load runs the loader. Empty table paths fall back to the configured ones.
func (a *App) Load(ctx context.Context, opts ingest.LoadOptions) (*ingest.LoadReport, error) {
	if opts.NodesPath == "" {
		opts.NodesPath = a.Config.NodesPath
	}
	if opts.EdgesPath == "" {
		opts.EdgesPath = a.Config.EdgesPath
	}
	return a.Loader.Load(ctx, opts)
}

func (a *App) DiseaseSummary(ctx context.Context, id string) (*query.DiseaseSummary, error) {
	return a.Queries.DiseaseSummary(ctx, id)
}

func (a *App) InferTreatments(ctx context.Context, id string) ([]query.Candidate, error) {
	return a.Queries.InferTreatments(ctx, id)
}

func (a *App) RegisterDisease(ctx context.Context, id, name, anatomyName string) (*hetnet.Node, error) {
	return a.Queries.RegisterDisease(ctx, id, name, anatomyName)
}

// Stats is always computed by the primary store
func (a *App) Stats(ctx context.Context, limit int) (*docstore.Stats, error) {
	return a.Primary.Stats(ctx, limit)
}
