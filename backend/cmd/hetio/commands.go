package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hetio-cli/backend/internal/api"
	"hetio-cli/backend/internal/app"
	"hetio-cli/backend/internal/console"
	"hetio-cli/backend/internal/ingest"
	apperrors "hetio-cli/backend/pkg/errors"
	"hetio-cli/backend/pkg/logger"
)

func (c *cli) newLoadCmd() *cobra.Command {
	var opts ingest.LoadOptions
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the node and edge tables into both stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := a.Load(ctx, opts)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"report":   report,
						"warnings": report.WarningMessages(),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), console.RenderLoadReport(report))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "Clear both stores before loading")
	cmd.Flags().StringVar(&opts.NodesPath, "nodes", "", "Node table (default from NODES_PATH)")
	cmd.Flags().StringVar(&opts.EdgesPath, "edges", "", "Edge table (default from EDGES_PATH)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func (c *cli) newSummaryCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "summary <disease-id>",
		Short:   "Summarize a disease's compounds, genes and anatomies",
		Example: "  hetio summary Disease::DOID:263",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				s, err := a.DiseaseSummary(ctx, args[0])
				if err != nil {
					return reportWarning(cmd, err)
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), s)
				}
				fmt.Fprint(cmd.OutOrStdout(), console.RenderSummary(s))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func (c *cli) newInferCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "infer <disease-id>",
		Short:   "Infer candidate treatments for a disease",
		Example: "  hetio infer Disease::DOID:263",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				candidates, err := a.InferTreatments(ctx, args[0])
				if err != nil {
					return reportWarning(cmd, err)
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), candidates)
				}
				fmt.Fprint(cmd.OutOrStdout(), console.RenderCandidates(args[0], candidates))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the candidates as JSON")
	return cmd
}

func (c *cli) newStatsCmd() *cobra.Command {
	var asJSON bool
	var limit int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				st, err := a.Stats(ctx, limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), st)
				}
				fmt.Fprint(cmd.OutOrStdout(), console.RenderStats(st))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "Length of the ranked lists")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the statistics as JSON")
	return cmd
}

func (c *cli) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				log := logger.Get()
				router := api.NewRouter(a, log, c.cfg.IsProduction())
				log.Info("Starting HTTP API server...", zap.String("port", c.cfg.Port))
				return api.Serve(ctx, ":"+c.cfg.Port, router, log)
			})
		},
	}
}

// reportWarning prints informational outcomes and returns real failures
func reportWarning(cmd *cobra.Command, err error) error {
	if apperrors.IsWarning(err) {
		fmt.Fprint(cmd.OutOrStdout(), console.RenderError(err))
		return nil
	}
	return err
}
