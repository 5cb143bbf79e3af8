package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hetio-cli/backend/internal/app"
	"hetio-cli/backend/internal/console"
	"hetio-cli/backend/pkg/config"
	"hetio-cli/backend/pkg/logger"
)

// cli carries state shared by the subcommands
type cli struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "hetio",
		Short:         "Load a HetioNet knowledge graph and query diseases",
		Long:          "Loads nodes.tsv and edges.tsv into the primary store and the Neo4j mirror, then summarizes diseases and infers candidate treatments. Without a subcommand the interactive menu starts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMenu(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(
		c.newLoadCmd(),
		c.newSummaryCmd(),
		c.newInferCmd(),
		c.newStatsCmd(),
		c.newServeCmd(),
		&cobra.Command{
			Use:   "menu",
			Short: "Start the interactive menu",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runMenu(cmd)
			},
		},
	)
	return root
}

func (c *cli) init() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cfg = cfg
	return nil
}

// withApp opens both stores for the duration of fn. The context is
// cancelled on SIGINT or SIGTERM.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Get().Warn("Failed to close stores", zap.Error(err))
		}
	}()

	return fn(ctx, a)
}

func (c *cli) runMenu(cmd *cobra.Command) error {
	return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
		return console.NewMenu(a, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
