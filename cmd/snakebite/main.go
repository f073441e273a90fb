package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"snakebite-dashboard/internal/config"
	"snakebite-dashboard/internal/store"
)

// app carries the configuration shared by every subcommand.
type app struct {
	fs     *flag.FlagSet
	cfg    *config.Config
	getenv func(string) string
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	a := &app{fs: flag.NewFlagSet("snakebite", flag.ContinueOnError), getenv: getenv}
	a.cfg = config.Bind(a.fs, getenv)

	root := &cobra.Command{
		Use:           "snakebite",
		Short:         "Snakebite case dashboard: API server and data tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Finalize(a.fs, a.cfg, a.getenv, func(name string) bool {
				return cmd.Flags().Changed(name)
			})
		},
	}
	root.PersistentFlags().AddGoFlagSet(a.fs)

	root.AddCommand(
		a.newServeCmd(),
		a.newImportCmd(),
		a.newExportCmd(),
		a.newChartCmd(),
		a.newListCmd(),
	)
	return root
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	s, err := store.Open(ctx, a.cfg.StoreConfig())
	if err != nil {
		if s != nil {
			_ = s.Close()
		}
		return nil, err
	}
	return s, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Getenv).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}
