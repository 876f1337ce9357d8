package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/venus/app"
	foundation "github.com/km-arc/venus/framework/app"
)

// newRootCommand builds the venus CLI. Without a subcommand it serves.
func newRootCommand() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:          "venus",
		Short:        "Venus application server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), envFiles)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(newServeCommand(&envFiles), newGraphCommand(&envFiles))
	return root
}

func newServeCommand(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Boot the application and serve HTTP on APP_PORT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *envFiles)
		},
	}
}

func newGraphCommand(envFiles *[]string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Boot the application and print every binding",
		Example: `  venus graph
  venus graph --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*envFiles)
			if err != nil {
				return err
			}
			if err := a.Boot(); err != nil {
				return err
			}
			return renderGraph(cmd.OutOrStdout(), format, a.Resolver())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

// bootstrap creates the application with every provider registered.
func bootstrap(envFiles []string) (*foundation.Application, error) {
	a := foundation.New(envFiles...)
	if err := a.Register(&app.AppServiceProvider{}); err != nil {
		return nil, fmt.Errorf("registering providers: %w", err)
	}
	return a, nil
}

func serve(ctx context.Context, envFiles []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(envFiles)
	if err != nil {
		return err
	}
	defer func() { _ = a.Logger().Sync() }()

	return a.Run(ctx)
}
