// Command ingest runs provider fetches and maintenance from the shell.
//
// Usage:
//
//	jungleverse-ingest fetch
//	jungleverse-ingest fetch --provider GGpoker
//	jungleverse-ingest validate --provider PokerStars
//	jungleverse-ingest providers
//	jungleverse-ingest seed-rooms
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KingBodhi/jungleverse/internal/app"
	"github.com/KingBodhi/jungleverse/internal/config"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

type appFactory func(ctx context.Context) (*app.App, error)

func main() {
	_ = godotenv.Load(".env")

	root := newRootCmd(func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		logger := logging.NewConsole(cfg.LogLevel)
		logging.SetDefault(logger)
		return app.New(ctx, cfg, logger)
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(build appFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "jungleverse-ingest",
		Short:         "Poker tournament and cash game ingestion CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(fetchCmd(build))
	root.AddCommand(validateCmd(build))
	root.AddCommand(providersCmd(build))
	root.AddCommand(seedRoomsCmd(build))
	return root
}

func fetchCmd(build appFactory) *cobra.Command {
	var providerName string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch from every provider, or one with --provider, and ingest the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(build, func(ctx context.Context, a *app.App) error {
				result, err := a.Orchestrator.FetchAll(ctx, providerName)
				if err != nil {
					return err
				}
				a.Logger.Info("fetch finished",
					"providers", len(result.Providers),
					"created", result.Totals.Created,
					"updated", result.Totals.Updated,
					"skipped", result.Totals.Skipped,
					"unresolved", result.Totals.Unresolved,
					"failed", result.Totals.Failed,
					"duration_ms", result.Duration.Milliseconds(),
				)
				for _, warning := range result.Warnings {
					a.Logger.Warn("fetch warning", "detail", warning)
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().StringVar(&providerName, "provider", "", "Provider name (case-insensitive); empty = all")
	return cmd
}

func validateCmd(build appFactory) *cobra.Command {
	var providerName string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Fetch a provider without cache and report data quality issues",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(providerName) == "" {
				return fmt.Errorf("--provider is required")
			}
			return withApp(build, func(ctx context.Context, a *app.App) error {
				result := a.Monitor.Validate(ctx, providerName)
				if err := printJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if !result.Valid {
					return fmt.Errorf("%s: %d validation issue(s)", providerName, len(result.Issues))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&providerName, "provider", "", "Provider name to validate")
	return cmd
}

func providersCmd(build appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered provider connectors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(build, func(_ context.Context, a *app.App) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tCATEGORY\tTOURNAMENTS\tCASH GAMES\tROOMS")
				for _, connector := range a.Registry.All() {
					tournaments, cashGames := provider.Capabilities(connector)
					fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
						connector.Name(),
						connector.Category(),
						tournaments,
						cashGames,
						strings.Join(connector.PokerRooms(), ", "),
					)
				}
				return w.Flush()
			})
		},
	}
}

func seedRoomsCmd(build appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-rooms",
		Short: "Insert the known online sites and card rooms if missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(build, func(ctx context.Context, a *app.App) error {
				result, err := a.Rooms.SeedKnownRooms(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created: %d, existing: %d\n", len(result.Created), len(result.Existing))
				for _, name := range result.Created {
					fmt.Fprintf(cmd.OutOrStdout(), "  + %s\n", name)
				}
				return nil
			})
		},
	}
}

// withApp builds the application, cancels on SIGINT/SIGTERM and closes it
// when fn returns.
func withApp(build appFactory, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := build(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Warn("close app", "error", err)
		}
		_ = a.Logger.Sync()
	}()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
