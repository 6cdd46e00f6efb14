package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/FHIR-Aggregator/bulkimport/internal/importer/usecase"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bulkimport",
		Short:         "Drive bulk FHIR imports from an object-storage bucket",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "./config/config.yaml", "path to the config file")

	root.AddCommand(a.listCommand())
	root.AddCommand(a.importCommand())

	return root
}

func (a *App) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the datasets discovered in the storage bucket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			datasets, err := a.importer.Datasets(cmd.Context())
			if err != nil {
				return err
			}

			for _, ds := range datasets {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s (%.2f MB, %d objects)\n", ds.Name, ds.SizeMB, len(ds.ObjectURLs))
			}

			return nil
		},
	}
}

func (a *App) importCommand() *cobra.Command {
	var (
		only       []string
		skipLegacy bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import every discovered dataset into the FHIR server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := usecase.Filter{Only: only, SkipLegacy: skipLegacy}

			var summary usecase.RunSummary
			a.goroutine.Go(cmd.Context(), func(ctx context.Context) error {
				s, err := a.importer.Run(ctx, filter)
				summary = s
				return err
			})
			err := a.goroutine.Wait()

			// Drain pending progress lines before the summary. The closer
			// is idempotent, so the shutdown pass may call it again.
			if closer := a.closerFn["Importer"]; closer != nil {
				if cerr := closer(cmd.Context()); cerr != nil {
					slog.WarnContext(cmd.Context(), "failed to drain progress reporter", "error", cerr)
				}
			}

			printSummary(cmd.OutOrStdout(), summary)

			return err
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "restrict the run to datasets whose name contains any keyword")
	cmd.Flags().BoolVar(&skipLegacy, "skip-legacy", false, "skip datasets carrying the legacy name prefix")

	return cmd
}

func printSummary(w io.Writer, summary usecase.RunSummary) {
	fmt.Fprintf(w, "\nimport run finished: %d succeeded, %d failed, %d skipped\n",
		summary.Succeeded, summary.Failed, summary.Skipped)

	for _, rec := range summary.Records {
		detail := rec.Report
		if rec.Err != "" {
			detail = rec.Err
		}
		if detail == "" {
			fmt.Fprintf(w, "  %-9s %s\n", rec.State, rec.Dataset)
			continue
		}
		fmt.Fprintf(w, "  %-9s %s: %s\n", rec.State, rec.Dataset, detail)
	}
}
