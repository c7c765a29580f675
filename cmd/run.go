package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/pipeline"
	"github.com/billingtt/ppol670-spatial/internal/store"
)

var (
	runOut     string
	runNoStore bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis pipeline",
	Long:  "Loads points, boundaries, and optionally a raster; joins, aggregates, fits the model, and records the run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}

		var st store.Store
		if !runNoStore {
			s, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			if err := s.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			st = s
		}

		p := pipeline.New(cfg, crs.Default(), st)
		result, err := p.Run(ctx)
		if err != nil {
			return err
		}

		pr := message.NewPrinter(language.English)
		pr.Printf("Matched %d points into %d polygons (%d unmatched)\n",
			result.Points-result.Unmatched, result.Polygons, result.Unmatched)
		if result.Fit != nil {
			pr.Printf("OLS count ~ zonal mean: alpha=%.4f beta=%.4f r2=%.4f n=%d\n",
				result.Fit.Alpha, result.Fit.Beta, result.Fit.R2, result.Fit.N)
		}
		if result.RunID != "" {
			pr.Printf("Run %s recorded\n", result.RunID)
		}

		if runOut != "" {
			if err := writeTable(runOut, result.Rows); err != nil {
				return err
			}
			pr.Printf("Wrote %d rows to %s\n", len(result.Rows), runOut)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runOut, "out", "", "write the aggregate table to this CSV file")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "skip recording the run in the results store")
	rootCmd.AddCommand(runCmd)
}
