package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/export"
	"github.com/billingtt/ppol670-spatial/internal/join"
	"github.com/billingtt/ppol670-spatial/internal/pipeline"
)

var joinOut string

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join points to polygons and aggregate per polygon",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}
		reg := crs.Default()

		points, err := pipeline.LoadPoints(ctx, cfg.Data)
		if err != nil {
			return err
		}
		polygons, err := pipeline.LoadPolygons(cfg.Data)
		if err != nil {
			return err
		}

		assignments, err := join.Join(ctx, points, polygons, reg, join.Options{
			Workers: cfg.Join.Workers,
		})
		if err != nil {
			return err
		}

		reducer := join.Reducer(join.Count)
		if cfg.Join.CountAttr != "" {
			reducer = join.Sum
		}
		counts, unmatched, err := join.Aggregate(assignments, cfg.Join.CountAttr, reducer)
		if err != nil {
			return err
		}

		pr := message.NewPrinter(language.English)
		pr.Printf("Matched %d of %d points (%d unmatched)\n",
			len(points)-unmatched, len(points), unmatched)

		rows := export.BuildTable(polygons, counts, nil)
		return writeTable(joinOut, rows)
	},
}

func init() {
	joinCmd.Flags().StringVar(&joinOut, "out", "", "write the count table to this CSV file (default stdout)")
	rootCmd.AddCommand(joinCmd)
}
