package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/export"
	"github.com/billingtt/ppol670-spatial/internal/pipeline"
	"github.com/billingtt/ppol670-spatial/internal/raster"
)

var zonalOut string

var zonalCmd = &cobra.Command{
	Use:   "zonal",
	Short: "Summarize the raster surface per polygon",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Data.RasterPath == "" {
			return eris.New("data.raster_path is required")
		}
		if cfg.Data.BoundariesPath == "" {
			return eris.New("data.boundaries_path is required")
		}
		reg := crs.Default()

		polygons, err := pipeline.LoadPolygons(cfg.Data)
		if err != nil {
			return err
		}
		grid, err := pipeline.LoadRaster(cfg.Data, cfg.Zonal.Downsample)
		if err != nil {
			return err
		}

		zonal, err := raster.ZonalMeanAll(ctx, grid, polygons, reg, cfg.Zonal.Workers)
		if err != nil {
			return err
		}

		covered := 0
		for _, z := range zonal {
			if z.Mean != nil {
				covered++
			}
		}
		pr := message.NewPrinter(language.English)
		pr.Printf("Computed means for %d of %d polygons\n", covered, len(polygons))

		rows := export.BuildTable(polygons, nil, zonal)
		return writeTable(zonalOut, rows)
	},
}

func init() {
	zonalCmd.Flags().StringVar(&zonalOut, "out", "", "write the zonal table to this CSV file (default stdout)")
	rootCmd.AddCommand(zonalCmd)
}
