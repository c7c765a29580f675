package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/pipeline"
	"github.com/billingtt/ppol670-spatial/internal/render"
)

var (
	renderTable string
	renderOut   string
	renderValue string
	renderTitle string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a choropleth map from a table CSV",
	Long:  "Draws the boundary layer colored by an aggregate column. The output format follows the file extension (.svg, .png, .pdf).",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Data.BoundariesPath == "" {
			return eris.New("data.boundaries_path is required")
		}

		polygons, err := pipeline.LoadPolygons(cfg.Data)
		if err != nil {
			return err
		}
		rows, err := loadTable(renderTable)
		if err != nil {
			return err
		}

		value := renderValue
		if value == "" {
			value = cfg.Render.Value
		}
		title := renderTitle
		if title == "" {
			title = cfg.Render.Title
		}

		err = render.Choropleth(renderOut, polygons, rows, crs.Default(), render.Options{
			Title:   title,
			Value:   render.Value(value),
			PlotCRS: crs.ID(cfg.Render.CRS),
		})
		if err != nil {
			return err
		}

		pr := message.NewPrinter(language.English)
		pr.Printf("Rendered %d polygons to %s\n", len(polygons), renderOut)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderTable, "table", "", "aggregate table CSV (required)")
	renderCmd.Flags().StringVar(&renderOut, "out", "map.svg", "output image path")
	renderCmd.Flags().StringVar(&renderValue, "value", "", "column to color by: count or zonal_mean (default from config)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "map title (default from config)")
	_ = renderCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(renderCmd)
}
