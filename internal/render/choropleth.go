// Package render draws the per-polygon aggregates as a choropleth map.
package render

import (
	"image/color"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/export"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
)

// Value selects which aggregate shades the map.
type Value string

const (
	ByCount     Value = "count"
	ByZonalMean Value = "zonal_mean"
)

// Options configures the rendered map.
type Options struct {
	Title string
	// Value defaults to ByCount.
	Value Value
	// Width and Height default to 8x6 inches.
	Width  vg.Length
	Height vg.Length
	// PlotCRS is the projection polygons are drawn in. Defaults to
	// AlbersCONUS so shapes keep their areas on screen.
	PlotCRS crs.ID
}

// noDataGrey shades polygons with no value to plot.
var noDataGrey = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// Choropleth draws one filled polygon per row and saves the plot; the output
// format follows the file extension (.svg, .png, .pdf). Polygons with a nil
// value are drawn grey.
func Choropleth(path string, polygons []*geometry.Polygon, rows []export.Row, reg *crs.Registry, opts Options) error {
	if opts.Value == "" {
		opts.Value = ByCount
	}
	if opts.Width == 0 {
		opts.Width = 8 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = 6 * vg.Inch
	}
	if opts.PlotCRS == "" {
		opts.PlotCRS = crs.AlbersCONUS
	}

	values, err := rowValues(rows, opts.Value)
	if err != nil {
		return err
	}
	lo, hi, any := valueRange(values)

	p := plot.New()
	p.Title.Text = opts.Title
	p.HideAxes()

	for _, pg := range polygons {
		projected, err := pg.Transformed(reg, opts.PlotCRS)
		if err != nil {
			return eris.Wrapf(err, "render: project polygon %q", pg.ID)
		}

		rings := make([]plotter.XYer, 0, len(projected.Rings))
		for _, ring := range projected.Rings {
			xys := make(plotter.XYs, len(ring))
			for i, c := range ring {
				xys[i] = plotter.XY{X: c.X, Y: c.Y}
			}
			rings = append(rings, xys)
		}

		shape, err := plotter.NewPolygon(rings...)
		if err != nil {
			return eris.Wrapf(err, "render: build polygon %q", pg.ID)
		}

		if v, ok := values[pg.ID]; ok && any {
			shape.Color = ramp(v, lo, hi)
		} else {
			shape.Color = noDataGrey
		}
		shape.LineStyle.Color = color.Black
		shape.LineStyle.Width = vg.Points(0.5)
		p.Add(shape)
	}

	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return eris.Wrapf(err, "render: save %s", path)
	}
	zap.L().Info("render: wrote choropleth",
		zap.String("path", path),
		zap.Int("polygons", len(polygons)),
		zap.String("value", string(opts.Value)),
	)
	return nil
}

// rowValues extracts the plotted value per polygon. A nil zonal mean has no
// entry at all, which is what sends the polygon to grey.
func rowValues(rows []export.Row, v Value) (map[string]float64, error) {
	values := make(map[string]float64, len(rows))
	for _, row := range rows {
		switch v {
		case ByCount:
			values[row.PolygonID] = row.Count
		case ByZonalMean:
			if row.ZonalMean != nil {
				values[row.PolygonID] = *row.ZonalMean
			}
		default:
			return nil, eris.Errorf("render: unknown value %q", v)
		}
	}
	return values, nil
}

func valueRange(values map[string]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

// ramp maps v in [lo, hi] onto a light-yellow to dark-red scale.
func ramp(v, lo, hi float64) color.Color {
	t := 0.5
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
	}
	light := color.RGBA{R: 0xff, G: 0xf7, B: 0xbc, A: 0xff}
	dark := color.RGBA{R: 0x99, G: 0x00, B: 0x00, A: 0xff}
	return color.RGBA{
		R: lerp(light.R, dark.R),
		G: lerp(light.G, dark.G),
		B: lerp(light.B, dark.B),
		A: 0xff,
	}
}
