// Package raster holds the regular-grid model and the zonal statistics that
// summarize a grid per polygon.
package raster

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
)

// ErrInvalidGrid marks a malformed grid definition.
var ErrInvalidGrid = eris.New("raster: invalid grid")

// Grid is a regular raster. Origin is the top-left corner; cell (r, c)
// covers [OriginX + c*CellSize, OriginX + (c+1)*CellSize) in x and
// (OriginY - (r+1)*CellSize, OriginY - r*CellSize] in y. Values are stored
// row-major, top row first, and are read-only after construction.
type Grid struct {
	OriginX  float64
	OriginY  float64
	CellSize float64
	Rows     int
	Cols     int
	CRS      crs.ID
	NoData   float64

	values []float64
}

// NewGrid validates the definition: positive dimensions, finite positive
// cell size, and exactly Rows*Cols values.
func NewGrid(originX, originY, cellSize float64, rows, cols int, system crs.ID, noData float64, values []float64) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, eris.Wrapf(ErrInvalidGrid, "raster: %dx%d grid", rows, cols)
	}
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, eris.Wrapf(ErrInvalidGrid, "raster: cell size %v", cellSize)
	}
	if math.IsNaN(originX) || math.IsNaN(originY) {
		return nil, eris.Wrap(ErrInvalidGrid, "raster: non-finite origin")
	}
	if len(values) != rows*cols {
		return nil, eris.Wrapf(ErrInvalidGrid, "raster: %d values for %dx%d grid", len(values), rows, cols)
	}
	return &Grid{
		OriginX:  originX,
		OriginY:  originY,
		CellSize: cellSize,
		Rows:     rows,
		Cols:     cols,
		CRS:      system,
		NoData:   noData,
		values:   values,
	}, nil
}

// Value returns the cell value at (r, c).
func (g *Grid) Value(r, c int) float64 {
	return g.values[r*g.Cols+c]
}

// IsNoData reports whether a value is the grid's missing marker.
func (g *Grid) IsNoData(v float64) bool {
	return v == g.NoData || math.IsNaN(v)
}

// CellCenter returns the coordinates of the center of cell (r, c) in the
// grid's CRS.
func (g *Grid) CellCenter(r, c int) (float64, float64) {
	x := g.OriginX + (float64(c)+0.5)*g.CellSize
	y := g.OriginY - (float64(r)+0.5)*g.CellSize
	return x, y
}

// Bounds returns the grid's bounding box.
func (g *Grid) Bounds() geometry.BBox {
	var b geometry.BBox
	b.Extend(g.OriginX, g.OriginY)
	b.Extend(g.OriginX+float64(g.Cols)*g.CellSize, g.OriginY-float64(g.Rows)*g.CellSize)
	return b
}

// Downsample mean-aggregates factor x factor blocks of cells into one, the
// raster "aggregate" step used to coarsen a fine grid before zonal work.
// Edge blocks may cover fewer source cells; NoData cells are excluded, and a
// block with no data cells becomes NoData.
func Downsample(g *Grid, factor int) (*Grid, error) {
	if factor <= 0 {
		return nil, eris.Wrapf(ErrInvalidGrid, "raster: downsample factor %d", factor)
	}
	if factor == 1 {
		return g, nil
	}

	rows := (g.Rows + factor - 1) / factor
	cols := (g.Cols + factor - 1) / factor
	values := make([]float64, rows*cols)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum float64
			var n int
			for sr := r * factor; sr < min((r+1)*factor, g.Rows); sr++ {
				for sc := c * factor; sc < min((c+1)*factor, g.Cols); sc++ {
					v := g.Value(sr, sc)
					if g.IsNoData(v) {
						continue
					}
					sum += v
					n++
				}
			}
			if n == 0 {
				values[r*cols+c] = g.NoData
			} else {
				values[r*cols+c] = sum / float64(n)
			}
		}
	}

	return NewGrid(g.OriginX, g.OriginY, g.CellSize*float64(factor), rows, cols, g.CRS, g.NoData, values)
}
