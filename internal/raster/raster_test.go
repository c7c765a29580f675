package raster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
)

func polygon(t *testing.T, id string, ring geometry.Ring) *geometry.Polygon {
	t.Helper()
	pg, err := geometry.NewPolygon(id, []geometry.Ring{ring}, crs.Geographic, nil)
	require.NoError(t, err)
	return pg
}

func rect(minX, minY, maxX, maxY float64) geometry.Ring {
	return geometry.Ring{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
		{X: minX, Y: minY},
	}
}

func TestNewGridValidation(t *testing.T) {
	_, err := NewGrid(0, 0, 1, 2, 2, crs.Geographic, -9999, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidGrid)

	_, err = NewGrid(0, 0, 0, 2, 2, crs.Geographic, -9999, make([]float64, 4))
	assert.ErrorIs(t, err, ErrInvalidGrid)

	_, err = NewGrid(0, 0, 1, 0, 2, crs.Geographic, -9999, nil)
	assert.ErrorIs(t, err, ErrInvalidGrid)

	g, err := NewGrid(0, 2, 1, 2, 2, crs.Geographic, -9999, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 4.0, g.Value(1, 1))
}

func TestCellCenterAndBounds(t *testing.T) {
	// 2x2 grid, origin at top-left (0, 2), unit cells.
	g, err := NewGrid(0, 2, 1, 2, 2, crs.Geographic, -9999, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	x, y := g.CellCenter(0, 0)
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 1.5, y)

	x, y = g.CellCenter(1, 1)
	assert.Equal(t, 1.5, x)
	assert.Equal(t, 0.5, y)

	b := g.Bounds()
	assert.Equal(t, 0.0, b.MinX)
	assert.Equal(t, 2.0, b.MaxX)
	assert.Equal(t, 0.0, b.MinY)
	assert.Equal(t, 2.0, b.MaxY)
}

func TestZonalMeanTopLeftCell(t *testing.T) {
	reg := crs.Default()
	g, err := NewGrid(0, 2, 1, 2, 2, crs.Geographic, -9999, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	// Covers only the top-left cell center (0.5, 1.5).
	pg := polygon(t, "tl", rect(0, 1, 1, 2))
	mean, err := ZonalMean(g, pg, reg)
	require.NoError(t, err)
	require.NotNil(t, mean)
	assert.Equal(t, 1.0, *mean)

	// Covers all four cells.
	all := polygon(t, "all", rect(-1, -1, 3, 3))
	mean, err = ZonalMean(g, all, reg)
	require.NoError(t, err)
	require.NotNil(t, mean)
	assert.Equal(t, 2.5, *mean)
}

func TestZonalMeanEmptyIsNil(t *testing.T) {
	reg := crs.Default()
	g, err := NewGrid(0, 2, 1, 2, 2, crs.Geographic, -9999, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	// Far away from the grid entirely.
	far := polygon(t, "far", rect(100, 100, 101, 101))
	mean, err := ZonalMean(g, far, reg)
	require.NoError(t, err)
	assert.Nil(t, mean)

	// Overlaps the grid but contains no cell center.
	sliver := polygon(t, "sliver", rect(0.9, 1.9, 1.1, 2.0))
	mean, err = ZonalMean(g, sliver, reg)
	require.NoError(t, err)
	assert.Nil(t, mean)
}

func TestZonalMeanSkipsNoData(t *testing.T) {
	reg := crs.Default()
	g, err := NewGrid(0, 2, 1, 2, 2, crs.Geographic, -9999, []float64{-9999, 2, 3, 4})
	require.NoError(t, err)

	all := polygon(t, "all", rect(-1, -1, 3, 3))
	mean, err := ZonalMean(g, all, reg)
	require.NoError(t, err)
	require.NotNil(t, mean)
	assert.Equal(t, 3.0, *mean)

	// All cells NoData: nil, not zero.
	blank, err := NewGrid(0, 2, 1, 2, 2, crs.Geographic, -9999, []float64{-9999, -9999, -9999, -9999})
	require.NoError(t, err)
	mean, err = ZonalMean(blank, all, reg)
	require.NoError(t, err)
	assert.Nil(t, mean)
}

func TestZonalMeanAcrossCRS(t *testing.T) {
	reg := crs.Default()

	// Grid in geographic degrees around DC; polygon in Albers meters.
	values := []float64{10, 10, 20, 20}
	g, err := NewGrid(-77.2, 39.1, 0.2, 2, 2, crs.Geographic, -9999, values)
	require.NoError(t, err)

	pg := polygon(t, "dc", rect(-77.2, 38.7, -76.8, 39.1))
	projected, err := pg.Transformed(reg, crs.AlbersCONUS)
	require.NoError(t, err)

	wantGeo, err := ZonalMean(g, pg, reg)
	require.NoError(t, err)
	gotAlbers, err := ZonalMean(g, projected, reg)
	require.NoError(t, err)

	require.NotNil(t, wantGeo)
	require.NotNil(t, gotAlbers)
	assert.InDelta(t, *wantGeo, *gotAlbers, 1e-9)
}

func TestZonalMeanAll(t *testing.T) {
	reg := crs.Default()
	g, err := NewGrid(0, 2, 1, 2, 2, crs.Geographic, -9999, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	polygons := []*geometry.Polygon{
		polygon(t, "tl", rect(0, 1, 1, 2)),
		polygon(t, "br", rect(1, 0, 2, 1)),
		polygon(t, "none", rect(50, 50, 51, 51)),
	}

	got, err := ZonalMeanAll(context.Background(), g, polygons, reg, 4)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "tl", got[0].PolygonID)
	require.NotNil(t, got[0].Mean)
	assert.Equal(t, 1.0, *got[0].Mean)

	require.NotNil(t, got[1].Mean)
	assert.Equal(t, 4.0, *got[1].Mean)

	assert.Nil(t, got[2].Mean)

	serial, err := ZonalMeanAll(context.Background(), g, polygons, reg, 1)
	require.NoError(t, err)
	assert.Equal(t, got, serial)
}

func TestDownsample(t *testing.T) {
	// 4x4 grid of ones with one NoData hole and one high cell.
	values := []float64{
		1, 1, 1, 1,
		1, -9999, 1, 1,
		1, 1, 9, 1,
		1, 1, 1, 1,
	}
	g, err := NewGrid(0, 4, 1, 4, 4, crs.Geographic, -9999, values)
	require.NoError(t, err)

	small, err := Downsample(g, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, small.Rows)
	assert.Equal(t, 2, small.Cols)
	assert.Equal(t, 2.0, small.CellSize)

	// Top-left block: three ones, NoData excluded.
	assert.Equal(t, 1.0, small.Value(0, 0))
	// Bottom-right block: 9 + three ones.
	assert.Equal(t, 3.0, small.Value(1, 1))
	assert.Equal(t, 1.0, small.Value(1, 0))

	_, err = Downsample(g, 0)
	assert.ErrorIs(t, err, ErrInvalidGrid)

	same, err := Downsample(g, 1)
	require.NoError(t, err)
	assert.Equal(t, g, same)
}

func TestDownsampleAllNoDataBlock(t *testing.T) {
	values := []float64{
		-9999, -9999, 1, 1,
		-9999, -9999, 1, 1,
	}
	g, err := NewGrid(0, 2, 1, 2, 4, crs.Geographic, -9999, values)
	require.NoError(t, err)

	small, err := Downsample(g, 2)
	require.NoError(t, err)
	assert.True(t, small.IsNoData(small.Value(0, 0)))
	assert.Equal(t, 1.0, small.Value(0, 1))
}
