package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billingtt/ppol670-spatial/internal/crs"
)

func TestPointsFromCSV(t *testing.T) {
	input := "id,lon,lat,severity,notes\nc1,-77.03,38.90,3,first\nc2,-76.95,38.85,1,\n"

	points, err := PointsFromCSV(context.Background(), strings.NewReader(input), PointOptions{
		IDColumn: "id",
		XColumn:  "lon",
		YColumn:  "lat",
		CRS:      crs.Geographic,
	})
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "c1", points[0].ID)
	assert.Equal(t, -77.03, points[0].X)
	assert.Equal(t, 38.90, points[0].Y)
	assert.Equal(t, crs.Geographic, points[0].CRS)

	sev, ok := points[0].Attrs["severity"].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 3.0, sev)
	notes, ok := points[0].Attrs["notes"].AsString()
	require.True(t, ok)
	assert.Equal(t, "first", notes)

	// Empty cells come through as nulls, not empty strings.
	assert.True(t, points[1].Attrs["notes"].IsNull())

	// Coordinate and id columns never become attributes.
	_, hasLon := points[0].Attrs["lon"]
	assert.False(t, hasLon)
	_, hasID := points[0].Attrs["id"]
	assert.False(t, hasID)
}

func TestPointsFromCSVGeneratedIDs(t *testing.T) {
	input := "lon,lat\n-77.0,38.9\n-76.9,38.8\n"

	points, err := PointsFromCSV(context.Background(), strings.NewReader(input), PointOptions{
		XColumn: "lon",
		YColumn: "lat",
		CRS:     crs.Geographic,
	})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "1", points[0].ID)
	assert.Equal(t, "2", points[1].ID)
}

func TestPointsFromCSVBadCoordinates(t *testing.T) {
	input := "lon,lat\nnot-a-number,38.9\n-76.9,38.8\n"
	opts := PointOptions{XColumn: "lon", YColumn: "lat", CRS: crs.Geographic}

	_, err := PointsFromCSV(context.Background(), strings.NewReader(input), opts)
	assert.ErrorIs(t, err, ErrBadInput)

	opts.SkipBadRows = true
	points, err := PointsFromCSV(context.Background(), strings.NewReader(input), opts)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, -76.9, points[0].X)
}

func TestPointsFromCSVMissingColumn(t *testing.T) {
	input := "x,y\n1,2\n"
	_, err := PointsFromCSV(context.Background(), strings.NewReader(input), PointOptions{
		XColumn: "lon",
		YColumn: "lat",
		CRS:     crs.Geographic,
	})
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestPointsFromRowsShortRow(t *testing.T) {
	header := []string{"lon", "lat", "kind"}
	rows := [][]string{{"-77.0", "38.9", "theft"}, {"-76.9"}}

	_, err := pointsFromRows(header, rows, PointOptions{XColumn: "lon", YColumn: "lat", CRS: crs.Geographic})
	assert.ErrorIs(t, err, ErrBadInput)

	points, err := pointsFromRows(header, rows, PointOptions{
		XColumn: "lon", YColumn: "lat", CRS: crs.Geographic, SkipBadRows: true,
	})
	require.NoError(t, err)
	require.Len(t, points, 1)
	kind, ok := points[0].Attrs["kind"].AsString()
	require.True(t, ok)
	assert.Equal(t, "theft", kind)
}
