package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
	"github.com/billingtt/ppol670-spatial/internal/raster"
)

func square(t *testing.T, id string, minX, minY, maxX, maxY float64) *geometry.Polygon {
	t.Helper()
	ring := geometry.Ring{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
		{X: minX, Y: minY},
	}
	pg, err := geometry.NewPolygon(id, []geometry.Ring{ring}, crs.Geographic, nil)
	require.NoError(t, err)
	return pg
}

func TestBuildTable(t *testing.T) {
	polygons := []*geometry.Polygon{
		square(t, "A", 0, 0, 1, 1),
		square(t, "B", 1, 0, 2, 1),
		square(t, "C", 2, 0, 3, 1),
	}
	counts := map[string]float64{"A": 5, "C": 2}
	mean := 18.5
	zonal := []raster.ZonalResult{
		{PolygonID: "A", Mean: &mean},
		{PolygonID: "B", Mean: nil},
	}

	rows := BuildTable(polygons, counts, zonal)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{PolygonID: "A", Count: 5, ZonalMean: &mean}, rows[0])
	// No points in B: zero count, not a missing row.
	assert.Equal(t, 0.0, rows[1].Count)
	assert.Nil(t, rows[1].ZonalMean)
	// C was never rasterized: count kept, mean nil.
	assert.Equal(t, 2.0, rows[2].Count)
	assert.Nil(t, rows[2].ZonalMean)
}

func TestWriteReadCSVRoundTrip(t *testing.T) {
	mean := 21.25
	rows := []Row{
		{PolygonID: "11001", Count: 14, ZonalMean: &mean},
		{PolygonID: "24031", Count: 0, ZonalMean: nil},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	// A nil mean must be an empty field, not "0".
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "polygon_id,count,zonal_mean", lines[0])
	assert.Equal(t, "11001,14,21.25", lines[1])
	assert.Equal(t, "24031,0,", lines[2])

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)

	_, err = ReadCSV(strings.NewReader("polygon_id,count,zonal_mean\nA,notanumber,\n"))
	require.Error(t, err)
}
