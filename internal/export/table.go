// Package export writes the pipeline's outputs: the flat per-polygon table
// and a GeoJSON feature collection for mapping.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/billingtt/ppol670-spatial/internal/geometry"
	"github.com/billingtt/ppol670-spatial/internal/raster"
)

// Row is one polygon's aggregates. Count defaults to zero for polygons no
// point fell in. ZonalMean is nil when no raster cell center fell inside the
// polygon; the nil must survive serialization as an empty field, never as 0.
type Row struct {
	PolygonID string
	Count     float64
	ZonalMean *float64
}

// BuildTable combines join counts and zonal means into one row per polygon,
// in polygon input order. Polygons absent from counts get zero; polygons
// absent from zonal get a nil mean.
func BuildTable(polygons []*geometry.Polygon, counts map[string]float64, zonal []raster.ZonalResult) []Row {
	means := make(map[string]*float64, len(zonal))
	for _, z := range zonal {
		means[z.PolygonID] = z.Mean
	}

	rows := make([]Row, len(polygons))
	for i, pg := range polygons {
		rows[i] = Row{
			PolygonID: pg.ID,
			Count:     counts[pg.ID],
			ZonalMean: means[pg.ID],
		}
	}
	return rows
}

// WriteCSV writes rows with a header. Nil zonal means become empty fields.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"polygon_id", "count", "zonal_mean"}); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range rows {
		mean := ""
		if row.ZonalMean != nil {
			mean = strconv.FormatFloat(*row.ZonalMean, 'g', -1, 64)
		}
		record := []string{
			row.PolygonID,
			strconv.FormatFloat(row.Count, 'g', -1, 64),
			mean,
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// ReadCSV reads a table written by WriteCSV. Empty zonal fields come back
// as nil.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "export: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("export: empty table")
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 3 {
			return nil, eris.Errorf("export: table row has %d fields", len(record))
		}
		count, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "export: parse count %q", record[1])
		}
		row := Row{PolygonID: record[0], Count: count}
		if record[2] != "" {
			mean, err := strconv.ParseFloat(record[2], 64)
			if err != nil {
				return nil, eris.Wrapf(err, "export: parse zonal mean %q", record[2])
			}
			row.ZonalMean = &mean
		}
		rows = append(rows, row)
	}
	return rows, nil
}
