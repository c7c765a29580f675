package ingest

import (
	"context"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/fetcher"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
)

// PointOptions maps table columns onto point fields.
type PointOptions struct {
	// IDColumn names the identifier column. When empty, ids are generated
	// from the row number.
	IDColumn string
	// XColumn and YColumn name the coordinate columns. Required.
	XColumn string
	YColumn string
	// CRS of the coordinates in the table.
	CRS crs.ID
	// Delimiter passes through to the CSV reader; zero means comma.
	Delimiter rune
	// SkipBadRows drops rows with unparseable coordinates instead of
	// failing the whole read.
	SkipBadRows bool
}

// PointsFromCSV reads a headered CSV of point records. Every column other
// than the id and coordinate columns becomes an attribute.
func PointsFromCSV(ctx context.Context, r io.Reader, opts PointOptions) ([]geometry.Point, error) {
	header, rows, err := fetcher.ReadCSV(ctx, r, fetcher.CSVOptions{
		Delimiter: opts.Delimiter,
		HasHeader: true,
		TrimSpace: true,
	})
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, eris.Wrap(ErrBadInput, "ingest: point table has no header")
	}
	return pointsFromRows(header, rows, opts)
}

// PointsFromXLSX reads a point table from the first data sheet of a workbook.
// The first row is the header.
func PointsFromXLSX(path string, opts PointOptions, xlsxOpts fetcher.XLSXOptions) ([]geometry.Point, error) {
	rows, err := fetcher.ReadXLSX(path, xlsxOpts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Wrap(ErrBadInput, "ingest: point workbook is empty")
	}
	return pointsFromRows(rows[0], rows[1:], opts)
}

func pointsFromRows(header []string, rows [][]string, opts PointOptions) ([]geometry.Point, error) {
	if opts.XColumn == "" || opts.YColumn == "" {
		return nil, eris.Wrap(ErrBadInput, "ingest: coordinate columns not set")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	xi, ok := col[opts.XColumn]
	if !ok {
		return nil, eris.Wrapf(ErrBadInput, "ingest: missing column %q", opts.XColumn)
	}
	yi, ok := col[opts.YColumn]
	if !ok {
		return nil, eris.Wrapf(ErrBadInput, "ingest: missing column %q", opts.YColumn)
	}
	idi := -1
	if opts.IDColumn != "" {
		if idi, ok = col[opts.IDColumn]; !ok {
			return nil, eris.Wrapf(ErrBadInput, "ingest: missing column %q", opts.IDColumn)
		}
	}

	points := make([]geometry.Point, 0, len(rows))
	var skipped int
	for n, row := range rows {
		if xi >= len(row) || yi >= len(row) {
			if opts.SkipBadRows {
				skipped++
				continue
			}
			return nil, eris.Wrapf(ErrBadInput, "ingest: row %d is short", n+1)
		}

		x, xErr := strconv.ParseFloat(row[xi], 64)
		y, yErr := strconv.ParseFloat(row[yi], 64)
		if xErr != nil || yErr != nil {
			if opts.SkipBadRows {
				skipped++
				continue
			}
			return nil, eris.Wrapf(ErrBadInput, "ingest: row %d has bad coordinates %q, %q", n+1, row[xi], row[yi])
		}

		id := strconv.Itoa(n + 1)
		if idi >= 0 && idi < len(row) && row[idi] != "" {
			id = row[idi]
		}

		attrs := make(geometry.Attrs)
		for i, name := range header {
			if i == xi || i == yi || i == idi || i >= len(row) {
				continue
			}
			attrs[name] = geometry.ParseValue(row[i])
		}

		pt, err := geometry.NewPoint(id, x, y, opts.CRS, attrs)
		if err != nil {
			if opts.SkipBadRows {
				skipped++
				continue
			}
			return nil, eris.Wrapf(err, "ingest: row %d", n+1)
		}
		points = append(points, pt)
	}

	if skipped > 0 {
		zap.L().Warn("ingest: skipped point rows", zap.Int("skipped", skipped), zap.Int("kept", len(points)))
	}
	return points, nil
}
