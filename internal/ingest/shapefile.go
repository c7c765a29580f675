package ingest

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
)

// ShapefileOptions controls polygon ingestion.
type ShapefileOptions struct {
	// IDField names the attribute used as the polygon id (a GEOID for
	// census boundaries). Record number is used when empty or absent.
	IDField string
	// CRS of the shapefile coordinates.
	CRS crs.ID
}

// PolygonsFromShapefile reads every polygon record from a shapefile. All
// attribute fields are carried as typed attributes. Rings are normalized to
// counter-clockwise outers and clockwise holes; shapefiles store the
// opposite winding.
func PolygonsFromShapefile(shpPath string, opts ShapefileOptions) ([]*geometry.Polygon, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	idField := -1
	if opts.IDField != "" {
		for i, name := range names {
			if strings.EqualFold(name, opts.IDField) {
				idField = i
				break
			}
		}
		if idField < 0 {
			return nil, eris.Wrapf(ErrBadInput, "ingest: id field %q not in shapefile", opts.IDField)
		}
	}

	var polygons []*geometry.Polygon
	var skipped int
	record := 0
	for reader.Next() {
		record++
		_, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}

		rings := splitParts(poly)
		if len(rings) == 0 {
			skipped++
			continue
		}

		id := strconv.Itoa(record)
		if idField >= 0 {
			if v := strings.TrimSpace(strings.TrimRight(reader.Attribute(idField), "\x00")); v != "" {
				id = v
			}
		}

		attrs := make(geometry.Attrs, len(names))
		for i, name := range names {
			raw := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			attrs[name] = geometry.ParseValue(raw)
		}

		pg, err := geometry.NewPolygon(id, rings, opts.CRS, attrs)
		if err != nil {
			skipped++
			zap.L().Debug("ingest: skipping malformed polygon record",
				zap.Int("record", record),
				zap.Error(err),
			)
			continue
		}
		polygons = append(polygons, pg)
	}

	if skipped > 0 {
		zap.L().Warn("ingest: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
			zap.Int("kept", len(polygons)),
		)
	}
	return polygons, nil
}

// splitParts cuts a shapefile polygon into its rings and flips each one from
// shapefile winding (clockwise outers) to the package convention
// (counter-clockwise outers, clockwise holes).
func splitParts(p *shp.Polygon) []geometry.Ring {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	rings := make([]geometry.Ring, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		ring := make(geometry.Ring, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, geometry.Coord{X: p.Points[j].X, Y: p.Points[j].Y})
		}
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		rings = append(rings, ring.Reversed())
	}
	return rings
}
