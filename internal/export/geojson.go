package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
)

// WriteGeoJSON writes polygons and their aggregate rows as a GeoJSON
// FeatureCollection. Geometries are emitted in geographic coordinates, so
// projected layers are unprojected first. Feature properties carry the
// polygon's attributes plus "count" and "zonal_mean"; a nil mean becomes a
// JSON null.
func WriteGeoJSON(w io.Writer, polygons []*geometry.Polygon, rows []Row, reg *crs.Registry) error {
	byID := make(map[string]Row, len(rows))
	for _, row := range rows {
		byID[row.PolygonID] = row
	}

	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(polygons))}
	for _, pg := range polygons {
		unprojected, err := pg.Transformed(reg, crs.Geographic)
		if err != nil {
			return eris.Wrapf(err, "export: unproject polygon %q", pg.ID)
		}

		g, err := toGeom(unprojected)
		if err != nil {
			return err
		}

		props := make(map[string]any, len(pg.Attrs)+2)
		for name, v := range pg.Attrs {
			props[name] = v.Interface()
		}
		row := byID[pg.ID]
		props["count"] = row.Count
		if row.ZonalMean != nil {
			props["zonal_mean"] = *row.ZonalMean
		} else {
			props["zonal_mean"] = nil
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         pg.ID,
			Geometry:   g,
			Properties: props,
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(&fc); err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	return nil
}

// toGeom regroups the flat ring list into polygons: a counter-clockwise ring
// opens a new polygon and clockwise rings are holes in the one before. A
// single-polygon shape is emitted as Polygon, multi-part as MultiPolygon.
func toGeom(pg *geometry.Polygon) (geom.T, error) {
	var parts []*geom.Polygon
	for _, ring := range pg.Rings {
		lr := geom.NewLinearRingFlat(geom.XY, flatCoords(ring))
		if ring.SignedArea() >= 0 || len(parts) == 0 {
			parts = append(parts, geom.NewPolygon(geom.XY))
		}
		current := parts[len(parts)-1]
		if err := current.Push(lr); err != nil {
			return nil, eris.Wrapf(err, "export: build geometry for %q", pg.ID)
		}
	}

	if len(parts) == 1 {
		return parts[0].SetSRID(4326), nil
	}
	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for _, part := range parts {
		if err := mp.Push(part); err != nil {
			return nil, eris.Wrapf(err, "export: build multipolygon for %q", pg.ID)
		}
	}
	return mp, nil
}

func flatCoords(ring geometry.Ring) []float64 {
	flat := make([]float64, 0, len(ring)*2)
	for _, c := range ring {
		flat = append(flat, c.X, c.Y)
	}
	return flat
}
