// Package geometry holds the in-memory vector model for the pipeline: points
// and (multi-part) polygons tagged with a CRS, plus the containment test that
// drives the spatial join.
//
// Geometries are constructed once at the ingestion boundary and treated as
// read-only afterward; nothing in the pipeline mutates a Point or Polygon
// after NewPoint/NewPolygon returns it.
package geometry

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/billingtt/ppol670-spatial/internal/crs"
)

// Error taxonomy for the vector model.
var (
	// ErrInvalidGeometry marks malformed input: open rings, too few
	// vertices, or non-finite coordinates.
	ErrInvalidGeometry = eris.New("geometry: invalid geometry")

	// ErrCRSMismatch marks a comparison between geometries in different
	// systems without an explicit Transform. That is a caller bug and fails
	// fast rather than silently producing wrong results.
	ErrCRSMismatch = eris.New("geometry: CRS mismatch")
)

// Coord is an x/y coordinate pair in some CRS.
type Coord struct {
	X float64
	Y float64
}

func (c Coord) finite() bool {
	return !math.IsNaN(c.X) && !math.IsInf(c.X, 0) &&
		!math.IsNaN(c.Y) && !math.IsInf(c.Y, 0)
}

// Point is a single location with attached attributes.
type Point struct {
	ID    string
	X     float64
	Y     float64
	CRS   crs.ID
	Attrs Attrs
}

// NewPoint validates the coordinates and returns an immutable point.
func NewPoint(id string, x, y float64, system crs.ID, attrs Attrs) (Point, error) {
	if !(Coord{X: x, Y: y}).finite() {
		return Point{}, eris.Wrapf(ErrInvalidGeometry, "geometry: point %q has non-finite coordinates (%v, %v)", id, x, y)
	}
	return Point{ID: id, X: x, Y: y, CRS: system, Attrs: attrs}, nil
}

// Transformed returns a copy of the point converted into another CRS. The
// original point is left untouched.
func (p Point) Transformed(reg *crs.Registry, to crs.ID) (Point, error) {
	if p.CRS == to {
		return p, nil
	}
	x, y, err := reg.Transform(p.X, p.Y, p.CRS, to)
	if err != nil {
		return Point{}, eris.Wrapf(err, "geometry: transform point %q", p.ID)
	}
	out := p
	out.X = x
	out.Y = y
	out.CRS = to
	return out, nil
}
