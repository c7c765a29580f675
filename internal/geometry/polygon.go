package geometry

import (
	"github.com/rotisserie/eris"

	"github.com/billingtt/ppol670-spatial/internal/crs"
)

// Ring is a closed sequence of coordinates: the first and last vertex are
// equal, and at least three distinct vertices remain after dropping the
// closing one. Winding convention throughout the pipeline: outer rings are
// counter-clockwise (positive signed area), holes clockwise.
type Ring []Coord

// SignedArea returns the shoelace area of the ring: positive for
// counter-clockwise winding, negative for clockwise.
func (r Ring) SignedArea() float64 {
	var sum float64
	for i := 0; i < len(r)-1; i++ {
		sum += r[i].X*r[i+1].Y - r[i+1].X*r[i].Y
	}
	return sum / 2
}

// Reversed returns a copy of the ring with opposite winding.
func (r Ring) Reversed() Ring {
	out := make(Ring, len(r))
	for i, c := range r {
		out[len(r)-1-i] = c
	}
	return out
}

// validate checks closure, vertex count, and coordinate finiteness.
func (r Ring) validate(polyID string, idx int) error {
	if len(r) < 4 {
		return eris.Wrapf(ErrInvalidGeometry, "geometry: polygon %q ring %d has %d vertices, need at least 4", polyID, idx, len(r))
	}
	if r[0] != r[len(r)-1] {
		return eris.Wrapf(ErrInvalidGeometry, "geometry: polygon %q ring %d is not closed", polyID, idx)
	}
	distinct := make(map[Coord]struct{}, len(r)-1)
	for i, c := range r {
		if !c.finite() {
			return eris.Wrapf(ErrInvalidGeometry, "geometry: polygon %q ring %d vertex %d is non-finite", polyID, idx, i)
		}
		if i < len(r)-1 {
			distinct[c] = struct{}{}
		}
	}
	if len(distinct) < 3 {
		return eris.Wrapf(ErrInvalidGeometry, "geometry: polygon %q ring %d has fewer than 3 distinct vertices", polyID, idx)
	}
	return nil
}

// Polygon is a possibly multi-part polygon: outer rings followed by their
// hole rings, all in one ordered sequence. The even-odd containment rule
// makes the grouping irrelevant for point tests, but ring order is preserved
// for encoders that need outer/hole structure.
type Polygon struct {
	ID    string
	Rings []Ring
	CRS   crs.ID
	Attrs Attrs

	bounds BBox
}

// NewPolygon validates every ring and precomputes the bounding box.
func NewPolygon(id string, rings []Ring, system crs.ID, attrs Attrs) (*Polygon, error) {
	if len(rings) == 0 {
		return nil, eris.Wrapf(ErrInvalidGeometry, "geometry: polygon %q has no rings", id)
	}
	var b BBox
	for i, r := range rings {
		if err := r.validate(id, i); err != nil {
			return nil, err
		}
		for _, c := range r {
			b.Extend(c.X, c.Y)
		}
	}
	return &Polygon{ID: id, Rings: rings, CRS: system, Attrs: attrs, bounds: b}, nil
}

// Bounds returns the precomputed bounding box. It is a necessary-but-not-
// sufficient filter for containment: a point outside the box is certainly
// outside the polygon.
func (pg *Polygon) Bounds() BBox {
	return pg.bounds
}

// Area returns the polygon area under the winding convention: outer rings
// contribute positively, holes negatively.
func (pg *Polygon) Area() float64 {
	var sum float64
	for _, r := range pg.Rings {
		sum += r.SignedArea()
	}
	return sum
}

// Transformed returns a copy of the polygon converted into another CRS.
func (pg *Polygon) Transformed(reg *crs.Registry, to crs.ID) (*Polygon, error) {
	if pg.CRS == to {
		return pg, nil
	}
	rings := make([]Ring, len(pg.Rings))
	for i, r := range pg.Rings {
		nr := make(Ring, len(r))
		for j, c := range r {
			x, y, err := reg.Transform(c.X, c.Y, pg.CRS, to)
			if err != nil {
				return nil, eris.Wrapf(err, "geometry: transform polygon %q", pg.ID)
			}
			nr[j] = Coord{X: x, Y: y}
		}
		rings[i] = nr
	}
	return NewPolygon(pg.ID, rings, to, pg.Attrs)
}
