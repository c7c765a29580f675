package geometry

import "github.com/rotisserie/eris"

// Contains reports whether the point lies strictly inside the polygon, using
// even-odd ray casting over every ring (PNPoly). A point inside an outer
// ring crosses an odd number of edges; a hole adds two more crossings, so
// the even-odd rule handles holes and multi-part polygons uniformly.
//
// Boundary policy: a point exactly on a ring edge or vertex is exterior.
// This keeps assignment deterministic when adjacent polygons share an edge;
// the shared point belongs to neither.
//
// Both geometries must be in the same CRS; anything else is a caller bug and
// returns ErrCRSMismatch.
func (pg *Polygon) Contains(p Point) (bool, error) {
	if pg.CRS != p.CRS {
		return false, eris.Wrapf(ErrCRSMismatch, "geometry: polygon %q is %s, point %q is %s", pg.ID, pg.CRS, p.ID, p.CRS)
	}
	if !pg.bounds.Contains(p.X, p.Y) {
		return false, nil
	}

	inside := false
	for _, ring := range pg.Rings {
		for i := 0; i < len(ring)-1; i++ {
			a, b := ring[i], ring[i+1]
			if onSegment(p.X, p.Y, a, b) {
				return false, nil
			}
			if rayCrosses(p.X, p.Y, a, b) {
				inside = !inside
			}
		}
	}
	return inside, nil
}

// rayCrosses reports whether a ray cast from (x, y) toward +x crosses the
// segment a-b. Expression per the classic PNPoly formulation.
func rayCrosses(x, y float64, a, b Coord) bool {
	return (a.Y > y) != (b.Y > y) &&
		x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X
}

// onSegment reports whether (x, y) lies exactly on the segment a-b,
// including its endpoints. Exact comparison is intentional: the boundary
// rule only needs to be deterministic, not tolerant.
func onSegment(x, y float64, a, b Coord) bool {
	cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
	if cross != 0 {
		return false
	}
	if x < min(a.X, b.X) || x > max(a.X, b.X) {
		return false
	}
	if y < min(a.Y, b.Y) || y > max(a.Y, b.Y) {
		return false
	}
	return true
}
