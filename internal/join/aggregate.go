package join

import (
	"github.com/rotisserie/eris"
)

// Reducer folds a group of attribute values into one number.
type Reducer func(values []float64) float64

// Sum adds the group.
func Sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// Mean averages the group. Aggregate never calls a reducer with an empty
// group, so division by zero cannot occur there.
func Mean(values []float64) float64 {
	return Sum(values) / float64(len(values))
}

// Count returns the group size.
func Count(values []float64) float64 {
	return float64(len(values))
}

// Aggregate groups point attribute values by assigned polygon and reduces
// each group. Unmatched points are excluded from every group and counted in
// the second return value. Polygons that received no points are simply
// absent from the map; callers joining back onto the full polygon set decide
// how to fill those gaps.
//
// attr names the numeric attribute to reduce. The empty string means "one
// per point", so Sum doubles as a point count. Points whose attribute is
// missing or non-numeric are skipped.
func Aggregate(assignments []Assignment, attr string, reduce Reducer) (map[string]float64, int, error) {
	if reduce == nil {
		return nil, 0, eris.New("join: nil reducer")
	}

	groups := make(map[string][]float64)
	unmatched := 0
	for _, a := range assignments {
		if !a.Matched {
			unmatched++
			continue
		}
		if attr == "" {
			groups[a.PolygonID] = append(groups[a.PolygonID], 1)
			continue
		}
		v, ok := a.Point.Attrs[attr].AsNumber()
		if !ok {
			continue
		}
		groups[a.PolygonID] = append(groups[a.PolygonID], v)
	}

	out := make(map[string]float64, len(groups))
	for id, values := range groups {
		out[id] = reduce(values)
	}
	return out, unmatched, nil
}
