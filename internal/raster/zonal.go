package raster

import (
	"context"
	"math"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
)

// ZonalResult pairs a polygon with its zonal mean. Mean is nil when no cell
// center fell inside the polygon; nil is a valid result, distinct from a
// computed mean of zero, and must stay distinct downstream.
type ZonalResult struct {
	PolygonID string
	Mean      *float64
}

// ZonalMean averages the grid values whose cell centers fall inside the
// polygon. Candidate cells are limited to those whose extent intersects the
// polygon's bounding box; each candidate center is transformed into the
// polygon's CRS before the containment test. NoData cells are excluded.
func ZonalMean(g *Grid, pg *geometry.Polygon, reg *crs.Registry) (*float64, error) {
	r0, r1, c0, c1, ok, err := candidateCells(g, pg, reg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var sum float64
	var n int
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			v := g.Value(r, c)
			if g.IsNoData(v) {
				continue
			}
			cx, cy := g.CellCenter(r, c)
			px, py, err := reg.Transform(cx, cy, g.CRS, pg.CRS)
			if err != nil {
				return nil, eris.Wrap(err, "raster: transform cell center")
			}
			pt := geometry.Point{X: px, Y: py, CRS: pg.CRS}
			in, err := pg.Contains(pt)
			if err != nil {
				return nil, err
			}
			if in {
				sum += v
				n++
			}
		}
	}

	if n == 0 {
		return nil, nil
	}
	mean := sum / float64(n)
	return &mean, nil
}

// ZonalMeanAll computes the zonal mean for every polygon, in input order.
// Polygons are independent, so the work is spread over a bounded group;
// each polygon writes its own slot and the output does not depend on
// scheduling.
func ZonalMeanAll(ctx context.Context, g *Grid, polygons []*geometry.Polygon, reg *crs.Registry, workers int) ([]ZonalResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]ZonalResult, len(polygons))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, pg := range polygons {
		i, pg := i, pg
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			mean, err := ZonalMean(g, pg, reg)
			if err != nil {
				return eris.Wrapf(err, "raster: zonal mean for %q", pg.ID)
			}
			out[i] = ZonalResult{PolygonID: pg.ID, Mean: mean}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// candidateCells returns the inclusive cell index range whose extent can
// intersect the polygon, by projecting the polygon's bounding box corners
// into the grid CRS. ok is false when the boxes are disjoint.
func candidateCells(g *Grid, pg *geometry.Polygon, reg *crs.Registry) (r0, r1, c0, c1 int, ok bool, err error) {
	pb := pg.Bounds()
	corners := [4][2]float64{
		{pb.MinX, pb.MinY},
		{pb.MaxX, pb.MinY},
		{pb.MaxX, pb.MaxY},
		{pb.MinX, pb.MaxY},
	}

	var env geometry.BBox
	for _, corner := range corners {
		x, y, terr := reg.Transform(corner[0], corner[1], pg.CRS, g.CRS)
		if terr != nil {
			return 0, 0, 0, 0, false, eris.Wrap(terr, "raster: project polygon bounds")
		}
		env.Extend(x, y)
	}

	if !env.Intersects(g.Bounds()) {
		return 0, 0, 0, 0, false, nil
	}

	// One extra cell on every side covers curvature the corner envelope
	// misses under a nonlinear projection.
	c0 = int(math.Floor((env.MinX-g.OriginX)/g.CellSize)) - 1
	c1 = int(math.Floor((env.MaxX-g.OriginX)/g.CellSize)) + 1
	r0 = int(math.Floor((g.OriginY-env.MaxY)/g.CellSize)) - 1
	r1 = int(math.Floor((g.OriginY-env.MinY)/g.CellSize)) + 1

	c0 = max(c0, 0)
	r0 = max(r0, 0)
	c1 = min(c1, g.Cols-1)
	r1 = min(r1, g.Rows-1)

	if c0 > c1 || r0 > r1 {
		return 0, 0, 0, 0, false, nil
	}
	return r0, r1, c0, c1, true, nil
}
