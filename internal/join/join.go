// Package join assigns points to containing polygons and reduces their
// attributes per polygon.
package join

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
)

// Assignment records where a point landed. Matched is false for points
// outside every polygon; that is an expected state, not an error.
type Assignment struct {
	Point     geometry.Point
	PolygonID string
	Matched   bool
}

// Options tunes a join.
type Options struct {
	// Workers bounds the number of concurrent containment tests.
	// Zero means GOMAXPROCS. Results do not depend on this value: each
	// point writes to its own output slot.
	Workers int
}

// Join assigns each point to the first polygon, in input order, that
// contains it. The input order is the documented tie-break: if polygons
// overlap (a data-quality defect), the earlier polygon wins, deterministically.
//
// All polygons must share one CRS; points in other systems are transformed
// into it before testing. Inputs are read-only and the same inputs always
// produce the same assignments.
func Join(ctx context.Context, points []geometry.Point, polygons []*geometry.Polygon, reg *crs.Registry, opts Options) ([]Assignment, error) {
	if len(polygons) == 0 {
		return nil, eris.New("join: no polygons")
	}
	layerCRS := polygons[0].CRS
	for _, pg := range polygons[1:] {
		if pg.CRS != layerCRS {
			return nil, eris.Wrapf(geometry.ErrCRSMismatch, "join: polygon %q is %s, layer is %s", pg.ID, pg.CRS, layerCRS)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Assignment, len(points))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range points {
		i, p := i, p
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			moved, err := p.Transformed(reg, layerCRS)
			if err != nil {
				return eris.Wrapf(err, "join: point %q", p.ID)
			}
			out[i] = Assignment{Point: p}
			for _, pg := range polygons {
				in, err := pg.Contains(moved)
				if err != nil {
					return err
				}
				if in {
					out[i].PolygonID = pg.ID
					out[i].Matched = true
					break
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	matched := 0
	for _, a := range out {
		if a.Matched {
			matched++
		}
	}
	zap.L().Debug("join: complete",
		zap.Int("points", len(points)),
		zap.Int("polygons", len(polygons)),
		zap.Int("matched", matched),
		zap.Int("unmatched", len(points)-matched),
	)

	return out, nil
}
