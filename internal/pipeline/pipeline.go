// Package pipeline wires ingestion, the spatial join, zonal statistics, the
// regression, and persistence into one run.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/billingtt/ppol670-spatial/internal/config"
	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/export"
	"github.com/billingtt/ppol670-spatial/internal/join"
	"github.com/billingtt/ppol670-spatial/internal/model"
	"github.com/billingtt/ppol670-spatial/internal/raster"
	"github.com/billingtt/ppol670-spatial/internal/store"
)

// Result is everything one run produces.
type Result struct {
	RunID     string
	Rows      []export.Row
	Fit       *model.Fit
	Points    int
	Polygons  int
	Unmatched int
}

// Pipeline runs the full analysis. The store is optional; without one the
// run still produces a Result but records nothing.
type Pipeline struct {
	cfg   *config.Config
	reg   *crs.Registry
	store store.Store
}

// New creates a Pipeline.
func New(cfg *config.Config, reg *crs.Registry, st store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, reg: reg, store: st}
}

// Run loads the configured inputs and executes join, zonal, and model
// steps. The zonal and model steps are skipped when no raster is
// configured. Failures after run creation are recorded against the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := zap.L().With(
		zap.String("points", p.cfg.Data.PointsPath),
		zap.String("boundaries", p.cfg.Data.BoundariesPath),
	)
	log.Info("pipeline: starting run")
	start := time.Now()

	var runID string
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, store.RunParams{
			PointsPath:     p.cfg.Data.PointsPath,
			BoundariesPath: p.cfg.Data.BoundariesPath,
			RasterPath:     p.cfg.Data.RasterPath,
			JoinCRS:        p.cfg.Data.BoundariesCRS,
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		runID = run.ID
		if err := p.store.UpdateRunStatus(ctx, runID, store.RunStatusRunning); err != nil {
			log.Warn("pipeline: failed to update status", zap.Error(err))
		}
	}

	result, err := p.execute(ctx)
	if err != nil {
		if p.store != nil && runID != "" {
			if failErr := p.store.FailRun(ctx, runID, err.Error()); failErr != nil {
				log.Warn("pipeline: failed to record failure", zap.Error(failErr))
			}
		}
		return nil, err
	}
	result.RunID = runID

	if p.store != nil && runID != "" {
		if err := p.store.SaveRows(ctx, runID, result.Rows); err != nil {
			return nil, eris.Wrap(err, "pipeline: save rows")
		}
		summary := &store.RunSummary{
			Points:    result.Points,
			Polygons:  result.Polygons,
			Unmatched: result.Unmatched,
			Rows:      len(result.Rows),
			Fit:       result.Fit,
		}
		if err := p.store.CompleteRun(ctx, runID, summary); err != nil {
			return nil, eris.Wrap(err, "pipeline: complete run")
		}
	}

	log.Info("pipeline: run complete",
		zap.String("run_id", runID),
		zap.Int("rows", len(result.Rows)),
		zap.Int("unmatched", result.Unmatched),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context) (*Result, error) {
	points, err := LoadPoints(ctx, p.cfg.Data)
	if err != nil {
		return nil, err
	}
	polygons, err := LoadPolygons(p.cfg.Data)
	if err != nil {
		return nil, err
	}
	grid, err := LoadRaster(p.cfg.Data, p.cfg.Zonal.Downsample)
	if err != nil {
		return nil, err
	}

	assignments, err := join.Join(ctx, points, polygons, p.reg, join.Options{
		Workers: p.cfg.Join.Workers,
	})
	if err != nil {
		return nil, err
	}

	reducer := join.Reducer(join.Count)
	if p.cfg.Join.CountAttr != "" {
		reducer = join.Sum
	}
	counts, unmatched, err := join.Aggregate(assignments, p.cfg.Join.CountAttr, reducer)
	if err != nil {
		return nil, err
	}

	var zonal []raster.ZonalResult
	if grid != nil {
		zonal, err = raster.ZonalMeanAll(ctx, grid, polygons, p.reg, p.cfg.Zonal.Workers)
		if err != nil {
			return nil, err
		}
	}

	rows := export.BuildTable(polygons, counts, zonal)

	var fit *model.Fit
	if grid != nil {
		fit, err = model.FitCountOnMean(rows)
		if err != nil {
			// The regression is advisory; a degenerate fit does not
			// invalidate the aggregates.
			zap.L().Warn("pipeline: regression skipped", zap.Error(err))
			fit = nil
		}
	}

	return &Result{
		Rows:      rows,
		Fit:       fit,
		Points:    len(points),
		Polygons:  len(polygons),
		Unmatched: unmatched,
	}, nil
}
