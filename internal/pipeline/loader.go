package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/billingtt/ppol670-spatial/internal/config"
	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/fetcher"
	"github.com/billingtt/ppol670-spatial/internal/geometry"
	"github.com/billingtt/ppol670-spatial/internal/ingest"
	"github.com/billingtt/ppol670-spatial/internal/raster"
)

// LoadPoints reads the point table named by the config. CSV and XLSX are
// told apart by extension.
func LoadPoints(ctx context.Context, cfg config.DataConfig) ([]geometry.Point, error) {
	opts := ingest.PointOptions{
		IDColumn:    cfg.PointIDColumn,
		XColumn:     cfg.PointXColumn,
		YColumn:     cfg.PointYColumn,
		CRS:         crs.ID(cfg.PointsCRS),
		SkipBadRows: true,
	}

	var points []geometry.Point
	var err error
	switch strings.ToLower(filepath.Ext(cfg.PointsPath)) {
	case ".xlsx":
		points, err = ingest.PointsFromXLSX(cfg.PointsPath, opts, fetcher.XLSXOptions{})
	default:
		f, openErr := os.Open(cfg.PointsPath)
		if openErr != nil {
			return nil, eris.Wrapf(openErr, "pipeline: open points %s", cfg.PointsPath)
		}
		defer f.Close() //nolint:errcheck
		points, err = ingest.PointsFromCSV(ctx, f, opts)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("pipeline: loaded points",
		zap.String("path", cfg.PointsPath),
		zap.Int("count", len(points)),
	)
	return points, nil
}

// LoadPolygons reads the boundary layer named by the config.
func LoadPolygons(cfg config.DataConfig) ([]*geometry.Polygon, error) {
	polygons, err := ingest.PolygonsFromShapefile(cfg.BoundariesPath, ingest.ShapefileOptions{
		IDField: cfg.BoundaryID,
		CRS:     crs.ID(cfg.BoundariesCRS),
	})
	if err != nil {
		return nil, err
	}
	if len(polygons) == 0 {
		return nil, eris.Errorf("pipeline: no polygons in %s", cfg.BoundariesPath)
	}

	zap.L().Info("pipeline: loaded boundaries",
		zap.String("path", cfg.BoundariesPath),
		zap.Int("count", len(polygons)),
	)
	return polygons, nil
}

// LoadRaster reads the grid named by the config, coarsening it first when
// the config asks for it. Returns nil when no raster is configured; the
// zonal step is optional.
func LoadRaster(cfg config.DataConfig, downsample int) (*raster.Grid, error) {
	if cfg.RasterPath == "" {
		return nil, nil
	}

	f, err := os.Open(cfg.RasterPath)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: open raster %s", cfg.RasterPath)
	}
	defer f.Close() //nolint:errcheck

	g, err := ingest.GridFromASCII(f, crs.ID(cfg.RasterCRS))
	if err != nil {
		return nil, err
	}
	if downsample > 1 {
		g, err = raster.Downsample(g, downsample)
		if err != nil {
			return nil, err
		}
	}

	zap.L().Info("pipeline: loaded raster",
		zap.String("path", cfg.RasterPath),
		zap.Int("rows", g.Rows),
		zap.Int("cols", g.Cols),
		zap.Float64("cell_size", g.CellSize),
	)
	return g, nil
}
