// Package ingest turns raw input files into the pipeline's geometry and
// raster types: point tables from CSV or XLSX, boundary polygons from
// shapefiles, and temperature grids from ESRI ASCII rasters.
package ingest

import "github.com/rotisserie/eris"

// ErrBadInput marks an input file the parsers cannot make sense of.
var ErrBadInput = eris.New("ingest: bad input")
