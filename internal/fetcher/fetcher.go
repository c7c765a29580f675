// Package fetcher downloads and parses the pipeline's raw inputs: zipped
// boundary shapefiles and raster grids over HTTP or FTP, and tabular case
// data from CSV or XLSX files.
package fetcher

import (
	"context"
	"io"
)

// Fetcher downloads remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path.
	// Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
