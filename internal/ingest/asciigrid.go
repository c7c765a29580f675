package ingest

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/billingtt/ppol670-spatial/internal/crs"
	"github.com/billingtt/ppol670-spatial/internal/raster"
)

const defaultNoData = -9999.0

// GridFromASCII parses an ESRI ASCII raster. The header gives the dimensions
// and the lower-left corner; values follow top row first, which matches the
// grid's row-major, top-origin layout.
func GridFromASCII(r io.Reader, system crs.ID) (*raster.Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	header := map[string]float64{"nodata_value": defaultNoData}
	var values []float64

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		// Header lines are "key value" pairs with a non-numeric key.
		if len(fields) == 2 && len(values) == 0 {
			if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
				key := strings.ToLower(fields[0])
				v, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, eris.Wrapf(ErrBadInput, "ingest: header %q has value %q", key, fields[1])
				}
				header[key] = v
				continue
			}
		}

		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, eris.Wrapf(ErrBadInput, "ingest: raster value %q", field)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "ingest: read ascii raster")
	}

	cols, ok := intHeader(header, "ncols")
	if !ok {
		return nil, eris.Wrap(ErrBadInput, "ingest: raster missing ncols")
	}
	rows, ok := intHeader(header, "nrows")
	if !ok {
		return nil, eris.Wrap(ErrBadInput, "ingest: raster missing nrows")
	}
	cellSize, ok := header["cellsize"]
	if !ok {
		return nil, eris.Wrap(ErrBadInput, "ingest: raster missing cellsize")
	}

	// The corner variants give the lower-left cell corner, the center
	// variants the lower-left cell center.
	var originX, lowerY float64
	switch {
	case hasKeys(header, "xllcorner", "yllcorner"):
		originX = header["xllcorner"]
		lowerY = header["yllcorner"]
	case hasKeys(header, "xllcenter", "yllcenter"):
		originX = header["xllcenter"] - cellSize/2
		lowerY = header["yllcenter"] - cellSize/2
	default:
		return nil, eris.Wrap(ErrBadInput, "ingest: raster missing origin")
	}

	originY := lowerY + float64(rows)*cellSize
	return raster.NewGrid(originX, originY, cellSize, rows, cols, system, header["nodata_value"], values)
}

func intHeader(header map[string]float64, key string) (int, bool) {
	v, ok := header[key]
	if !ok || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

func hasKeys(header map[string]float64, keys ...string) bool {
	for _, k := range keys {
		if _, ok := header[k]; !ok {
			return false
		}
	}
	return true
}
