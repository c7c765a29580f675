// Package crs provides coordinate reference system definitions and
// transformations between them.
//
// Coordinates are only comparable when they carry the same CRS ID; anything
// else must go through Transform first. The registry is explicit rather than
// a package-level global: it is built once at startup and read-only after
// that.
package crs

import (
	"github.com/rotisserie/eris"
)

// ID identifies a coordinate reference system, e.g. "EPSG:4326".
type ID string

// Well-known systems registered by Default.
const (
	Geographic  ID = "EPSG:4326" // lon/lat degrees on GRS80
	AlbersCONUS ID = "EPSG:5070" // CONUS Albers equal-area, meters
	WebMercator ID = "EPSG:3857" // spherical web mercator, meters
)

// ErrUnknownCRS is returned when a CRS ID has not been registered.
var ErrUnknownCRS = eris.New("crs: unknown CRS")

// Projection converts between geographic coordinates (longitude/latitude in
// radians) and the projected plane. Forward maps geographic to projected;
// Inverse maps projected back to geographic.
type Projection interface {
	Forward(lon, lat float64) (x, y float64, err error)
	Inverse(x, y float64) (lon, lat float64, err error)
}

// Registry maps CRS IDs to projection definitions. Populate it during
// startup; it is not safe for concurrent mutation afterward, and none of the
// pipeline code mutates it.
type Registry struct {
	projections map[ID]Projection
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{projections: make(map[ID]Projection)}
}

// Register adds a projection under the given ID, replacing any previous
// definition.
func (r *Registry) Register(id ID, p Projection) {
	r.projections[id] = p
}

// Projection looks up the projection for an ID.
func (r *Registry) Projection(id ID) (Projection, error) {
	p, ok := r.projections[id]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownCRS, "crs: %q not registered", id)
	}
	return p, nil
}

// Transform converts a single coordinate pair from one registered system to
// another. It is a pure function of its inputs; from == to is the identity.
func (r *Registry) Transform(x, y float64, from, to ID) (float64, float64, error) {
	if from == to {
		if _, err := r.Projection(from); err != nil {
			return 0, 0, err
		}
		return x, y, nil
	}
	src, err := r.Projection(from)
	if err != nil {
		return 0, 0, err
	}
	dst, err := r.Projection(to)
	if err != nil {
		return 0, 0, err
	}
	lon, lat, err := src.Inverse(x, y)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "crs: inverse %s", from)
	}
	px, py, err := dst.Forward(lon, lat)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "crs: forward %s", to)
	}
	return px, py, nil
}

// Default returns a registry with the systems the pipeline uses: geographic
// lon/lat (EPSG:4326), CONUS Albers equal-area (EPSG:5070), and web mercator
// (EPSG:3857).
func Default() *Registry {
	r := NewRegistry()
	r.Register(Geographic, LonLat{})
	r.Register(AlbersCONUS, NewAlbers(AlbersParams{
		Lat1: 29.5,
		Lat2: 45.5,
		Lat0: 23.0,
		Lon0: -96.0,
		A:    grs80A,
		B:    grs80B,
	}))
	r.Register(WebMercator, Mercator{Radius: grs80A})
	return r
}
