package crs

import (
	"math"

	"github.com/rotisserie/eris"
)

// maxMercatorLat is the latitude bound of the square web mercator world.
const maxMercatorLat = 85.06 * deg2Rad

// Mercator is the spherical web mercator projection used by slippy-map tile
// schemes.
type Mercator struct {
	Radius float64
}

// Forward maps geographic radians to projected meters. Latitudes beyond the
// mercator singularity bound are rejected rather than clamped.
func (m Mercator) Forward(lon, lat float64) (float64, float64, error) {
	if math.Abs(lat) > maxMercatorLat {
		return 0, 0, eris.Errorf("crs: latitude %.4f rad outside mercator bounds", lat)
	}
	x := m.Radius * adjustLon(lon)
	y := m.Radius * math.Log(math.Tan(math.Pi/4+lat/2))
	return x, y, nil
}

// Inverse maps projected meters back to geographic radians.
func (m Mercator) Inverse(x, y float64) (float64, float64, error) {
	lon := adjustLon(x / m.Radius)
	lat := 2*math.Atan(math.Exp(y/m.Radius)) - math.Pi/2
	return lon, lat, nil
}
