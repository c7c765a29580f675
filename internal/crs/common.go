package crs

import "math"

// GRS80 ellipsoid, shared by EPSG:4326 and EPSG:5070.
const (
	grs80A = 6378137.0
	grs80B = 6356752.314140356
)

const (
	deg2Rad = math.Pi / 180
	rad2Deg = 180 / math.Pi
	epsilon = 1e-10
)

// adjustLon wraps a longitude into [-pi, pi].
func adjustLon(lon float64) float64 {
	if math.Abs(lon) <= math.Pi {
		return lon
	}
	return lon - sign(lon)*2*math.Pi
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// asinz clamps its argument to [-1, 1] before taking the arcsine, guarding
// against rounding just outside the domain.
func asinz(v float64) float64 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return math.Asin(v)
}

// msfnz computes the small m constant for conic projections:
// cos(phi) / sqrt(1 - e^2 sin^2(phi)).
func msfnz(eccent, sinphi, cosphi float64) float64 {
	con := eccent * sinphi
	return cosphi / math.Sqrt(1 - con*con)
}

// qsfnz computes the q constant used by equal-area projections.
func qsfnz(eccent, sinphi float64) float64 {
	if eccent <= 1e-7 {
		return 2 * sinphi
	}
	con := eccent * sinphi
	return (1 - eccent*eccent) * (sinphi/(1-con*con) - (0.5/eccent)*math.Log((1-con)/(1+con)))
}
