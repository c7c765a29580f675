package crs

import (
	"math"

	"github.com/rotisserie/eris"
)

// AlbersParams defines an Albers conical equal-area projection. Angles are
// in degrees; A and B are the ellipsoid semi-axes in meters.
type AlbersParams struct {
	Lat1, Lat2 float64 // standard parallels
	Lat0, Lon0 float64 // projection origin
	A, B       float64
	X0, Y0     float64 // false easting / northing
}

// Albers is an ellipsoidal Albers conical equal-area projection. The forward
// and inverse equations follow the standard USGS formulation; the inverse
// latitude is found by Newton iteration and converges well inside the
// round-trip tolerance the pipeline promises (1e-6).
type Albers struct {
	lon0, x0, y0 float64
	a, e         float64
	ns0, c, rh   float64
}

// NewAlbers precomputes the projection constants.
func NewAlbers(p AlbersParams) *Albers {
	lat1 := p.Lat1 * deg2Rad
	lat2 := p.Lat2 * deg2Rad
	lat0 := p.Lat0 * deg2Rad

	es := 1 - (p.B/p.A)*(p.B/p.A)
	e := math.Sqrt(es)

	sinPo := math.Sin(lat1)
	cosPo := math.Cos(lat1)
	con := sinPo
	ms1 := msfnz(e, sinPo, cosPo)
	qs1 := qsfnz(e, sinPo)

	sinPo = math.Sin(lat2)
	cosPo = math.Cos(lat2)
	ms2 := msfnz(e, sinPo, cosPo)
	qs2 := qsfnz(e, sinPo)

	qs0 := qsfnz(e, math.Sin(lat0))

	var ns0 float64
	if math.Abs(lat1-lat2) > epsilon {
		ns0 = (ms1*ms1 - ms2*ms2) / (qs2 - qs1)
	} else {
		ns0 = con
	}
	c := ms1*ms1 + ns0*qs1

	return &Albers{
		lon0: p.Lon0 * deg2Rad,
		x0:   p.X0,
		y0:   p.Y0,
		a:    p.A,
		e:    e,
		ns0:  ns0,
		c:    c,
		rh:   p.A * math.Sqrt(c-ns0*qs0) / ns0,
	}
}

// Forward maps geographic radians to projected meters.
func (p *Albers) Forward(lon, lat float64) (float64, float64, error) {
	qs := qsfnz(p.e, math.Sin(lat))
	rh1 := p.a * math.Sqrt(p.c-p.ns0*qs) / p.ns0
	theta := p.ns0 * adjustLon(lon-p.lon0)
	x := rh1*math.Sin(theta) + p.x0
	y := p.rh - rh1*math.Cos(theta) + p.y0
	return x, y, nil
}

// Inverse maps projected meters back to geographic radians.
func (p *Albers) Inverse(x, y float64) (float64, float64, error) {
	x -= p.x0
	y = p.rh - y + p.y0

	var rh1, con float64
	if p.ns0 >= 0 {
		rh1 = math.Sqrt(x*x + y*y)
		con = 1
	} else {
		rh1 = -math.Sqrt(x*x + y*y)
		con = -1
	}
	theta := 0.0
	if rh1 != 0 {
		theta = math.Atan2(con*x, con*y)
	}
	con = rh1 * p.ns0 / p.a
	qs := (p.c - con*con) / p.ns0
	lat, err := albersPhi1z(p.e, qs)
	if err != nil {
		return 0, 0, err
	}
	lon := adjustLon(theta/p.ns0 + p.lon0)
	return lon, lat, nil
}

// albersPhi1z iterates for the inverse latitude.
func albersPhi1z(eccent, qs float64) (float64, error) {
	phi := asinz(0.5 * qs)
	if eccent < epsilon {
		return phi, nil
	}

	eccnts := eccent * eccent
	for i := 0; i < 30; i++ {
		sinphi := math.Sin(phi)
		cosphi := math.Cos(phi)
		con := eccent * sinphi
		com := 1 - con*con
		dphi := 0.5 * com * com / cosphi *
			(qs/(1-eccnts) - sinphi/com + 0.5/eccent*math.Log((1-con)/(1+con)))
		phi += dphi
		if math.Abs(dphi) <= 1e-12 {
			return phi, nil
		}
	}
	return math.NaN(), eris.New("crs: albers inverse did not converge")
}
