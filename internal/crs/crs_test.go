package crs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformIdentity(t *testing.T) {
	reg := Default()

	x, y, err := reg.Transform(-77.0365, 38.8977, Geographic, Geographic)
	require.NoError(t, err)
	assert.Equal(t, -77.0365, x)
	assert.Equal(t, 38.8977, y)
}

func TestTransformUnknownCRS(t *testing.T) {
	reg := Default()

	_, _, err := reg.Transform(0, 0, "EPSG:99999", Geographic)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCRS)

	_, _, err = reg.Transform(0, 0, Geographic, "not-a-crs")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCRS)

	// Identity still requires the CRS to exist.
	_, _, err = reg.Transform(0, 0, "EPSG:99999", "EPSG:99999")
	assert.ErrorIs(t, err, ErrUnknownCRS)
}

func TestRoundTripLaw(t *testing.T) {
	reg := Default()

	// Points spread across CONUS.
	points := [][2]float64{
		{-77.0365, 38.8977}, // Washington DC
		{-122.4194, 37.7749},
		{-96.0, 23.0}, // projection origin
		{-67.0, 45.0},
		{-104.99, 39.74},
	}

	pairs := [][2]ID{
		{Geographic, AlbersCONUS},
		{Geographic, WebMercator},
		{AlbersCONUS, WebMercator},
	}

	for _, pair := range pairs {
		for _, pt := range points {
			x0, y0 := pt[0], pt[1]
			if pair[0] != Geographic {
				var err error
				x0, y0, err = reg.Transform(x0, y0, Geographic, pair[0])
				require.NoError(t, err)
			}

			fx, fy, err := reg.Transform(x0, y0, pair[0], pair[1])
			require.NoError(t, err)
			bx, by, err := reg.Transform(fx, fy, pair[1], pair[0])
			require.NoError(t, err)

			assert.InDeltaf(t, x0, bx, 1e-6, "%s<->%s x for %v", pair[0], pair[1], pt)
			assert.InDeltaf(t, y0, by, 1e-6, "%s<->%s y for %v", pair[0], pair[1], pt)
		}
	}
}

func TestAlbersKnownValues(t *testing.T) {
	reg := Default()

	// The projection origin maps to the false origin.
	x, y, err := reg.Transform(-96.0, 23.0, Geographic, AlbersCONUS)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	// East of the central meridian projects to positive x, and points north
	// of the origin latitude to positive y.
	x, y, err = reg.Transform(-77.0, 39.0, Geographic, AlbersCONUS)
	require.NoError(t, err)
	assert.Positive(t, x)
	assert.Positive(t, y)

	// Equal-area projections preserve the sign of longitude offsets.
	xw, _, err := reg.Transform(-115.0, 39.0, Geographic, AlbersCONUS)
	require.NoError(t, err)
	assert.Negative(t, xw)
}

func TestMercatorKnownValues(t *testing.T) {
	m := Mercator{Radius: grs80A}

	// Equator and prime meridian map to the origin.
	x, y, err := m.Forward(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	// 180 degrees maps to half the world circumference.
	x, _, err = m.Forward(math.Pi, 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi*grs80A, x, 1e-3)

	// Polar latitudes are rejected.
	_, _, err = m.Forward(0, 89.9*deg2Rad)
	assert.Error(t, err)
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Geographic, LonLat{})

	p, err := reg.Projection(Geographic)
	require.NoError(t, err)
	assert.IsType(t, LonLat{}, p)

	reg.Register(Geographic, Mercator{Radius: 1})
	p, err = reg.Projection(Geographic)
	require.NoError(t, err)
	assert.IsType(t, Mercator{}, p)
}
