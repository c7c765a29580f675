package crs

// LonLat is the geographic "projection": plane coordinates are longitude and
// latitude in degrees, so Forward and Inverse only convert between degrees
// and the radians used on the geographic pipeline.
type LonLat struct{}

// Forward converts geographic radians to degrees.
func (LonLat) Forward(lon, lat float64) (float64, float64, error) {
	return lon * rad2Deg, lat * rad2Deg, nil
}

// Inverse converts degrees to geographic radians.
func (LonLat) Inverse(x, y float64) (float64, float64, error) {
	return x * deg2Rad, y * deg2Rad, nil
}
