// Package model fits the exploratory regression relating per-polygon point
// counts to the zonal raster mean.
package model

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"

	"github.com/billingtt/ppol670-spatial/internal/export"
)

// ErrTooFewRows marks a fit attempted with fewer than two usable rows.
var ErrTooFewRows = eris.New("model: too few rows to fit")

// Fit is an ordinary least squares fit of count on zonal mean.
type Fit struct {
	// Alpha is the intercept, Beta the slope per unit of the predictor.
	Alpha float64
	Beta  float64
	// R2 is the coefficient of determination on the fitted rows.
	R2 float64
	// N counts rows used; Dropped counts rows excluded for a missing
	// predictor.
	N       int
	Dropped int
}

// FitCountOnMean regresses each polygon's point count on its zonal mean.
// Rows with a nil mean carry no predictor and are dropped, not zero-filled;
// imputing zero would pull the line toward fictitious cold polygons.
func FitCountOnMean(rows []export.Row) (*Fit, error) {
	var xs, ys []float64
	var dropped int
	for _, row := range rows {
		if row.ZonalMean == nil {
			dropped++
			continue
		}
		xs = append(xs, *row.ZonalMean)
		ys = append(ys, row.Count)
	}

	if len(xs) < 2 {
		return nil, eris.Wrapf(ErrTooFewRows, "model: %d usable of %d rows", len(xs), len(rows))
	}
	if constant(xs) {
		return nil, eris.New("model: predictor is constant")
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return nil, eris.New("model: regression is degenerate")
	}

	return &Fit{
		Alpha:   alpha,
		Beta:    beta,
		R2:      stat.RSquared(xs, ys, nil, alpha, beta),
		N:       len(xs),
		Dropped: dropped,
	}, nil
}

// Predict evaluates the fitted line at x.
func (f *Fit) Predict(x float64) float64 {
	return f.Alpha + f.Beta*x
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
