// Package interp fills missing glucose values in a run of readings. Values are fitted
// against each reading's position in the run, not its timestamp.
package interp

import (
	"ichor/summary/defs"

	"gonum.org/v1/gonum/interp"
)

// Linear fills gaps by piecewise linear interpolation between neighbouring values. Leading
// and trailing gaps take the nearest value.
func Linear(trs []defs.Reading) []defs.Reading {
	var fp interp.FittablePredictor = &interp.PiecewiseLinear{}
	if known(trs) == 1 {
		fp = new(constant)
	}
	return fill(trs, fp, 1, true)
}

// Spline fills interior gaps from a quadratic spline through the known values and trailing
// gaps with the last known value. Leading gaps are left missing. Runs with fewer than three
// known values are returned as is.
func Spline(trs []defs.Reading) []defs.Reading {
	return fill(trs, &QuadraticSpline{}, 3, false)
}

func fill(trs []defs.Reading, fp interp.FittablePredictor, minPoints int, leading bool) []defs.Reading {
	filled := make([]defs.Reading, len(trs))
	copy(filled, trs)

	xs := make([]float64, 0, len(trs))
	ys := make([]float64, 0, len(trs))
	for i, tr := range trs {
		if !tr.Missing {
			xs = append(xs, float64(i))
			ys = append(ys, tr.Mgdl)
		}
	}
	if len(xs) < minPoints || len(xs) == len(trs) {
		return filled
	}
	if err := fp.Fit(xs, ys); err != nil {
		return filled
	}

	for i := range filled {
		if !filled[i].Missing || (!leading && float64(i) < xs[0]) {
			continue
		}
		filled[i].Mgdl = fp.Predict(float64(i))
		filled[i].Missing = false
	}
	return filled
}

func known(trs []defs.Reading) int {
	n := 0
	for _, tr := range trs {
		if !tr.Missing {
			n++
		}
	}
	return n
}

type constant float64

func (c *constant) Fit(_, ys []float64) error {
	*c = constant(ys[0])
	return nil
}

func (c *constant) Predict(float64) float64 {
	return float64(*c)
}
