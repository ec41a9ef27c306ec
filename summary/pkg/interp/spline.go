package interp

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/lapack/gonum"
)

const degree = 2

var _ interp.FittablePredictor = (*QuadraticSpline)(nil)

// QuadraticSpline is the interpolating quadratic B-spline through every point, with interior
// knots at the midpoints between neighbouring points. The coefficients solve a tridiagonal
// system over the whole run, so a disturbance at one point decays away from it instead of
// accumulating. Quadratic data is reproduced exactly. Outside the fitted points the nearest
// end value is held.
type QuadraticSpline struct {
	xs    []float64
	ys    []float64
	knots []float64
	coefs []float64
}

func (qs *QuadraticSpline) Fit(xs, ys []float64) error {
	n := len(xs)
	if n != len(ys) {
		return errors.New("interp: input slices have different lengths")
	}
	if n < degree+1 {
		return errors.New("interp: too few points for quadratic spline")
	}
	for i := 1; i < n; i++ {
		if xs[i] <= xs[i-1] {
			return errors.New("interp: xs not strictly increasing")
		}
	}

	knots := make([]float64, 0, n+degree+1)
	knots = append(knots, xs[0], xs[0], xs[0])
	for i := 1; i < n-2; i++ {
		knots = append(knots, (xs[i]+xs[i+1])/2)
	}
	knots = append(knots, xs[n-1], xs[n-1], xs[n-1])

	// Row i evaluates the basis at xs[i]. Only splines i-1, i and i+1 are non zero there.
	dl := make([]float64, n-1)
	d := make([]float64, n)
	du := make([]float64, n-1)
	d[0], d[n-1] = 1, 1
	for i := 1; i < n-1; i++ {
		basis := basisAt(knots, i+1, xs[i])
		dl[i-1], d[i], du[i] = basis[0], basis[1], basis[2]
	}

	coefs := append([]float64(nil), ys...)
	if ok := (gonum.Implementation{}).Dgtsv(n, 1, dl, d, du, coefs, 1); !ok {
		return errors.New("interp: singular spline system")
	}

	qs.xs = append(qs.xs[:0], xs...)
	qs.ys = append(qs.ys[:0], ys...)
	qs.knots = knots
	qs.coefs = coefs
	return nil
}

func (qs *QuadraticSpline) Predict(x float64) float64 {
	n := len(qs.xs)
	if x <= qs.xs[0] {
		return qs.ys[0]
	}
	if x >= qs.xs[n-1] {
		return qs.ys[n-1]
	}

	// Knot span holding x, clamped to the spans between the end knots.
	s := sort.Search(len(qs.knots), func(k int) bool { return qs.knots[k] > x }) - 1
	if s < degree {
		s = degree
	}
	if s > n-1 {
		s = n - 1
	}

	var y float64
	for r, b := range basisAt(qs.knots, s, x) {
		y += b * qs.coefs[s-degree+r]
	}
	return y
}

// basisAt evaluates the quadratic B-splines s-2, s-1 and s at x, where x lies in the knot
// span [knots[s], knots[s+1]).
func basisAt(knots []float64, s int, x float64) [degree + 1]float64 {
	var basis [degree + 1]float64
	var left, right [degree + 1]float64
	basis[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = x - knots[s+1-j]
		right[j] = knots[s+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := basis[r] / (right[r+1] + left[j-r])
			basis[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		basis[j] = saved
	}
	return basis
}
