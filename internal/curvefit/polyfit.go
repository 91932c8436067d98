// Package curvefit fits polynomials to evenly spaced samples by solving the
// normal equations with Gaussian elimination.
package curvefit

import "math"

// singularTolerance is the smallest pivot magnitude accepted during elimination.
const singularTolerance = 1e-9

// PolyFit fits y[i] ≈ Σ c[j]·i^j for j in [0, degree] and returns the
// coefficients lowest power first. A nil result means the system was
// numerically singular; callers fall back to the last observed value.
func PolyFit(y []float64, degree int) []float64 {
	if degree < 0 || len(y) == 0 {
		return nil
	}
	m := degree + 1

	a := make([][]float64, m)
	for i := range a {
		a[i] = make([]float64, m)
	}
	b := make([]float64, m)

	powers := make([]float64, m)
	for i, yi := range y {
		x := float64(i)
		v := 1.0
		for j := 0; j < m; j++ {
			powers[j] = v
			v *= x
		}
		for row := 0; row < m; row++ {
			for col := 0; col < m; col++ {
				a[row][col] += powers[row] * powers[col]
			}
			b[row] += powers[row] * yi
		}
	}

	coeffs, ok := Solve(a, b)
	if !ok {
		return nil
	}
	return coeffs
}

// Eval evaluates the polynomial with the given coefficients at x.
func Eval(coeffs []float64, x float64) float64 {
	var y float64
	v := 1.0
	for _, c := range coeffs {
		y += c * v
		v *= x
	}
	return y
}

// Solve solves a·x = b in place using Gaussian elimination with partial
// pivoting. It reports false when a pivot falls below singularTolerance.
// a and b are modified.
func Solve(a [][]float64, b []float64) ([]float64, bool) {
	n := len(a)
	if n == 0 || len(b) != n {
		return nil, false
	}

	for i := 0; i < n; i++ {
		pivot := i
		for k := i + 1; k < n; k++ {
			if math.Abs(a[k][i]) > math.Abs(a[pivot][i]) {
				pivot = k
			}
		}
		a[i], a[pivot] = a[pivot], a[i]
		b[i], b[pivot] = b[pivot], b[i]

		if math.Abs(a[i][i]) < singularTolerance {
			return nil, false
		}

		for k := i + 1; k < n; k++ {
			c := -a[k][i] / a[i][i]
			a[k][i] = 0
			for j := i + 1; j < n; j++ {
				a[k][j] += c * a[i][j]
			}
			b[k] += c * b[i]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		var sum float64
		for j := i + 1; j < n; j++ {
			sum += a[i][j] * x[j]
		}
		x[i] = (b[i] - sum) / a[i][i]
	}
	return x, true
}
