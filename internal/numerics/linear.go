package numerics

import (
	"errors"
	"math"
)

// ─────────────────────────────────────────────────────────────────────────────
// Small Direct Linear Solvers
// ─────────────────────────────────────────────────────────────────────────────

// ErrSingular is returned when a linear system has no unique solution.
var ErrSingular = errors.New("singular matrix")

// Solve2Direct solves a 2x2 linear system A·x = b by Cramer's rule.
func Solve2Direct(a [][]float64, b []float64) ([]float64, error) {
	det := a[0][0]*a[1][1] - a[0][1]*a[1][0]
	if det == 0.0 {
		return nil, ErrSingular
	}
	inv := 1.0 / det
	return []float64{
		(b[0]*a[1][1] - b[1]*a[0][1]) * inv,
		(b[1]*a[0][0] - b[0]*a[1][0]) * inv,
	}, nil
}

// Solve3Direct solves a 3x3 linear system A·x = b by Cramer's rule.
func Solve3Direct(a [][]float64, b []float64) ([]float64, error) {
	c00 := a[1][1]*a[2][2] - a[1][2]*a[2][1]
	c01 := a[1][2]*a[2][0] - a[1][0]*a[2][2]
	c02 := a[1][0]*a[2][1] - a[1][1]*a[2][0]
	det := a[0][0]*c00 + a[0][1]*c01 + a[0][2]*c02
	if det == 0.0 {
		return nil, ErrSingular
	}
	inv := 1.0 / det
	x0 := b[0]*c00 + b[1]*(a[0][2]*a[2][1]-a[0][1]*a[2][2]) + b[2]*(a[0][1]*a[1][2]-a[0][2]*a[1][1])
	x1 := b[0]*c01 + b[1]*(a[0][0]*a[2][2]-a[0][2]*a[2][0]) + b[2]*(a[0][2]*a[1][0]-a[0][0]*a[1][2])
	x2 := b[0]*c02 + b[1]*(a[0][1]*a[2][0]-a[0][0]*a[2][1]) + b[2]*(a[0][0]*a[1][1]-a[0][1]*a[1][0])
	return []float64{x0 * inv, x1 * inv, x2 * inv}, nil
}

// Solve4Direct solves a 4x4 linear system A·x = b by Gaussian elimination
// on a stack-friendly copy. Kept separate so call sites document their
// dimensionality.
func Solve4Direct(a [][]float64, b []float64) ([]float64, error) {
	return GaussSolve(a, b)
}

// GaussSolve solves an NxN linear system A·x = b using Gaussian elimination
// with partial pivoting. The inputs are not modified.
func GaussSolve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	for i := 0; i < n; i++ {
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		pivotMag := math.Abs(m[col][col])
		for row := col + 1; row < n; row++ {
			if mag := math.Abs(m[row][col]); mag > pivotMag {
				pivot, pivotMag = row, mag
			}
		}
		if pivotMag == 0.0 {
			return nil, ErrSingular
		}
		m[col], m[pivot] = m[pivot], m[col]

		inv := 1.0 / m[col][col]
		for row := col + 1; row < n; row++ {
			factor := m[row][col] * inv
			if factor == 0.0 {
				continue
			}
			for k := col; k <= n; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := m[row][n]
		for k := row + 1; k < n; k++ {
			sum -= m[row][k] * x[k]
		}
		x[row] = sum / m[row][row]
	}
	return x, nil
}
