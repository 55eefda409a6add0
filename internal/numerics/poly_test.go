package numerics

import (
	"math"
	"math/cmplx"
	"sort"
	"testing"
)

func sortRoots(rs []complex128) {
	sort.Slice(rs, func(i, j int) bool {
		if real(rs[i]) != real(rs[j]) {
			return real(rs[i]) < real(rs[j])
		}
		return imag(rs[i]) < imag(rs[j])
	})
}

func TestRootsCubic(t *testing.T) {
	t.Run("three real roots", func(t *testing.T) {
		// (x-1)(x-2)(x-3) = x^3 - 6x^2 + 11x - 6
		roots := RootsCubic(1, -6, 11, -6)
		if len(roots) != 3 {
			t.Fatalf("got %d roots", len(roots))
		}
		sortRoots(roots)
		want := []float64{1, 2, 3}
		for i, w := range want {
			if math.Abs(real(roots[i])-w) > 1e-10 || math.Abs(imag(roots[i])) > 1e-10 {
				t.Errorf("roots[%d] = %v, want %v", i, roots[i], w)
			}
		}
	})

	t.Run("complex pair", func(t *testing.T) {
		// (x-1)(x^2+1) = x^3 - x^2 + x - 1
		roots := RootsCubic(1, -1, 1, -1)
		nReal := 0
		for _, r := range roots {
			if math.Abs(imag(r)) < 1e-10 {
				nReal++
				if math.Abs(real(r)-1.0) > 1e-10 {
					t.Errorf("real root = %v, want 1", r)
				}
			} else if math.Abs(cmplx.Abs(r)-1.0) > 1e-10 {
				t.Errorf("complex root modulus = %v, want 1", cmplx.Abs(r))
			}
		}
		if nReal != 1 {
			t.Errorf("got %d real roots, want 1", nReal)
		}
	})

	t.Run("degenerate quadratic", func(t *testing.T) {
		roots := RootsCubic(0, 1, -3, 2)
		if len(roots) != 2 {
			t.Fatalf("got %d roots", len(roots))
		}
		sortRoots(roots)
		if math.Abs(real(roots[0])-1.0) > 1e-12 || math.Abs(real(roots[1])-2.0) > 1e-12 {
			t.Errorf("roots = %v, want [1 2]", roots)
		}
	})

	t.Run("degenerate linear", func(t *testing.T) {
		roots := RootsCubic(0, 0, 2, -6)
		if len(roots) != 1 || math.Abs(real(roots[0])-3.0) > 1e-12 {
			t.Errorf("roots = %v, want [3]", roots)
		}
	})

	t.Run("triple root", func(t *testing.T) {
		// (x-2)^3
		roots := RootsCubic(1, -6, 12, -8)
		for i, r := range roots {
			if math.Abs(real(r)-2.0) > 1e-6 || math.Abs(imag(r)) > 1e-6 {
				t.Errorf("roots[%d] = %v, want 2", i, r)
			}
		}
	})
}

func TestRootsQuartic(t *testing.T) {
	t.Run("four real roots", func(t *testing.T) {
		// (x-1)(x-2)(x-3)(x-4) = x^4 - 10x^3 + 35x^2 - 50x + 24
		roots := RootsQuartic(1, -10, 35, -50, 24)
		if len(roots) != 4 {
			t.Fatalf("got %d roots", len(roots))
		}
		sortRoots(roots)
		want := []float64{1, 2, 3, 4}
		for i, w := range want {
			if math.Abs(real(roots[i])-w) > 1e-8 || math.Abs(imag(roots[i])) > 1e-8 {
				t.Errorf("roots[%d] = %v, want %v", i, roots[i], w)
			}
		}
	})

	t.Run("biquadratic", func(t *testing.T) {
		// x^4 - 5x^2 + 4 = (x^2-1)(x^2-4)
		roots := RootsQuartic(1, 0, -5, 0, 4)
		sortRoots(roots)
		want := []float64{-2, -1, 1, 2}
		for i, w := range want {
			if math.Abs(real(roots[i])-w) > 1e-10 || math.Abs(imag(roots[i])) > 1e-10 {
				t.Errorf("roots[%d] = %v, want %v", i, roots[i], w)
			}
		}
	})

	t.Run("mixed real and complex", func(t *testing.T) {
		// (x^2+1)(x-1)(x+2) = x^4 + x^3 - x^2 + x - 2
		roots := RootsQuartic(1, 1, -1, 1, -2)
		nReal := 0
		for _, r := range roots {
			if math.Abs(imag(r)) < 1e-8 {
				nReal++
			}
		}
		if nReal != 2 {
			t.Errorf("got %d real roots, want 2", nReal)
		}
		for _, r := range roots {
			v := Horner([]float64{1, 1, -1, 1, -2}, real(r))
			if math.Abs(imag(r)) < 1e-8 && math.Abs(v) > 1e-8 {
				t.Errorf("residual %v at real root %v", v, r)
			}
		}
	})
}

func TestHorner(t *testing.T) {
	coeffs := []float64{2, -3, 0, 5}
	x := 1.5
	want := 2*x*x*x - 3*x*x + 5
	if got := Horner(coeffs, x); math.Abs(got-want) > 1e-14 {
		t.Errorf("Horner = %v, want %v", got, want)
	}
	v, d := HornerAndDer(coeffs, x)
	if math.Abs(v-want) > 1e-14 {
		t.Errorf("HornerAndDer value = %v, want %v", v, want)
	}
	wantD := 6*x*x - 6*x
	if math.Abs(d-wantD) > 1e-14 {
		t.Errorf("HornerAndDer derivative = %v, want %v", d, wantD)
	}
}
