package rachford

import (
	"math"
	"testing"
)

func TestSolveBinaryDD(t *testing.T) {
	t.Run("trace component resolved exactly", func(t *testing.T) {
		// Huge volatility spread with a trace feed; double precision
		// solvers lose the trace composition entirely here.
		lf, vf, xs, ys, err := SolveBinaryDD([]float64{1e-27, 1.0}, []float64{1e12, 0.1})
		if err != nil {
			t.Fatalf("SolveBinaryDD error: %v", err)
		}
		assertClose(t, "LF", lf, 1.000000000001, 1e-15)
		assertClose(t, "VF", vf, -1.0000000000009988e-12, 1e-13)
		assertClose1d(t, "xs", xs, []float64{9.0000000000009e-13, 0.9999999999991}, 1e-13)
		assertClose1d(t, "ys", ys, []float64{0.90000000000009, 0.09999999999991001}, 1e-13)
	})

	t.Run("ordinary binary split", func(t *testing.T) {
		lf, vf, xs, ys, err := SolveBinaryDD([]float64{0.4, 0.6}, []float64{2.0, 0.5})
		if err != nil {
			t.Fatalf("SolveBinaryDD error: %v", err)
		}
		assertClose(t, "LF+VF", lf+vf, 1.0, 1e-15)
		materialBalance(t, []float64{0.4, 0.6}, xs, ys, vf, 1e-14)
	})

	t.Run("single phase rejected", func(t *testing.T) {
		if _, _, _, _, err := SolveBinaryDD([]float64{0.5, 0.5}, []float64{2.0, 1.5}); err == nil {
			t.Error("expected PhaseCountReducedError")
		}
	})

	t.Run("wrong component count", func(t *testing.T) {
		if _, _, _, _, err := SolveBinaryDD([]float64{0.5, 0.3, 0.2}, []float64{2.0, 1.0, 0.5}); err == nil {
			t.Error("expected DimensionError")
		}
	})
}

func TestSolveLeiboviciNeoschilDD(t *testing.T) {
	t.Run("reference ternary", func(t *testing.T) {
		lf, vf, xs, ys, err := SolveLeiboviciNeoschilDD(ternaryZs, ternaryKs, math.NaN())
		if err != nil {
			t.Fatalf("SolveLeiboviciNeoschilDD error: %v", err)
		}
		assertClose(t, "VF", vf, ternaryVF, 1e-14)
		assertClose(t, "LF", lf, 1.0-ternaryVF, 1e-14)
		assertClose1d(t, "xs", xs, ternaryXs, 1e-13)
		assertClose1d(t, "ys", ys, ternaryYs, 1e-13)
	})

	t.Run("binary routed to closed form", func(t *testing.T) {
		_, vf, _, _, err := SolveLeiboviciNeoschilDD([]float64{1e-27, 1.0}, []float64{1e12, 0.1}, math.NaN())
		if err != nil {
			t.Fatalf("SolveLeiboviciNeoschilDD error: %v", err)
		}
		assertClose(t, "VF", vf, -1.0000000000009988e-12, 1e-13)
	})

	t.Run("trace components", func(t *testing.T) {
		zs := []float64{0.3333333333333333, 0.3333333333333333, 0.3333333333333333}
		Ks := []float64{1e3, 1e4, 1e-17}
		_, vf, xs, ys, err := SolveLeiboviciNeoschilDD(zs, Ks, math.NaN())
		if err != nil {
			t.Fatalf("SolveLeiboviciNeoschilDD error: %v", err)
		}
		materialBalance(t, zs, xs, ys, vf, 1e-12)
	})
}
