package rachford

import (
	"math"
	"testing"
)

func within(got, want, rtol float64) bool {
	if got == want {
		return true
	}
	den := math.Abs(want)
	if den == 0.0 {
		den = 1.0
	}
	return math.Abs(got-want)/den <= rtol
}

func assertClose(t *testing.T, name string, got, want, rtol float64) {
	t.Helper()
	if !within(got, want, rtol) {
		t.Errorf("%s = %v, want %v (rtol %g)", name, got, want, rtol)
	}
}

func assertClose1d(t *testing.T, name string, got, want []float64, rtol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s has length %d, want %d", name, len(got), len(want))
	}
	for i := range want {
		if !within(got[i], want[i], rtol) {
			t.Errorf("%s[%d] = %v, want %v (rtol %g)", name, i, got[i], want[i], rtol)
		}
	}
}

// materialBalance checks that the flash solution reconstructs the feed.
func materialBalance(t *testing.T, zs, xs, ys []float64, vf, rtol float64) {
	t.Helper()
	for i := range zs {
		z := xs[i]*(1.0-vf) + ys[i]*vf
		if !within(z, zs[i], rtol) {
			t.Errorf("feed balance for component %d: %v, want %v", i, z, zs[i])
		}
	}
}
