package rachford

import (
	"math"
	"testing"
)

func TestSolveLN2NegativeFlash(t *testing.T) {
	zs := []float64{0.035913905617760956, 0.10962044346783988, 0.11092173647050588, 0.11473577098674388, 0.0846055704821889, 0.04601885708379495, 0.06043783335409393, 0.05226065072914894, 0.10575781537365889, 0.00927507714750399, 0.02582436420968297, 0.0031685331797319965, 0.023456539423053972, 0.0012337948690829988, 0.04598781987494095, 0.015665256791958983, 0.039761683740807956, 0.10980250545370088, 0.005551841743798994}
	Ks := []float64{0.007068399927291, 0.048261317460691, 0.156460507826334, 0.082699586486208, 0.234084035770952, 0.21595453929633, 0.142397804370346, 0.118535808232595, 0.223969128309237, 0.02049401499482, 0.118539470841801, 0.042354332400394, 0.24318981226864, 0.158045051137743, 0.728770316452853, 0.362626230843219, 0.553738046199342, 0.128693564667215, 2.50184883402585}
	vf, xs, ys, err := SolveLN2(zs, Ks, math.NaN())
	if err != nil {
		t.Fatalf("SolveLN2 error: %v", err)
	}
	assertClose(t, "VF", vf, -0.6552157254344795, 1e-14)
	wantXs := []float64{0.021758297029323793, 0.06751714606744191, 0.0714379546341018, 0.07166373874789453, 0.056334602960119634, 0.030401190484175316, 0.03869471439840095, 0.0331277469723325, 0.07010943637868396, 0.005649376596566162, 0.01636995124885988, 0.0019469138516777667, 0.01568082634229326, 0.0007951440272409864, 0.03904837819406857, 0.011050412977666787, 0.03076582319226781, 0.06989811403808464, 0.3477502318587996}
	wantYs := []float64{0.00015379634514004828, 0.003258466420400659, 0.011177218660126179, 0.005926561560506519, 0.013187031214459024, 0.0065652750850700515, 0.005510042371069908, 0.003926824262290335, 0.015702349351985757, 0.00011577840868141209, 0.0019404853587459297, 8.246023642889151e-05, 0.003813417214399443, 0.0001256685784471726, 0.028457298933462036, 0.004007169607352299, 0.01703620682420078, 0.008995437459076614, 0.8700185121081568}
	assertClose1d(t, "xs", xs, wantXs, 1e-13)
	assertClose1d(t, "ys", ys, wantYs, 1e-13)
}

func TestSolveLN2NearTotalVaporization(t *testing.T) {
	// The vapor fraction lands within 1e-4 of one; the composition of the
	// vanishing liquid phase must come from the inverted solve.
	Ks := []float64{15.464909530837806, 7006.64008090944, 1.8085837711444488, 0.007750676421035811, 30.98450366497431}
	zs := []float64{0.26562380186293233, 0.04910234829974003, 0.284394553603828, 0.006300023876072552, 0.3945792723574272}
	vf, xs, ys, err := SolveLN2(zs, Ks, math.NaN())
	if err != nil {
		t.Fatalf("SolveLN2 error: %v", err)
	}
	assertClose(t, "VF", vf, 0.9999999990000001, 1e-14)
	wantXs := []float64{0.01717590404145029, 7.007973548209148e-06, 0.15724710033808065, 0.8128352581509853, 0.012734729495935557}
	wantYs := []float64{0.2656238021113802, 0.04910234834883536, 0.28439455373097544, 0.0063000230695373985, 0.3945792727392717}
	assertClose1d(t, "xs", xs, wantXs, 1e-14)
	assertClose1d(t, "ys", ys, wantYs, 1e-14)
}

func TestSolveLN2HardPoints(t *testing.T) {
	t.Run("tiny vapor fraction", func(t *testing.T) {
		Ks := []float64{8.772518288527105e-14, 5.002470370940732, 2.1304298170037353e-15, 1.0678310431341144e-25, 5.320178677867539e-13}
		zs := []float64{0.5, 0.2, 0.1, 1e-06, 0.199999}
		vf, xs, ys, err := SolveLN2(zs, Ks, math.NaN())
		if err != nil {
			t.Fatalf("SolveLN2 error: %v", err)
		}
		assertClose(t, "VF", vf, 0.0001234423100003866, 1e-9)
		assertClose1d(t, "xs", xs, []float64{0.5000617287749428, 0.1999012339600916, 0.10001234575498856, 1.0001234575498856e-06, 0.20002369138651954}, 1e-9)
		assertClose1d(t, "ys", ys, []float64{4.3868006610706666e-14, 0.9999999999998495, 2.1306928346491458e-16, 1.0679628749383915e-31, 1.0641617779829182e-13}, 1e-9)
	})

	t.Run("vapor fraction at zero", func(t *testing.T) {
		zs := []float64{0.4050793625620341, 0.07311645032153137, 0.0739927977508874, 0.0028093939126068498, 0.44500199545294034}
		Ks := []float64{7.330341496863982e-19, 13.676812750105826, 8.152759918973137e-21, 4.6824608110480365e-35, 7.707355701762951e-18}
		vf, xs, ys, err := SolveLN2(zs, Ks, math.NaN())
		if err != nil {
			t.Fatalf("SolveLN2 error: %v", err)
		}
		if math.Abs(vf) > 1e-15 {
			t.Errorf("VF = %v, want 0", vf)
		}
		assertClose1d(t, "xs", xs, zs, 1e-9)
		assertClose1d(t, "ys", ys, []float64{2.9693700609116885e-19, 0.9999999999999999, 6.0324551579612055e-22, 1.3154876898578485e-37, 3.4297886669501107e-18}, 1e-9)
	})

	t.Run("boundary evaluation", func(t *testing.T) {
		Ks := []float64{1.2566703532018493e-21, 3.35062752053393, 1.0300675710905643e-23, 1.706258568414198e-39, 1.6382855298440747e-20}
		zs := []float64{0.13754371891028325, 0.2984515568715462, 0.2546683930289046, 0.08177453852283137, 0.22756179266643456}
		vf, xs, ys, err := SolveLN2(zs, Ks, math.NaN())
		if err != nil {
			t.Fatalf("SolveLN2 error: %v", err)
		}
		if math.Abs(vf) > 1e-15 {
			t.Errorf("VF = %v, want 0", vf)
		}
		assertClose1d(t, "xs", xs, zs, 1e-9)
		assertClose1d(t, "ys", ys, []float64{1.7284711382368154e-22, 1.0, 2.6232565304082093e-24, 1.3952850703269794e-40, 3.728111920707972e-21}, 1e-9)
	})
}
