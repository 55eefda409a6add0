package rachford

import (
	"errors"
	"testing"
)

// Example 1 in Okuno, Johns and Sepehrnoori (2010).
var (
	okunoZs  = []float64{0.204322076984, 0.070970999150, 0.267194323384, 0.296291964579, 0.067046080882, 0.062489248292, 0.031685306730}
	okunoKsY = []float64{1.23466988745, 0.89727701141, 2.29525708098, 1.58954899888, 0.23349348597, 0.02038108640, 1.40715641002}
	okunoKsZ = []float64{1.52713341421, 0.02456487977, 1.46348240453, 1.16090546194, 0.24166289908, 0.14815282572, 14.3128010831}
)

func TestThreePhaseFJac(t *testing.T) {
	betas := []float64{0.01, 0.6}
	fsExpect := []float64{0.22327453005006953, -0.10530391302991113}
	jacExpect := [][]float64{
		{-0.7622803760231517, -0.539733935411029},
		{-0.539733935411029, -0.86848106463838},
	}

	fs, jac := threePhaseFJac(betas, okunoZs, okunoKsY, okunoKsZ)
	assertClose1d(t, "fs", fs, fsExpect, 1e-12)
	for j := range jac {
		assertClose1d(t, "jac row", jac[j], jacExpect[j], 1e-12)
	}

	t.Run("generic evaluation agrees", func(t *testing.T) {
		nc := len(okunoZs)
		ksm1 := make([][]float64, 2)
		zsKsm1 := make([][]float64, 2)
		for j, ksj := range [][]float64{okunoKsY, okunoKsZ} {
			ksm1[j] = make([]float64, nc)
			zsKsm1[j] = make([]float64, nc)
			for i, k := range ksj {
				ksm1[j][i] = k - 1.0
				zsKsm1[j][i] = okunoZs[i] * ksm1[j][i]
			}
		}
		fsN, jacN := nphaseFJac(betas, ksm1, zsKsm1)
		assertClose1d(t, "fs", fsN, fsExpect, 1e-12)
		for j := range jacN {
			assertClose1d(t, "jac row", jacN[j], jacExpect[j], 1e-12)
		}
	})
}

func TestSolveThreePhase(t *testing.T) {
	t.Run("Okuno example 1", func(t *testing.T) {
		betaY, betaZ, xs, ys, zs, err := SolveThreePhase(okunoZs, okunoKsY, okunoKsZ, 0.1, 0.6)
		if err != nil {
			t.Fatalf("SolveThreePhase error: %v", err)
		}
		assertClose(t, "betaY", betaY, 0.6868328915094766, 1e-10)
		assertClose(t, "betaZ", betaZ, 0.06019424397668606, 1e-10)
		assertClose1d(t, "xs", xs, []float64{0.1712804659711611, 0.08150738616425436, 0.1393433949193188, 0.20945175387703213, 0.15668977784027893, 0.22650123851718007, 0.015225982711774586}, 1e-9)
		assertClose1d(t, "ys", ys, []float64{0.21147483364299702, 0.07313470386530294, 0.31982891387635903, 0.33293382568889657, 0.036586042443791586, 0.004616341311925655, 0.02142533917172731}, 1e-9)
		assertClose1d(t, "zs", zs, []float64{0.26156812278601893, 0.00200221914149187, 0.20392660665189805, 0.2431536850887592, 0.03786610596908295, 0.03355679851539993, 0.21792646184834918}, 1e-9)
	})

	t.Run("Okuno example 2", func(t *testing.T) {
		ns := []float64{0.132266176697, 0.205357472415, 0.170087543100, 0.186151796211, 0.111333894738, 0.034955417168, 0.159847699672}
		KsY := []float64{26.3059904941, 1.91580344867, 1.42153325608, 3.21966622946, 0.22093634359, 0.01039336513, 19.4239894458}
		KsZ := []float64{66.7435876079, 1.26478653025, 0.94711004430, 3.94954222664, 0.35954341233, 0.09327536295, 12.0162990083}
		betaY, betaZ, _, _, _, err := SolveThreePhase(ns, KsY, KsZ, 0.7, 0.1)
		if err != nil {
			t.Fatalf("SolveThreePhase error: %v", err)
		}
		assertClose(t, "betaY", betaY, 0.46945316414811566, 1e-9)
		assertClose(t, "betaZ", betaZ, 0.47024451567068165, 1e-9)
	})

	t.Run("invalid guess", func(t *testing.T) {
		_, _, _, _, _, err := SolveThreePhase(okunoZs, okunoKsY, okunoKsZ, 40.0, 40.0)
		var invalid InvalidGuessError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidGuessError, got %v", err)
		}
	})
}

func TestSolveNPhase(t *testing.T) {
	t.Run("two phase matches Solve", func(t *testing.T) {
		betas, comps, err := SolveNPhase(ternaryZs, [][]float64{ternaryKs}, []float64{0.5})
		if err != nil {
			t.Fatalf("SolveNPhase error: %v", err)
		}
		vf, xs, ys, errS := Solve(ternaryZs, ternaryKs, nil)
		if errS != nil {
			t.Fatalf("Solve error: %v", errS)
		}
		assertClose(t, "beta_y", betas[0], vf, 1e-10)
		assertClose(t, "beta_x", betas[1], 1.0-vf, 1e-10)
		assertClose1d(t, "ys", comps[0], ys, 1e-10)
		assertClose1d(t, "xs", comps[1], xs, 1e-10)
	})

	t.Run("Okuno three phase agrees with specialized solver", func(t *testing.T) {
		betas, comps, err := SolveNPhase(okunoZs, [][]float64{okunoKsY, okunoKsZ}, []float64{0.1, 0.6})
		if err != nil {
			t.Fatalf("SolveNPhase error: %v", err)
		}
		betaY, betaZ, xs, ys, zs, errT := SolveThreePhase(okunoZs, okunoKsY, okunoKsZ, 0.1, 0.6)
		if errT != nil {
			t.Fatalf("SolveThreePhase error: %v", errT)
		}
		assertClose(t, "betaY", betas[0], betaY, 1e-9)
		assertClose(t, "betaZ", betas[1], betaZ, 1e-9)
		assertClose1d(t, "ys", comps[0], ys, 1e-9)
		assertClose1d(t, "zs", comps[1], zs, 1e-9)
		assertClose1d(t, "xs", comps[2], xs, 1e-9)
	})

	// Example 2 in Gao, Yin and Li (2018), a twenty component five phase
	// system. The iteration spends many steps in the damping loop.
	t.Run("Gao five phase", func(t *testing.T) {
		zs := []float64{0.3817399509140, 0.0764336433731, 0.1391487737570, 0.0643992218952, 0.1486026004951, 0.0417212486653, 0.1227693500767, 0.0213087870239, 0.0016270350309, 0.0021307432306, 0.0000917810305, 0.0000229831930, 0.0000034782551, 0.0000001126367, 0.0000002344634, 0.0000000038064, 0.0000000173126, 0.0000000281366, 0.0000000042589, 0.0000000024453}
		Ks0 := []float64{2.3788914318714, 0.8354537404402, 0.1155938461254, 0.0062262830625, 0.0022156584248, 0.0115951444765, 0.0064167472255, 0.0038946321018, 0.0134366496720, 0.0008734024997, 0.0108844870333, 0.0305288385881, 0.0184206758492, 1.9556944123756, 0.2874467036782, 1.5356775373006, 0.7574272230786, 0.0074377713757, 0.0004574024029, 0.0847561330613}
		Ks1 := []float64{0.1826346252218, 2.0684286685920, 2.8473183476162, 2.1383860381928, 0.7946416111326, 2.1603434367941, 0.1593792034596, 0.0335917624138, 0.7223258415919, 2.6132706480239, 24.4065005309508, 25.8494898790919, 10.4748859551860, 57.6425128090423, 1.0419187660436, 53.5513911183565, 7.6910401287961, 6.7681727478028, 28.1394115659509, 1.6486494033625}
		Ks2 := []float64{2.1341148433378, 1.9043018392943, 0.0144945209799, 0.0442168936781, 0.0787337170042, 0.0560494950996, 0.0770042412753, 0.0025050231128, 0.1031743167040, 0.0022130957042, 0.1928690729187, 0.0588393075672, 0.3556852336181, 1.7486777932718, 1.8885719459373, 97.7361071036055, 6.0072238022229, 4.0574761982724, 35.1553173521778, 31.9676317062480}
		Ks3 := []float64{0.7101073236142, 6.0440859895389, 0.4369041160293, 0.9918488866995, 0.7768884555186, 0.2134611795537, 0.0239948965688, 0.0218059421417, 0.1708086119388, 0.0932727495955, 1.0014414881636, 4.0996590670858, 0.1045382819199, 29.0578470200348, 13.7002699311125, 6.6483533942909, 18.7742085574180, 5.2779281096742, 9.0540032759730, 2.5158440811075}

		betaExpect := []float64{-0.00538660799, -0.00373696250, -0.00496311432, -0.00415370309}
		betaSum := 0.0
		for _, b := range betaExpect {
			betaSum += b
		}
		betaExpect = append(betaExpect, 1.0-betaSum)

		compsExpect := [][]float64{
			{0.9161781565910, 0.0657332011406, 0.0160032740856, 0.0003986252704, 0.0003254638212, 0.0004794773913, 0.0007745137206, 0.0000815232125, 0.0000215548051, 0.0000018460956, 0.0000010836688, 0.0000007760273, 0.0000000655938, 0.0000003322911, 0.0000000712038, 0.0000000196710, 0.0000000149415, 0.0000000002201, 0.0000000000028, 0.0000000002460},
			{0.0703377430444, 0.1627432269869, 0.3941941327593, 0.1369058721276, 0.1167269703543, 0.0893335859206, 0.0192373761213, 0.0007031494410, 0.0011587406941, 0.0055236243798, 0.0024299319085, 0.0006570806789, 0.0000372997780, 0.0000097940117, 0.0000002580951, 0.0000006859566, 0.0000001517188, 0.0000002002775, 0.0000001709606, 0.0000000047849},
			{0.8219077915568, 0.1498297868279, 0.0020066794190, 0.0028308978284, 0.0115654002029, 0.0023177344403, 0.0092945598936, 0.0000524356412, 0.0001655101790, 0.0000046777816, 0.0000192022086, 0.0000014956648, 0.0000012665513, 0.0000002971170, 0.0000004678207, 0.0000012519326, 0.0000001185027, 0.0000001200651, 0.0000002135856, 0.0000000927811},
			{0.2734823498098, 0.4755465214053, 0.0604867521264, 0.0635011332973, 0.1141191632121, 0.0088269542238, 0.0028962301245, 0.0004564463108, 0.0002740077651, 0.0001971489765, 0.0000997043646, 0.0001042112156, 0.0000003722479, 0.0000049372049, 0.0000033937126, 0.0000000851609, 0.0000003703530, 0.0000001561795, 0.0000000550075, 0.0000000073018},
			{0.3851281921976, 0.0786796419224, 0.1384439969943, 0.0640229919586, 0.1468925975170, 0.0413515667922, 0.1207019216039, 0.0209321985655, 0.0016041800354, 0.0021136824783, 0.0000995608488, 0.0000254194834, 0.0000035608768, 0.0000001699095, 0.0000002477114, 0.0000000128093, 0.0000000197267, 0.0000000295911, 0.0000000060755, 0.0000000029023},
		}

		betas, comps, err := SolveNPhase(zs, [][]float64{Ks0, Ks1, Ks2, Ks3}, []float64{0.2, 0.2, 0.2, 0.2})
		if err != nil {
			t.Fatalf("SolveNPhase error: %v", err)
		}
		for i, beta := range betas {
			if diff := beta - betaExpect[i]; diff > 1e-8 || diff < -1e-8 {
				t.Errorf("betas[%d] = %v, want %v", i, beta, betaExpect[i])
			}
		}
		for j, comp := range comps {
			for i, c := range comp {
				if diff := c - compsExpect[j][i]; diff > 1e-9 || diff < -1e-9 {
					t.Errorf("comps[%d][%d] = %v, want %v", j, i, c, compsExpect[j][i])
				}
			}
		}
	})

	t.Run("invalid guess", func(t *testing.T) {
		_, _, err := SolveNPhase(okunoZs, [][]float64{okunoKsY, okunoKsZ}, []float64{40.0, 40.0})
		var invalid InvalidGuessError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidGuessError, got %v", err)
		}
	})
}
