package rachford

// kRange scans the K values of components with a nonzero feed and returns the
// smallest K, the largest K, and the feed fraction of the largest-K component.
// Components with zs[i] == 0 cannot influence the flash split and are skipped.
func kRange(zs, Ks []float64) (kmin, kmax, zOfKmax float64) {
	kmin = 1e300
	kmax = -1e300
	for i, k := range Ks {
		if zs[i] == 0.0 {
			continue
		}
		if k > kmax {
			kmax = k
			zOfKmax = zs[i]
		}
		if k < kmin {
			kmin = k
		}
	}
	return kmin, kmax, zOfKmax
}

// vfBounds computes the open interval (VFMin, VFMax) that must contain the
// vapor fraction for a genuine two-phase split. It returns a
// PhaseCountReducedError when the K values are all above or all below one,
// meaning the feed flashes to a single phase.
func vfBounds(zs, Ks []float64) (vfMin, vfMax float64, err error) {
	kmin, kmax, zOfKmax := kRange(zs, Ks)
	if kmin > 1.0-1e-15 {
		return 0, 0, NewPhaseCountReducedError("all K values above 1: only a vapor phase exists (Kmin=%g)", kmin)
	}
	if kmax < 1.0+1e-15 {
		return 0, 0, NewPhaseCountReducedError("all K values below 1: only a liquid phase exists (Kmax=%g)", kmax)
	}
	vfMin = ((kmax-kmin)*zOfKmax - (1.0 - kmin)) / ((1.0 - kmin) * (kmax - 1.0))
	vfMax = 1.0 / (1.0 - kmin)
	return vfMin, vfMax, nil
}
