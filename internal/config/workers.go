package config

import "runtime"

// Worker-count resolution chain (highest priority first):
//  1. CLI flag (-workers)
//  2. Environment variable (RRCALC_WORKERS)
//  3. Hardware estimation (this file)

// ApplyAdaptiveWorkers fills in the worker count from hardware
// characteristics when the configured value is the zero default, preserving
// any user-specified override.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	return cfg
}

// EstimateOptimalWorkers provides a heuristic worker count for batch solving.
// Individual solves are short and allocation-light, so one worker per core is
// the right shape; very high core counts are capped because a batch rarely
// has enough problems to keep them busy.
func EstimateOptimalWorkers() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 1:
		return 1
	case numCPU <= 32:
		return numCPU
	default:
		return 32
	}
}
