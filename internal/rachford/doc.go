// Package rachford solves the Rachford-Rice equation for two-phase and
// multiphase flash equilibrium.
//
// Given feed mole fractions zs and equilibrium constants Ks, the two-phase
// solvers find the vapor fraction VF satisfying
//
//	sum(zs[i]*(Ks[i]-1)/(1 + VF*(Ks[i]-1))) = 0
//
// and return the liquid and vapor compositions consistent with it. Several
// algorithms are provided, from closed-form solutions for small component
// counts to high-precision iterative schemes for trace compositions, plus a
// general N-phase Newton solver. Solve dispatches to a sensible default and
// Methods reports which algorithms apply to a given component count.
package rachford
