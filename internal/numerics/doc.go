// Package numerics provides the scalar and multivariate root-finding
// primitives used by the flash solvers, along with polynomial root
// calculations, small direct linear solvers, and double-double (extended
// precision) arithmetic helpers.
package numerics
