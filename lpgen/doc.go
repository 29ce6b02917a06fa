// Package lpgen synthesizes penalty models by linear programming.
//
// Every linear bias (one unknown per graph node), every quadratic bias (one
// unknown per graph edge), the constant offset and the classical gap are
// treated as LP unknowns. Each feasible decision configuration pins its
// energy to its target by an equality constraint; every other decision
// configuration is constrained to sit at least one gap above the highest
// feasible target. The gap is maximized subject to the declared bias
// bounds.
//
// The engine introduces no auxiliary variables: the decision variables must
// span the whole graph. Relations that structurally require auxiliaries
// (XOR-type parity) therefore fail with ErrInfeasible, deliberately — the
// surrounding dispatch layer relies on that failure to fall through to
// richer strategies. Solver-reported infeasibility, unboundedness and
// numerical degeneracy all collapse to the same ErrInfeasible for the same
// reason.
//
// The LP is solved with gonum's simplex (optimize/convex/lp); solved
// energies are re-checked against their targets within a small tolerance
// before a model is returned.
package lpgen
