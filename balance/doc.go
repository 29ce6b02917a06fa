// Package balance reshapes a valid penalty model so that every feasible
// ground configuration becomes equiprobable under exact energy-based
// sampling.
//
// A model is balanced (uniform) when each feasible decision configuration
// has exactly one lowest-energy auxiliary completion, all those completions
// tie at the shared ground energy, and every infeasible configuration's
// best completion still clears ground + classical gap. An imbalanced model
// over-samples the feasible configurations that own more ground
// completions.
//
// The engine is a bounded randomized search: each trial designates one
// auxiliary completion per feasible configuration (the current best first,
// then random draws from the low-energy window), re-solves the bias system
// as a linear program that pins the designated completions to ground,
// pushes their siblings strictly above it, and preserves the gap — then
// verifies the candidate by exact enumeration. Already-balanced input is
// returned untouched. Exhausting the trial budget is an expected failure
// mode (ErrDidNotConverge); callers retry with a larger budget or keep the
// unbalanced model.
//
// Everything here brute-forces the full spectrum, so the graph must stay
// within exact.MaxVariables variables.
package balance
