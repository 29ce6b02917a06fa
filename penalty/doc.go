// Package penalty defines the data model of penalty-model synthesis: the
// Specification describing what must be synthesized, and the Model pairing
// a Specification with the concrete quadratic model that realizes it.
//
// A Specification names a graph of variables, an ordered tuple of decision
// variables, a table of feasible decision configurations (optionally with
// per-configuration target energies), a vartype, per-variable and per-edge
// bias bounds, and a minimum classical gap. A Model adds the synthesized
// quadratic model, the achieved classical gap, the ground energy the
// feasible configurations anchor to, and an IsUniform flag that only the
// balancing engine sets.
//
// Both types support consistent variable relabeling with a round-trip
// guarantee: applying a mapping and then its inverse reproduces a
// structurally equal value, in copy and in-place modes, including label
// swaps and permutation cycles. Relabeling never touches the configuration
// tuples themselves, only which variable occupies which tuple position.
//
// The package also hosts the Synthesizer capability and an ordered-strategy
// dispatcher, so callers can chain several synthesis engines and take the
// first that succeeds.
//
// Validation is synchronous and all-or-nothing: constructors reject
// inconsistent inputs with errors wrapping ErrInvalidSpecification and
// never return a partially built value.
package penalty
