// Package exact enumerates the full energy spectrum of a small binary
// quadratic model by brute force.
//
// It is the verification oracle of the module: specification validation,
// the balancing engine and the tests all rely on it to decide which
// assignments sit at ground. Enumeration is exponential in the variable
// count and is capped at MaxVariables; the engines built on top of it are
// deliberately scoped to graphs small enough to brute-force.
package exact
