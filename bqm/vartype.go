package bqm

import "fmt"

// Vartype fixes the value domain of a model's variables.
type Vartype int

const (
	// Spin variables take values in {-1, +1} (Ising convention).
	Spin Vartype = iota

	// Binary variables take values in {0, 1} (QUBO convention).
	Binary
)

// Values returns the two admissible values of the vartype, low first.
func (vt Vartype) Values() [2]int {
	if vt == Binary {
		return [2]int{0, 1}
	}
	return [2]int{-1, 1}
}

// Valid reports whether x is an admissible value under the vartype.
func (vt Vartype) Valid(x int) bool {
	vals := vt.Values()
	return x == vals[0] || x == vals[1]
}

// String implements fmt.Stringer.
func (vt Vartype) String() string {
	switch vt {
	case Spin:
		return "SPIN"
	case Binary:
		return "BINARY"
	default:
		return fmt.Sprintf("Vartype(%d)", int(vt))
	}
}
