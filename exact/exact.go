package exact

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/penaltymodel/bqm"
)

// MaxVariables caps the enumeration size at 2^20 assignments.
const MaxVariables = 20

// Sentinel errors for enumeration.
var (
	// ErrTooLarge indicates more than MaxVariables variables were requested.
	ErrTooLarge = errors.New("exact: too many variables to enumerate")

	// ErrNoVariables indicates an enumeration over zero variables.
	ErrNoVariables = errors.New("exact: no variables to enumerate")
)

// Record is one enumerated assignment and its energy.
type Record struct {
	Sample map[string]int
	Energy float64
}

// Spectrum evaluates the model on every assignment of the given variables
// and returns the records in enumeration order. The variable list must
// cover every model variable; variables may include extras (auxiliaries or
// isolated graph nodes), which are enumerated with zero bias contribution.
// Passing nil enumerates exactly the model's own variables.
//
// Complexity: O(2^n · (n + m)) time for n variables and m interactions.
func Spectrum(m *bqm.BQM, variables []string) ([]Record, error) {
	if variables == nil {
		variables = m.Variables()
	}
	n := len(variables)
	if n == 0 {
		return nil, ErrNoVariables
	}
	if n > MaxVariables {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, n, MaxVariables)
	}

	vals := m.Vartype().Values()
	total := 1 << n
	out := make([]Record, 0, total)

	for mask := 0; mask < total; mask++ {
		sample := make(map[string]int, n)
		for i, v := range variables {
			sample[v] = vals[(mask>>i)&1]
		}
		e, err := m.Energy(sample)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{Sample: sample, Energy: e})
	}

	return out, nil
}

// MinEnergy returns the lowest energy among the records.
// It panics on an empty slice; Spectrum never returns one without error.
func MinEnergy(records []Record) float64 {
	min := math.Inf(1)
	for _, r := range records {
		if r.Energy < min {
			min = r.Energy
		}
	}

	return min
}

// Lowest returns the records whose energy lies within tol of the minimum.
func Lowest(records []Record, tol float64) []Record {
	min := MinEnergy(records)

	var out []Record
	for _, r := range records {
		if r.Energy <= min+tol {
			out = append(out, r)
		}
	}

	return out
}
