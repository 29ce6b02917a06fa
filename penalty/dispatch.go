package penalty

import (
	"errors"
	"fmt"
)

// Synthesizer is the capability a synthesis strategy exposes: turn a
// Specification into a validated Model or fail. Strategies must fail
// cleanly — no partial models — so a dispatcher can fall through to the
// next one.
type Synthesizer interface {
	Synthesize(spec *Specification) (*Model, error)
}

// Get tries the strategies in order and returns the first Model produced.
// When every strategy fails, the joined failures are wrapped in
// ErrNoSolution so callers can both detect the outcome and inspect the
// individual causes.
func Get(spec *Specification, strategies ...Synthesizer) (*Model, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil specification", ErrInvalidSpecification)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: no strategies given", ErrNoSolution)
	}

	var failures []error
	for _, s := range strategies {
		pm, err := s.Synthesize(spec)
		if err == nil {
			return pm, nil
		}
		failures = append(failures, err)
	}

	return nil, fmt.Errorf("%w: %w", ErrNoSolution, errors.Join(failures...))
}
