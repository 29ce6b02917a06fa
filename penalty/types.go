package penalty

import (
	"errors"

	"github.com/katalvlaran/penaltymodel/graph"
)

// Sentinel errors for specification and model construction.
var (
	// ErrInvalidSpecification indicates an inconsistent synthesis request or
	// model: decision variables outside the graph, configuration length
	// mismatch, model terms outside the graph, or an out-of-range bias.
	// Every construction-time failure in this package wraps it.
	ErrInvalidSpecification = errors.New("penalty: invalid specification")

	// ErrNoSolution indicates that no synthesis strategy produced a model.
	ErrNoSolution = errors.New("penalty: no strategy produced a model")
)

// Default bias bounds, applied to any variable or edge without an explicit
// range. Wide enough for gate-sized relations, finite so the synthesis LP
// stays bounded.
var (
	DefaultLinearRange    = Range{Min: -2, Max: 2}
	DefaultQuadraticRange = Range{Min: -1, Max: 1}
)

// rangeTol absorbs solver round-off when checking biases against their
// declared ranges; LP solutions may sit on a bound up to simplex tolerance.
const rangeTol = 1e-8

// energyTol is the slack used when checking a model's feasible-configuration
// energies against their targets.
const energyTol = 1e-7

// Range bounds the admissible magnitude of one bias during synthesis,
// inclusive on both ends.
type Range struct {
	Min, Max float64
}

// Contains reports whether x lies in the range, within solver tolerance.
func (r Range) Contains(x float64) bool {
	return x >= r.Min-rangeTol && x <= r.Max+rangeTol
}

// LinearRanges maps variable labels to their bias bounds.
type LinearRanges map[string]Range

// QuadraticRanges maps normalized edges to their interaction-bias bounds.
type QuadraticRanges map[graph.Edge]Range

// SpecOption customizes NewSpecification.
type SpecOption func(*Specification)

// WithLinearRanges declares per-variable bias bounds. Variables not named
// keep DefaultLinearRange.
func WithLinearRanges(ranges LinearRanges) SpecOption {
	return func(s *Specification) {
		for v, r := range ranges {
			s.linearRanges[v] = r
		}
	}
}

// WithQuadraticRanges declares per-edge interaction-bias bounds. Edges not
// named keep DefaultQuadraticRange.
func WithQuadraticRanges(ranges QuadraticRanges) SpecOption {
	return func(s *Specification) {
		for e, r := range ranges {
			s.quadraticRanges[graph.NewEdge(e.U, e.V)] = r
		}
	}
}

// WithMinClassicalGap sets the smallest acceptable classical gap.
// The default is DefaultMinClassicalGap.
func WithMinClassicalGap(gap float64) SpecOption {
	return func(s *Specification) { s.minGap = gap }
}

// DefaultMinClassicalGap is the minimum classical gap requested when a
// specification does not name one.
const DefaultMinClassicalGap = 2.0
