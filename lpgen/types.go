package lpgen

import (
	"errors"

	"github.com/katalvlaran/penaltymodel/bqm"
	"github.com/katalvlaran/penaltymodel/penalty"
)

// ErrInfeasible indicates that no penalty model satisfies the requested
// system: the LP has no feasible point under the gap and bias bounds, the
// relation structurally requires auxiliary variables this engine does not
// introduce, or the solver reported numerical degeneracy. All three
// collapse here so callers uniformly fall back to alternate strategies.
var ErrInfeasible = errors.New("lpgen: infeasible system")

// DefaultGapBound is the ceiling placed on the gap unknown. Without a
// finite ceiling a fully specified table (no infeasible rows) leaves the
// LP unbounded.
const DefaultGapBound = 10.0

// simplexTol is the optimality tolerance handed to the simplex solver.
const simplexTol = 1e-10

// verifyTol is the slack allowed when checking solved energies against
// their targets and against the infeasible threshold.
const verifyTol = 1e-7

// options collects GenerateBQM configuration; see the With* constructors.
type options struct {
	vartype   bqm.Vartype
	linear    penalty.LinearRanges
	quadratic penalty.QuadraticRanges
	minGap    float64
	gapBound  float64
}

func defaultOptions() options {
	return options{
		vartype:  bqm.Spin,
		minGap:   penalty.DefaultMinClassicalGap,
		gapBound: DefaultGapBound,
	}
}

// Option customizes GenerateBQM.
type Option func(*options)

// WithVartype selects the value domain (default Spin).
func WithVartype(vt bqm.Vartype) Option {
	return func(o *options) { o.vartype = vt }
}

// WithLinearRanges bounds individual linear biases; unnamed variables keep
// penalty.DefaultLinearRange.
func WithLinearRanges(ranges penalty.LinearRanges) Option {
	return func(o *options) { o.linear = ranges }
}

// WithQuadraticRanges bounds individual quadratic biases; unnamed edges
// keep penalty.DefaultQuadraticRange.
func WithQuadraticRanges(ranges penalty.QuadraticRanges) Option {
	return func(o *options) { o.quadratic = ranges }
}

// WithMinClassicalGap sets the gap floor (default
// penalty.DefaultMinClassicalGap). The LP fails when the floor cannot be
// met.
func WithMinClassicalGap(gap float64) Option {
	return func(o *options) { o.minGap = gap }
}

// WithGapBound sets the gap ceiling (default DefaultGapBound).
func WithGapBound(bound float64) Option {
	return func(o *options) { o.gapBound = bound }
}
