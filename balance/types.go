package balance

import "errors"

// Sentinel errors for the balancing engine.
var (
	// ErrInvalidModel indicates input the engine cannot work on: a nil or
	// empty model, unequal feasible target energies, or a system too large
	// to enumerate.
	ErrInvalidModel = errors.New("balance: invalid model")

	// ErrDidNotConverge indicates the trial budget ran out before a balanced
	// perturbation was found. Distinct from ErrInvalidModel: retrying with a
	// larger budget is legitimate.
	ErrDidNotConverge = errors.New("balance: did not converge")
)

// DefaultTolerance is the energy-comparison slack used when none is given.
const DefaultTolerance = 1e-12

// DefaultNTries is the default trial budget.
const DefaultNTries = 100

// defaultSeed keeps unseeded runs reproducible; the value is arbitrary but
// stable.
const defaultSeed int64 = 1

// solverSlack floors the tolerance used to verify LP-produced candidates:
// simplex solutions honor equality rows only up to solver round-off, which
// can exceed the sharp default tolerance.
const solverSlack = 1e-9

// options collects Balance configuration; see the With* constructors.
type options struct {
	tol    float64
	nTries int
	seed   int64
}

func defaultOptions() options {
	return options{
		tol:    DefaultTolerance,
		nTries: DefaultNTries,
		seed:   defaultSeed,
	}
}

// Option customizes Balance.
type Option func(*options)

// WithTolerance sets the energy-comparison slack (default DefaultTolerance).
// Loosening it loosens the gap-preservation check correspondingly.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tol = tol }
}

// WithNTries sets the trial budget (default DefaultNTries).
func WithNTries(n int) Option {
	return func(o *options) { o.nTries = n }
}

// WithSeed fixes the RNG seed; seed 0 falls back to the stable default.
func WithSeed(seed int64) Option {
	return func(o *options) {
		if seed != 0 {
			o.seed = seed
		}
	}
}
