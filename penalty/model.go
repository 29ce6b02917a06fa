package penalty

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/penaltymodel/bqm"
	"github.com/katalvlaran/penaltymodel/exact"
	"github.com/katalvlaran/penaltymodel/graph"
)

// Model is a solved penalty model: a Specification together with the
// concrete quadratic model realizing it, the achieved classical gap, the
// ground energy feasible configurations anchor to, and the IsUniform flag.
//
// A Model is never incrementally mutated: construction is all-or-nothing,
// and relabeling or balancing yield a new Model (or replace the state
// wholesale when requested in place).
type Model struct {
	spec      *Specification
	model     *bqm.BQM
	gap       float64
	ground    float64
	isUniform bool
}

// NewModel validates and builds a Model directly from its parts.
//
// Beyond NewSpecification's checks, the model itself is validated: its
// vartype must match, every variable it touches must be a graph node, every
// interaction must follow a graph edge, and every bias must lie inside its
// declared energy range.
func NewModel(g *graph.Graph, decision []string, table Table, vt bqm.Vartype,
	model *bqm.BQM, classicalGap, groundEnergy float64, opts ...SpecOption) (*Model, error) {
	spec, err := NewSpecification(g, decision, table, vt, opts...)
	if err != nil {
		return nil, err
	}

	return newFromSpec(spec, model, classicalGap, groundEnergy)
}

// FromSpecification builds a Model by asserting that model realizes spec
// with the given gap and ground energy. On top of the structural and
// bias-range checks it re-derives target consistency: when the combined
// variable set is small enough to enumerate, the feasible configurations'
// best completion energies must be spaced exactly as their targets are,
// within tolerance. The absolute energy level is the caller's declaration
// and is not re-derived; larger systems trust the caller entirely.
func FromSpecification(spec *Specification, model *bqm.BQM, classicalGap, groundEnergy float64) (*Model, error) {
	pm, err := newFromSpec(spec, model, classicalGap, groundEnergy)
	if err != nil {
		return nil, err
	}
	if err = pm.checkTargetConsistency(); err != nil {
		return nil, err
	}

	return pm, nil
}

func newFromSpec(spec *Specification, model *bqm.BQM, classicalGap, groundEnergy float64) (*Model, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil specification", ErrInvalidSpecification)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidSpecification)
	}
	if model.Vartype() != spec.vartype {
		return nil, fmt.Errorf("%w: model vartype %s differs from specification vartype %s",
			ErrInvalidSpecification, model.Vartype(), spec.vartype)
	}

	for _, v := range model.Variables() {
		if !spec.graph.HasNode(v) {
			return nil, fmt.Errorf("%w: model variable %q is not a graph node", ErrInvalidSpecification, v)
		}
		if r := spec.LinearRange(v); !r.Contains(model.Linear(v)) {
			return nil, fmt.Errorf("%w: linear bias %g on %q outside [%g, %g]",
				ErrInvalidSpecification, model.Linear(v), v, r.Min, r.Max)
		}
	}
	for _, p := range model.Interactions() {
		if !spec.graph.HasEdge(p.U, p.V) {
			return nil, fmt.Errorf("%w: interaction (%q,%q) is not a graph edge", ErrInvalidSpecification, p.U, p.V)
		}
		bias, _ := model.Quadratic(p.U, p.V)
		if r := spec.QuadraticRange(p.U, p.V); !r.Contains(bias) {
			return nil, fmt.Errorf("%w: quadratic bias %g on (%q,%q) outside [%g, %g]",
				ErrInvalidSpecification, bias, p.U, p.V, r.Min, r.Max)
		}
	}

	return &Model{
		spec:   spec,
		model:  model.Copy(),
		gap:    classicalGap,
		ground: groundEnergy,
	}, nil
}

// checkTargetConsistency enumerates the model's completions of each
// feasible configuration and verifies the minima are spaced as the targets
// are: for any two feasible configurations, the difference of their best
// completion energies must equal the difference of their targets. The
// absolute level is not checked; the declared ground energy is the caller's
// contract. Systems too large to enumerate are trusted.
func (pm *Model) checkTargetConsistency() error {
	if pm.model.IsEmpty() {
		return nil
	}

	vars := pm.model.Variables()
	for _, d := range pm.spec.decision {
		if !slices.Contains(vars, d) {
			vars = append(vars, d)
		}
	}
	if len(vars) > exact.MaxVariables {
		return nil
	}

	aux := make([]string, 0, len(vars))
	for _, v := range vars {
		if !slices.Contains(pm.spec.decision, v) {
			aux = append(aux, v)
		}
	}

	first := true
	var level float64
	for _, cfg := range pm.spec.table.Configs() {
		target, _ := pm.spec.table.Target(cfg)
		best, err := pm.bestCompletion(cfg, aux)
		if err != nil {
			return err
		}
		if first {
			level = best - target
			first = false
			continue
		}
		if math.Abs(best-target-level) > energyTol {
			return fmt.Errorf("%w: feasible configuration %q reaches %g, want %g",
				ErrInvalidSpecification, cfg.Key(), best, level+target)
		}
	}

	return nil
}

// bestCompletion returns the minimum model energy over all auxiliary
// assignments compatible with the fixed decision configuration.
func (pm *Model) bestCompletion(cfg Config, aux []string) (float64, error) {
	fixed := make(map[string]int, len(pm.spec.decision))
	for i, v := range pm.spec.decision {
		fixed[v] = cfg[i]
	}

	if len(aux) == 0 {
		return pm.model.Energy(fixed)
	}

	vals := pm.spec.vartype.Values()
	best := math.Inf(1)
	for mask := 0; mask < 1<<len(aux); mask++ {
		sample := make(map[string]int, len(fixed)+len(aux))
		for v, x := range fixed {
			sample[v] = x
		}
		for i, v := range aux {
			sample[v] = vals[(mask>>i)&1]
		}
		e, err := pm.model.Energy(sample)
		if err != nil {
			return 0, err
		}
		if e < best {
			best = e
		}
	}

	return best, nil
}

// Specification returns the request this model realizes.
func (pm *Model) Specification() *Specification { return pm.spec }

// Graph returns the variable graph.
func (pm *Model) Graph() *graph.Graph { return pm.spec.graph }

// DecisionVariables returns the ordered decision variables.
func (pm *Model) DecisionVariables() []string { return pm.spec.DecisionVariables() }

// Feasible returns a copy of the feasible-configuration table.
func (pm *Model) Feasible() Table { return pm.spec.Feasible() }

// Vartype returns the value-domain convention.
func (pm *Model) Vartype() bqm.Vartype { return pm.spec.vartype }

// BQM returns the concrete quadratic model.
// Callers must not mutate it; copy first.
func (pm *Model) BQM() *bqm.BQM { return pm.model }

// ClassicalGap returns the achieved minimum gap between the best infeasible
// configuration and the feasible energy ceiling.
func (pm *Model) ClassicalGap() float64 { return pm.gap }

// GroundEnergy returns the energy level feasible configurations resolve to.
func (pm *Model) GroundEnergy() float64 { return pm.ground }

// MinClassicalGap returns the gap floor the specification requested.
func (pm *Model) MinClassicalGap() float64 { return pm.spec.minGap }

// IsUniform reports whether the model has been verified to give every
// feasible ground configuration equal sampling weight. It is false on
// construction; only the balancing engine (or equivalent verification)
// sets it.
func (pm *Model) IsUniform() bool { return pm.isUniform }

// SetUniform records the outcome of a uniformity verification. Intended for
// the balancing engine; regular callers have no reason to touch it.
func (pm *Model) SetUniform(uniform bool) { pm.isUniform = uniform }

// Copy returns an independent Model with identical structure and flags.
func (pm *Model) Copy() *Model {
	spec, _ := pm.spec.relabel(nil) // nil mapping: pure deep copy
	return &Model{
		spec:      spec,
		model:     pm.model.Copy(),
		gap:       pm.gap,
		ground:    pm.ground,
		isUniform: pm.isUniform,
	}
}

// Equal reports structural equality: equal graph, decision tuple, feasible
// configurations, vartype, quadratic model, classical gap and ground
// energy. IsUniform is a verification mark, not structure, and is ignored.
func (pm *Model) Equal(other *Model) bool {
	if pm == nil || other == nil {
		return pm == other
	}

	return pm.gap == other.gap &&
		pm.ground == other.ground &&
		pm.spec.Equal(other.spec) &&
		pm.model.Equal(other.model)
}

// RelabelVariables renames variables per mapping across the specification
// and the quadratic model in one simultaneous substitution. Configuration
// tuples never change. With inplace=false a new Model is returned; with
// inplace=true the receiver's state is replaced and the receiver returned.
//
// Round-trip law: relabeling by M then by M's inverse reproduces a Model
// structurally equal to the original, in either mode.
func (pm *Model) RelabelVariables(mapping map[string]string, inplace bool) (*Model, error) {
	spec, err := pm.spec.relabel(mapping)
	if err != nil {
		return nil, err
	}
	model, err := pm.model.Relabel(mapping)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpecification, err)
	}

	relabeled := &Model{
		spec:      spec,
		model:     model,
		gap:       pm.gap,
		ground:    pm.ground,
		isUniform: pm.isUniform,
	}
	if inplace {
		*pm = *relabeled
		return pm, nil
	}

	return relabeled, nil
}
