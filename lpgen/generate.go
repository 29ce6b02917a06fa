package lpgen

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/penaltymodel/bqm"
	"github.com/katalvlaran/penaltymodel/graph"
	"github.com/katalvlaran/penaltymodel/penalty"
)

// GenerateBQM synthesizes a quadratic model over g whose decision variables
// realize the feasible-configuration table, maximizing the classical gap.
//
// Returns the model and the achieved gap, measured against the highest
// target energy in the table: every configuration outside the table ends up
// at energy ≥ max(target) + gap.
//
// Contract:
//   - decision must span every node of g; relations needing auxiliary
//     variables fail with ErrInfeasible (no silent approximation).
//   - invalid requests (empty graph/table, configurations of the wrong
//     length, decision variables outside g) fail with
//     penalty.ErrInvalidSpecification.
//   - any solver failure — infeasible, unbounded, ill-conditioned —
//     surfaces as ErrInfeasible.
//
// Complexity: the LP has |V|+|E|+2 unknowns and one row per decision
// configuration plus two per bias bound; enumeration of the 2^|V| decision
// configurations dominates assembly.
func GenerateBQM(g *graph.Graph, table penalty.Table, decision []string, opts ...Option) (*bqm.BQM, float64, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	specOpts := []penalty.SpecOption{penalty.WithMinClassicalGap(o.minGap)}
	if o.linear != nil {
		specOpts = append(specOpts, penalty.WithLinearRanges(o.linear))
	}
	if o.quadratic != nil {
		specOpts = append(specOpts, penalty.WithQuadraticRanges(o.quadratic))
	}

	spec, err := penalty.NewSpecification(g, decision, table, o.vartype, specOpts...)
	if err != nil {
		return nil, 0, err
	}

	return generate(spec, o.gapBound)
}

// Synthesizer adapts the LP engine to the penalty.Synthesizer capability.
// The zero value is ready to use.
type Synthesizer struct {
	// GapBound overrides DefaultGapBound when positive.
	GapBound float64
}

// Synthesize runs the LP engine on spec and wraps the result into a
// validated penalty.Model. The ground energy is the smallest target in the
// table (targets are absolute for this engine: equality constraints pin
// each feasible configuration to its target).
func (s Synthesizer) Synthesize(spec *penalty.Specification) (*penalty.Model, error) {
	bound := s.GapBound
	if bound <= 0 {
		bound = DefaultGapBound
	}

	model, gap, err := generate(spec, bound)
	if err != nil {
		return nil, err
	}

	return penalty.FromSpecification(spec, model, gap, spec.Feasible().MinTarget())
}

// solve indirects the simplex call; tests substitute failing solvers here.
var solve = lp.Simplex

// generate assembles and solves the gap-maximization LP for spec.
func generate(spec *penalty.Specification, gapBound float64) (*bqm.BQM, float64, error) {
	g := spec.Graph()
	nodes := g.Nodes()
	edges := g.Edges()
	decision := spec.DecisionVariables()
	table := spec.Feasible()

	// Stage 1: auxiliary-variable guard. This engine only handles relations
	// whose decision variables span the graph; anything else must fail so
	// the dispatch layer can try a strategy that introduces auxiliaries.
	if len(decision) != len(nodes) {
		return nil, 0, fmt.Errorf("%w: %d of %d graph nodes are auxiliary, which this engine does not support",
			ErrInfeasible, len(nodes)-len(decision), len(nodes))
	}

	// Stage 2: index the LP unknowns as [h_1..h_n, J_1..J_m, offset, gap].
	n, m := len(nodes), len(edges)
	nv := n + m + 2
	offsetCol, gapCol := n+m, n+m+1

	nodeCol := make(map[string]int, n)
	for i, v := range nodes {
		nodeCol[v] = i
	}

	// energyRow writes the energy expression of one full assignment into
	// row: state values on the bias columns, 1 on the offset column.
	energyRow := func(row []float64, values map[string]float64, scale float64) {
		for v, x := range values {
			row[nodeCol[v]] = scale * x
		}
		for j, e := range edges {
			row[n+j] = scale * values[e.U] * values[e.V]
		}
		row[offsetCol] = scale
	}

	// Stage 3: equality rows — each feasible configuration's energy is
	// pinned to its target.
	feasible := table.Configs()
	eqData := make([]float64, 0, len(feasible)*nv)
	eqB := make([]float64, 0, len(feasible))
	for _, cfg := range feasible {
		values := make(map[string]float64, len(decision))
		for i, v := range decision {
			values[v] = float64(cfg[i])
		}
		row := make([]float64, nv)
		energyRow(row, values, 1)
		eqData = append(eqData, row...)
		target, _ := table.Target(cfg)
		eqB = append(eqB, target)
	}

	// Stage 4: inequality rows (G x ≤ h).
	var ineqData []float64
	var ineqB []float64
	addIneq := func(row []float64, bound float64) {
		ineqData = append(ineqData, row...)
		ineqB = append(ineqB, bound)
	}

	// 4a: every configuration outside the table sits at least one gap above
	// the highest feasible target: -E(s) + gap ≤ -max(target).
	maxTarget := table.MaxTarget()
	vals := spec.Vartype().Values()
	for mask := 0; mask < 1<<n; mask++ {
		cfg := make(penalty.Config, len(decision))
		for i := range decision {
			cfg[i] = vals[(mask>>i)&1]
		}
		if table.Contains(cfg) {
			continue
		}
		values := make(map[string]float64, len(decision))
		for i, v := range decision {
			values[v] = float64(cfg[i])
		}
		row := make([]float64, nv)
		energyRow(row, values, -1)
		row[gapCol] = 1
		addIneq(row, -maxTarget)
	}

	// 4b: box bounds on every bias. The offset stays free.
	bound := func(col int, r penalty.Range) {
		upper := make([]float64, nv)
		upper[col] = 1
		addIneq(upper, r.Max)

		lower := make([]float64, nv)
		lower[col] = -1
		addIneq(lower, -r.Min)
	}
	for i, v := range nodes {
		bound(i, spec.LinearRange(v))
	}
	for j, e := range edges {
		bound(n+j, spec.QuadraticRange(e.U, e.V))
	}

	// 4c: the gap lives in [minGap, gapBound].
	bound(gapCol, penalty.Range{Min: spec.MinClassicalGap(), Max: gapBound})

	// Stage 5: maximize the gap (minimize its negation) via simplex on the
	// standard-form conversion. Free variables split as x = xp - xn.
	c := make([]float64, nv)
	c[gapCol] = -1

	gMat := mat.NewDense(len(ineqB), nv, ineqData)
	aMat := mat.NewDense(len(eqB), nv, eqData)

	cStd, aStd, bStd := lp.Convert(c, gMat, ineqB, aMat, eqB)
	_, xStd, err := solve(cStd, aStd, bStd, simplexTol, nil)
	if err != nil {
		// Infeasible, unbounded and singular systems are equally fatal here;
		// salvage attempts belong to richer strategies, not this engine.
		return nil, 0, fmt.Errorf("%w: %v", ErrInfeasible, err)
	}

	x := make([]float64, nv)
	for i := range x {
		x[i] = xStd[i] - xStd[nv+i]
	}
	gap := x[gapCol]
	if gap <= 0 {
		return nil, 0, fmt.Errorf("%w: maximized gap %g is not positive", ErrInfeasible, gap)
	}

	// Stage 6: materialize the model and re-check the solved energies
	// against their targets within tolerance.
	model := bqm.New(spec.Vartype())
	for i, v := range nodes {
		if err = model.SetLinear(v, x[i]); err != nil {
			return nil, 0, err
		}
	}
	for j, e := range edges {
		if err = model.SetQuadratic(e.U, e.V, x[n+j]); err != nil {
			return nil, 0, err
		}
	}
	model.SetOffset(x[offsetCol])

	if err = verify(model, table, decision, maxTarget, gap); err != nil {
		return nil, 0, err
	}

	return model, gap, nil
}

// verify replays every decision configuration through the solved model:
// feasible configurations must match their targets, all others must clear
// the threshold max(target) + gap, each within verifyTol.
func verify(model *bqm.BQM, table penalty.Table, decision []string, maxTarget, gap float64) error {
	vals := model.Vartype().Values()
	n := len(decision)

	for mask := 0; mask < 1<<n; mask++ {
		cfg := make(penalty.Config, n)
		sample := make(map[string]int, n)
		for i, v := range decision {
			cfg[i] = vals[(mask>>i)&1]
			sample[v] = cfg[i]
		}

		e, err := model.Energy(sample)
		if err != nil {
			return err
		}

		if target, ok := table.Target(cfg); ok {
			if diff := e - target; diff > verifyTol || diff < -verifyTol {
				return fmt.Errorf("%w: configuration %q solved to %g, want %g",
					ErrInfeasible, cfg.Key(), e, target)
			}
		} else if e < maxTarget+gap-verifyTol {
			return fmt.Errorf("%w: configuration %q at %g breaches threshold %g",
				ErrInfeasible, cfg.Key(), e, maxTarget+gap)
		}
	}

	return nil
}
