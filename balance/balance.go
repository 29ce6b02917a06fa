package balance

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/penaltymodel/bqm"
	"github.com/katalvlaran/penaltymodel/exact"
	"github.com/katalvlaran/penaltymodel/penalty"
)

// completion is one auxiliary assignment of a decision configuration.
type completion struct {
	auxMask int
	energy  float64
}

// group holds every completion of one decision configuration.
type group struct {
	cfg         penalty.Config
	feasible    bool
	completions []completion
}

// Balance searches for a perturbation of pm's biases under which every
// feasible decision configuration owns exactly one ground completion, all
// tied at the model's actual ground energy, while every infeasible
// configuration keeps clearing ground + the original classical gap.
//
// Already-balanced input returns immediately: the result wraps a model
// numerically identical to pm's, flagged IsUniform. Otherwise up to the
// trial budget of randomized completion designations is re-solved and
// verified by exact enumeration; exhausting the budget yields
// ErrDidNotConverge.
//
// The search anchors on the energies the model actually realizes, not the
// declared GroundEnergy/ClassicalGap fields: callers routinely construct
// penalty models with nominal values, and rebalancing must not move the
// spectrum they describe.
func Balance(pm *penalty.Model, opts ...Option) (*penalty.Model, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.nTries < 1 || o.tol < 0 {
		return nil, fmt.Errorf("%w: non-positive trial budget or negative tolerance", ErrInvalidModel)
	}

	// Stage 1: input guards.
	if pm == nil {
		return nil, fmt.Errorf("%w: nil penalty model", ErrInvalidModel)
	}
	model := pm.BQM()
	if model.IsEmpty() {
		return nil, fmt.Errorf("%w: empty model has no configuration structure to rebalance", ErrInvalidModel)
	}
	table := pm.Feasible()
	if table.MaxTarget() != table.MinTarget() {
		return nil, fmt.Errorf("%w: feasible configurations with unequal targets cannot share one ground", ErrInvalidModel)
	}

	decision := pm.DecisionVariables()
	nodes := pm.Graph().Nodes()
	aux := auxiliaries(nodes, decision)
	if len(nodes) > exact.MaxVariables {
		return nil, fmt.Errorf("%w: %d variables exceed the enumeration limit %d",
			ErrInvalidModel, len(nodes), exact.MaxVariables)
	}

	// Stage 2: enumerate the spectrum grouped by decision configuration and
	// anchor on the realized ground energy.
	groups, err := enumerate(model, table, decision, aux)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	ground := realizedGround(groups)
	gap0 := pm.ClassicalGap()

	// Stage 3: short-circuit when the input is already balanced.
	if isBalanced(groups, ground, gap0, o.tol) {
		out := pm.Copy()
		out.SetUniform(true)
		return out, nil
	}

	// Stage 4: randomized designation trials. LP-produced candidates are
	// verified with the tolerance floored at solver round-off.
	rng := rand.New(rand.NewSource(o.seed))
	vTol := math.Max(o.tol, solverSlack)

	for try := 0; try < o.nTries; try++ {
		designation := designate(groups, gap0, try, rng)

		candidate, err := resolve(pm.Specification(), pm.Vartype(), decision, aux, groups, designation, ground, gap0, vTol)
		if err != nil {
			continue
		}

		newGroups, err := enumerate(candidate, table, decision, aux)
		if err != nil {
			continue
		}
		if !isBalanced(newGroups, ground, gap0, vTol) {
			continue
		}

		out, err := penalty.FromSpecification(pm.Specification(), candidate,
			realizedGap(newGroups, ground, gap0), ground)
		if err != nil {
			continue
		}
		out.SetUniform(true)

		return out, nil
	}

	return nil, fmt.Errorf("%w: no balanced perturbation within %d tries", ErrDidNotConverge, o.nTries)
}

// auxiliaries returns the graph nodes that are not decision variables,
// sorted.
func auxiliaries(nodes, decision []string) []string {
	var aux []string
	for _, v := range nodes {
		if !slices.Contains(decision, v) {
			aux = append(aux, v)
		}
	}

	return aux
}

// enumerate evaluates every (decision, auxiliary) assignment and groups the
// records by decision configuration, in decision-mask order.
func enumerate(model *bqm.BQM, table penalty.Table, decision, aux []string) ([]group, error) {
	vals := model.Vartype().Values()
	groups := make([]group, 0, 1<<len(decision))

	for dmask := 0; dmask < 1<<len(decision); dmask++ {
		cfg := make(penalty.Config, len(decision))
		sample := make(map[string]int, len(decision)+len(aux))
		for i, v := range decision {
			cfg[i] = vals[(dmask>>i)&1]
			sample[v] = cfg[i]
		}

		comps := make([]completion, 0, 1<<len(aux))
		for amask := 0; amask < 1<<len(aux); amask++ {
			for i, v := range aux {
				sample[v] = vals[(amask>>i)&1]
			}
			e, err := model.Energy(sample)
			if err != nil {
				return nil, err
			}
			comps = append(comps, completion{auxMask: amask, energy: e})
		}

		groups = append(groups, group{cfg: cfg, feasible: table.Contains(cfg), completions: comps})
	}

	return groups, nil
}

// bestOf returns the lowest completion energy of g and how many completions
// lie within tol of it.
func bestOf(g group, tol float64) (float64, int) {
	best := math.Inf(1)
	for _, c := range g.completions {
		if c.energy < best {
			best = c.energy
		}
	}
	count := 0
	for _, c := range g.completions {
		if c.energy <= best+tol {
			count++
		}
	}

	return best, count
}

// realizedGround returns the lowest best-completion energy over the
// feasible groups — the ground energy the model actually attains.
func realizedGround(groups []group) float64 {
	ground := math.Inf(1)
	for _, g := range groups {
		if !g.feasible {
			continue
		}
		if best, _ := bestOf(g, 0); best < ground {
			ground = best
		}
	}

	return ground
}

// realizedGap returns the margin between the best infeasible completion and
// ground, or the original gap when every configuration is feasible.
func realizedGap(groups []group, ground, gap0 float64) float64 {
	gap := math.Inf(1)
	for _, g := range groups {
		if g.feasible {
			continue
		}
		best, _ := bestOf(g, 0)
		if margin := best - ground; margin < gap {
			gap = margin
		}
	}
	if math.IsInf(gap, 1) {
		return gap0
	}

	return gap
}

// isBalanced reports whether every feasible group has exactly one best
// completion at ground and every infeasible group clears ground + gap0,
// all within tol.
func isBalanced(groups []group, ground, gap0, tol float64) bool {
	for _, g := range groups {
		best, count := bestOf(g, tol)
		if g.feasible {
			if math.Abs(best-ground) > tol || count != 1 {
				return false
			}
		} else if best < ground+gap0-tol {
			return false
		}
	}

	return true
}

// designate picks one completion per feasible group: the current best on
// the first try, then random draws from each group's low-energy window
// (completions within gap0 of the group minimum).
func designate(groups []group, gap0 float64, try int, rng *rand.Rand) map[int]int {
	designation := make(map[int]int)

	for gi, g := range groups {
		if !g.feasible {
			continue
		}

		best, _ := bestOf(g, 0)
		if try == 0 {
			for _, c := range g.completions {
				if c.energy == best {
					designation[gi] = c.auxMask
					break
				}
			}
			continue
		}

		window := make([]int, 0, len(g.completions))
		for _, c := range g.completions {
			if c.energy <= best+gap0 {
				window = append(window, c.auxMask)
			}
		}
		designation[gi] = window[rng.Intn(len(window))]
	}

	return designation
}

// resolve searches for biases pinning each designated completion to ground,
// lifting its siblings by a maximized margin δ, holding every infeasible
// completion at or above ground + gap0, and keeping all biases inside the
// specification's ranges. The bias structure spans every node and edge of
// the specification graph, so the search may introduce terms the input
// model left at zero.
func resolve(spec *penalty.Specification, vt bqm.Vartype, decision, aux []string,
	groups []group, designation map[int]int, ground, gap0, vTol float64) (*bqm.BQM, error) {
	vars := spec.Graph().Nodes()
	pairs := spec.Graph().Edges()
	n, m := len(vars), len(pairs)
	nv := n + m + 2
	offsetCol, deltaCol := n+m, n+m+1

	varCol := make(map[string]int, n)
	for i, v := range vars {
		varCol[v] = i
	}

	vals := vt.Values()

	// energyRow writes ±E(sample) into row for the group's configuration
	// and one auxiliary mask.
	energyRow := func(row []float64, g group, amask int, scale float64) {
		sample := make(map[string]float64, len(decision)+len(aux))
		for i, v := range decision {
			sample[v] = float64(g.cfg[i])
		}
		for i, v := range aux {
			sample[v] = float64(vals[(amask>>i)&1])
		}
		for v, x := range sample {
			if col, ok := varCol[v]; ok {
				row[col] = scale * x
			}
		}
		for j, p := range pairs {
			row[n+j] = scale * sample[p.U] * sample[p.V]
		}
		row[offsetCol] = scale
	}

	var eqData, eqB, ineqData, ineqB []float64
	addIneq := func(row []float64, b float64) {
		ineqData = append(ineqData, row...)
		ineqB = append(ineqB, b)
	}

	for gi, g := range groups {
		if g.feasible {
			pinned := designation[gi]
			for _, c := range g.completions {
				row := make([]float64, nv)
				if c.auxMask == pinned {
					// Designated completion sits exactly at ground.
					energyRow(row, g, c.auxMask, 1)
					eqData = append(eqData, row...)
					eqB = append(eqB, ground)
					continue
				}
				// Sibling completions are lifted by at least δ.
				energyRow(row, g, c.auxMask, -1)
				row[deltaCol] = 1
				addIneq(row, -ground)
			}
			continue
		}
		// Infeasible completions keep clearing the original gap.
		for _, c := range g.completions {
			row := make([]float64, nv)
			energyRow(row, g, c.auxMask, -1)
			addIneq(row, -(ground + gap0))
		}
	}

	// Box bounds: biases stay inside the specification's ranges, δ inside
	// (0, gap0]. The offset is free.
	boundRow := func(col int, r penalty.Range) {
		upper := make([]float64, nv)
		upper[col] = 1
		addIneq(upper, r.Max)

		lower := make([]float64, nv)
		lower[col] = -1
		addIneq(lower, -r.Min)
	}
	for i, v := range vars {
		boundRow(i, spec.LinearRange(v))
	}
	for j, p := range pairs {
		boundRow(n+j, spec.QuadraticRange(p.U, p.V))
	}
	boundRow(deltaCol, penalty.Range{Min: 0, Max: gap0})

	// Maximize δ; free unknowns split as x = xp - xn for the simplex.
	c := make([]float64, nv)
	c[deltaCol] = -1

	gMat := mat.NewDense(len(ineqB), nv, ineqData)
	aMat := mat.NewDense(len(eqB), nv, eqData)

	cStd, aStd, bStd := lp.Convert(c, gMat, ineqB, aMat, eqB)
	_, xStd, err := lp.Simplex(cStd, aStd, bStd, 1e-10, nil)
	if err != nil {
		return nil, err
	}

	x := make([]float64, nv)
	for i := range x {
		x[i] = xStd[i] - xStd[nv+i]
	}
	if x[deltaCol] <= vTol {
		return nil, fmt.Errorf("designation admits no positive separation")
	}

	out := bqm.New(vt)
	for i, v := range vars {
		if err = out.SetLinear(v, x[i]); err != nil {
			return nil, err
		}
	}
	for j, p := range pairs {
		if err = out.SetQuadratic(p.U, p.V, x[n+j]); err != nil {
			return nil, err
		}
	}
	out.SetOffset(x[offsetCol])

	return out, nil
}
