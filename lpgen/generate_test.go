package lpgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/penaltymodel/bqm"
	"github.com/katalvlaran/penaltymodel/exact"
	"github.com/katalvlaran/penaltymodel/graph"
	"github.com/katalvlaran/penaltymodel/lpgen"
	"github.com/katalvlaran/penaltymodel/penalty"
)

// verifyGate checks that every output-consistent row of a two-input gate
// sits at ground and every other row clears ground + minGap.
func verifyGate(t *testing.T, model *bqm.BQM, nodes []string, gate func(a, b int) int, ground, minGap float64) {
	t.Helper()
	for _, a := range []int{-1, 1} {
		for _, b := range []int{-1, 1} {
			for _, c := range []int{-1, 1} {
				sample := map[string]int{nodes[0]: a, nodes[1]: b, nodes[2]: c}
				e, err := model.Energy(sample)
				require.NoError(t, err)

				if c == gate(a, b) {
					assert.InDelta(t, ground, e, 1e-6, "feasible %v", sample)
				} else {
					assert.GreaterOrEqual(t, e+1e-6, ground+minGap, "infeasible %v", sample)
				}
			}
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func TestGenerateBQM_EmptyInputs(t *testing.T) {
	_, _, err := lpgen.GenerateBQM(graph.New(), penalty.Table{}, nil)
	require.ErrorIs(t, err, penalty.ErrInvalidSpecification)
}

func TestGenerateBQM_ORGateMapping(t *testing.T) {
	nodes := []string{"a", "b", "c"}
	g := graph.Complete(nodes...)

	table := penalty.Table{}
	table.Set(penalty.Config{-1, 1, 1}, 0)
	table.Set(penalty.Config{1, -1, 1}, 0)
	table.Set(penalty.Config{1, 1, 1}, 0)
	table.Set(penalty.Config{-1, -1, -1}, 0)

	model, gap, err := lpgen.GenerateBQM(g, table, nodes)
	require.NoError(t, err)
	require.Greater(t, gap, 0.0)

	verifyGate(t, model, nodes, maxInt, 0, 2)
}

func TestGenerateBQM_ANDGateSet(t *testing.T) {
	nodes := []string{"n1", "n2", "n3"}
	g := graph.Complete(nodes...)

	table := penalty.NewTable(
		penalty.Config{-1, -1, -1},
		penalty.Config{-1, 1, -1},
		penalty.Config{1, -1, -1},
		penalty.Config{1, 1, 1},
	)

	model, gap, err := lpgen.GenerateBQM(g, table, nodes)
	require.NoError(t, err)
	require.Greater(t, gap, 0.0)

	verifyGate(t, model, nodes, minInt, 0, 2)
}

func TestGenerateBQM_NANDGateList(t *testing.T) {
	nodes := []string{"n1", "n2", "n3"}
	g := graph.Complete(nodes...)

	table := penalty.NewTable(
		penalty.Config{-1, -1, 1},
		penalty.Config{-1, 1, 1},
		penalty.Config{1, -1, 1},
		penalty.Config{1, 1, -1},
	)

	model, gap, err := lpgen.GenerateBQM(g, table, nodes)
	require.NoError(t, err)
	require.Greater(t, gap, 0.0)

	verifyGate(t, model, nodes, func(a, b int) int { return -minInt(a, b) }, 0, 2)
}

func TestGenerateBQM_MinClassicalGap(t *testing.T) {
	run := func(minGap float64) (*bqm.BQM, float64, error) {
		nodes := []string{"a", "b"}
		g := graph.Complete(nodes...)
		table := penalty.Table{}
		table.Set(penalty.Config{-1, -1}, -1)
		table.Set(penalty.Config{-1, 1}, -1)
		table.Set(penalty.Config{1, -1}, -1)
		return lpgen.GenerateBQM(g, table, nodes, lpgen.WithMinClassicalGap(minGap))
	}

	// The topology cannot support a gap of 5 under default bias bounds.
	_, _, err := run(5)
	require.ErrorIs(t, err, lpgen.ErrInfeasible)

	// Lowering the floor to 4 succeeds, and 4 is exactly the maximum.
	_, gap, err := run(4)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, gap, 1e-6)
}

func TestGenerateBQM_LinearEnergyRange(t *testing.T) {
	g := graph.Complete("a")
	table := penalty.Table{}
	table.Set(penalty.Config{1}, 96)
	table.Set(penalty.Config{-1}, 104)

	model, _, err := lpgen.GenerateBQM(g, table, []string{"a"},
		lpgen.WithLinearRanges(penalty.LinearRanges{"a": {Min: -5, Max: -2}}))
	require.NoError(t, err)

	assert.InDelta(t, 100.0, model.Offset(), 1e-6)
	assert.InDelta(t, -4.0, model.Linear("a"), 1e-6)
}

func TestGenerateBQM_QuadraticEnergyRange(t *testing.T) {
	nodes := []string{"a", "b"}
	g := graph.Complete(nodes...)
	table := penalty.Table{}
	table.Set(penalty.Config{-1, -1}, -82)
	table.Set(penalty.Config{1, 1}, -80)
	table.Set(penalty.Config{1, -1}, 162)

	model, _, err := lpgen.GenerateBQM(g, table, nodes,
		lpgen.WithQuadraticRanges(penalty.QuadraticRanges{
			graph.NewEdge("a", "b"): {Min: -130, Max: -120},
		}))
	require.NoError(t, err)

	assert.InDelta(t, 42.0, model.Offset(), 1e-6)
	assert.InDelta(t, -1.0, model.Linear("a"), 1e-6)
	assert.InDelta(t, 2.0, model.Linear("b"), 1e-6)

	j, ok := model.Quadratic("a", "b")
	require.True(t, ok)
	assert.InDelta(t, -123.0, j, 1e-6)
}

func TestGenerateBQM_FullySpecifiedTable(t *testing.T) {
	// Every decision configuration carries a target: no infeasible rows, so
	// only the gap ceiling bounds the LP.
	nodes := []string{"x", "y"}
	g := graph.Complete(nodes...)
	table := penalty.Table{}
	table.Set(penalty.Config{-1, -1}, -0.5)
	table.Set(penalty.Config{-1, 1}, 3.5)
	table.Set(penalty.Config{1, -1}, 1.5)
	table.Set(penalty.Config{1, 1}, 3.5)

	model, gap, err := lpgen.GenerateBQM(g, table, nodes)
	require.NoError(t, err)
	require.Greater(t, gap, 0.0)

	for _, cfg := range table.Configs() {
		target, _ := table.Target(cfg)
		e, err := model.Energy(map[string]int{"x": cfg[0], "y": cfg[1]})
		require.NoError(t, err)
		assert.InDelta(t, target, e, 1e-6, "config %v", cfg)
	}
}

func TestGenerateBQM_MixedSpecificationTable(t *testing.T) {
	nodes := []string{"x", "y", "z"}
	g := graph.Complete(nodes...)
	table := penalty.Table{}
	table.Set(penalty.Config{-1, -1, 1}, 0)
	table.Set(penalty.Config{1, -1, 1}, 2)

	model, gap, err := lpgen.GenerateBQM(g, table, nodes)
	require.NoError(t, err)
	require.Greater(t, gap, 0.0)

	for _, i := range []int{-1, 1} {
		for _, j := range []int{-1, 1} {
			for _, k := range []int{-1, 1} {
				cfg := penalty.Config{i, j, k}
				e, err := model.Energy(map[string]int{"x": i, "y": j, "z": k})
				require.NoError(t, err)

				if target, ok := table.Target(cfg); ok {
					assert.InDelta(t, target, e, 1e-6)
				} else {
					assert.GreaterOrEqual(t, e+1e-6, 2.0, "threshold anchors at the max target")
				}
			}
		}
	}
}

func TestGenerateBQM_GapMeasuredFromMaxTarget(t *testing.T) {
	nodes := []string{"a", "b"}
	g := graph.Complete(nodes...)
	table := penalty.Table{}
	table.Set(penalty.Config{1, 1}, 1)
	table.Set(penalty.Config{-1, 1}, 0)
	table.Set(penalty.Config{1, -1}, 0)

	model, gap, err := lpgen.GenerateBQM(g, table, nodes)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, gap, 1e-6)

	for _, cfg := range table.Configs() {
		target, _ := table.Target(cfg)
		e, err := model.Energy(map[string]int{"a": cfg[0], "b": cfg[1]})
		require.NoError(t, err)
		assert.InDelta(t, target, e, 1e-6)
	}

	// The unspecified row lands at max-target + gap = 1 + 2, not 0 + 2.
	e, err := model.Energy(map[string]int{"a": -1, "b": -1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, e, 1e-6)
}

func TestGenerateBQM_XORNeedsAuxiliary(t *testing.T) {
	nodes := []string{"a", "b", "c"}
	g := graph.Complete(nodes...)

	table := penalty.NewTable(
		penalty.Config{-1, -1, -1},
		penalty.Config{-1, 1, 1},
		penalty.Config{1, -1, 1},
		penalty.Config{1, 1, -1},
	)

	// XOR is not quadratically separable without an auxiliary variable.
	_, _, err := lpgen.GenerateBQM(g, table, nodes)
	require.ErrorIs(t, err, lpgen.ErrInfeasible)
}

func TestGenerateBQM_AuxiliaryNodesRejected(t *testing.T) {
	g := graph.Complete("a", "b", "c", "aux")
	table := penalty.NewTable(penalty.Config{-1, -1, -1}, penalty.Config{1, 1, 1})

	// The engine never introduces auxiliary assignments itself.
	_, _, err := lpgen.GenerateBQM(g, table, []string{"a", "b", "c"})
	require.ErrorIs(t, err, lpgen.ErrInfeasible)
}

func TestGenerateBQM_BinaryVartype(t *testing.T) {
	nodes := []string{"x", "y"}
	g := graph.Complete(nodes...)
	table := penalty.NewTable(penalty.Config{0, 1}, penalty.Config{1, 0})

	// Under default bias bounds this relation supports a gap of at most 1/2:
	// the equality rows force h = -offset on both variables, and lifting
	// (1,1) then needs J ≥ 2·gap against the quadratic ceiling of 1. The
	// default gap floor of 2 is therefore unreachable.
	_, _, err := lpgen.GenerateBQM(g, table, nodes, lpgen.WithVartype(bqm.Binary))
	require.ErrorIs(t, err, lpgen.ErrInfeasible)

	model, gap, err := lpgen.GenerateBQM(g, table, nodes,
		lpgen.WithVartype(bqm.Binary),
		lpgen.WithMinClassicalGap(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, gap, 1e-6)

	records, err := exact.Spectrum(model, nodes)
	require.NoError(t, err)
	for _, r := range records {
		cfg := penalty.Config{r.Sample["x"], r.Sample["y"]}
		if table.Contains(cfg) {
			assert.InDelta(t, 0.0, r.Energy, 1e-6)
		} else {
			assert.GreaterOrEqual(t, r.Energy+1e-6, gap)
		}
	}
}

func TestSynthesizer_ProducesValidatedModel(t *testing.T) {
	nodes := []string{"a", "b", "c"}
	g := graph.Complete(nodes...)
	table := penalty.Table{}
	table.Set(penalty.Config{-1, 1, 1}, 0)
	table.Set(penalty.Config{1, -1, 1}, 0)
	table.Set(penalty.Config{1, 1, 1}, 0)
	table.Set(penalty.Config{-1, -1, -1}, 0)

	spec, err := penalty.NewSpecification(g, nodes, table, bqm.Spin)
	require.NoError(t, err)

	pm, err := penalty.Get(spec, lpgen.Synthesizer{})
	require.NoError(t, err)

	assert.Greater(t, pm.ClassicalGap(), 0.0)
	assert.Equal(t, 0.0, pm.GroundEnergy())
	assert.False(t, pm.IsUniform())
	assert.True(t, spec.Equal(pm.Specification()))
}
