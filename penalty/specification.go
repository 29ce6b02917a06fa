package penalty

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/penaltymodel/bqm"
	"github.com/katalvlaran/penaltymodel/graph"
)

// Specification describes what must be synthesized: the variable graph, the
// ordered decision variables, the feasible-configuration table, the vartype,
// bias bounds and the minimum acceptable classical gap. A Specification is
// read-only after construction; relabeling produces a new value or replaces
// the internal state wholesale, never a third entity type.
type Specification struct {
	graph           *graph.Graph
	decision        []string
	table           Table
	vartype         bqm.Vartype
	linearRanges    LinearRanges
	quadraticRanges QuadraticRanges
	minGap          float64
}

// NewSpecification validates and builds a Specification.
//
// Validation stages, first violation wins:
//  1. graph non-nil and non-empty; at least one decision variable and one
//     feasible configuration.
//  2. every decision variable is a graph node, with no duplicates.
//  3. every configuration has one value per decision variable, each valid
//     under the vartype.
//  4. explicit bias ranges refer to existing nodes/edges and are ordered.
func NewSpecification(g *graph.Graph, decision []string, table Table, vt bqm.Vartype, opts ...SpecOption) (*Specification, error) {
	if g == nil || g.NumNodes() == 0 {
		return nil, fmt.Errorf("%w: nil or empty graph", ErrInvalidSpecification)
	}
	if len(decision) == 0 {
		return nil, fmt.Errorf("%w: no decision variables", ErrInvalidSpecification)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: no feasible configurations", ErrInvalidSpecification)
	}

	seen := make(map[string]struct{}, len(decision))
	for _, v := range decision {
		if !g.HasNode(v) {
			return nil, fmt.Errorf("%w: decision variable %q is not a graph node", ErrInvalidSpecification, v)
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("%w: duplicate decision variable %q", ErrInvalidSpecification, v)
		}
		seen[v] = struct{}{}
	}

	for key := range table {
		cfg, err := ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSpecification, err)
		}
		if len(cfg) != len(decision) {
			return nil, fmt.Errorf("%w: configuration %q has %d values for %d decision variables",
				ErrInvalidSpecification, key, len(cfg), len(decision))
		}
		for _, x := range cfg {
			if !vt.Valid(x) {
				return nil, fmt.Errorf("%w: configuration %q has value %d outside %s",
					ErrInvalidSpecification, key, x, vt)
			}
		}
	}

	s := &Specification{
		graph:           g,
		decision:        slices.Clone(decision),
		table:           table.Copy(),
		vartype:         vt,
		linearRanges:    make(LinearRanges),
		quadraticRanges: make(QuadraticRanges),
		minGap:          DefaultMinClassicalGap,
	}
	for _, opt := range opts {
		opt(s)
	}

	for v, r := range s.linearRanges {
		if !g.HasNode(v) {
			return nil, fmt.Errorf("%w: linear range for non-node %q", ErrInvalidSpecification, v)
		}
		if r.Min > r.Max {
			return nil, fmt.Errorf("%w: inverted linear range for %q", ErrInvalidSpecification, v)
		}
	}
	for e, r := range s.quadraticRanges {
		if !g.HasEdge(e.U, e.V) {
			return nil, fmt.Errorf("%w: quadratic range for non-edge (%q,%q)", ErrInvalidSpecification, e.U, e.V)
		}
		if r.Min > r.Max {
			return nil, fmt.Errorf("%w: inverted quadratic range for (%q,%q)", ErrInvalidSpecification, e.U, e.V)
		}
	}

	return s, nil
}

// Graph returns the variable graph.
func (s *Specification) Graph() *graph.Graph { return s.graph }

// DecisionVariables returns the ordered decision variables.
// The returned slice is a copy; the specification stays read-only.
func (s *Specification) DecisionVariables() []string { return slices.Clone(s.decision) }

// Feasible returns a copy of the feasible-configuration table.
func (s *Specification) Feasible() Table { return s.table.Copy() }

// Vartype returns the value-domain convention.
func (s *Specification) Vartype() bqm.Vartype { return s.vartype }

// MinClassicalGap returns the smallest acceptable classical gap.
func (s *Specification) MinClassicalGap() float64 { return s.minGap }

// LinearRange returns v's bias bounds, defaulting to DefaultLinearRange.
func (s *Specification) LinearRange(v string) Range {
	if r, ok := s.linearRanges[v]; ok {
		return r
	}
	return DefaultLinearRange
}

// QuadraticRange returns the bias bounds of edge (u,v), defaulting to
// DefaultQuadraticRange.
func (s *Specification) QuadraticRange(u, v string) Range {
	if r, ok := s.quadraticRanges[graph.NewEdge(u, v)]; ok {
		return r
	}
	return DefaultQuadraticRange
}

// Equal reports structural equality: same node/edge sets, same ordered
// decision variables, same table, same vartype.
func (s *Specification) Equal(other *Specification) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.vartype == other.vartype &&
		slices.Equal(s.decision, other.decision) &&
		s.table.Equal(other.table) &&
		s.graph.Equal(other.graph)
}

// RelabelVariables renames variables per mapping everywhere they appear:
// graph nodes and edges, the decision tuple (by position), and the bias
// range keys. Configuration tuples are positional and never change. The
// substitution is simultaneous, so swaps and permutation cycles round-trip.
//
// With inplace=false a new Specification is returned; with inplace=true the
// receiver's state is replaced and the receiver returned.
func (s *Specification) RelabelVariables(mapping map[string]string, inplace bool) (*Specification, error) {
	relabeled, err := s.relabel(mapping)
	if err != nil {
		return nil, err
	}
	if inplace {
		*s = *relabeled
		return s, nil
	}

	return relabeled, nil
}

// relabel is the pure substitution shared by copy and in-place modes.
func (s *Specification) relabel(mapping map[string]string) (*Specification, error) {
	rename := func(v string) string {
		if to, ok := mapping[v]; ok {
			return to
		}
		return v
	}

	g, err := s.graph.Relabel(mapping)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpecification, err)
	}

	decision := make([]string, len(s.decision))
	for i, v := range s.decision {
		decision[i] = rename(v)
	}

	linear := make(LinearRanges, len(s.linearRanges))
	for v, r := range s.linearRanges {
		linear[rename(v)] = r
	}
	quadratic := make(QuadraticRanges, len(s.quadraticRanges))
	for e, r := range s.quadraticRanges {
		quadratic[graph.NewEdge(rename(e.U), rename(e.V))] = r
	}

	return &Specification{
		graph:           g,
		decision:        decision,
		table:           s.table.Copy(),
		vartype:         s.vartype,
		linearRanges:    linear,
		quadraticRanges: quadratic,
		minGap:          s.minGap,
	}, nil
}
