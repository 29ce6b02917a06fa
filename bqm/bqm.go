package bqm

import (
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors for model operations.
var (
	// ErrEmptyVariable indicates a variable label was the empty string.
	ErrEmptyVariable = errors.New("bqm: variable label is empty")

	// ErrSelfInteraction indicates a quadratic bias pairing a variable with itself.
	ErrSelfInteraction = errors.New("bqm: quadratic bias on a single variable")

	// ErrMissingVariable indicates an energy evaluation lacked a variable's value.
	ErrMissingVariable = errors.New("bqm: sample is missing a variable")

	// ErrInvalidValue indicates a sample value outside the vartype's domain.
	ErrInvalidValue = errors.New("bqm: sample value outside vartype domain")

	// ErrLabelCollision indicates a relabeling that would merge two variables.
	ErrLabelCollision = errors.New("bqm: relabeling collides with an existing label")
)

// Pair is a normalized unordered variable pair: U ≤ V lexicographically.
type Pair struct {
	U, V string
}

// NewPair returns the normalized pair of u and v.
func NewPair(u, v string) Pair {
	if v < u {
		u, v = v, u
	}
	return Pair{U: u, V: v}
}

// BQM is a binary quadratic model. The zero value is not usable;
// construct with New.
type BQM struct {
	vartype   Vartype
	linear    map[string]float64
	quadratic map[Pair]float64
	offset    float64
}

// New returns an empty model with the given vartype.
func New(vt Vartype) *BQM {
	return &BQM{
		vartype:   vt,
		linear:    make(map[string]float64),
		quadratic: make(map[Pair]float64),
	}
}

// Vartype returns the model's value-domain convention.
func (m *BQM) Vartype() Vartype { return m.vartype }

// Offset returns the constant energy offset.
func (m *BQM) Offset() float64 { return m.offset }

// SetOffset replaces the constant energy offset.
func (m *BQM) SetOffset(c float64) { m.offset = c }

// SetLinear sets the linear bias of v, overriding any previous value.
func (m *BQM) SetLinear(v string, bias float64) error {
	if v == "" {
		return ErrEmptyVariable
	}
	m.linear[v] = bias

	return nil
}

// AddLinear accumulates bias onto v's linear bias.
func (m *BQM) AddLinear(v string, bias float64) error {
	if v == "" {
		return ErrEmptyVariable
	}
	m.linear[v] += bias

	return nil
}

// Linear returns v's linear bias (zero when unset).
func (m *BQM) Linear(v string) float64 { return m.linear[v] }

// SetQuadratic sets the interaction bias between u and v.
func (m *BQM) SetQuadratic(u, v string, bias float64) error {
	if u == "" || v == "" {
		return ErrEmptyVariable
	}
	if u == v {
		return fmt.Errorf("%w: %q", ErrSelfInteraction, u)
	}
	m.quadratic[NewPair(u, v)] = bias

	return nil
}

// AddQuadratic accumulates bias onto the interaction between u and v.
func (m *BQM) AddQuadratic(u, v string, bias float64) error {
	if u == "" || v == "" {
		return ErrEmptyVariable
	}
	if u == v {
		return fmt.Errorf("%w: %q", ErrSelfInteraction, u)
	}
	m.quadratic[NewPair(u, v)] += bias

	return nil
}

// Quadratic returns the interaction bias between u and v and whether it is set.
func (m *BQM) Quadratic(u, v string) (float64, bool) {
	bias, ok := m.quadratic[NewPair(u, v)]
	return bias, ok
}

// Variables returns every variable touched by a linear or quadratic term,
// sorted for deterministic iteration.
func (m *BQM) Variables() []string {
	set := make(map[string]struct{}, len(m.linear))
	for v := range m.linear {
		set[v] = struct{}{}
	}
	for p := range m.quadratic {
		set[p.U] = struct{}{}
		set[p.V] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)

	return out
}

// Interactions returns every pair carrying a quadratic bias, sorted.
func (m *BQM) Interactions() []Pair {
	out := make([]Pair, 0, len(m.quadratic))
	for p := range m.quadratic {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Pair) int {
		if a.U != b.U {
			if a.U < b.U {
				return -1
			}
			return 1
		}
		switch {
		case a.V < b.V:
			return -1
		case a.V > b.V:
			return 1
		default:
			return 0
		}
	})

	return out
}

// NumVariables returns the number of variables touched by the model.
func (m *BQM) NumVariables() int { return len(m.Variables()) }

// IsEmpty reports whether the model carries no linear or quadratic term.
// A bare offset does not make a model non-empty: with no variables there is
// no configuration structure to evaluate.
func (m *BQM) IsEmpty() bool {
	return len(m.linear) == 0 && len(m.quadratic) == 0
}

// Energy evaluates the model on a full assignment of its variables.
// Every model variable must be present in the sample and valid under the
// model's vartype; extra sample entries are ignored.
func (m *BQM) Energy(sample map[string]int) (float64, error) {
	e := m.offset

	for v, h := range m.linear {
		s, ok := sample[v]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingVariable, v)
		}
		if !m.vartype.Valid(s) {
			return 0, fmt.Errorf("%w: %q=%d under %s", ErrInvalidValue, v, s, m.vartype)
		}
		e += h * float64(s)
	}

	for p, j := range m.quadratic {
		su, ok := sample[p.U]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingVariable, p.U)
		}
		sv, ok := sample[p.V]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingVariable, p.V)
		}
		if !m.vartype.Valid(su) || !m.vartype.Valid(sv) {
			return 0, fmt.Errorf("%w: (%q,%q) under %s", ErrInvalidValue, p.U, p.V, m.vartype)
		}
		e += j * float64(su) * float64(sv)
	}

	return e, nil
}

// Copy returns an independent deep copy of m.
func (m *BQM) Copy() *BQM {
	out := New(m.vartype)
	out.offset = m.offset
	for v, h := range m.linear {
		out.linear[v] = h
	}
	for p, j := range m.quadratic {
		out.quadratic[p] = j
	}

	return out
}

// Equal reports exact structural equality: same vartype, same offset, and
// identical linear/quadratic bias maps. Floats are compared exactly;
// relabeling and copying preserve bias values verbatim, so round-trips
// compare equal.
func (m *BQM) Equal(other *BQM) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.vartype != other.vartype || m.offset != other.offset {
		return false
	}
	if len(m.linear) != len(other.linear) || len(m.quadratic) != len(other.quadratic) {
		return false
	}
	for v, h := range m.linear {
		if oh, ok := other.linear[v]; !ok || oh != h {
			return false
		}
	}
	for p, j := range m.quadratic {
		if oj, ok := other.quadratic[p]; !ok || oj != j {
			return false
		}
	}

	return true
}

// Relabel returns a copy of m with every variable u renamed to mapping[u];
// variables absent from the mapping keep their label. The substitution is
// simultaneous (it reads only the original maps), so swaps and chained
// renames are safe. Merging two variables is rejected.
func (m *BQM) Relabel(mapping map[string]string) (*BQM, error) {
	rename := func(v string) string {
		if to, ok := mapping[v]; ok {
			return to
		}
		return v
	}

	seen := make(map[string]string)
	for _, v := range m.Variables() {
		to := rename(v)
		if to == "" {
			return nil, ErrEmptyVariable
		}
		if from, dup := seen[to]; dup {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrLabelCollision, from, v, to)
		}
		seen[to] = v
	}

	out := New(m.vartype)
	out.offset = m.offset
	for v, h := range m.linear {
		out.linear[rename(v)] = h
	}
	for p, j := range m.quadratic {
		out.quadratic[NewPair(rename(p.U), rename(p.V))] = j
	}

	return out, nil
}
