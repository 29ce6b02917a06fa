package penalty

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrBadConfigKey indicates a Table key that does not decode to a Config.
var ErrBadConfigKey = errors.New("penalty: malformed configuration key")

// Config is an ordered assignment of the decision variables. The i-th value
// belongs to the i-th decision variable; configurations are positional, so
// relabeling variables never changes a Config's contents.
type Config []int

// Key returns the canonical comparable encoding of c, e.g. "-1,1,1".
func (c Config) Key() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, ",")
}

// ParseKey decodes a canonical Key back into a Config.
func ParseKey(key string) (Config, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrBadConfigKey)
	}

	parts := strings.Split(key, ",")
	cfg := make(Config, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadConfigKey, key)
		}
		cfg[i] = v
	}

	return cfg, nil
}

// Table maps feasible decision configurations (by canonical Key) to their
// target energies. Set-form input — feasible rows with no explicit
// energies — is normalized at construction to a mapping with all targets
// zero, the shared internal representation every engine consumes.
type Table map[string]float64

// NewTable builds a set-form Table: every configuration targets energy 0.
func NewTable(configs ...Config) Table {
	t := make(Table, len(configs))
	for _, c := range configs {
		t[c.Key()] = 0
	}

	return t
}

// Set records c as feasible with the given target energy.
func (t Table) Set(c Config, target float64) {
	t[c.Key()] = target
}

// Target returns c's target energy and whether c is feasible.
func (t Table) Target(c Config) (float64, bool) {
	e, ok := t[c.Key()]
	return e, ok
}

// Contains reports whether c is a feasible configuration.
func (t Table) Contains(c Config) bool {
	_, ok := t[c.Key()]
	return ok
}

// Configs returns the feasible configurations in deterministic (sorted-key)
// order.
func (t Table) Configs() []Config {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Config, 0, len(keys))
	for _, k := range keys {
		cfg, err := ParseKey(k)
		if err != nil {
			// Keys written through Set/NewTable always decode; a foreign key
			// is a caller bug surfaced at validation time, not here.
			continue
		}
		out = append(out, cfg)
	}

	return out
}

// MaxTarget returns the largest target energy in the table.
// The infeasible-energy threshold is measured from this value.
func (t Table) MaxTarget() float64 {
	max := math.Inf(-1)
	for _, e := range t {
		if e > max {
			max = e
		}
	}

	return max
}

// MinTarget returns the smallest target energy in the table.
func (t Table) MinTarget() float64 {
	min := math.Inf(1)
	for _, e := range t {
		if e < min {
			min = e
		}
	}

	return min
}

// Copy returns an independent copy of t.
func (t Table) Copy() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}

	return out
}

// Equal reports exact structural equality of the two tables.
func (t Table) Equal(other Table) bool {
	if len(t) != len(other) {
		return false
	}
	for k, v := range t {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}

	return true
}
