// Package schema holds the canonical feature layout the fitted scaler and
// classifier were trained on, plus the enumerated form options that feed it.
package schema

import (
	"errors"
	"fmt"
)

// Size is the number of slots in every feature vector.
const Size = 49

const (
	Affirmative = "Sí"
	Negative    = "No"
)

var (
	ErrLength    = errors.New("schema: wrong number of features")
	ErrDuplicate = errors.New("schema: duplicate feature name")
	ErrNoSlot    = errors.New("schema: missing feature slot")
	ErrUnclaimed = errors.New("schema: feature slot has no field")
)

// BinaryField is a yes/no risk factor mapped to a single 0/1 slot.
type BinaryField struct {
	Slot  string `json:"slot"`
	Input string `json:"input"`
	Label string `json:"label"`
}

// Group is a categorical input expanded into one-hot slots named Prefix_Value.
type Group struct {
	Name   string   `json:"name"`
	Prefix string   `json:"prefix"`
	Input  string   `json:"input"`
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// SlotName returns the one-hot slot for value, spelled exactly.
func (g Group) SlotName(value string) string {
	return g.Prefix + "_" + value
}

// NumericField is a pass-through measurement. Min and Max are enforced by the
// input-collection boundary; the encoder copies values unchanged.
type NumericField struct {
	Slot    string  `json:"slot"`
	Input   string  `json:"input"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Integer bool    `json:"integer"`
}

// Registry is the immutable feature layout. Build one with New or Default.
type Registry struct {
	names   []string
	index   map[string]int
	binary  []BinaryField
	groups  []Group
	numeric []NumericField
}

// New validates names and the field tables against each other. Every slot a
// field or group value refers to must exist in names, and every name must be
// claimed by some field or group value.
func New(names []string, binary []BinaryField, groups []Group, numeric []NumericField) (*Registry, error) {
	if len(names) != Size {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrLength, Size, len(names))
	}

	index := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := index[n]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, n)
		}
		index[n] = i
	}

	claimed := make(map[string]bool, len(names))
	check := func(slot string) error {
		if _, ok := index[slot]; !ok {
			return fmt.Errorf("%w: %q", ErrNoSlot, slot)
		}
		claimed[slot] = true
		return nil
	}
	for _, b := range binary {
		if err := check(b.Slot); err != nil {
			return nil, err
		}
	}
	for _, g := range groups {
		for _, v := range g.Values {
			if err := check(g.SlotName(v)); err != nil {
				return nil, err
			}
		}
	}
	for _, n := range numeric {
		if err := check(n.Slot); err != nil {
			return nil, err
		}
	}
	for _, n := range names {
		if !claimed[n] {
			return nil, fmt.Errorf("%w: %q", ErrUnclaimed, n)
		}
	}

	r := &Registry{
		names:   append([]string(nil), names...),
		index:   index,
		binary:  append([]BinaryField(nil), binary...),
		groups:  make([]Group, len(groups)),
		numeric: append([]NumericField(nil), numeric...),
	}
	for i, g := range groups {
		g.Values = append([]string(nil), g.Values...)
		r.groups[i] = g
	}
	return r, nil
}

// MustNew is New that panics; used for the built-in layout at load time.
func MustNew(names []string, binary []BinaryField, groups []Group, numeric []NumericField) *Registry {
	r, err := New(names, binary, groups, numeric)
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns a copy of the ordered feature names.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Len() int { return len(r.names) }

// Index returns the position of a slot in the vector.
func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

func (r *Registry) Binary() []BinaryField {
	return append([]BinaryField(nil), r.binary...)
}

func (r *Registry) Numeric() []NumericField {
	return append([]NumericField(nil), r.numeric...)
}

func (r *Registry) Groups() []Group {
	out := make([]Group, len(r.groups))
	for i, g := range r.groups {
		g.Values = append([]string(nil), g.Values...)
		out[i] = g
	}
	return out
}

// Group looks a categorical group up by name.
func (r *Registry) Group(name string) (Group, bool) {
	for _, g := range r.groups {
		if g.Name == name {
			g.Values = append([]string(nil), g.Values...)
			return g, true
		}
	}
	return Group{}, false
}

// Numeric field lookup by slot.
func (r *Registry) NumericField(slot string) (NumericField, bool) {
	for _, n := range r.numeric {
		if n.Slot == slot {
			return n, true
		}
	}
	return NumericField{}, false
}

// SameOrder reports whether names matches the registry order exactly.
func (r *Registry) SameOrder(names []string) error {
	if len(names) != len(r.names) {
		return fmt.Errorf("%w: expected %d, got %d", ErrLength, len(r.names), len(names))
	}
	for i, n := range names {
		if n != r.names[i] {
			return fmt.Errorf("schema: feature %d is %q, expected %q", i, n, r.names[i])
		}
	}
	return nil
}
