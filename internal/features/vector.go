package features

// Column is one named slot of a vector, used for display.
type Column struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Vector is an encoded record aligned to the registry order. It is never
// modified after Encode returns it.
type Vector struct {
	names  []string
	values []float64
}

func (v Vector) Len() int { return len(v.values) }

// Values returns a copy of the slots in registry order.
func (v Vector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

func (v Vector) Names() []string {
	return append([]string(nil), v.names...)
}

// Get returns the value of a named slot.
func (v Vector) Get(name string) (float64, bool) {
	for i, n := range v.names {
		if n == name {
			return v.values[i], true
		}
	}
	return 0, false
}

// Table is the ordered name/value listing shown before scaling.
func (v Vector) Table() []Column {
	out := make([]Column, len(v.values))
	for i := range v.values {
		out[i] = Column{Name: v.names[i], Value: v.values[i]}
	}
	return out
}
