// Package features turns a form submission into the fixed-order numeric
// vector the scaler and classifier expect.
package features

import (
	"errors"
	"fmt"

	"github.com/Skufu/cardiorisk/internal/schema"
)

var (
	// ErrUnrecognizedValue means a categorical selection has no one-hot slot.
	ErrUnrecognizedValue = errors.New("unrecognized value")
	// ErrInvalidAnswer means a yes/no factor got something other than Sí/No.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// ValueError reports which input was rejected.
type ValueError struct {
	Field string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

type binarySlot struct {
	slot  int
	field string
	get   func(Record) string
}

type numericSlot struct {
	slot int
	get  func(Record) float64
}

type choiceSlot struct {
	field string
	get   func(Record) string
	slots map[string]int
}

// Encoder maps records onto a registry. All (group, value) slot indices are
// resolved once in NewEncoder, so Encode never builds slot names.
type Encoder struct {
	names   []string
	binary  []binarySlot
	numeric []numericSlot
	choices []choiceSlot

	dietAverage, dietHealthy, dietUnhealthy int
}

// NewEncoder resolves every slot the encoder writes against reg and fails
// if any is missing.
func NewEncoder(reg *schema.Registry) (*Encoder, error) {
	e := &Encoder{names: reg.Names()}

	lookup := func(name string) (int, error) {
		i, ok := reg.Index(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", schema.ErrNoSlot, name)
		}
		return i, nil
	}

	binary := []struct {
		slot, field string
		get         func(Record) string
	}{
		{schema.Diabetes, "diabetes", func(r Record) string { return r.Diabetes }},
		{schema.FamilyHistory, "family_history", func(r Record) string { return r.FamilyHistory }},
		{schema.Smoking, "smoking", func(r Record) string { return r.Smoking }},
		{schema.Obesity, "obesity", func(r Record) string { return r.Obesity }},
		{schema.Alcohol, "alcohol", func(r Record) string { return r.Alcohol }},
		{schema.PriorHeartProblems, "prior_heart_problems", func(r Record) string { return r.PriorHeartProblems }},
		{schema.Medication, "medication", func(r Record) string { return r.Medication }},
	}
	for _, b := range binary {
		i, err := lookup(b.slot)
		if err != nil {
			return nil, err
		}
		e.binary = append(e.binary, binarySlot{slot: i, field: b.field, get: b.get})
	}

	numeric := []struct {
		slot string
		get  func(Record) float64
	}{
		{schema.Age, func(r Record) float64 { return r.Age }},
		{schema.Cholesterol, func(r Record) float64 { return r.Cholesterol }},
		{schema.BloodPressure, func(r Record) float64 { return r.BloodPressure }},
		{schema.HeartRate, func(r Record) float64 { return r.HeartRate }},
		{schema.ExerciseHours, func(r Record) float64 { return r.ExerciseHours }},
		{schema.StressLevel, func(r Record) float64 { return float64(r.StressLevel) }},
		{schema.SleepHours, func(r Record) float64 { return r.SleepHours }},
		{schema.BMI, func(r Record) float64 { return r.BMI }},
		{schema.ExtraFats, func(r Record) float64 { return r.ExtraFats }},
		{schema.ActivityDays, func(r Record) float64 { return float64(r.ActivityDays) }},
		{schema.EffectiveSleepHours, func(r Record) float64 { return r.EffectiveSleepHours }},
	}
	for _, n := range numeric {
		i, err := lookup(n.slot)
		if err != nil {
			return nil, err
		}
		e.numeric = append(e.numeric, numericSlot{slot: i, get: n.get})
	}

	choices := []struct {
		group, field string
		get          func(Record) string
	}{
		{schema.Gender, "gender", func(r Record) string { return r.Gender }},
		{schema.Country, "country", func(r Record) string { return r.Country }},
		{schema.Continent, "continent", func(r Record) string { return r.Continent }},
		{schema.Hemisphere, "hemisphere", func(r Record) string { return r.Hemisphere }},
	}
	for _, c := range choices {
		g, ok := reg.Group(c.group)
		if !ok {
			return nil, fmt.Errorf("%w: group %q", schema.ErrNoSlot, c.group)
		}
		slots := make(map[string]int, len(g.Values))
		for _, v := range g.Values {
			i, err := lookup(g.SlotName(v))
			if err != nil {
				return nil, err
			}
			slots[v] = i
		}
		e.choices = append(e.choices, choiceSlot{field: c.field, get: c.get, slots: slots})
	}

	var err error
	if e.dietAverage, err = lookup(schema.Diet + "_" + schema.DietAverage); err != nil {
		return nil, err
	}
	if e.dietHealthy, err = lookup(schema.Diet + "_" + schema.DietHealthy); err != nil {
		return nil, err
	}
	if e.dietUnhealthy, err = lookup(schema.Diet + "_" + schema.DietUnhealthy); err != nil {
		return nil, err
	}

	return e, nil
}

// Encode builds the vector for r. Numeric values are copied unchanged; the
// caller is responsible for range checks.
func (e *Encoder) Encode(r Record) (Vector, error) {
	values := make([]float64, len(e.names))

	for _, b := range e.binary {
		switch answer := b.get(r); answer {
		case schema.Affirmative:
			values[b.slot] = 1
		case schema.Negative:
			values[b.slot] = 0
		default:
			return Vector{}, &ValueError{Field: b.field, Value: answer, Err: ErrInvalidAnswer}
		}
	}

	for _, c := range e.choices {
		v := c.get(r)
		i, ok := c.slots[v]
		if !ok {
			return Vector{}, &ValueError{Field: c.field, Value: v, Err: ErrUnrecognizedValue}
		}
		values[i] = 1
	}

	// Anything that is not Average or Healthy lands on Unhealthy.
	switch r.Diet {
	case schema.DietAverage:
		values[e.dietAverage] = 1
	case schema.DietHealthy:
		values[e.dietHealthy] = 1
	default:
		values[e.dietUnhealthy] = 1
	}

	for _, n := range e.numeric {
		values[n.slot] = n.get(r)
	}

	return Vector{names: e.names, values: values}, nil
}
