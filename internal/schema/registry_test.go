package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryLayout(t *testing.T) {
	r := Default()
	require.Equal(t, Size, r.Len())

	names := r.Names()
	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate %q", n)
		seen[n] = true
	}

	assert.Equal(t, "diabetes", names[0])
	assert.Equal(t, "horas_sueño", names[17])
	assert.Equal(t, "hemisferio_Southern Hemisphere", names[48])

	i, ok := r.Index("pais_New Zealand")
	require.True(t, ok)
	assert.Equal(t, "pais_New Zealand", names[i])
}

func TestDefaultRegistryGroupsCoverOneHotSlots(t *testing.T) {
	r := Default()
	oneHot := 0
	for _, g := range r.Groups() {
		for _, v := range g.Values {
			_, ok := r.Index(g.SlotName(v))
			assert.True(t, ok, "slot for %s=%s", g.Name, v)
			oneHot++
		}
	}
	assert.Equal(t, Size, oneHot+len(r.Binary())+len(r.Numeric()))
}

func TestNewRejectsWrongLength(t *testing.T) {
	_, err := New(featureOrder[:48], nil, nil, nil)
	assert.ErrorIs(t, err, ErrLength)
}

func TestNewRejectsDuplicates(t *testing.T) {
	names := append([]string(nil), featureOrder...)
	names[48] = names[0]
	_, err := New(names, nil, nil, nil)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestNewRejectsGroupValueWithoutSlot(t *testing.T) {
	bad := []Group{{Name: Country, Prefix: Country, Values: []string{"Atlantis"}}}
	_, err := New(featureOrder, nil, bad, nil)
	assert.ErrorIs(t, err, ErrNoSlot)
}

func TestNewRejectsUnclaimedSlot(t *testing.T) {
	_, err := New(featureOrder, binaryFields[1:], groups, numericFields)
	assert.ErrorIs(t, err, ErrUnclaimed)
	assert.Contains(t, err.Error(), Diabetes)

	_, err = New(featureOrder, binaryFields, groups, numericFields[:len(numericFields)-1])
	assert.ErrorIs(t, err, ErrUnclaimed)
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew(nil, nil, nil, nil) })
}

func TestSameOrder(t *testing.T) {
	r := Default()
	assert.NoError(t, r.SameOrder(r.Names()))

	swapped := r.Names()
	swapped[0], swapped[1] = swapped[1], swapped[0]
	assert.Error(t, r.SameOrder(swapped))
	assert.ErrorIs(t, r.SameOrder(swapped[:10]), ErrLength)
}

func TestAccessorsReturnCopies(t *testing.T) {
	r := Default()
	names := r.Names()
	names[0] = "mutated"
	assert.Equal(t, "diabetes", r.Names()[0])

	g, ok := r.Group(Diet)
	require.True(t, ok)
	g.Values[0] = "mutated"
	again, _ := r.Group(Diet)
	assert.Equal(t, DietAverage, again.Values[0])
}

func TestNumericBounds(t *testing.T) {
	f, ok := Default().NumericField(Cholesterol)
	require.True(t, ok)
	assert.Equal(t, 100.0, f.Min)
	assert.Equal(t, 400.0, f.Max)

	s, _ := Default().NumericField(StressLevel)
	assert.True(t, s.Integer)
}
