package model

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/cardiorisk/internal/schema"
)

func loadTestdata(t *testing.T) *Artifacts {
	t.Helper()
	a, err := Load(context.Background(), FileStore{Root: "testdata"}, schema.Default(), "scaler.json", "classifier.json")
	require.NoError(t, err)
	return a
}

func rawVector(t *testing.T, set map[string]float64) []float64 {
	t.Helper()
	reg := schema.Default()
	x := make([]float64, reg.Len())
	for name, v := range set {
		i, ok := reg.Index(name)
		require.True(t, ok, name)
		x[i] = v
	}
	return x
}

func TestAffineScaler(t *testing.T) {
	s, err := NewScaler(ScalerDoc{
		Kind:         "robust",
		FeatureNames: []string{"a", "b", "c"},
		Center:       []float64{10, 0, 5},
		Scale:        []float64{2, 0, 5},
	})
	require.NoError(t, err)

	out, err := s.Scale([]float64{14, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, -1}, out)

	_, err = s.Scale([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewScalerRejectsBadShapes(t *testing.T) {
	_, err := NewScaler(ScalerDoc{Kind: "robust", FeatureNames: []string{"a", "b"}, Center: []float64{1}, Scale: []float64{1, 1}})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewScaler(ScalerDoc{Kind: "minmax", FeatureNames: []string{"a"}, Center: []float64{1}, Scale: []float64{1}})
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestTreeEnsembleFromTestdata(t *testing.T) {
	a := loadTestdata(t)
	assert.Equal(t, "robust", a.ScalerKind)
	assert.Equal(t, "gbtree", a.ClassifierKind)

	low, err := a.Scaler.Scale(rawVector(t, map[string]float64{schema.Age: 45, schema.Cholesterol: 200}))
	require.NoError(t, err)
	p, err := a.Classifier.PredictProba(low)
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(0.7)), p.Risk, 1e-12)
	assert.InDelta(t, 1.0, p.Normal+p.Risk, 1e-12)
	label, err := a.Classifier.Predict(low)
	require.NoError(t, err)
	assert.Equal(t, LabelNormal, label)

	high, err := a.Scaler.Scale(rawVector(t, map[string]float64{schema.Age: 70, schema.Cholesterol: 350, schema.Diabetes: 1}))
	require.NoError(t, err)
	p, err = a.Classifier.PredictProba(high)
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-1.8)), p.Risk, 1e-12)
	label, err = a.Classifier.Predict(high)
	require.NoError(t, err)
	assert.Equal(t, LabelRisk, label)
}

func TestTreeEnsembleMissingGoesToMissingBranch(t *testing.T) {
	e, err := NewTreeEnsemble(ClassifierDoc{
		Kind:         "gbtree",
		FeatureNames: []string{"a"},
		Trees: []TreeNode{{
			NodeID: 0, Split: "a", SplitCondition: 0, Yes: 1, No: 2, Missing: intPtr(2),
			Children: []TreeNode{{NodeID: 1, Leaf: -1}, {NodeID: 2, Leaf: 1}},
		}},
	})
	require.NoError(t, err)

	m, err := e.Margin([]float64{math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m)

	m, err = e.Margin([]float64{-3})
	require.NoError(t, err)
	assert.Equal(t, -1.0, m)

	_, err = e.Margin([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestTreeEnsembleComparesAtSinglePrecision(t *testing.T) {
	// A dumped threshold of 0.3f reads back as 0.30000001192092896.
	e, err := NewTreeEnsemble(ClassifierDoc{
		Kind:         "gbtree",
		FeatureNames: []string{"a"},
		Trees: []TreeNode{{
			NodeID: 0, Split: "a", SplitCondition: float64(float32(0.3)), Yes: 1, No: 2,
			Children: []TreeNode{{NodeID: 1, Leaf: -1}, {NodeID: 2, Leaf: 1}},
		}},
	})
	require.NoError(t, err)

	m, err := e.Margin([]float64{0.3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m, "value rounding onto the threshold goes to no")

	m, err = e.Margin([]float64{0.29})
	require.NoError(t, err)
	assert.Equal(t, -1.0, m)
}

func TestTreeEnsembleRejectsMalformedTrees(t *testing.T) {
	names := []string{"a"}
	cases := map[string]ClassifierDoc{
		"no trees":      {Kind: "gbtree", FeatureNames: names},
		"bad objective": {Kind: "gbtree", Objective: "reg:squarederror", FeatureNames: names, Trees: []TreeNode{{NodeID: 0}}},
		"bad base":      {Kind: "gbtree", FeatureNames: names, BaseScore: floatPtr(1), Trees: []TreeNode{{NodeID: 0}}},
		"unknown split": {Kind: "gbtree", FeatureNames: names, Trees: []TreeNode{{
			NodeID: 0, Split: "zzz", Yes: 1, No: 2,
			Children: []TreeNode{{NodeID: 1}, {NodeID: 2}},
		}}},
		"index out of range": {Kind: "gbtree", FeatureNames: names, Trees: []TreeNode{{
			NodeID: 0, Split: "f7", Yes: 1, No: 2,
			Children: []TreeNode{{NodeID: 1}, {NodeID: 2}},
		}}},
		"points at root": {Kind: "gbtree", FeatureNames: names, Trees: []TreeNode{{
			NodeID: 0, Split: "a", Yes: 0, No: 2,
			Children: []TreeNode{{NodeID: 1}, {NodeID: 2}},
		}}},
		"duplicate ids": {Kind: "gbtree", FeatureNames: names, Trees: []TreeNode{{
			NodeID: 0, Split: "a", Yes: 1, No: 1,
			Children: []TreeNode{{NodeID: 1}, {NodeID: 1}},
		}}},
	}
	for name, doc := range cases {
		_, err := NewTreeEnsemble(doc)
		assert.ErrorIs(t, err, ErrInvalidArtifact, name)
	}
}

func TestLogistic(t *testing.T) {
	a, err := Load(context.Background(), FileStore{Root: "testdata"}, schema.Default(), "scaler.json", "logistic.json")
	require.NoError(t, err)
	assert.Equal(t, "logistic", a.ClassifierKind)

	x := rawVector(t, map[string]float64{schema.Diabetes: 1, schema.Age: 2})
	p, err := a.Classifier.PredictProba(x)
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-(1.5+1.6-1))), p.Risk, 1e-12)
	assert.InDelta(t, 1.0, p.Normal+p.Risk, 1e-12)

	label, err := a.Classifier.Predict(make([]float64, schema.Size))
	require.NoError(t, err)
	assert.Equal(t, LabelNormal, label)

	_, err = a.Classifier.PredictProba([]float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestProbabilitiesSumToOne(t *testing.T) {
	l, err := NewLogistic(ClassifierDoc{FeatureNames: []string{"a"}, Coefficients: []float64{1}})
	require.NoError(t, err)
	for _, v := range []float64{-40, -3.3, -0.1, 0, 0.7, 5, 40} {
		p, err := l.PredictProba([]float64{v})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, p.Normal+p.Risk, 1e-12, "x=%v", v)
	}
}

func TestLoadRejectsMisorderedScaler(t *testing.T) {
	_, err := Load(context.Background(), FileStore{Root: "testdata"}, schema.Default(), "scaler_misordered.json", "classifier.json")
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	_, err := Load(context.Background(), FileStore{Root: "testdata"}, schema.Default(), "scaler_invalid.json", "classifier.json")
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), FileStore{Root: t.TempDir()}, schema.Default(), "scaler.json", "classifier.json")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestFileStoreAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	raw, err := FileStore{Root: "elsewhere"}.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

type fakeQuerier struct {
	rows map[string]fakeRow
	sql  string
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.sql = sql
	row, ok := q.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return row
}

func TestPostgresStore(t *testing.T) {
	scaler, err := os.ReadFile("testdata/scaler.json")
	require.NoError(t, err)
	classifier, err := os.ReadFile("testdata/classifier.json")
	require.NoError(t, err)

	q := &fakeQuerier{rows: map[string]fakeRow{
		"scaler":     {payload: scaler},
		"classifier": {payload: classifier},
		"broken":     {err: errors.New("conn reset")},
	}}
	store := NewPostgresStore(q)

	a, err := Load(context.Background(), store, schema.Default(), "scaler", "classifier")
	require.NoError(t, err)
	assert.NotNil(t, a.Classifier)
	assert.Equal(t, selectArtifact, q.sql)

	_, err = store.Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	_, err = store.Fetch(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrArtifactNotFound)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
