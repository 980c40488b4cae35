package mxexpression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracpete/mxexpression-go/pkg/dataset"
	"github.com/fracpete/mxexpression-go/pkg/evaluator"
)

func numericData(t *testing.T, names []string, rows ...[]float64) *dataset.Instances {
	t.Helper()
	attrs := make([]dataset.Attribute, len(names))
	for i, name := range names {
		attrs[i] = dataset.Attribute{Name: name, Numeric: true}
	}
	data := dataset.NewInstances(attrs)
	for _, row := range rows {
		require.NoError(t, data.Add(row))
	}
	return data
}

func TestBuilderDefaultExpression(t *testing.T) {
	b := NewBuilder("", ByPositionalIndex, nil)
	assert.Equal(t, DefaultExpression, b.Expression())

	b = NewBuilder("   ", ByPositionalIndex, nil)
	assert.Equal(t, DefaultExpression, b.Expression())

	b = NewBuilder("att1+1", ByPositionalIndex, nil)
	assert.Equal(t, "att1+1", b.Expression())
}

func TestBuilderPositionalNames(t *testing.T) {
	data := numericData(t, []string{"width", "height", "depth"}, []float64{1, 2, 3})
	b := NewBuilder("1", ByPositionalIndex, nil)
	require.NoError(t, b.Initialize(data))

	assert.Equal(t, "att1", b.VariableName(data, 0))
	assert.Equal(t, "att2", b.VariableName(data, 1))
	assert.Equal(t, "att3", b.VariableName(data, 2))
}

func TestBuilderDerivedNames(t *testing.T) {
	tests := []struct {
		attribute string
		want      string
	}{
		{"My Att 1", "myatt1"},
		{"WIDTH", "width"},
		{"sepal.length", "sepallength"},
		{"x_y-z", "xyz"},
		{"numeric3", "numeric3"},
	}

	for _, tt := range tests {
		data := numericData(t, []string{tt.attribute}, []float64{1})
		b := NewBuilder("1", ByDerivedName, nil)
		require.NoError(t, b.Initialize(data))
		assert.Equal(t, tt.want, b.VariableName(data, 0))
	}
}

func TestBuilderNamesFrozen(t *testing.T) {
	data := numericData(t, []string{"alpha"}, []float64{1})
	b := NewBuilder("1", ByDerivedName, nil)
	require.NoError(t, b.Initialize(data))
	require.Equal(t, "alpha", b.VariableName(data, 0))

	// Names are cached per schema binding: the same index keeps its name
	// even when queried against a renamed schema.
	renamed := numericData(t, []string{"beta"}, []float64{1})
	assert.Equal(t, "alpha", b.VariableName(renamed, 0))

	b.ResetForNewSchema()
	require.NoError(t, b.Initialize(renamed))
	assert.Equal(t, "beta", b.VariableName(renamed, 0))
}

func TestBuilderBindings(t *testing.T) {
	attrs := []dataset.Attribute{
		{Name: "a", Numeric: true},
		{Name: "label", Numeric: false},
		{Name: "b", Numeric: true},
	}
	data := dataset.NewInstances(attrs)
	require.NoError(t, data.Add([]float64{1.5, math.NaN(), 2.5}))

	b := NewBuilder("1", ByPositionalIndex, nil)
	require.NoError(t, b.Initialize(data))

	bindings := b.Bindings(data, 0)
	// Non-numeric attributes are excluded; indices still count them.
	assert.Equal(t, map[string]float64{"att1": 1.5, "att3": 2.5}, bindings)
}

func TestBuilderBindingsRange(t *testing.T) {
	data := numericData(t, []string{"a", "b", "c"}, []float64{1, 2, 3})
	b := NewBuilder("1", ByPositionalIndex, dataset.NewRange("2-3"))
	require.NoError(t, b.Initialize(data))

	bindings := b.Bindings(data, 0)
	assert.Equal(t, map[string]float64{"att2": 2, "att3": 3}, bindings)
}

func TestBuilderBindingsMissing(t *testing.T) {
	data := numericData(t, []string{"a"}, []float64{dataset.MissingValue()})
	b := NewBuilder("1", ByPositionalIndex, nil)
	require.NoError(t, b.Initialize(data))

	bindings := b.Bindings(data, 0)
	require.Contains(t, bindings, "att1")
	assert.True(t, math.IsNaN(bindings["att1"]))
}

func TestBuilderValidate(t *testing.T) {
	data := numericData(t, []string{"a", "b"}, []float64{1, 2})
	eval := evaluator.New()

	b := NewBuilder("att1 + att2", ByPositionalIndex, nil)
	require.NoError(t, b.Initialize(data))
	expr, err := b.Validate(data, eval)
	require.NoError(t, err)
	require.NotNil(t, expr)

	// Malformed expressions fail at compile time.
	b = NewBuilder("att1 + ", ByPositionalIndex, nil)
	require.NoError(t, b.Initialize(data))
	_, err = b.Validate(data, eval)
	assert.ErrorContains(t, err, "illegal expression syntax")

	// Unresolved names surface against the first row.
	b = NewBuilder("att9 + 1", ByPositionalIndex, nil)
	require.NoError(t, b.Initialize(data))
	_, err = b.Validate(data, eval)
	assert.Error(t, err)
}
