package mxexpression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracpete/mxexpression-go/pkg/dataset"
)

func TestFilterApply(t *testing.T) {
	data := numericData(t, []string{"a", "b", "result"},
		[]float64{1, 2, 0},
		[]float64{3, 4, 0})

	f := NewFilter("att1 + att2", ByPositionalIndex, nil)
	out, err := f.Apply(data)
	require.NoError(t, err)

	// Schema and row count are preserved.
	assert.Equal(t, data.NumAttributes(), out.NumAttributes())
	assert.Equal(t, data.NumInstances(), out.NumInstances())

	// The last attribute holds the expression result by default.
	assert.Equal(t, 3.0, out.Value(0, 2))
	assert.Equal(t, 7.0, out.Value(1, 2))

	// Other attributes and the input dataset are untouched.
	assert.Equal(t, 1.0, out.Value(0, 0))
	assert.Equal(t, 0.0, data.Value(0, 2))
}

func TestFilterTargetAttribute(t *testing.T) {
	data := numericData(t, []string{"a", "b"}, []float64{2, 3})

	f := NewFilter("att2 * 10", ByPositionalIndex, nil)
	f.SetTarget(0)
	out, err := f.Apply(data)
	require.NoError(t, err)

	assert.Equal(t, 30.0, out.Value(0, 0))
	assert.Equal(t, 3.0, out.Value(0, 1))
}

func TestFilterAttributeRange(t *testing.T) {
	data := numericData(t, []string{"a", "b", "c"}, []float64{1, 2, 3})

	// Only the selected attributes are visible to the expression.
	f := NewFilter("att1 + 1", ByPositionalIndex, dataset.NewRange("2-3"))
	_, err := f.Apply(data)
	assert.Error(t, err)

	f = NewFilter("att2 + att3", ByPositionalIndex, dataset.NewRange("2-3"))
	out, err := f.Apply(data)
	require.NoError(t, err)
	assert.Equal(t, 5.0, out.Value(0, 2))
}

func TestFilterDerivedNames(t *testing.T) {
	data := numericData(t, []string{"My Att 1", "Out"}, []float64{21, 0})

	f := NewFilter("myatt1 * 2", ByDerivedName, nil)
	out, err := f.Apply(data)
	require.NoError(t, err)
	assert.Equal(t, 42.0, out.Value(0, 1))
}

func TestFilterErrors(t *testing.T) {
	t.Run("no attributes", func(t *testing.T) {
		data := dataset.NewInstances(nil)
		f := NewFilter("1", ByPositionalIndex, nil)
		_, err := f.Apply(data)
		assert.ErrorContains(t, err, "at least one attribute")
	})

	t.Run("target out of range", func(t *testing.T) {
		data := numericData(t, []string{"a"}, []float64{1})
		f := NewFilter("att1", ByPositionalIndex, nil)
		f.SetTarget(5)
		_, err := f.Apply(data)
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("failing row aborts", func(t *testing.T) {
		data := numericData(t, []string{"a", "b"}, []float64{1, 0})
		f := NewFilter("att1 + att3", ByPositionalIndex, nil)
		_, err := f.Apply(data)
		assert.Error(t, err)
	})
}

func TestFilterEmptyDataset(t *testing.T) {
	// A dataset with attributes but no rows passes validation (nothing to
	// evaluate against) and comes back empty.
	data := numericData(t, []string{"a", "b"})
	f := NewFilter("att1 + att2", ByPositionalIndex, nil)
	out, err := f.Apply(data)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumInstances())
}
