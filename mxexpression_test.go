package mxexpression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fracpete/mxexpression-go/pkg/types"
)

func TestEval(t *testing.T) {
	got, err := Eval("(att1 + att3) / att5", map[string]float64{
		"att1": 4, "att3": 6, "att5": 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestEvalSyntaxError(t *testing.T) {
	_, err := Eval("min()", nil)
	require.Error(t, err)
	assert.True(t, types.IsSyntaxError(err))
}

func TestCompileReuse(t *testing.T) {
	expr, err := Compile("att1 * 2")
	require.NoError(t, err)
	assert.Equal(t, "att1 * 2", expr.Source())
	assert.NotNil(t, expr.AST())
}

func TestMustCompile(t *testing.T) {
	assert.NotPanics(t, func() { MustCompile("1+1") })
	assert.Panics(t, func() { MustCompile("1+") })
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version())
}
