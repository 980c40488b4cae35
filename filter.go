package mxexpression

import (
	"fmt"

	"github.com/fracpete/mxexpression-go/pkg/dataset"
	"github.com/fracpete/mxexpression-go/pkg/evaluator"
)

// Filter applies an expression to each row and stores the result in a
// target attribute, producing a dataset with the same schema and row
// count as the input.
type Filter struct {
	builder *Builder
	eval    *evaluator.Evaluator
	target  int // 0-based target attribute index; -1 selects the last attribute
}

// NewFilter creates a filter for the given expression, naming policy and
// attribute range. attributes may be nil to consider all attributes.
// By default the result replaces the values of the last attribute; use
// SetTarget to choose another one.
func NewFilter(expression string, policy NamingPolicy, attributes *dataset.Range, opts ...evaluator.EvalOption) *Filter {
	return &Filter{
		builder: NewBuilder(expression, policy, attributes),
		eval:    evaluator.New(opts...),
		target:  -1,
	}
}

// Builder returns the underlying attribute-name builder.
func (f *Filter) Builder() *Builder {
	return f.builder
}

// SetTarget sets the 0-based index of the attribute that receives the
// expression result. A negative index selects the last attribute.
func (f *Filter) SetTarget(index int) {
	f.target = index
}

// Apply transforms the dataset: the expression is validated against the
// first row (fail fast), evaluated for every row, and the results are
// written into the target attribute of a copy of the input. The input
// dataset is not modified.
func (f *Filter) Apply(data *dataset.Instances) (*dataset.Instances, error) {
	if data.NumAttributes() == 0 {
		return nil, fmt.Errorf("filter requires at least one attribute")
	}
	target := f.target
	if target < 0 {
		target = data.NumAttributes() - 1
	}
	if target >= data.NumAttributes() {
		return nil, fmt.Errorf("target attribute %d out of range for %d attribute(s)", target, data.NumAttributes())
	}

	f.builder.ResetForNewSchema()
	if err := f.builder.Initialize(data); err != nil {
		return nil, err
	}
	expr, err := f.builder.Validate(data, f.eval)
	if err != nil {
		return nil, err
	}

	results, err := evalRows(f.eval, expr, f.builder, data)
	if err != nil {
		return nil, err
	}

	out := data.Clone()
	for row, v := range results {
		out.SetValue(row, target, v)
	}
	return out, nil
}
