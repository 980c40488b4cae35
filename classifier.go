package mxexpression

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fracpete/mxexpression-go/pkg/dataset"
	"github.com/fracpete/mxexpression-go/pkg/evaluator"
	"github.com/fracpete/mxexpression-go/pkg/types"
)

// Classifier applies an expression to each row and returns the raw result
// as the prediction.
type Classifier struct {
	builder *Builder
	eval    *evaluator.Evaluator
	expr    *types.Expression
}

// NewClassifier creates a classifier for the given expression and naming
// policy, considering all attributes.
func NewClassifier(expression string, policy NamingPolicy, opts ...evaluator.EvalOption) *Classifier {
	return &Classifier{
		builder: NewBuilder(expression, policy, nil),
		eval:    evaluator.New(opts...),
	}
}

// Builder returns the underlying attribute-name builder.
func (c *Classifier) Builder() *Builder {
	return c.builder
}

// Build binds the classifier to a dataset. It checks that the data is
// usable (at least one row, at least one numeric attribute), freezes the
// attribute-name cache and validates the expression against the first
// row, so malformed expressions are rejected before any bulk evaluation.
func (c *Classifier) Build(data *dataset.Instances) error {
	if data.NumInstances() < 1 {
		return fmt.Errorf("classifier requires at least one instance")
	}
	numeric := false
	for i := 0; i < data.NumAttributes(); i++ {
		if data.Attribute(i).Numeric {
			numeric = true
			break
		}
	}
	if !numeric {
		return fmt.Errorf("classifier requires at least one numeric attribute")
	}

	c.builder.ResetForNewSchema()
	if err := c.builder.Initialize(data); err != nil {
		return err
	}
	expr, err := c.builder.Validate(data, c.eval)
	if err != nil {
		return err
	}
	c.expr = expr
	return nil
}

// Predict evaluates the expression against one row.
func (c *Classifier) Predict(data *dataset.Instances, row int) (float64, error) {
	if c.expr == nil {
		return 0, fmt.Errorf("classifier has not been built")
	}
	return c.eval.Eval(c.expr, c.builder.Bindings(data, row))
}

// PredictAll evaluates the expression against every row, processing row
// batches in parallel goroutines over the shared immutable AST.
func (c *Classifier) PredictAll(data *dataset.Instances) ([]float64, error) {
	if c.expr == nil {
		return nil, fmt.Errorf("classifier has not been built")
	}
	return evalRows(c.eval, c.expr, c.builder, data)
}

// evalRows evaluates expr against every row of data. Rows are split into
// contiguous batches evaluated concurrently; each goroutine writes only
// its own slice range. The first failing row aborts the run.
func evalRows(eval *evaluator.Evaluator, expr *types.Expression, b *Builder, data *dataset.Instances) ([]float64, error) {
	n := data.NumInstances()
	results := make([]float64, n)

	workers := runtime.GOMAXPROCS(0)
	batch := (n + workers - 1) / workers
	if batch < 1 {
		batch = 1
	}

	var g errgroup.Group
	for start := 0; start < n; start += batch {
		end := start + batch
		if end > n {
			end = n
		}
		start, end := start, end
		g.Go(func() error {
			for row := start; row < end; row++ {
				v, err := eval.Eval(expr, b.Bindings(data, row))
				if err != nil {
					return fmt.Errorf("row %d: %w", row+1, err)
				}
				results[row] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
