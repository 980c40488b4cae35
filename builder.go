package mxexpression

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/fracpete/mxexpression-go/pkg/dataset"
	"github.com/fracpete/mxexpression-go/pkg/evaluator"
	"github.com/fracpete/mxexpression-go/pkg/parser"
	"github.com/fracpete/mxexpression-go/pkg/types"
)

// NamingPolicy selects how attribute indices map to expression variable
// names.
type NamingPolicy int

const (
	// ByPositionalIndex names attribute X (1-based) "attX".
	ByPositionalIndex NamingPolicy = iota
	// ByDerivedName lower-cases the attribute's display name and strips
	// every character that is not a letter or digit: "My Att 1" becomes
	// "myatt1".
	ByDerivedName
)

// DefaultExpression is the fallback used when the configured expression is
// empty. The constant prediction 1 mirrors the historical default of the
// expression option.
const DefaultExpression = "1"

// Builder maps dataset attributes to expression variables and assembles
// per-row binding environments.
//
// The attribute-index to variable-name relation is computed once per
// instance and frozen: after Initialize has seen a schema, the derived
// names never change until ResetForNewSchema (or another Initialize) is
// called. A Builder must not be shared across datasets with different
// schemas without re-initializing.
type Builder struct {
	expression string
	policy     NamingPolicy
	attributes *dataset.Range
	names      map[int]string
}

// NewBuilder creates a builder for the given expression, naming policy and
// attribute range. An empty expression falls back to DefaultExpression;
// a nil range selects all attributes.
func NewBuilder(expression string, policy NamingPolicy, attributes *dataset.Range) *Builder {
	if strings.TrimSpace(expression) == "" {
		expression = DefaultExpression
	}
	if attributes == nil {
		attributes = dataset.NewRange(dataset.AllAttributes)
	}
	return &Builder{
		expression: expression,
		policy:     policy,
		attributes: attributes,
		names:      make(map[int]string),
	}
}

// Expression returns the expression in use.
func (b *Builder) Expression() string {
	return b.expression
}

// Policy returns the naming policy in use.
func (b *Builder) Policy() NamingPolicy {
	return b.policy
}

// Attributes returns the attribute range in use.
func (b *Builder) Attributes() *dataset.Range {
	return b.attributes
}

// Initialize binds the builder to a dataset schema: the attribute range is
// resolved and the variable names of all attributes are derived and
// frozen. Calling Initialize again rebinds to a new schema.
//
// Pre-deriving every name here keeps later Bindings calls read-only, so
// rows can be processed from multiple goroutines.
func (b *Builder) Initialize(data *dataset.Instances) error {
	b.names = make(map[int]string, data.NumAttributes())
	if err := b.attributes.SetUpper(data.NumAttributes()); err != nil {
		return err
	}
	for i := 0; i < data.NumAttributes(); i++ {
		b.variableName(data, i)
	}
	return nil
}

// ResetForNewSchema discards the frozen attribute-name cache. The builder
// must be re-initialized before the next Bindings call.
func (b *Builder) ResetForNewSchema() {
	b.names = make(map[int]string)
}

// VariableName returns the expression variable name of the attribute at
// index (0-based). Names are derived once and cached for the lifetime of
// the schema binding.
func (b *Builder) VariableName(data *dataset.Instances, index int) string {
	return b.variableName(data, index)
}

func (b *Builder) variableName(data *dataset.Instances, index int) string {
	if name, ok := b.names[index]; ok {
		return name
	}
	var name string
	if b.policy == ByDerivedName {
		var sb strings.Builder
		for _, c := range strings.ToLower(data.Attribute(index).Name) {
			if unicode.IsLetter(c) || unicode.IsDigit(c) {
				sb.WriteRune(c)
			}
		}
		name = sb.String()
	} else {
		name = "att" + strconv.Itoa(index+1)
	}
	b.names[index] = name
	return name
}

// Bindings assembles the variable binding environment for one row:
// numeric attributes within the configured range, keyed by their derived
// variable names. Non-numeric and unselected attributes are excluded;
// missing numeric values are bound as NaN and propagate per IEEE-754.
func (b *Builder) Bindings(data *dataset.Instances, row int) map[string]float64 {
	bindings := make(map[string]float64, data.NumAttributes())
	for i := 0; i < data.NumAttributes(); i++ {
		if !data.Attribute(i).Numeric || !b.attributes.IsInRange(i) {
			continue
		}
		bindings[b.variableName(data, i)] = data.Value(row, i)
	}
	return bindings
}

// Validate fails fast on a malformed expression: it compiles the
// expression and, when the dataset has at least one row, evaluates it
// against the first row's bindings so unresolved variable names surface
// before any bulk evaluation begins.
func (b *Builder) Validate(data *dataset.Instances, eval *evaluator.Evaluator) (*types.Expression, error) {
	expr, err := parser.Compile(b.expression, parser.WithTable(eval.Table()))
	if err != nil {
		return nil, fmt.Errorf("illegal expression syntax %q: %w", b.expression, err)
	}
	if data.NumInstances() > 0 {
		if _, err := eval.Eval(expr, b.Bindings(data, 0)); err != nil {
			return nil, fmt.Errorf("expression %q failed against first row: %w", b.expression, err)
		}
	}
	return expr, nil
}
