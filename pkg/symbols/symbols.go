// Package symbols implements the pluggable symbol table of the expression
// engine.
//
// A Table maps names to exactly one of: constant, unary function, binary
// function, ternary function, variadic function, or calculus operator.
// The parser consults the table for arity checking at parse time; the
// evaluator consults it to resolve constants and apply functions.
//
// Callers can register their own entries (domain constants, custom
// functions) without touching the parser:
//
//	table := symbols.NewTable()
//	table.Register(symbols.Entry{
//	    Name:     "[Planck-l]",
//	    Category: symbols.Constant,
//	    Value:    1.616255e-35,
//	})
package symbols

// Category classifies a symbol table entry.
type Category uint8

const (
	// Constant is a named numeric value (pi, e, [c], ...).
	Constant Category = iota
	// UnaryFunc is a fixed-arity function of one argument.
	UnaryFunc
	// BinaryFunc is a fixed-arity function of two arguments.
	BinaryFunc
	// TernaryFunc is a fixed-arity function of three arguments.
	TernaryFunc
	// VariadicFunc accepts one or more arguments.
	VariadicFunc
	// CalculusOp is an iterated/numeric operator (sum, int, der, solve, ...)
	// whose arguments include a bound variable and unevaluated body
	// expressions; it is applied by the evaluator, not through a plain
	// function pointer.
	CalculusOp
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case Constant:
		return "constant"
	case UnaryFunc:
		return "unary function"
	case BinaryFunc:
		return "binary function"
	case TernaryFunc:
		return "ternary function"
	case VariadicFunc:
		return "variadic function"
	case CalculusOp:
		return "calculus operator"
	default:
		return "unknown"
	}
}

// Entry is a single symbol table entry. Exactly one of the evaluation-rule
// fields is meaningful, selected by Category.
type Entry struct {
	Name     string
	Category Category

	Value    float64                 // Constant
	Unary    func(float64) float64   // UnaryFunc
	Binary   func(a, b float64) float64
	Ternary  func(a, b, c float64) float64
	Variadic func(args []float64) float64

	// Calculus operator call shape. MinArgs/MaxArgs bound the accepted
	// argument count; BoundArg is the position of the bound-variable
	// argument, which must be a bare identifier.
	MinArgs  int
	MaxArgs  int
	BoundArg int
}

// ArgRange returns the accepted argument count range for a call to this
// entry. max == -1 means unbounded.
func (e Entry) ArgRange() (min, max int) {
	switch e.Category {
	case UnaryFunc:
		return 1, 1
	case BinaryFunc:
		return 2, 2
	case TernaryFunc:
		return 3, 3
	case VariadicFunc:
		return 1, -1
	case CalculusOp:
		return e.MinArgs, e.MaxArgs
	default:
		return 0, 0
	}
}

// Table is a registry of named symbols. Lookup is by exact, case-sensitive
// match. A name is registered under exactly one category at any time;
// re-registration replaces the previous entry.
//
// A Table is safe for concurrent lookups once fully populated. Registration
// is not synchronized; register all entries before sharing the table.
type Table struct {
	entries map[string]Entry
}

// NewTable creates a table pre-populated with the standard vocabulary of
// functions, constants and calculus operators.
func NewTable() *Table {
	t := NewEmptyTable()
	registerBuiltins(t)
	return t
}

// NewEmptyTable creates a table with no entries.
func NewEmptyTable() *Table {
	return &Table{entries: make(map[string]Entry, 256)}
}

// Register adds or replaces an entry.
func (t *Table) Register(e Entry) {
	t.entries[e.Name] = e
}

// Unregister removes an entry, if present.
func (t *Table) Unregister(name string) {
	delete(t.entries, name)
}

// Lookup returns the entry registered under name.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Len returns the number of registered entries.
func (t *Table) Len() int {
	return len(t.entries)
}
