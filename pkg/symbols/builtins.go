package symbols

import (
	"math"
	"sort"
)

// registerBuiltins populates t with the standard vocabulary: trigonometric,
// hyperbolic, logarithmic, rounding and combinatorial functions, variadic
// aggregates, calculus operators, and mathematical/physical/astronomical
// constants. Many functions are registered under several aliases
// (tan/tg, acot/actg/arcctg, ...) following the reference vocabulary.
func registerBuiltins(t *Table) {
	for _, f := range unaryBuiltins {
		for _, name := range f.names {
			t.Register(Entry{Name: name, Category: UnaryFunc, Unary: f.fn})
		}
	}
	for _, f := range binaryBuiltins {
		t.Register(Entry{Name: f.name, Category: BinaryFunc, Binary: f.fn})
	}
	for _, f := range ternaryBuiltins {
		t.Register(Entry{Name: f.name, Category: TernaryFunc, Ternary: f.fn})
	}
	for _, f := range variadicBuiltins {
		t.Register(Entry{Name: f.name, Category: VariadicFunc, Variadic: f.fn})
	}
	for _, c := range constants {
		t.Register(Entry{Name: c.name, Category: Constant, Value: c.value})
	}
	for _, op := range calculusOps {
		t.Register(Entry{
			Name:     op.name,
			Category: CalculusOp,
			MinArgs:  op.min,
			MaxArgs:  op.max,
			BoundArg: op.bound,
		})
	}
}

var unaryBuiltins = []struct {
	names []string
	fn    func(float64) float64
}{
	// trigonometric
	{[]string{"sin"}, math.Sin},
	{[]string{"cos"}, math.Cos},
	{[]string{"tan", "tg"}, math.Tan},
	{[]string{"cot", "ctg", "ctan"}, func(x float64) float64 { return math.Cos(x) / math.Sin(x) }},
	{[]string{"sec"}, func(x float64) float64 { return 1 / math.Cos(x) }},
	{[]string{"csc", "cosec"}, func(x float64) float64 { return 1 / math.Sin(x) }},

	// inverse trigonometric
	{[]string{"asin", "arsin", "arcsin"}, math.Asin},
	{[]string{"acos", "arcos", "arccos"}, math.Acos},
	{[]string{"atan", "atg", "arctan", "arctg"}, math.Atan},
	{[]string{"acot", "actg", "actan", "arccot", "arcctg", "arcctan"},
		func(x float64) float64 { return math.Pi/2 - math.Atan(x) }},

	// hyperbolic
	{[]string{"sinh"}, math.Sinh},
	{[]string{"cosh"}, math.Cosh},
	{[]string{"tanh", "tgh", "ctanh"}, math.Tanh},
	{[]string{"coth", "ctgh"}, func(x float64) float64 { return 1 / math.Tanh(x) }},
	{[]string{"sech"}, func(x float64) float64 { return 1 / math.Cosh(x) }},
	{[]string{"csch", "cosech"}, func(x float64) float64 { return 1 / math.Sinh(x) }},

	// inverse hyperbolic
	{[]string{"asinh", "arsinh", "arcsinh"}, math.Asinh},
	{[]string{"acosh", "arcosh", "arccosh"}, math.Acosh},
	{[]string{"atanh", "arctanh", "atgh", "arctgh"}, math.Atanh},
	{[]string{"acoth", "arcoth", "actgh"}, func(x float64) float64 { return math.Atanh(1 / x) }},

	// exponential / logarithmic
	{[]string{"exp"}, math.Exp},
	{[]string{"ln"}, math.Log},
	{[]string{"log2"}, math.Log2},
	{[]string{"log10"}, math.Log10},
	{[]string{"sqrt"}, math.Sqrt},

	// rounding / sign
	{[]string{"abs"}, math.Abs},
	{[]string{"floor"}, math.Floor},
	{[]string{"ceil"}, math.Ceil},
	{[]string{"sgn"}, sign},

	// angle conversion
	{[]string{"deg"}, func(x float64) float64 { return x * 180 / math.Pi }},
	{[]string{"rad"}, func(x float64) float64 { return x * math.Pi / 180 }},

	// boolean
	{[]string{"not"}, logicalNot},
}

var binaryBuiltins = []struct {
	name string
	fn   func(a, b float64) float64
}{
	{"log", func(base, x float64) float64 { return math.Log(x) / math.Log(base) }},
	{"mod", math.Mod},
	{"C", binomial},
	{"root", nthRoot},
	{"round", roundTo},
}

var ternaryBuiltins = []struct {
	name string
	fn   func(a, b, c float64) float64
}{
	// if(cond, then, else): strict, all arguments already evaluated
	{"if", func(cond, then, els float64) float64 {
		if math.IsNaN(cond) {
			return math.NaN()
		}
		if cond != 0 {
			return then
		}
		return els
	}},
	// characteristic functions of an interval
	{"chi", func(x, a, b float64) float64 { return chi(x, a, b, false, false) }},
	{"CHi", func(x, a, b float64) float64 { return chi(x, a, b, true, true) }},
	{"Chi", func(x, a, b float64) float64 { return chi(x, a, b, true, false) }},
	{"cHi", func(x, a, b float64) float64 { return chi(x, a, b, false, true) }},
}

var variadicBuiltins = []struct {
	name string
	fn   func(args []float64) float64
}{
	{"min", func(args []float64) float64 { return fold(args, math.Min) }},
	{"max", func(args []float64) float64 { return fold(args, math.Max) }},
	{"add", func(args []float64) float64 { return fold(args, func(a, b float64) float64 { return a + b }) }},
	{"multi", func(args []float64) float64 { return fold(args, func(a, b float64) float64 { return a * b }) }},
	{"mean", mean},
	{"var", variance},
	{"std", func(args []float64) float64 { return math.Sqrt(variance(args)) }},
	{"med", median},
	{"gcd", gcdAll},
	{"lcm", lcmAll},
	{"and", func(args []float64) float64 { return boolFold(args, func(acc, x bool) bool { return acc && x }, true) }},
	{"or", func(args []float64) float64 { return boolFold(args, func(acc, x bool) bool { return acc || x }, false) }},
	{"xor", func(args []float64) float64 { return boolFold(args, func(acc, x bool) bool { return acc != x }, false) }},
	{"coalesce", coalesce},
	{"iff", iff},
	{"argmin", func(args []float64) float64 { return argExtreme(args, func(a, b float64) bool { return a < b }) }},
	{"argmax", func(args []float64) float64 { return argExtreme(args, func(a, b float64) bool { return a > b }) }},
}

var constants = []struct {
	name  string
	value float64
}{
	// mathematical
	{"pi", math.Pi},
	{"e", math.E},
	{"[gam]", 0.5772156649015329},  // Euler-Mascheroni constant
	{"[phi]", 1.618033988749895},   // golden ratio
	{"[PN]", 1.324717957244746},    // plastic number
	{"[li2]", 1.045163780117493},   // logarithmic integral at 2

	// physical (SI units)
	{"[c]", 299792458},       // speed of light, m/s
	{"[G.]", 6.67408e-11},    // gravitational constant
	{"[g]", 9.80665},         // standard gravity, m/s^2
	{"[hP]", 6.62607004e-34}, // Planck constant
	{"[h-]", 1.0545718e-34},  // reduced Planck constant
	{"[lP]", 1.616229e-35},   // Planck length
	{"[mP]", 2.17647e-8},     // Planck mass
	{"[tP]", 5.39116e-44},    // Planck time

	// astronomical distances, m
	{"[ly]", 9.46073047258e15},
	{"[au]", 1.49597870700e11},
	{"[pc]", 3.08567758149137e16},
	{"[kpc]", 3.08567758149137e19},
	{"[km]", 1000},
	{"[cm]", 0.01},
	{"[mm]", 0.001},

	// solar system bodies: R = radius (m), M = mass (kg), D = distance from sun (m)
	{"[Earth-R-eq]", 6.3781e6},
	{"[Earth-R-po]", 6.3568e6},
	{"[Earth-R]", 6.371e6},
	{"[Earth-M]", 5.9722e24},
	{"[Earth-D]", 1.49598e11},
	{"[Moon-R]", 1.7371e6},
	{"[Moon-M]", 7.342e22},
	{"[Moon-D]", 3.84399e8},
	{"[Solar-R]", 6.957e8},
	{"[Solar-M]", 1.98855e30},
	{"[Jupiter-R]", 6.9911e7},
	{"[Jupiter-M]", 1.8982e27},
	{"[Jupiter-D]", 7.7857e11},
	{"[Mars-R]", 3.3895e6},
	{"[Mars-M]", 6.4171e23},
	{"[Mars-D]", 2.27939e11},

	// boolean / special
	{"[true]", 1},
	{"[false]", 0},
	{"[NaN]", math.NaN()},
}

var calculusOps = []struct {
	name       string
	min, max   int
	bound      int
}{
	// iterated operators: op(i, from, to, expr[, step])
	{"sum", 4, 5, 0},
	{"prod", 4, 5, 0},
	{"avg", 4, 5, 0},
	{"vari", 4, 5, 0},
	{"stdi", 4, 5, 0},
	{"mini", 4, 5, 0},
	{"maxi", 4, 5, 0},

	// int(expr, x, from, to), solve(expr, x, from, to)
	{"int", 4, 4, 1},
	{"solve", 4, 4, 1},

	// der(expr, x[, point]) and one-sided variants
	{"der", 2, 3, 1},
	{"der-", 2, 3, 1},
	{"der+", 2, 3, 1},
	// dern(expr, n, x[, point])
	{"dern", 3, 4, 2},

	// diff(expr, x[, delta]) forward, difb backward
	{"diff", 2, 3, 1},
	{"difb", 2, 3, 1},
}

// Helper implementations

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func logicalNot(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if x != 0 {
		return 0
	}
	return 1
}

// binomial computes C(n, k) for rounded integer arguments.
// Non-finite arguments or negative n/k yield NaN.
func binomial(n, k float64) float64 {
	if math.IsNaN(n) || math.IsNaN(k) || math.IsInf(n, 0) || math.IsInf(k, 0) {
		return math.NaN()
	}
	ni, ki := math.Round(n), math.Round(k)
	if ni < 0 || ki < 0 {
		return math.NaN()
	}
	if ki > ni {
		return 0
	}
	if ki > ni-ki {
		ki = ni - ki
	}
	result := 1.0
	for i := 0.0; i < ki; i++ {
		result = result * (ni - i) / (i + 1)
	}
	return math.Round(result)
}

// nthRoot computes the n-th root of x. Odd integer roots of negative
// numbers are real; everything else follows math.Pow semantics.
func nthRoot(n, x float64) float64 {
	if x < 0 && n == math.Trunc(n) && math.Mod(n, 2) != 0 {
		return -math.Pow(-x, 1/n)
	}
	return math.Pow(x, 1/n)
}

func roundTo(x, digits float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	shift := math.Pow(10, math.Round(digits))
	return math.Round(x*shift) / shift
}

func chi(x, a, b float64, closedLeft, closedRight bool) float64 {
	if math.IsNaN(x) || math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	left := x > a
	if closedLeft {
		left = x >= a
	}
	right := x < b
	if closedRight {
		right = x <= b
	}
	if left && right {
		return 1
	}
	return 0
}

func fold(args []float64, f func(a, b float64) float64) float64 {
	acc := args[0]
	for _, x := range args[1:] {
		acc = f(acc, x)
	}
	return acc
}

func mean(args []float64) float64 {
	sum := 0.0
	for _, x := range args {
		sum += x
	}
	return sum / float64(len(args))
}

// variance computes the bias-corrected sample variance.
// A single argument yields 0.
func variance(args []float64) float64 {
	if len(args) == 1 {
		return 0
	}
	m := mean(args)
	sum := 0.0
	for _, x := range args {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(args)-1)
}

func median(args []float64) float64 {
	sorted := make([]float64, len(args))
	copy(sorted, args)
	for _, x := range sorted {
		if math.IsNaN(x) {
			return math.NaN()
		}
	}
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func gcd2(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// gcdAll rounds its arguments to integers; non-finite arguments yield NaN.
func gcdAll(args []float64) float64 {
	acc := int64(0)
	for _, x := range args {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return math.NaN()
		}
		acc = gcd2(acc, int64(math.Round(x)))
	}
	return float64(acc)
}

func lcmAll(args []float64) float64 {
	acc := int64(1)
	for _, x := range args {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return math.NaN()
		}
		v := int64(math.Round(x))
		if v == 0 {
			return 0
		}
		acc = acc / gcd2(acc, v) * v
		if acc < 0 {
			acc = -acc
		}
	}
	return float64(acc)
}

func boolFold(args []float64, f func(acc, x bool) bool, init bool) float64 {
	acc := init
	for _, x := range args {
		if math.IsNaN(x) {
			return math.NaN()
		}
		acc = f(acc, x != 0)
	}
	if acc {
		return 1
	}
	return 0
}

func coalesce(args []float64) float64 {
	for _, x := range args {
		if !math.IsNaN(x) {
			return x
		}
	}
	return math.NaN()
}

// iff scans (condition, value) pairs and returns the value of the first
// truthy condition. An odd trailing argument acts as the default; with no
// match and no default the result is NaN.
func iff(args []float64) float64 {
	n := len(args)
	for i := 0; i+1 < n; i += 2 {
		if math.IsNaN(args[i]) {
			return math.NaN()
		}
		if args[i] != 0 {
			return args[i+1]
		}
	}
	if n%2 == 1 {
		return args[n-1]
	}
	return math.NaN()
}

// argExtreme returns the 1-based index of the first extreme element.
func argExtreme(args []float64, better func(a, b float64) bool) float64 {
	best := 0
	for i, x := range args {
		if math.IsNaN(x) {
			return math.NaN()
		}
		if better(x, args[best]) {
			best = i
		}
	}
	return float64(best + 1)
}
