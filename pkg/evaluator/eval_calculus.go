package evaluator

import (
	"fmt"
	"math"

	"github.com/fracpete/mxexpression-go/pkg/types"
)

// Numerical parameters of the calculus operators. These are fixed by
// contract so results are reproducible; they are deliberately not
// user-tunable.
const (
	// derivStep is the finite-difference step for der, der- and der+.
	derivStep = 1e-6
	// derivStepN is the (larger) step for n-th order differences, which
	// lose precision much faster than first-order ones.
	derivStepN = 1e-3
	// diffDefaultDelta is the default delta of diff and difb.
	diffDefaultDelta = 1.0
	// integrationPanels is the number of Simpson panels used by int.
	integrationPanels = 1024
	// solveScanIntervals is the number of subintervals scanned for a sign
	// change before bisection starts.
	solveScanIntervals = 64
	// solveTolerance is the bisection convergence tolerance.
	solveTolerance = 1e-9
	// maxSolveIterations caps bisection steps.
	maxSolveIterations = 200
	// maxIteratedSteps caps iterations of sum/prod/avg/... so that
	// termination never depends on external cancellation.
	maxIteratedSteps = 1000000
)

// evalCalculus dispatches a calculus operator node. The bound variable
// shadows any outer binding of the same name inside the body; the caller's
// binding map is never modified.
func (e *Evaluator) evalCalculus(node *types.ASTNode, env map[string]float64) (float64, error) {
	// Child environment owned by this evaluation; the bound variable slot
	// is overwritten per iteration.
	child := make(map[string]float64, len(env)+1)
	for k, v := range env {
		child[k] = v
	}

	switch node.Name {
	case "sum", "prod", "avg", "vari", "stdi", "mini", "maxi":
		return e.evalIterated(node, env, child)
	case "int":
		return e.evalIntegral(node, env, child)
	case "der", "der-", "der+":
		return e.evalDerivative(node, env, child)
	case "dern":
		return e.evalNthDerivative(node, env, child)
	case "diff", "difb":
		return e.evalDifference(node, env, child)
	case "solve":
		return e.evalSolve(node, env, child)
	}
	return 0, &types.Error{
		Code:     types.ErrUnknownOperator,
		Message:  fmt.Sprintf("unknown calculus operator %q", node.Name),
		Position: node.Position,
		Token:    node.Name,
	}
}

// evalIterated handles op(i, from, to, expr[, step]).
//
// An empty range (from > to) yields the operator's identity for sum (0)
// and prod (1); avg, vari, stdi, mini and maxi have no identity and
// yield NaN. A NaN bound or a step <= 0 yields NaN for all of them.
func (e *Evaluator) evalIterated(node *types.ASTNode, env, child map[string]float64) (float64, error) {
	from, err := e.evalNode(node.Args[1], env)
	if err != nil {
		return 0, err
	}
	to, err := e.evalNode(node.Args[2], env)
	if err != nil {
		return 0, err
	}
	body := node.Args[3]
	step := 1.0
	if len(node.Args) > 4 {
		if step, err = e.evalNode(node.Args[4], env); err != nil {
			return 0, err
		}
	}
	if math.IsNaN(from) || math.IsNaN(to) || math.IsNaN(step) || step <= 0 {
		return math.NaN(), nil
	}

	var (
		sum, sumSq, prod float64 = 0, 0, 1
		mn, mx           float64 = math.Inf(1), math.Inf(-1)
		count            int
	)
	for i := from; i <= to && count < maxIteratedSteps; i += step {
		child[node.BoundVar] = i
		v, err := e.evalNode(body, child)
		if err != nil {
			return 0, err
		}
		sum += v
		sumSq += v * v
		prod *= v
		mn = math.Min(mn, v)
		mx = math.Max(mx, v)
		count++
	}

	n := float64(count)
	switch node.Name {
	case "sum":
		return sum, nil
	case "prod":
		return prod, nil
	case "avg":
		if count == 0 {
			return math.NaN(), nil
		}
		return sum / n, nil
	case "vari", "stdi":
		if count == 0 {
			return math.NaN(), nil
		}
		if count == 1 {
			return 0, nil
		}
		// bias-corrected sample variance
		v := (sumSq - sum*sum/n) / (n - 1)
		if v < 0 {
			v = 0
		}
		if node.Name == "stdi" {
			v = math.Sqrt(v)
		}
		return v, nil
	case "mini":
		if count == 0 {
			return math.NaN(), nil
		}
		return mn, nil
	default: // maxi
		if count == 0 {
			return math.NaN(), nil
		}
		return mx, nil
	}
}

// evalIntegral handles int(expr, x, from, to) with composite Simpson
// quadrature over a fixed number of panels.
func (e *Evaluator) evalIntegral(node *types.ASTNode, env, child map[string]float64) (float64, error) {
	body := node.Args[0]
	from, err := e.evalNode(node.Args[2], env)
	if err != nil {
		return 0, err
	}
	to, err := e.evalNode(node.Args[3], env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(from) || math.IsNaN(to) {
		return math.NaN(), nil
	}
	if from == to {
		return 0, nil
	}

	f := func(x float64) (float64, error) {
		child[node.BoundVar] = x
		return e.evalNode(body, child)
	}

	h := (to - from) / integrationPanels
	acc, err := f(from)
	if err != nil {
		return 0, err
	}
	last, err := f(to)
	if err != nil {
		return 0, err
	}
	acc += last
	for i := 1; i < integrationPanels; i++ {
		v, err := f(from + float64(i)*h)
		if err != nil {
			return 0, err
		}
		if i%2 == 1 {
			acc += 4 * v
		} else {
			acc += 2 * v
		}
	}
	return acc * h / 3, nil
}

// evalDerivative handles der(expr, x[, point]) and the one-sided variants
// der- and der+ using first-order finite differences.
func (e *Evaluator) evalDerivative(node *types.ASTNode, env, child map[string]float64) (float64, error) {
	body := node.Args[0]
	point, err := e.calculusPoint(node, env, 2)
	if err != nil {
		return 0, err
	}

	f := func(x float64) (float64, error) {
		child[node.BoundVar] = x
		return e.evalNode(body, child)
	}

	switch node.Name {
	case "der-":
		at, err := f(point)
		if err != nil {
			return 0, err
		}
		before, err := f(point - derivStep)
		if err != nil {
			return 0, err
		}
		return (at - before) / derivStep, nil
	case "der+":
		after, err := f(point + derivStep)
		if err != nil {
			return 0, err
		}
		at, err := f(point)
		if err != nil {
			return 0, err
		}
		return (after - at) / derivStep, nil
	default: // central difference
		after, err := f(point + derivStep)
		if err != nil {
			return 0, err
		}
		before, err := f(point - derivStep)
		if err != nil {
			return 0, err
		}
		return (after - before) / (2 * derivStep), nil
	}
}

// evalNthDerivative handles dern(expr, n, x[, point]) using the n-th order
// central difference sum_k (-1)^k C(n,k) f(x + (n/2 - k)h) / h^n.
func (e *Evaluator) evalNthDerivative(node *types.ASTNode, env, child map[string]float64) (float64, error) {
	body := node.Args[0]
	nv, err := e.evalNode(node.Args[1], env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(nv) || nv < 1 {
		return math.NaN(), nil
	}
	n := math.Round(nv)
	point, err := e.calculusPoint(node, env, 3)
	if err != nil {
		return 0, err
	}

	acc := 0.0
	coeff := 1.0 // C(n, k), updated incrementally
	sign := 1.0
	for k := 0.0; k <= n; k++ {
		child[node.BoundVar] = point + (n/2-k)*derivStepN
		v, err := e.evalNode(body, child)
		if err != nil {
			return 0, err
		}
		acc += sign * coeff * v
		coeff = coeff * (n - k) / (k + 1)
		sign = -sign
	}
	return acc / math.Pow(derivStepN, n), nil
}

// evalDifference handles diff(expr, x[, delta]) (forward) and
// difb(expr, x[, delta]) (backward).
func (e *Evaluator) evalDifference(node *types.ASTNode, env, child map[string]float64) (float64, error) {
	body := node.Args[0]
	point, err := e.calculusPoint(node, env, -1)
	if err != nil {
		return 0, err
	}
	delta := diffDefaultDelta
	if len(node.Args) > 2 {
		if delta, err = e.evalNode(node.Args[2], env); err != nil {
			return 0, err
		}
	}

	f := func(x float64) (float64, error) {
		child[node.BoundVar] = x
		return e.evalNode(body, child)
	}

	if node.Name == "diff" {
		after, err := f(point + delta)
		if err != nil {
			return 0, err
		}
		at, err := f(point)
		if err != nil {
			return 0, err
		}
		return after - at, nil
	}
	at, err := f(point)
	if err != nil {
		return 0, err
	}
	before, err := f(point - delta)
	if err != nil {
		return 0, err
	}
	return at - before, nil
}

// evalSolve handles solve(expr, x, from, to): scan for a sign change, then
// bisect. No bracketed root in [from, to] yields NaN.
func (e *Evaluator) evalSolve(node *types.ASTNode, env, child map[string]float64) (float64, error) {
	body := node.Args[0]
	from, err := e.evalNode(node.Args[2], env)
	if err != nil {
		return 0, err
	}
	to, err := e.evalNode(node.Args[3], env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(from) || math.IsNaN(to) || from > to {
		return math.NaN(), nil
	}

	f := func(x float64) (float64, error) {
		child[node.BoundVar] = x
		return e.evalNode(body, child)
	}

	// Scan fixed subintervals for a zero or a sign change.
	width := (to - from) / solveScanIntervals
	a, fa := from, 0.0
	if fa, err = f(from); err != nil {
		return 0, err
	}
	if fa == 0 {
		return from, nil
	}
	var b, fb float64
	found := false
	for i := 1; i <= solveScanIntervals; i++ {
		b = from + float64(i)*width
		if fb, err = f(b); err != nil {
			return 0, err
		}
		if fb == 0 {
			return b, nil
		}
		if fa*fb < 0 {
			found = true
			break
		}
		a, fa = b, fb
	}
	if !found {
		return math.NaN(), nil
	}

	// Bisection
	for i := 0; i < maxSolveIterations && b-a > solveTolerance; i++ {
		mid := (a + b) / 2
		fm, err := f(mid)
		if err != nil {
			return 0, err
		}
		if fm == 0 {
			return mid, nil
		}
		if fa*fm < 0 {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}
	return (a + b) / 2, nil
}

// calculusPoint resolves the evaluation point of a derivative/difference
// operator: the explicit point argument at index idx when present,
// otherwise the current binding of the bound variable. idx < 0 means the
// operator has no explicit point argument form with the given arg count.
func (e *Evaluator) calculusPoint(node *types.ASTNode, env map[string]float64, idx int) (float64, error) {
	if idx >= 0 && len(node.Args) > idx {
		return e.evalNode(node.Args[idx], env)
	}
	if v, ok := env[node.BoundVar]; ok {
		return v, nil
	}
	return 0, &types.Error{
		Code:     types.ErrUnresolvedName,
		Message:  fmt.Sprintf("no value for %q: bind it or pass an explicit point", node.BoundVar),
		Position: node.Position,
		Token:    node.BoundVar,
	}
}
