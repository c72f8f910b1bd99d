// Package fc implements the format-constraint evaluation pass of spec
// §4.6: given the fc_expr carried out of the requirement-constraint pass
// and the user-entered input, it re-parses the expression, evaluates every
// leaf through the FcEvaluator, and folds the results to a single boolean
// with a composed, human-readable error message.
package fc

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hochfrequenz/ahbicht-go/ast"
	"github.com/hochfrequenz/ahbicht-go/parser"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// Result is the FC-pass output, EvaluatedFormatConstraint of spec §3: if
// Fulfilled is true, ErrorMessage is always empty.
type Result struct {
	Fulfilled    bool
	ErrorMessage string
}

// Evaluate runs the format-constraint pass. An empty fcExpr (no format
// constraint was carried out of the RC pass) is vacuously fulfilled.
func Evaluate(ctx context.Context, fcExpr string, enteredInput string, evaluator providers.FcEvaluator) (Result, error) {
	if fcExpr == "" {
		return Result{Fulfilled: true}, nil
	}

	expr, err := parser.Parse(fcExpr)
	if err != nil {
		return Result{}, err
	}

	leaves, err := gatherLeaves(ctx, expr, enteredInput, evaluator)
	if err != nil {
		return Result{}, err
	}

	return foldExpression(expr, leaves)
}

type leafTable map[string]providers.EvaluatedFormatConstraint

func gatherLeaves(ctx context.Context, expr *ast.Expression, enteredInput string, evaluator providers.FcEvaluator) (leafTable, error) {
	keysSeen := map[string]bool{}
	collectKeys(expr, keysSeen)

	table := make(leafTable, len(keysSeen))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for key := range keysSeen {
		key := key
		g.Go(func() error {
			result, err := evaluator.Evaluate(ctx, key, enteredInput)
			if err != nil {
				return err
			}
			if !result.Fulfilled && result.ErrorMessage == "" {
				result.ErrorMessage = fmt.Sprintf("Condition [%s] has to be fulfilled.", key)
			}
			mu.Lock()
			table[key] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

func collectKeys(e *ast.Expression, out map[string]bool) {
	collectXor(e.Left, out)
	for _, tail := range e.Rest {
		collectXor(tail.Right, out)
	}
}

func collectXor(x *ast.XorLevel, out map[string]bool) {
	collectAnd(x.Left, out)
	for _, tail := range x.Rest {
		collectAnd(tail.Right, out)
	}
}

func collectAnd(a *ast.AndLevel, out map[string]bool) {
	collectThenAlso(a.Left, out)
	for _, tail := range a.Rest {
		collectThenAlso(tail.Right, out)
	}
}

func collectThenAlso(t *ast.ThenAlsoLevel, out map[string]bool) {
	for _, atom := range t.Atoms {
		collectAtom(atom, out)
	}
}

func collectAtom(a *ast.Atom, out map[string]bool) {
	switch {
	case a.Condition != nil:
		out[a.Condition.Key] = true
	case a.Group != nil:
		collectKeys(a.Group, out)
	}
}

func foldExpression(e *ast.Expression, leaves leafTable) (Result, error) {
	acc, err := foldXor(e.Left, leaves)
	if err != nil {
		return Result{}, err
	}
	for _, tail := range e.Rest {
		right, err := foldXor(tail.Right, leaves)
		if err != nil {
			return Result{}, err
		}
		acc = orOp(acc, right)
	}
	return acc, nil
}

func foldXor(x *ast.XorLevel, leaves leafTable) (Result, error) {
	acc, err := foldAnd(x.Left, leaves)
	if err != nil {
		return Result{}, err
	}
	for _, tail := range x.Rest {
		right, err := foldAnd(tail.Right, leaves)
		if err != nil {
			return Result{}, err
		}
		acc = xorOp(acc, right)
	}
	return acc, nil
}

func foldAnd(a *ast.AndLevel, leaves leafTable) (Result, error) {
	acc, err := foldThenAlso(a.Left, leaves)
	if err != nil {
		return Result{}, err
	}
	for _, tail := range a.Rest {
		right, err := foldThenAlso(tail.Right, leaves)
		if err != nil {
			return Result{}, err
		}
		acc = andOp(acc, right)
	}
	return acc, nil
}

func foldThenAlso(t *ast.ThenAlsoLevel, leaves leafTable) (Result, error) {
	if len(t.Atoms) != 1 {
		return Result{}, fmt.Errorf("a format-constraint expression cannot contain a ThenAlso composition")
	}
	return foldAtom(t.Atoms[0], leaves)
}

func foldAtom(a *ast.Atom, leaves leafTable) (Result, error) {
	switch {
	case a.Condition != nil:
		leaf := leaves[a.Condition.Key]
		return Result{Fulfilled: leaf.Fulfilled, ErrorMessage: leaf.ErrorMessage}, nil
	case a.Group != nil:
		return foldExpression(a.Group, leaves)
	default:
		return Result{}, fmt.Errorf("leaf %q is not a valid format-constraint leaf", a.String())
	}
}

func andOp(left, right Result) Result {
	fulfilled := left.Fulfilled && right.Fulfilled
	return Result{
		Fulfilled:    fulfilled,
		ErrorMessage: newMessageBuilder(left).land(right).get(),
	}
}

func orOp(left, right Result) Result {
	fulfilled := left.Fulfilled || right.Fulfilled
	return Result{
		Fulfilled:    fulfilled,
		ErrorMessage: newMessageBuilder(left).lor(right).get(),
	}
}

func xorOp(left, right Result) Result {
	fulfilled := left.Fulfilled != right.Fulfilled
	return Result{
		Fulfilled:    fulfilled,
		ErrorMessage: newMessageBuilder(left).xor(right).get(),
	}
}

const bothExclusiveFulfilledMessage = "Zwei exklusive Formatdefinitionen dürfen nicht gleichzeitig erfüllt sein"

// messageBuilder implements the FormatErrorMessageExpressionBuilder of
// spec §4.6.
type messageBuilder struct {
	expr      string
	fulfilled bool
}

func newMessageBuilder(r Result) messageBuilder {
	return messageBuilder{expr: r.ErrorMessage, fulfilled: r.Fulfilled}
}

func (b messageBuilder) get() string { return b.expr }

func (b messageBuilder) land(other Result) messageBuilder {
	if other.Fulfilled {
		return b
	}
	if b.expr == "" {
		return messageBuilder{expr: other.ErrorMessage}
	}
	return messageBuilder{expr: fmt.Sprintf("'%s' und '%s'", b.expr, other.ErrorMessage)}
}

func (b messageBuilder) lor(other Result) messageBuilder {
	if !b.fulfilled && !other.Fulfilled {
		return messageBuilder{expr: fmt.Sprintf("'%s' oder '%s'", b.expr, other.ErrorMessage)}
	}
	return messageBuilder{}
}

func (b messageBuilder) xor(other Result) messageBuilder {
	switch {
	case !b.fulfilled && !other.Fulfilled:
		return messageBuilder{expr: fmt.Sprintf("Entweder '%s' oder '%s'", b.expr, other.ErrorMessage)}
	case b.fulfilled && other.Fulfilled:
		return messageBuilder{expr: bothExclusiveFulfilledMessage}
	default:
		return messageBuilder{}
	}
}
