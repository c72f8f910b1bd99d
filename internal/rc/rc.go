// Package rc implements the requirement-constraint evaluation pass of spec
// §4.5: a post-order fold over a fully expanded condition-expression AST
// that produces a single EvaluatedComposition carrying a quad-valued
// fulfillment state, an accumulated hint text, and a deferred
// format-constraint expression for the FC pass to evaluate later.
package rc

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hochfrequenz/ahbicht-go/ast"
	"github.com/hochfrequenz/ahbicht-go/classify"
	"github.com/hochfrequenz/ahbicht-go/internal/quad"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// Kind tells whether a Node is a bare leaf of a given category or the
// result of a composition (KindComposition). The OR/XOR type rules look at
// it to reject a bare Hint combined with a bare format constraint.
type Kind uint8

const (
	KindRequirementConstraint Kind = iota
	KindHint
	KindFormatConstraint
	KindComposition
)

// Node is the carry type threaded through the fold — EvaluatedComposition
// of spec §4.5, generalized to also represent an unfolded leaf.
type Node struct {
	Kind   Kind
	State  quad.Value
	Hint   string
	FcExpr string
}

// IllTypedError reports an OR/XOR composition that mixes a hint with a
// format constraint, or mixes NEUTRAL with a boolean state (spec §7).
type IllTypedError struct {
	Reason string
}

func (e *IllTypedError) Error() string {
	return fmt.Sprintf("ill-typed composition: %s", e.Reason)
}

// Evaluate runs the requirement-constraint pass over a fully expanded
// expression. RC and hint provider calls for every key in the tree are
// issued concurrently before the (pure, synchronous) fold runs.
func Evaluate(ctx context.Context, expr *ast.Expression, rcEval providers.RcEvaluator, hints providers.HintsProvider) (Node, error) {
	leaves, err := gatherLeaves(ctx, expr, rcEval, hints)
	if err != nil {
		return Node{}, err
	}
	return foldExpression(expr, leaves)
}

// leafTable maps a condition key to its already-evaluated leaf Node.
type leafTable map[string]Node

func gatherLeaves(ctx context.Context, expr *ast.Expression, rcEval providers.RcEvaluator, hints providers.HintsProvider) (leafTable, error) {
	keysSeen := map[string]classify.Category{}
	if err := collectKeys(expr, keysSeen); err != nil {
		return nil, err
	}

	table := make(leafTable, len(keysSeen))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for key, category := range keysSeen {
		key, category := key, category
		switch category {
		case classify.RequirementConstraint:
			g.Go(func() error {
				state, err := rcEval.Evaluate(ctx, key)
				if err != nil {
					return err
				}
				mu.Lock()
				table[key] = Node{Kind: KindRequirementConstraint, State: state}
				mu.Unlock()
				return nil
			})
		case classify.Hint:
			g.Go(func() error {
				text, _ := hints.GetHint(ctx, key)
				mu.Lock()
				table[key] = Node{Kind: KindHint, State: quad.Neutral, Hint: text}
				mu.Unlock()
				return nil
			})
		case classify.FormatConstraint:
			table[key] = Node{Kind: KindFormatConstraint, State: quad.Neutral, FcExpr: "[" + key + "]"}
		default:
			return nil, fmt.Errorf("condition key %q classified as %s is not a valid rc-pass leaf", key, category)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

func collectKeys(e *ast.Expression, out map[string]classify.Category) error {
	if err := collectXor(e.Left, out); err != nil {
		return err
	}
	for _, tail := range e.Rest {
		if err := collectXor(tail.Right, out); err != nil {
			return err
		}
	}
	return nil
}

func collectXor(x *ast.XorLevel, out map[string]classify.Category) error {
	if err := collectAnd(x.Left, out); err != nil {
		return err
	}
	for _, tail := range x.Rest {
		if err := collectAnd(tail.Right, out); err != nil {
			return err
		}
	}
	return nil
}

func collectAnd(a *ast.AndLevel, out map[string]classify.Category) error {
	if err := collectThenAlso(a.Left, out); err != nil {
		return err
	}
	for _, tail := range a.Rest {
		if err := collectThenAlso(tail.Right, out); err != nil {
			return err
		}
	}
	return nil
}

func collectThenAlso(t *ast.ThenAlsoLevel, out map[string]classify.Category) error {
	for _, atom := range t.Atoms {
		if err := collectAtom(atom, out); err != nil {
			return err
		}
	}
	return nil
}

func collectAtom(a *ast.Atom, out map[string]classify.Category) error {
	switch {
	case a.Condition != nil:
		category, err := classify.Classify(a.Condition.Key)
		if err != nil {
			return err
		}
		out[a.Condition.Key] = category
		return nil
	case a.Group != nil:
		return collectKeys(a.Group, out)
	case a.Package != nil, a.Time != nil:
		return fmt.Errorf("expression is not fully resolved: leaf %q must be expanded before the rc pass", a.String())
	default:
		return nil
	}
}

func foldExpression(e *ast.Expression, leaves leafTable) (Node, error) {
	acc, err := foldXor(e.Left, leaves)
	if err != nil {
		return Node{}, err
	}
	for _, tail := range e.Rest {
		right, err := foldXor(tail.Right, leaves)
		if err != nil {
			return Node{}, err
		}
		acc, err = orOp(acc, right)
		if err != nil {
			return Node{}, err
		}
	}
	return acc, nil
}

func foldXor(x *ast.XorLevel, leaves leafTable) (Node, error) {
	acc, err := foldAnd(x.Left, leaves)
	if err != nil {
		return Node{}, err
	}
	for _, tail := range x.Rest {
		right, err := foldAnd(tail.Right, leaves)
		if err != nil {
			return Node{}, err
		}
		acc, err = xorOp(acc, right)
		if err != nil {
			return Node{}, err
		}
	}
	return acc, nil
}

func foldAnd(a *ast.AndLevel, leaves leafTable) (Node, error) {
	acc, err := foldThenAlso(a.Left, leaves)
	if err != nil {
		return Node{}, err
	}
	for _, tail := range a.Rest {
		right, err := foldThenAlso(tail.Right, leaves)
		if err != nil {
			return Node{}, err
		}
		acc = andOp(acc, right)
	}
	return acc, nil
}

func foldThenAlso(t *ast.ThenAlsoLevel, leaves leafTable) (Node, error) {
	acc, err := foldAtom(t.Atoms[0], leaves)
	if err != nil {
		return Node{}, err
	}
	for _, atom := range t.Atoms[1:] {
		right, err := foldAtom(atom, leaves)
		if err != nil {
			return Node{}, err
		}
		acc, err = thenAlsoOp(acc, right)
		if err != nil {
			return Node{}, err
		}
	}
	return acc, nil
}

func foldAtom(a *ast.Atom, leaves leafTable) (Node, error) {
	switch {
	case a.Condition != nil:
		return leaves[a.Condition.Key], nil
	case a.Group != nil:
		return foldExpression(a.Group, leaves)
	default:
		return Node{}, fmt.Errorf("expression is not fully resolved: leaf %q must be expanded before the rc pass", a.String())
	}
}

// andOp implements spec §4.5's AND fold rule. AND never rejects any
// combination of kinds; NEUTRAL is its identity.
func andOp(left, right Node) Node {
	state := quad.And(left.State, right.State)
	result := Node{Kind: KindComposition, State: state}
	if state != quad.Unfulfilled {
		result.Hint = newHintExpressionBuilder(left.Hint).land(right.Hint).get()
	}
	result.FcExpr = newFcExpressionBuilder(left.FcExpr).land(right.FcExpr).get()
	return result
}

func orOp(left, right Node) (Node, error) {
	if err := checkOrXorTypes(left, right); err != nil {
		return Node{}, err
	}
	state := quad.Or(left.State, right.State)
	return Node{
		Kind:   KindComposition,
		State:  state,
		Hint:   newHintExpressionBuilder(left.Hint).lor(right.Hint).get(),
		FcExpr: newFcExpressionBuilder(left.FcExpr).lor(right.FcExpr).get(),
	}, nil
}

func xorOp(left, right Node) (Node, error) {
	if err := checkOrXorTypes(left, right); err != nil {
		return Node{}, err
	}
	state := quad.Xor(left.State, right.State)
	return Node{
		Kind:   KindComposition,
		State:  state,
		Hint:   newHintExpressionBuilder(left.Hint).xor(right.Hint).get(),
		FcExpr: newFcExpressionBuilder(left.FcExpr).xor(right.FcExpr).get(),
	}, nil
}

func checkOrXorTypes(left, right Node) error {
	hintFcMix := (left.Kind == KindHint && right.Kind == KindFormatConstraint) ||
		(right.Kind == KindHint && left.Kind == KindFormatConstraint)
	if hintFcMix {
		return &IllTypedError{Reason: "combining a hint with a format constraint has no useful result"}
	}
	neutralBooleanMix := (left.State == quad.Neutral) != (right.State == quad.Neutral)
	if neutralBooleanMix {
		return &IllTypedError{Reason: "combining a neutral element with a boolean value has no useful result"}
	}
	return nil
}

// thenAlsoOp implements spec §4.5's ThenAlso fold rule: exactly one side
// must be (or carry) a format constraint; the other drives the result
// state, and the format constraint is attached only when data is obliged
// to be present.
func thenAlsoOp(left, right Node) (Node, error) {
	// A side carries a format constraint if it is a bare format-constraint
	// leaf or a composition made only of format constraints.
	isFc := func(n Node) bool {
		return n.Kind == KindFormatConstraint ||
			(n.Kind == KindComposition && n.State == quad.Neutral && n.Hint == "" && n.FcExpr != "")
	}
	var fc, other Node
	switch {
	case isFc(left) && !isFc(right):
		fc, other = left, right
	case isFc(right) && !isFc(left):
		fc, other = right, left
	default:
		return Node{}, &IllTypedError{
			Reason: "a ThenAlso composition needs exactly one format-constraint side",
		}
	}

	result := Node{Kind: KindComposition}
	var fcRequired bool
	switch {
	case other.State != quad.Neutral:
		result.State = other.State
		fcRequired = other.State == quad.Fulfilled
	case other.Kind == KindHint:
		result.State = quad.Neutral
		result.Hint = other.Hint
		fcRequired = true
	default:
		return Node{}, &IllTypedError{
			Reason: "a ThenAlso composition's non-format-constraint side must be a requirement constraint or a hint",
		}
	}

	if fcRequired {
		result.FcExpr = newFcExpressionBuilder(fc.FcExpr).land(other.FcExpr).get()
	}
	return result, nil
}
