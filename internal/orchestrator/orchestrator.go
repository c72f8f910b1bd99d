// Package orchestrator implements the AHB-expression orchestrator of spec
// §4.7: it runs the RC and FC passes over each requirement-indicator
// sub-expression of a parsed AHB expression and assembles the final,
// single ConditionCheckResult.
package orchestrator

import (
	"context"

	"github.com/hochfrequenz/ahbicht-go/ast"
	"github.com/hochfrequenz/ahbicht-go/internal/fc"
	"github.com/hochfrequenz/ahbicht-go/internal/quad"
	"github.com/hochfrequenz/ahbicht-go/internal/rc"
	"github.com/hochfrequenz/ahbicht-go/internal/resolver"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// RcResult is the requirement-constraint half of a ConditionCheckResult.
type RcResult struct {
	ConstraintsFulfilled bool
	IsConditional        bool
	FcExpression         string
	Hints                string
}

// ConditionCheckResult is the top-level result of spec §3.
type ConditionCheckResult struct {
	RequirementIndicator ast.Indicator
	Rc                   RcResult
	Fc                   fc.Result
}

// MissingInformationError is raised when a requirement-indicator
// sub-expression's RC state is UNKNOWN and a definite answer is required
// (spec §7).
type MissingInformationError struct{}

func (e *MissingInformationError) Error() string {
	return "requirement constraints evaluate to UNKNOWN; not enough information for a definite answer"
}

// Dependencies bundles the providers the orchestrator needs for one
// (edifact_format, format_version) pair.
type Dependencies struct {
	RcEvaluator     providers.RcEvaluator
	FcEvaluator     providers.FcEvaluator
	HintsProvider   providers.HintsProvider
	PackageResolver providers.PackageResolver
	ResolverOptions resolver.Options
}

// Evaluate runs the full pipeline over a parsed AHB expression: resolve,
// RC pass, FC pass, per requirement-indicator sub-expression, then selects
// the result per spec §4.7's rule (first fulfilled sub-expression, else the
// last one). Sub-expressions are evaluated in order and evaluation stops at
// the first fulfilled one; every sub-expression evaluated up to that point
// must have a decided RC state.
func Evaluate(ctx context.Context, expr *ast.AhbExpression, enteredInput string, deps Dependencies) (ConditionCheckResult, error) {
	if len(expr.Indicators) == 0 {
		return ConditionCheckResult{}, nil
	}

	multiple := len(expr.Indicators) > 1
	var selected *ConditionCheckResult

	for _, indicator := range expr.Indicators {
		result, err := evaluateOne(ctx, indicator, enteredInput, deps)
		if err != nil {
			return ConditionCheckResult{}, err
		}
		if result.Rc.ConstraintsFulfilled {
			// More than one requirement-indicator sub-expression makes the
			// overall requirement conditional even when the winning one's
			// own requirement constraints are unconditionally true, e.g.
			// "Muss[1] Kann".
			if multiple {
				result.Rc.IsConditional = true
			}
			return result, nil
		}
		selected = &result
	}

	return *selected, nil
}

func evaluateOne(ctx context.Context, indicator *ast.RequirementIndicatorExpression, enteredInput string, deps Dependencies) (ConditionCheckResult, error) {
	if indicator.Body == nil {
		return ConditionCheckResult{
			RequirementIndicator: indicator.Indicator,
			Rc:                   RcResult{ConstraintsFulfilled: true, IsConditional: false},
			Fc:                   fc.Result{Fulfilled: true},
		}, nil
	}

	resolved, err := resolver.Resolve(ctx, indicator.Body, deps.PackageResolver, deps.ResolverOptions)
	if err != nil {
		return ConditionCheckResult{}, err
	}

	rcNode, err := rc.Evaluate(ctx, resolved, deps.RcEvaluator, deps.HintsProvider)
	if err != nil {
		return ConditionCheckResult{}, err
	}

	rcResult := RcResult{
		FcExpression: rcNode.FcExpr,
		Hints:        rcNode.Hint,
	}
	switch rcNode.State {
	case quad.Fulfilled:
		rcResult.ConstraintsFulfilled = true
		rcResult.IsConditional = true
	case quad.Unfulfilled:
		rcResult.ConstraintsFulfilled = false
		rcResult.IsConditional = true
	case quad.Neutral:
		rcResult.ConstraintsFulfilled = true
		rcResult.IsConditional = false
	case quad.Unknown:
		return ConditionCheckResult{}, &MissingInformationError{}
	}

	fcResult, err := fc.Evaluate(ctx, rcResult.FcExpression, enteredInput, deps.FcEvaluator)
	if err != nil {
		return ConditionCheckResult{}, err
	}

	return ConditionCheckResult{
		RequirementIndicator: indicator.Indicator,
		Rc:                   rcResult,
		Fc:                   fcResult,
	}, nil
}
