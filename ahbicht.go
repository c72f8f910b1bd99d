// Package ahbicht evaluates AHB condition expressions (spec §1): the
// notation German EDIFACT application handbooks use to say "field X is
// required only if condition [12] holds". It parses an expression, expands
// its package and time-condition shorthand, decides every requirement and
// format constraint through caller-supplied providers, and folds the result
// into a single pass/fail verdict with any attached hint or format-error
// text.
//
// There is no ambient, globally-configured injector: every entry point
// takes its providers explicitly through a Context value (spec §9).
package ahbicht

import (
	"context"

	"github.com/hochfrequenz/ahbicht-go/ast"
	"github.com/hochfrequenz/ahbicht-go/internal/orchestrator"
	"github.com/hochfrequenz/ahbicht-go/internal/resolver"
	"github.com/hochfrequenz/ahbicht-go/internal/validate"
	"github.com/hochfrequenz/ahbicht-go/keys"
	"github.com/hochfrequenz/ahbicht-go/parser"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// Context bundles the four provider contracts spec §6 requires for one
// (EdifactFormat, FormatVersion) pair, plus the resolver options that
// govern package/time-condition expansion. Construct one per message type
// under evaluation; nothing here is safe to share across formats.
type Context struct {
	RcEvaluator     providers.RcEvaluator
	FcEvaluator     providers.FcEvaluator
	HintsProvider   providers.HintsProvider
	PackageResolver providers.PackageResolver

	// ExpandTimeConditions controls whether UB1/UB2/UB3 leaves are expanded
	// to their Stromtag/Gastag boundary conditions before evaluation.
	ExpandTimeConditions bool
}

// FromTokenLogicProvider builds a Context from the aggregate contract of
// spec §6, for callers that already keep one TokenLogicProvider per format.
func FromTokenLogicProvider(p providers.TokenLogicProvider, expandTimeConditions bool) Context {
	return Context{
		RcEvaluator:          p.RcEvaluator(),
		FcEvaluator:          p.FcEvaluator(),
		HintsProvider:        p.HintsProvider(),
		PackageResolver:      p.PackageResolver(),
		ExpandTimeConditions: expandTimeConditions,
	}
}

func (c Context) dependencies() orchestrator.Dependencies {
	return orchestrator.Dependencies{
		RcEvaluator:     c.RcEvaluator,
		FcEvaluator:     c.FcEvaluator,
		HintsProvider:   c.HintsProvider,
		PackageResolver: c.PackageResolver,
		ResolverOptions: resolver.Options{ExpandTimeConditions: c.ExpandTimeConditions},
	}
}

// RequirementConstraintResult is the RC-pass half of a ConditionCheckResult
// (spec §3).
type RequirementConstraintResult struct {
	Fulfilled            bool
	IsConditional        bool
	Hints                string
	FormatConstraintExpr string
}

// FormatConstraintResult is the FC-pass half of a ConditionCheckResult.
type FormatConstraintResult struct {
	Fulfilled    bool
	ErrorMessage string
}

// ConditionCheckResult is the top-level result of evaluating one AHB
// expression against one entered value (spec §3).
type ConditionCheckResult struct {
	RequirementIndicator  ast.Indicator
	RequirementConstraint RequirementConstraintResult
	FormatConstraint      FormatConstraintResult
}

// EvaluateAhbExpression parses expression, resolves its packages and time
// conditions, runs the requirement- and format-constraint passes through
// ctx's providers, and returns the single resulting ConditionCheckResult.
//
// Parse failures surface as *parser.SyntaxError, an out-of-range condition
// key as *classify.InvalidKeyRangeError (via the classifier invoked
// downstream), an unresolvable package as *resolver.PackageUnresolvableError,
// a mistyped composition (hint/format-constraint or NEUTRAL/boolean mixing
// under OR or XOR) as *rc.IllTypedError, an unregistered provider key as
// *providers.NotImplementedError, and a requirement constraint that bottoms
// out at UNKNOWN as *MissingInformationError — the pass cannot give a
// definite answer without more information.
func EvaluateAhbExpression(ctx context.Context, expression string, enteredInput string, evalCtx Context) (ConditionCheckResult, error) {
	ahbExpr, err := parser.ParseAhb(expression)
	if err != nil {
		return ConditionCheckResult{}, err
	}
	return EvaluateParsedExpression(ctx, ahbExpr, enteredInput, evalCtx)
}

// EvaluateParsedExpression is EvaluateAhbExpression for a caller that
// already holds a parsed *ast.AhbExpression, e.g. one produced once and
// re-evaluated against many entered values.
func EvaluateParsedExpression(ctx context.Context, ahbExpr *ast.AhbExpression, enteredInput string, evalCtx Context) (ConditionCheckResult, error) {
	result, err := orchestrator.Evaluate(ctx, ahbExpr, enteredInput, evalCtx.dependencies())
	if err != nil {
		return ConditionCheckResult{}, err
	}
	return ConditionCheckResult{
		RequirementIndicator: result.RequirementIndicator,
		RequirementConstraint: RequirementConstraintResult{
			Fulfilled:            result.Rc.ConstraintsFulfilled,
			IsConditional:        result.Rc.IsConditional,
			Hints:                result.Rc.Hints,
			FormatConstraintExpr: result.Rc.FcExpression,
		},
		FormatConstraint: FormatConstraintResult{
			Fulfilled:    result.Fc.Fulfilled,
			ErrorMessage: result.Fc.ErrorMessage,
		},
	}, nil
}

// MissingInformationError is returned when a requirement constraint's state
// cannot be decided (UNKNOWN) and the caller asked for a definite verdict.
type MissingInformationError = orchestrator.MissingInformationError

// Parse compiles expression into its AST without evaluating it, e.g. for a
// caller that only wants ExtractCategorizedKeys or a syntax check.
func Parse(expression string) (*ast.AhbExpression, error) {
	return parser.ParseAhb(expression)
}

// ExtractCategorizedKeys returns every condition key expression references,
// bucketed by category (spec §4.4).
func ExtractCategorizedKeys(expression string) (*keys.CategorizedKeyExtract, error) {
	ahbExpr, err := parser.ParseAhb(expression)
	if err != nil {
		return nil, err
	}
	return keys.ExtractFromAhb(ahbExpr)
}

// ValidityCheckResult is the outcome of IsValidExpression.
type ValidityCheckResult struct {
	Valid        bool
	ErrorMessage string
}

// IsValidExpression reports whether expression is well-formed and valid:
// every possible assignment of states to its condition keys must drive the
// pipeline to either a definite result or a MissingInformationError — never
// an ill-typed composition, an unresolvable package, or an unregistered
// provider key (spec §4.8).
func IsValidExpression(ctx context.Context, expression string, packageResolver providers.PackageResolver, expandTimeConditions bool) (ValidityCheckResult, error) {
	result, err := validate.Expression(ctx, expression, validate.Options{
		PackageResolver: packageResolver,
		ResolverOptions: resolver.Options{ExpandTimeConditions: expandTimeConditions},
	})
	if err != nil {
		return ValidityCheckResult{}, err
	}
	return ValidityCheckResult{Valid: result.Valid, ErrorMessage: result.ErrorMessage}, nil
}
