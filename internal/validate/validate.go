// Package validate implements the validity checker of spec §4.8: an
// expression is valid iff every possible assignment of states to its
// condition keys drives the full evaluation pipeline to either a definite
// result or an UNKNOWN-caused "not enough information" outcome — never an
// ill-typed composition, an unresolvable package, or any other failure.
package validate

import (
	"context"
	"errors"

	"github.com/hochfrequenz/ahbicht-go/ast"
	"github.com/hochfrequenz/ahbicht-go/internal/orchestrator"
	"github.com/hochfrequenz/ahbicht-go/internal/resolver"
	"github.com/hochfrequenz/ahbicht-go/keys"
	"github.com/hochfrequenz/ahbicht-go/parser"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// Options supplies the real PackageResolver the checker needs to expand
// package abbreviations before enumerating keys. Packages are resolved once
// per sub-expression for the key enumeration, and again inside every
// orchestrator run, i.e. once per content-evaluation result.
type Options struct {
	PackageResolver providers.PackageResolver
	ResolverOptions resolver.Options
}

// Result is the outcome of validating one expression.
type Result struct {
	Valid        bool
	ErrorMessage string
}

// Expression checks whether expression is both well-formed and valid: it
// parses it, resolves every package reference, then re-evaluates the
// expression once for every admissible combination of RC/FC states its
// keys could take, with synthesized hint text standing in for real hints.
func Expression(ctx context.Context, expression string, opts Options) (Result, error) {
	ahbExpr, err := parser.ParseAhb(expression)
	if err != nil {
		return Result{Valid: false, ErrorMessage: err.Error()}, nil
	}

	extract, err := extractResolvedKeys(ctx, ahbExpr, opts)
	if err != nil {
		return Result{Valid: false, ErrorMessage: err.Error()}, nil
	}

	for _, cer := range extract.AllContentEvaluationResults(false) {
		deps := orchestrator.Dependencies{
			RcEvaluator:     providers.NewDictRcEvaluator(cer.RcStates),
			FcEvaluator:     cerFcEvaluator{states: cer.FcStates},
			HintsProvider:   providers.NewDictHintsProvider(cer.HintTexts),
			PackageResolver: opts.PackageResolver,
			ResolverOptions: opts.ResolverOptions,
		}
		if _, err := orchestrator.Evaluate(ctx, ahbExpr, "", deps); err != nil {
			var missing *orchestrator.MissingInformationError
			if errors.As(err, &missing) {
				// UNKNOWN is expected to dead-end the pipeline; it does not
				// make the expression itself invalid.
				continue
			}
			return Result{Valid: false, ErrorMessage: err.Error()}, nil
		}
	}

	return Result{Valid: true}, nil
}

// extractResolvedKeys resolves every requirement-indicator sub-expression's
// package references and returns the sanitized union of their categorized
// keys.
func extractResolvedKeys(ctx context.Context, ahbExpr *ast.AhbExpression, opts Options) (*keys.CategorizedKeyExtract, error) {
	extract := &keys.CategorizedKeyExtract{}
	for _, indicator := range ahbExpr.Indicators {
		if indicator.Body == nil {
			continue
		}
		resolved, err := resolver.Resolve(ctx, indicator.Body, opts.PackageResolver, opts.ResolverOptions)
		if err != nil {
			return nil, err
		}
		sub, err := keys.ExtractFromExpression(resolved)
		if err != nil {
			return nil, err
		}
		extract = extract.Union(sub)
	}
	return extract, nil
}

// cerFcEvaluator answers every format-constraint key with the boolean the
// content-evaluation result under test assigned it, synthesizing a generic
// failure message analogous to keys.synthesizedHintText for hints.
type cerFcEvaluator struct {
	states map[string]bool
}

func (e cerFcEvaluator) Evaluate(_ context.Context, key string, _ string) (providers.EvaluatedFormatConstraint, error) {
	fulfilled := e.states[key]
	if fulfilled {
		return providers.EvaluatedFormatConstraint{Fulfilled: true}, nil
	}
	return providers.EvaluatedFormatConstraint{Fulfilled: false, ErrorMessage: "synthesized format-constraint failure for key " + key}, nil
}
