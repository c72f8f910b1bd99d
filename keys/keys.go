// Package keys implements the categorized-key extractor of spec §4.4: it
// walks a parsed AST and buckets every condition key by category, then
// enumerates the content-evaluation results a validity check must try.
package keys

import (
	"fmt"
	"sort"

	"github.com/hochfrequenz/ahbicht-go/ast"
	"github.com/hochfrequenz/ahbicht-go/classify"
	"github.com/hochfrequenz/ahbicht-go/internal/quad"
)

// CategorizedKeyExtract is the set of condition keys an AST references,
// split by category.
type CategorizedKeyExtract struct {
	HintKeys          []string
	FcKeys            []string
	RcKeys            []string
	PackageKeys       []string
	TimeConditionKeys []string
}

// Sanitize dedups and sorts every key slice in place, per spec §3's
// "sanitizable" key requirement, and returns the receiver for chaining.
func (c *CategorizedKeyExtract) Sanitize() *CategorizedKeyExtract {
	c.HintKeys = sanitizeKeys(c.HintKeys)
	c.FcKeys = sanitizeKeys(c.FcKeys)
	c.RcKeys = sanitizeKeys(c.RcKeys)
	c.PackageKeys = sanitizeKeys(c.PackageKeys)
	c.TimeConditionKeys = sanitizeKeys(c.TimeConditionKeys)
	return c
}

func sanitizeKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Union returns the sanitized union of c and other ("+" of spec §4.4).
func (c *CategorizedKeyExtract) Union(other *CategorizedKeyExtract) *CategorizedKeyExtract {
	merged := &CategorizedKeyExtract{
		HintKeys:          append(append([]string{}, c.HintKeys...), other.HintKeys...),
		FcKeys:            append(append([]string{}, c.FcKeys...), other.FcKeys...),
		RcKeys:            append(append([]string{}, c.RcKeys...), other.RcKeys...),
		PackageKeys:       append(append([]string{}, c.PackageKeys...), other.PackageKeys...),
		TimeConditionKeys: append(append([]string{}, c.TimeConditionKeys...), other.TimeConditionKeys...),
	}
	return merged.Sanitize()
}

// ExtractFromExpression walks a condition-expression AST and classifies
// every leaf key it finds. The AST is assumed already resolved (no Package
// or TimeCondition leaves remain) unless the caller wants those buckets
// populated too, in which case it may call this on a pre-resolution tree.
func ExtractFromExpression(expr *ast.Expression) (*CategorizedKeyExtract, error) {
	extract := &CategorizedKeyExtract{}
	if err := walkExpression(expr, extract); err != nil {
		return nil, err
	}
	return extract.Sanitize(), nil
}

// ExtractFromAhb walks every requirement indicator's condition body.
func ExtractFromAhb(expr *ast.AhbExpression) (*CategorizedKeyExtract, error) {
	extract := &CategorizedKeyExtract{}
	for _, indicator := range expr.Indicators {
		if indicator.Body == nil {
			continue
		}
		if err := walkExpression(indicator.Body, extract); err != nil {
			return nil, err
		}
	}
	return extract.Sanitize(), nil
}

func walkExpression(e *ast.Expression, out *CategorizedKeyExtract) error {
	if err := walkXor(e.Left, out); err != nil {
		return err
	}
	for _, tail := range e.Rest {
		if err := walkXor(tail.Right, out); err != nil {
			return err
		}
	}
	return nil
}

func walkXor(x *ast.XorLevel, out *CategorizedKeyExtract) error {
	if err := walkAnd(x.Left, out); err != nil {
		return err
	}
	for _, tail := range x.Rest {
		if err := walkAnd(tail.Right, out); err != nil {
			return err
		}
	}
	return nil
}

func walkAnd(a *ast.AndLevel, out *CategorizedKeyExtract) error {
	if err := walkThenAlso(a.Left, out); err != nil {
		return err
	}
	for _, tail := range a.Rest {
		if err := walkThenAlso(tail.Right, out); err != nil {
			return err
		}
	}
	return nil
}

func walkThenAlso(t *ast.ThenAlsoLevel, out *CategorizedKeyExtract) error {
	for _, atom := range t.Atoms {
		if err := walkAtom(atom, out); err != nil {
			return err
		}
	}
	return nil
}

func walkAtom(a *ast.Atom, out *CategorizedKeyExtract) error {
	switch {
	case a.Time != nil:
		out.TimeConditionKeys = append(out.TimeConditionKeys, a.Time.Key)
	case a.Package != nil:
		out.PackageKeys = append(out.PackageKeys, a.Package.Key())
	case a.Condition != nil:
		return bucketKey(a.Condition.Key, out)
	case a.Group != nil:
		return walkExpression(a.Group, out)
	}
	return nil
}

func bucketKey(key string, out *CategorizedKeyExtract) error {
	category, err := classify.Classify(key)
	if err != nil {
		return err
	}
	switch category {
	case classify.RequirementConstraint:
		out.RcKeys = append(out.RcKeys, key)
	case classify.Hint:
		out.HintKeys = append(out.HintKeys, key)
	case classify.FormatConstraint:
		out.FcKeys = append(out.FcKeys, key)
	default:
		return fmt.Errorf("condition key %q classified as %s is not a valid leaf category", key, category)
	}
	return nil
}

// ContentEvaluationResult is one admissible assignment of states to every
// key the extractor found: used by the validity checker to drive a
// deterministic evaluator/provider set through the orchestrator.
type ContentEvaluationResult struct {
	RcStates   map[string]quad.Value
	FcStates   map[string]bool
	HintTexts  map[string]string
}

// synthesizedHintText is the placeholder text spec §4.4 prescribes for
// hints during validity checking, where the real HintsProvider is not
// consulted.
func synthesizedHintText(key string) string {
	return fmt.Sprintf("Hinweis %s", key)
}

// AllContentEvaluationResults enumerates the Cartesian product of
// {FULFILLED,UNFULFILLED,UNKNOWN} over RC keys and {FULFILLED,UNFULFILLED}
// over FC keys (spec §4.4). If skipUnknown is true, any combination
// containing an UNKNOWN RC state is omitted (a cheap way to check "does
// this expression at least work when every fact is known").
func (c *CategorizedKeyExtract) AllContentEvaluationResults(skipUnknown bool) []ContentEvaluationResult {
	rcChoices := []quad.Value{quad.Fulfilled, quad.Unfulfilled, quad.Unknown}
	if skipUnknown {
		rcChoices = []quad.Value{quad.Fulfilled, quad.Unfulfilled}
	}
	fcChoices := []bool{true, false}

	hintTexts := make(map[string]string, len(c.HintKeys))
	for _, key := range c.HintKeys {
		hintTexts[key] = synthesizedHintText(key)
	}

	results := []ContentEvaluationResult{{
		RcStates:  map[string]quad.Value{},
		FcStates:  map[string]bool{},
		HintTexts: hintTexts,
	}}

	results = expandRc(results, c.RcKeys, rcChoices)
	results = expandFc(results, c.FcKeys, fcChoices)
	return results
}

func expandRc(base []ContentEvaluationResult, keys []string, choices []quad.Value) []ContentEvaluationResult {
	for _, key := range keys {
		next := make([]ContentEvaluationResult, 0, len(base)*len(choices))
		for _, result := range base {
			for _, choice := range choices {
				cloned := cloneResult(result)
				cloned.RcStates[key] = choice
				next = append(next, cloned)
			}
		}
		base = next
	}
	return base
}

func expandFc(base []ContentEvaluationResult, keys []string, choices []bool) []ContentEvaluationResult {
	for _, key := range keys {
		next := make([]ContentEvaluationResult, 0, len(base)*len(choices))
		for _, result := range base {
			for _, choice := range choices {
				cloned := cloneResult(result)
				cloned.FcStates[key] = choice
				next = append(next, cloned)
			}
		}
		base = next
	}
	return base
}

func cloneResult(r ContentEvaluationResult) ContentEvaluationResult {
	rc := make(map[string]quad.Value, len(r.RcStates))
	for k, v := range r.RcStates {
		rc[k] = v
	}
	fc := make(map[string]bool, len(r.FcStates))
	for k, v := range r.FcStates {
		fc[k] = v
	}
	return ContentEvaluationResult{RcStates: rc, FcStates: fc, HintTexts: r.HintTexts}
}
