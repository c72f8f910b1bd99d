// Package resolver expands Package and TimeCondition leaves of a parsed
// condition expression in place (spec §4.3), replacing them with freshly
// parsed subtrees so that later passes only ever see requirement-
// constraint, hint and format-constraint leaves.
package resolver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hochfrequenz/ahbicht-go/ast"
	"github.com/hochfrequenz/ahbicht-go/parser"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

// PackageUnresolvableError is returned when a PackageResolver has no
// expression for a package key (spec §7).
type PackageUnresolvableError struct {
	Key string
}

func (e *PackageUnresolvableError) Error() string {
	return fmt.Sprintf("package %q could not be resolved to a condition expression", e.Key)
}

// InvalidRepeatabilityError reports a package repeatability outside
// 0 ≤ n ≤ m ∧ ¬(n=m=0) (spec §4.3).
type InvalidRepeatabilityError struct {
	Key string
	Min string
	Max string
}

func (e *InvalidRepeatabilityError) Error() string {
	return fmt.Sprintf("package %q has invalid repeatability %s..%s", e.Key, e.Min, e.Max)
}

// Options controls which expansions Resolve performs.
type Options struct {
	// ExpandTimeConditions, when false, leaves TimeCondition leaves in
	// place instead of replacing them with their Stromtag/Gastag condition
	// keys.
	ExpandTimeConditions bool
}

// Resolve walks expr and returns a new tree with every Package and (if
// enabled) TimeCondition leaf replaced by its expansion. Package provider
// calls for independent leaves run concurrently; if the context is
// cancelled or any sibling expansion fails, all in-flight calls are
// cancelled and partial splices are discarded.
func Resolve(ctx context.Context, expr *ast.Expression, resolver providers.PackageResolver, opts Options) (*ast.Expression, error) {
	g, ctx := errgroup.WithContext(ctx)
	result, err := resolveExpression(ctx, g, expr, resolver, opts)
	if err != nil {
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func resolveExpression(ctx context.Context, g *errgroup.Group, e *ast.Expression, r providers.PackageResolver, opts Options) (*ast.Expression, error) {
	left, err := resolveXor(ctx, g, e.Left, r, opts)
	if err != nil {
		return nil, err
	}
	rest := make([]*ast.OrTail, len(e.Rest))
	for i, tail := range e.Rest {
		right, err := resolveXor(ctx, g, tail.Right, r, opts)
		if err != nil {
			return nil, err
		}
		rest[i] = &ast.OrTail{Pos: tail.Pos, EndPos: tail.EndPos, Op: tail.Op, Right: right}
	}
	return &ast.Expression{Pos: e.Pos, EndPos: e.EndPos, Left: left, Rest: rest}, nil
}

func resolveXor(ctx context.Context, g *errgroup.Group, x *ast.XorLevel, r providers.PackageResolver, opts Options) (*ast.XorLevel, error) {
	left, err := resolveAnd(ctx, g, x.Left, r, opts)
	if err != nil {
		return nil, err
	}
	rest := make([]*ast.XorTail, len(x.Rest))
	for i, tail := range x.Rest {
		right, err := resolveAnd(ctx, g, tail.Right, r, opts)
		if err != nil {
			return nil, err
		}
		rest[i] = &ast.XorTail{Pos: tail.Pos, EndPos: tail.EndPos, Op: tail.Op, Right: right}
	}
	return &ast.XorLevel{Pos: x.Pos, EndPos: x.EndPos, Left: left, Rest: rest}, nil
}

func resolveAnd(ctx context.Context, g *errgroup.Group, a *ast.AndLevel, r providers.PackageResolver, opts Options) (*ast.AndLevel, error) {
	left, err := resolveThenAlso(ctx, g, a.Left, r, opts)
	if err != nil {
		return nil, err
	}
	rest := make([]*ast.AndTail, len(a.Rest))
	for i, tail := range a.Rest {
		right, err := resolveThenAlso(ctx, g, tail.Right, r, opts)
		if err != nil {
			return nil, err
		}
		rest[i] = &ast.AndTail{Pos: tail.Pos, EndPos: tail.EndPos, Op: tail.Op, Right: right}
	}
	return &ast.AndLevel{Pos: a.Pos, EndPos: a.EndPos, Left: left, Rest: rest}, nil
}

func resolveThenAlso(ctx context.Context, g *errgroup.Group, t *ast.ThenAlsoLevel, r providers.PackageResolver, opts Options) (*ast.ThenAlsoLevel, error) {
	atoms := make([]*ast.Atom, len(t.Atoms))
	for i, atom := range t.Atoms {
		resolved, err := resolveAtom(ctx, g, atom, r, opts)
		if err != nil {
			return nil, err
		}
		atoms[i] = resolved
	}
	return &ast.ThenAlsoLevel{Pos: t.Pos, EndPos: t.EndPos, Atoms: atoms}, nil
}

// resolveAtom returns a new Atom. Package leaves are expanded by spawning a
// concurrent provider call via g and splicing its result in once the call
// group succeeds; the returned Atom's Group field is populated lazily by a
// pointer the goroutine fills in, which is safe because nothing reads it
// until after g.Wait() returns with no error.
func resolveAtom(ctx context.Context, g *errgroup.Group, a *ast.Atom, r providers.PackageResolver, opts Options) (*ast.Atom, error) {
	switch {
	case a.Package != nil:
		pkg := a.Package
		splice := &ast.Expression{}
		g.Go(func() error {
			mapping, err := r.Resolve(ctx, pkg.Key())
			if err != nil {
				return err
			}
			if !mapping.Found {
				return &PackageUnresolvableError{Key: pkg.Key()}
			}
			if pkg.Repeat != nil {
				if err := validateRepeatability(pkg); err != nil {
					return err
				}
			}
			parsed, err := parser.Parse(mapping.Expression)
			if err != nil {
				return err
			}
			expanded, err := resolveExpression(ctx, g, parsed, r, opts)
			if err != nil {
				return err
			}
			*splice = *expanded
			return nil
		})
		return &ast.Atom{Pos: a.Pos, EndPos: a.EndPos, Group: splice}, nil

	case a.Time != nil:
		if !opts.ExpandTimeConditions {
			return a, nil
		}
		expanded, err := parser.Parse(timeConditionExpansion(a.Time.Key))
		if err != nil {
			return nil, err
		}
		return &ast.Atom{Pos: a.Pos, EndPos: a.EndPos, Group: expanded}, nil

	case a.Group != nil:
		resolved, err := resolveExpression(ctx, g, a.Group, r, opts)
		if err != nil {
			return nil, err
		}
		return &ast.Atom{Pos: a.Pos, EndPos: a.EndPos, Group: resolved}, nil

	default:
		return a, nil
	}
}

func validateRepeatability(pkg *ast.Package) error {
	var min, max int
	if _, err := fmt.Sscanf(pkg.Repeat.Min, "%d", &min); err != nil {
		return &InvalidRepeatabilityError{Key: pkg.Key(), Min: pkg.Repeat.Min, Max: pkg.Repeat.Max}
	}
	if pkg.Repeat.IsUnbounded() {
		if min < 0 {
			return &InvalidRepeatabilityError{Key: pkg.Key(), Min: pkg.Repeat.Min, Max: "n"}
		}
		return nil
	}
	if _, err := fmt.Sscanf(pkg.Repeat.Max, "%d", &max); err != nil {
		return &InvalidRepeatabilityError{Key: pkg.Key(), Min: pkg.Repeat.Min, Max: pkg.Repeat.Max}
	}
	if min < 0 || min > max || (min == 0 && max == 0) {
		return &InvalidRepeatabilityError{Key: pkg.Key(), Min: pkg.Repeat.Min, Max: pkg.Repeat.Max}
	}
	return nil
}

// timeConditionExpansion maps a time-condition key to the condition
// expression it stands for (spec §4.3).
func timeConditionExpansion(key string) string {
	switch key {
	case "UB1":
		return "[932]"
	case "UB2":
		return "[934]"
	case "UB3":
		return "([932] ∧ [492]) ⊻ ([934] ∧ [493])"
	default:
		return "[" + key + "]"
	}
}
