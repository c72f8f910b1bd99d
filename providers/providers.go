// Package providers declares the contracts the core expects of the outside
// world (spec §6): deciding whether a numbered condition holds for the
// message under evaluation, looking up hint text, resolving package
// abbreviations, and checking an entered value's format. The core never
// implements message-structure walking or table persistence itself — it
// only calls these interfaces.
package providers

import (
	"context"

	"github.com/hochfrequenz/ahbicht-go/internal/quad"
)

// RcEvaluator decides the fulfillment state of a single requirement-
// constraint key against the message under evaluation.
type RcEvaluator interface {
	Evaluate(ctx context.Context, key string) (quad.Value, error)
}

// EvaluatedFormatConstraint is the result of checking one entered value
// against one format-constraint key. Fulfilled implies ErrorMessage is
// empty; ErrorMessage, when present, is never the empty string.
type EvaluatedFormatConstraint struct {
	Fulfilled    bool
	ErrorMessage string
}

// FcEvaluator checks a single format-constraint key against an entered
// input string.
type FcEvaluator interface {
	Evaluate(ctx context.Context, key string, enteredInput string) (EvaluatedFormatConstraint, error)
}

// HintsProvider looks up the display text for a hint key. A false second
// return value means no hint text is registered for that key.
type HintsProvider interface {
	GetHint(ctx context.Context, key string) (string, bool)
}

// PackageMapping is the result of resolving a package key: the condition
// expression it expands to, or Found=false if the package is not known.
type PackageMapping struct {
	Expression string
	Found      bool
}

// PackageResolver expands a package key ("123P") into the condition
// expression it stands for.
type PackageResolver interface {
	Resolve(ctx context.Context, key string) (PackageMapping, error)
}

// TokenLogicProvider aggregates the four provider contracts for one
// (EdifactFormat, FormatVersion) pair, per spec §6.
type TokenLogicProvider interface {
	RcEvaluator() RcEvaluator
	FcEvaluator() FcEvaluator
	HintsProvider() HintsProvider
	PackageResolver() PackageResolver
}
