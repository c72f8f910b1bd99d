package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/hochfrequenz/ahbicht-go/internal/quad"
)

// DictPackageResolver is a PackageResolver backed by a fixed map from
// package key ("123P") to the condition expression it expands to, e.g. the
// one loaded from a JSON AHB-package table.
type DictPackageResolver struct {
	mu         sync.RWMutex
	expansions map[string]string
}

// NewDictPackageResolver builds a resolver from a package-key-to-expression
// map. Every key must carry the trailing "P".
func NewDictPackageResolver(expansions map[string]string) (*DictPackageResolver, error) {
	for key := range expansions {
		if len(key) == 0 || key[len(key)-1] != 'P' {
			return nil, fmt.Errorf("package key %q must end with 'P'", key)
		}
	}
	copied := make(map[string]string, len(expansions))
	for k, v := range expansions {
		copied[k] = v
	}
	return &DictPackageResolver{expansions: copied}, nil
}

func (r *DictPackageResolver) Resolve(_ context.Context, key string) (PackageMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	expr, ok := r.expansions[key]
	if !ok {
		return PackageMapping{Found: false}, nil
	}
	return PackageMapping{Expression: expr, Found: true}, nil
}

// DictHintsProvider is a HintsProvider backed by a fixed key-to-text map.
type DictHintsProvider struct {
	hints map[string]string
}

func NewDictHintsProvider(hints map[string]string) *DictHintsProvider {
	copied := make(map[string]string, len(hints))
	for k, v := range hints {
		copied[k] = v
	}
	return &DictHintsProvider{hints: copied}
}

func (p *DictHintsProvider) GetHint(_ context.Context, key string) (string, bool) {
	text, ok := p.hints[key]
	return text, ok
}

// DictRcEvaluator is an RcEvaluator backed by a fixed key-to-state map,
// suitable for tests and for the validity checker's injected evaluator sets.
// Keys absent from the map evaluate to quad.Unknown.
type DictRcEvaluator struct {
	states map[string]quad.Value
}

func NewDictRcEvaluator(states map[string]quad.Value) *DictRcEvaluator {
	copied := make(map[string]quad.Value, len(states))
	for k, v := range states {
		copied[k] = v
	}
	return &DictRcEvaluator{states: copied}
}

func (e *DictRcEvaluator) Evaluate(_ context.Context, key string) (quad.Value, error) {
	if v, ok := e.states[key]; ok {
		return v, nil
	}
	return quad.Unknown, nil
}

// ConstantRcEvaluator evaluates every key to a single fixed state.
type ConstantRcEvaluator struct {
	State quad.Value
}

func (e ConstantRcEvaluator) Evaluate(_ context.Context, _ string) (quad.Value, error) {
	return e.State, nil
}
