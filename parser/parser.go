// Package parser turns condition-expression and AHB-expression source text
// into the typed trees defined in package ast (spec §3, §4.2). Both grammars
// are built with github.com/alecthomas/participle/v2; the AHB grammar is
// parsed in two stages, since each requirement indicator's condition body is
// itself a full condition expression that the condition parser re-parses.
package parser

import (
	"fmt"
	"sync"

	"github.com/alecthomas/participle/v2"

	"github.com/hochfrequenz/ahbicht-go/ast"
)

var conditionParser = buildConditionParser()
var ahbParser = buildAhbParser()

func buildConditionParser() *participle.Parser[ast.Expression] {
	p, err := participle.Build[ast.Expression](
		participle.Lexer(conditionLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build condition-expression parser: %w", err))
	}
	return p
}

func buildAhbParser() *participle.Parser[rawAhb] {
	p, err := participle.Build[rawAhb](
		participle.Lexer(ahbLexer),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build ahb-expression parser: %w", err))
	}
	return p
}

// conditionCache memoizes Parse by normalized source text. Entries are never
// evicted: the process only ever sees a bounded set of distinct condition
// expressions drawn from a Prüfidentifikator's AHB table, so the cache's
// steady-state size is small. Concurrent readers that race on the same key
// simply parse twice and agree on the result; sync.Map's LoadOrStore keeps
// the first writer's result and hands it to the second writer as well.
var conditionCache sync.Map // string -> *cacheEntry

type cacheEntry struct {
	expr *ast.Expression
	err  error
}

// Parse compiles a condition expression into its AST, per the grammar of
// spec §3. The input is normalized first (NBSP-as-space, "V"/"v" -> "∨"),
// and the result is cached by the normalized text for the lifetime of the
// process.
func Parse(expression string) (*ast.Expression, error) {
	normalized := Normalize(expression)
	if cached, ok := conditionCache.Load(normalized); ok {
		entry := cached.(*cacheEntry)
		return entry.expr, entry.err
	}

	expr, err := conditionParser.ParseString("", normalized)
	if err != nil {
		err = newSyntaxError(normalized, err)
		expr = nil
	}
	entry, _ := conditionCache.LoadOrStore(normalized, &cacheEntry{expr: expr, err: err})
	cached := entry.(*cacheEntry)
	return cached.expr, cached.err
}
