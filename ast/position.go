// Package ast defines the tagged-union node types produced by parsing a
// condition expression or an AHB expression (see spec §3 "AST node
// variants"). Nodes are plain structs tagged for github.com/alecthomas/
// participle/v2, so the same types double as the parser's grammar and as the
// tree every later pass folds over.
package ast

import "github.com/alecthomas/participle/v2/lexer"

// Position is re-exported from the lexer package so callers that never
// import participle directly can still talk about node locations.
type Position = lexer.Position
