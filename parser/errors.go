package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// SyntaxError is returned by Parse and ParseAhb when the input does not
// match the grammar (spec §4.2). Message is participle's own error text
// followed by a fixed list of the likely structural causes.
type SyntaxError struct {
	Expression string
	Pos        lexer.Position
	Message    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q at %s: %s", e.Expression, e.Pos, e.Message)
}

// newSyntaxError wraps a participle parse failure, pulling out its position
// when available and appending the fixed list of likely causes.
func newSyntaxError(expression string, cause error) *SyntaxError {
	var pos lexer.Position
	if perr, ok := cause.(participle.Error); ok {
		pos = perr.Position()
	}
	return &SyntaxError{
		Expression: expression,
		Pos:        pos,
		Message: fmt.Sprintf(
			"%s (likely causes: unclosed brackets, an empty condition like \"[]\", "+
				"a missing operator between two conditions, or an unrecognized token)",
			cause.Error(),
		),
	}
}
