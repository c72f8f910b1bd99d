package parser

import (
	"strings"

	"github.com/hochfrequenz/ahbicht-go/ast"
)

// rawAhb and rawIndicator are the first-stage grammar for an AHB expression:
// they only split the source into requirement indicators and the raw text of
// each one's condition body. The body text is handed back to Parse, which
// runs it through the condition-expression grammar on its own — the two
// grammars never share a single participle.Parser, since CondBody has to stay
// a plain character class (see lexer.go) rather than a nested rule.
type rawAhb struct {
	Indicators []*rawIndicator `@@+`
}

type rawIndicator struct {
	Mark   string `( @ModalMark`
	Prefix string `| @PrefixOp )`
	Body   string `[ @CondBody ]`
}

// ParseAhb compiles an AHB expression into its AST, per the grammar of
// spec §3. Each requirement indicator's condition body (if present) is
// normalized and parsed by Parse, so syntax errors inside a body carry the
// same SyntaxError shape as a standalone condition expression.
func ParseAhb(expression string) (*ast.AhbExpression, error) {
	normalized := Normalize(expression)

	raw, err := ahbParser.ParseString("", normalized)
	if err != nil {
		return nil, newSyntaxError(normalized, err)
	}

	indicators := make([]*ast.RequirementIndicatorExpression, 0, len(raw.Indicators))
	for _, ri := range raw.Indicators {
		rawMark := ri.Mark
		if rawMark == "" {
			rawMark = ri.Prefix
		}
		indicator, err := ast.ParseIndicator(rawMark)
		if err != nil {
			return nil, err
		}

		node := &ast.RequirementIndicatorExpression{Indicator: indicator}

		body := strings.TrimSpace(ri.Body)
		if body != "" {
			expr, err := Parse(body)
			if err != nil {
				return nil, err
			}
			node.Body = expr
		}

		indicators = append(indicators, node)
	}

	return &ast.AhbExpression{Indicators: indicators}, nil
}
