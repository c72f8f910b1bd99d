package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// conditionLexer tokenizes a condition expression: brackets, parentheses,
// the three logical operators in either ASCII or Unicode spelling, integers,
// the package/time-condition markers, and the "n..m" repeatability syntax.
// Rule order matters — github.com/alecthomas/participle/v2's stateful lexer
// tries rules top-to-bottom and commits to the first match at the current
// position, so "UB1" must be tried before the bare "U" operator rule, and
// operators before the catch-all would never fire here since nothing is a
// catch-all.
var conditionLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"UB", `UB[123]`, nil},
		{"Int", `[0-9]+`, nil},
		{"Unbounded", `n`, nil},
		{"DotDot", `\.\.`, nil},
		{"PackageSuffix", `P`, nil},
		{"Operator", `[UuOoXx]|∧|∨|⊻`, nil},
		{"LParen", `\(`, nil},
		{"RParen", `\)`, nil},
		{"LBracket", `\[`, nil},
		{"RBracket", `\]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// ahbLexer tokenizes the outer AHB-expression grammar: a modal mark or
// prefix operator followed by a raw chunk of condition-expression text,
// re-parsed afterwards by Parse (conditionLexer/conditionParser). The CondBody
// character class intentionally excludes the letters that start a modal
// mark (M/S/K), so it naturally stops at the next "Muss"/"Soll"/"Kann"
// without needing a lookahead assertion (which RE2, the stdlib regexp
// engine participle is built on, does not support).
var ahbLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"ModalMark", `(?i)M(uss)?|S(oll)?|K(ann)?`, nil},
		{"PrefixOp", `(?i)[XOU]`, nil},
		{"CondBody", `(?i)[\[\]()U∧O∨X⊻0-9\snP.B]+`, nil},
	},
})

const nbsp rune = 0x00A0

// Normalize applies the two lexical normalizations spec §4.2/§6 require
// before tokenizing: NBSP counts as ordinary whitespace, and the legacy "V"
// spelling of logical OR is rewritten to its canonical Unicode form. Both
// lexers above then only ever see the canonical alphabet.
func Normalize(expression string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case nbsp:
			return ' '
		case 'V', 'v':
			return '∨'
		default:
			return r
		}
	}, expression)
	return strings.TrimRight(s, " \t\r\n")
}
