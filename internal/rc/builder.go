package rc

import "regexp"

// fcExpressionBuilder accumulates a format-constraint condition-expression
// string as two sibling evaluated compositions fold together (spec §4.5
// "FC-expression builder"). A nil/empty builder carries no expression.
type fcExpressionBuilder struct {
	expr string
}

var oneKeySurroundedByParens = regexp.MustCompile(`\((\[\d+\])\)`)

func newFcExpressionBuilder(expr string) fcExpressionBuilder {
	return fcExpressionBuilder{expr: expr}
}

func (b fcExpressionBuilder) get() string { return b.expr }

func (b fcExpressionBuilder) connect(op string, other string) fcExpressionBuilder {
	if other == "" {
		return b
	}
	var next string
	if b.expr == "" {
		next = other
	} else {
		next = "(" + b.expr + ") " + op + " (" + other + ")"
	}
	next = oneKeySurroundedByParens.ReplaceAllString(next, "$1")
	return fcExpressionBuilder{expr: next}
}

func (b fcExpressionBuilder) land(other string) fcExpressionBuilder { return b.connect("U", other) }
func (b fcExpressionBuilder) lor(other string) fcExpressionBuilder  { return b.connect("O", other) }
func (b fcExpressionBuilder) xor(other string) fcExpressionBuilder  { return b.connect("X", other) }

// hintExpressionBuilder concatenates hint texts in natural German (spec
// §4.5 "Hint-expression builder"). An empty string is the identity.
type hintExpressionBuilder struct {
	text string
}

func newHintExpressionBuilder(text string) hintExpressionBuilder {
	return hintExpressionBuilder{text: text}
}

func (b hintExpressionBuilder) get() string { return b.text }

func (b hintExpressionBuilder) land(other string) hintExpressionBuilder {
	if other == "" {
		return b
	}
	if b.text == "" {
		return hintExpressionBuilder{text: other}
	}
	return hintExpressionBuilder{text: b.text + " und " + other}
}

func (b hintExpressionBuilder) lor(other string) hintExpressionBuilder {
	if other == "" {
		return b
	}
	if b.text == "" {
		return hintExpressionBuilder{text: other}
	}
	return hintExpressionBuilder{text: b.text + " oder " + other}
}

func (b hintExpressionBuilder) xor(other string) hintExpressionBuilder {
	if other == "" {
		return b
	}
	if b.text == "" {
		return hintExpressionBuilder{text: other}
	}
	return hintExpressionBuilder{text: "Entweder (" + b.text + ") oder (" + other + ")"}
}
