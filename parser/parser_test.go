package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSingleCondition(t *testing.T) {
	expr, err := Parse("[1]")
	assert.NoError(t, err)
	assert.NotNil(t, expr)
	assert.Equal(t, "[1]", expr.String())
}

func TestParseOperatorPrecedence(t *testing.T) {
	// AND binds tighter than OR: "[1] U [2] O [3]" is "([1] U [2]) O [3]".
	expr, err := Parse("[1] U [2] O [3]")
	assert.NoError(t, err)
	assert.Len(t, expr.Rest, 1, "top level should be a single OR continuation")
	assert.Len(t, expr.Left.Rest, 0, "left side of the OR has no XOR continuation")
	assert.Len(t, expr.Left.Left.Rest, 1, "left side of the OR is itself an AND")
}

func TestParseUnicodeOperators(t *testing.T) {
	ascii, err := Parse("[1] U [2]")
	assert.NoError(t, err)
	unicode, err := Parse("[1] ∧ [2]")
	assert.NoError(t, err)
	assert.Equal(t, ascii.String(), unicode.String())
}

func TestParseLegacyVSpelling(t *testing.T) {
	expr, err := Parse("[1] V [2]")
	assert.NoError(t, err)
	assert.Equal(t, "[1] O [2]", expr.String())
}

func TestParseGroup(t *testing.T) {
	expr, err := Parse("([1] O [2]) U [3]")
	assert.NoError(t, err)
	assert.NotNil(t, expr.Left.Left.Left.Atoms[0].Group)
}

func TestParsePackageWithRepeatability(t *testing.T) {
	expr, err := Parse("[2P1..3]")
	assert.NoError(t, err)
	pkg := expr.Left.Left.Left.Atoms[0].Package
	assert.NotNil(t, pkg)
	assert.Equal(t, "2P", pkg.Key())
	assert.Equal(t, "1", pkg.Repeat.Min)
	assert.False(t, pkg.Repeat.IsUnbounded())
}

func TestParsePackageUnboundedRepeatability(t *testing.T) {
	expr, err := Parse("[2P0..n]")
	assert.NoError(t, err)
	pkg := expr.Left.Left.Left.Atoms[0].Package
	assert.True(t, pkg.Repeat.IsUnbounded())
}

func TestParseTimeCondition(t *testing.T) {
	expr, err := Parse("[UB1]")
	assert.NoError(t, err)
	assert.Equal(t, "UB1", expr.Left.Left.Left.Atoms[0].Time.Key)
}

func TestParseThenAlsoComposition(t *testing.T) {
	expr, err := Parse("[1][502]")
	assert.NoError(t, err)
	assert.Len(t, expr.Left.Left.Left.Atoms, 2)
}

func TestParseUnclosedBracketReturnsSyntaxError(t *testing.T) {
	_, err := Parse("[1")
	assert.Error(t, err)
	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, syntaxErr.Message, "likely causes")
}

func TestParseCachesBySource(t *testing.T) {
	first, err := Parse("[7]")
	assert.NoError(t, err)
	second, err := Parse("[7]")
	assert.NoError(t, err)
	assert.Same(t, first, second, "identical source should hit the cache")
}

func TestParseAhbBareModalMark(t *testing.T) {
	expr, err := ParseAhb("Muss")
	assert.NoError(t, err)
	assert.Len(t, expr.Indicators, 1)
	assert.Nil(t, expr.Indicators[0].Body)
}

func TestParseAhbModalMarkWithBody(t *testing.T) {
	expr, err := ParseAhb("Muss[1]")
	assert.NoError(t, err)
	assert.Equal(t, "[1]", expr.Indicators[0].Body.String())
}

func TestParseAhbMultipleIndicators(t *testing.T) {
	expr, err := ParseAhb("Muss[1] Kann[2]")
	assert.NoError(t, err)
	assert.Len(t, expr.Indicators, 2)
}

func TestParseAhbPrefixOperatorForm(t *testing.T) {
	expr, err := ParseAhb("X[1]U[2]")
	assert.NoError(t, err)
	assert.Len(t, expr.Indicators, 1)
	assert.NotNil(t, expr.Indicators[0].Body)
}

func TestParseAhbBodyWithUnboundedPackageRepeatability(t *testing.T) {
	expr, err := ParseAhb("Muss [2P1..n]")
	assert.NoError(t, err)
	pkg := expr.Indicators[0].Body.Left.Left.Left.Atoms[0].Package
	assert.NotNil(t, pkg)
	assert.True(t, pkg.Repeat.IsUnbounded())
}
