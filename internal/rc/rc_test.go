package rc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hochfrequenz/ahbicht-go/internal/quad"
	"github.com/hochfrequenz/ahbicht-go/parser"
	"github.com/hochfrequenz/ahbicht-go/providers"
)

func evaluate(t *testing.T, expression string, rcStates map[string]quad.Value, hints map[string]string) Node {
	t.Helper()
	expr, err := parser.Parse(expression)
	assert.NoError(t, err)
	node, err := Evaluate(context.Background(), expr, providers.NewDictRcEvaluator(rcStates), providers.NewDictHintsProvider(hints))
	assert.NoError(t, err)
	return node
}

func TestAndBothFulfilled(t *testing.T) {
	node := evaluate(t, "[1] U [2]", map[string]quad.Value{"1": quad.Fulfilled, "2": quad.Fulfilled}, nil)
	assert.Equal(t, quad.Fulfilled, node.State)
}

func TestAndSuppressesHintWhenUnfulfilled(t *testing.T) {
	node := evaluate(t, "[1] U [501]", map[string]quad.Value{"1": quad.Unfulfilled}, map[string]string{"501": "Hinweistext"})
	assert.Equal(t, quad.Unfulfilled, node.State)
	assert.Empty(t, node.Hint)
}

func TestAndCarriesHintWhenFulfilled(t *testing.T) {
	node := evaluate(t, "[1] U [501]", map[string]quad.Value{"1": quad.Fulfilled}, map[string]string{"501": "Hinweistext"})
	assert.Equal(t, quad.Fulfilled, node.State)
	assert.Equal(t, "Hinweistext", node.Hint)
}

func TestOrHintConcatenation(t *testing.T) {
	node := evaluate(t, "[501] O [502]", nil, map[string]string{"501": "A", "502": "B"})
	assert.Equal(t, "A oder B", node.Hint)
}

func TestXorHintConcatenation(t *testing.T) {
	node := evaluate(t, "[501] X [502]", nil, map[string]string{"501": "A", "502": "B"})
	assert.Equal(t, "Entweder (A) oder (B)", node.Hint)
}

func TestOrHintAndFormatConstraintIsIllTyped(t *testing.T) {
	expr, err := parser.Parse("[501] O [901]")
	assert.NoError(t, err)
	_, err = Evaluate(context.Background(), expr, providers.NewDictRcEvaluator(nil), providers.NewDictHintsProvider(nil))
	assert.Error(t, err)
	var illTyped *IllTypedError
	assert.ErrorAs(t, err, &illTyped)
}

func TestOrNeutralAndBooleanMixIsIllTyped(t *testing.T) {
	expr, err := parser.Parse("[501] O [1]")
	assert.NoError(t, err)
	_, err = Evaluate(context.Background(), expr, providers.NewDictRcEvaluator(map[string]quad.Value{"1": quad.Fulfilled}), providers.NewDictHintsProvider(nil))
	assert.Error(t, err)
	var illTyped *IllTypedError
	assert.ErrorAs(t, err, &illTyped)
}

func TestThenAlsoFulfilledRequiresFormatConstraint(t *testing.T) {
	node := evaluate(t, "[1][901]", map[string]quad.Value{"1": quad.Fulfilled}, nil)
	assert.Equal(t, quad.Fulfilled, node.State)
	assert.Equal(t, "[901]", node.FcExpr)
}

func TestThenAlsoUnfulfilledDoesNotRequireFormatConstraint(t *testing.T) {
	node := evaluate(t, "[1][901]", map[string]quad.Value{"1": quad.Unfulfilled}, nil)
	assert.Equal(t, quad.Unfulfilled, node.State)
	assert.Empty(t, node.FcExpr)
}

func TestThenAlsoWithHintIsNeutralAndRequiresFormatConstraint(t *testing.T) {
	node := evaluate(t, "[501][901]", nil, map[string]string{"501": "A hint"})
	assert.Equal(t, quad.Neutral, node.State)
	assert.Equal(t, "A hint", node.Hint)
	assert.Equal(t, "[901]", node.FcExpr)
}

func TestFcExpressionBuilderAttachesLoneFormatConstraint(t *testing.T) {
	node := evaluate(t, "[1] U ([901])", map[string]quad.Value{"1": quad.Fulfilled}, nil)
	assert.Equal(t, "[901]", node.FcExpr)
}

func TestFcExpressionBuilderCollapsesSingleKeyParens(t *testing.T) {
	node := evaluate(t, "[901] U [902]", map[string]quad.Value{}, nil)
	assert.Equal(t, "[901] U [902]", node.FcExpr)
}
