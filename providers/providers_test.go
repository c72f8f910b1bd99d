package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hochfrequenz/ahbicht-go/internal/quad"
)

func TestDictPackageResolverResolvesKnownKey(t *testing.T) {
	resolver, err := NewDictPackageResolver(map[string]string{"123P": "[1] U [2]"})
	assert.NoError(t, err)

	mapping, err := resolver.Resolve(context.Background(), "123P")
	assert.NoError(t, err)
	assert.True(t, mapping.Found)
	assert.Equal(t, "[1] U [2]", mapping.Expression)
}

func TestDictPackageResolverUnknownKeyIsNotFound(t *testing.T) {
	resolver, err := NewDictPackageResolver(map[string]string{"123P": "[1]"})
	assert.NoError(t, err)

	mapping, err := resolver.Resolve(context.Background(), "999P")
	assert.NoError(t, err)
	assert.False(t, mapping.Found)
}

func TestDictPackageResolverRejectsKeyWithoutPSuffix(t *testing.T) {
	_, err := NewDictPackageResolver(map[string]string{"123": "[1]"})
	assert.Error(t, err)
}

func TestDictHintsProviderLooksUpRegisteredKey(t *testing.T) {
	hints := NewDictHintsProvider(map[string]string{"501": "Hinweistext"})

	text, ok := hints.GetHint(context.Background(), "501")
	assert.True(t, ok)
	assert.Equal(t, "Hinweistext", text)
}

func TestDictHintsProviderMissingKeyReportsNotOk(t *testing.T) {
	hints := NewDictHintsProvider(nil)

	_, ok := hints.GetHint(context.Background(), "501")
	assert.False(t, ok)
}

func TestDictRcEvaluatorKnownKey(t *testing.T) {
	eval := NewDictRcEvaluator(map[string]quad.Value{"1": quad.Fulfilled})

	state, err := eval.Evaluate(context.Background(), "1")
	assert.NoError(t, err)
	assert.Equal(t, quad.Fulfilled, state)
}

func TestDictRcEvaluatorAbsentKeyIsUnknown(t *testing.T) {
	eval := NewDictRcEvaluator(nil)

	state, err := eval.Evaluate(context.Background(), "1")
	assert.NoError(t, err)
	assert.Equal(t, quad.Unknown, state)
}

func TestConstantRcEvaluatorAlwaysReturnsItsState(t *testing.T) {
	eval := ConstantRcEvaluator{State: quad.Unfulfilled}

	first, err := eval.Evaluate(context.Background(), "1")
	assert.NoError(t, err)
	second, err := eval.Evaluate(context.Background(), "999")
	assert.NoError(t, err)

	assert.Equal(t, quad.Unfulfilled, first)
	assert.Equal(t, quad.Unfulfilled, second)
}

func TestFormatForPruefidentifikatorKnownPrefix(t *testing.T) {
	format, err := FormatForPruefidentifikator("11001")
	assert.NoError(t, err)
	assert.Equal(t, UTILMD, format)
}

func TestFormatForPruefidentifikatorWrongLength(t *testing.T) {
	_, err := FormatForPruefidentifikator("110")
	assert.Error(t, err)
	var piErr *PruefidentifikatorError
	assert.ErrorAs(t, err, &piErr)
}

func TestFormatForPruefidentifikatorUnknownPrefix(t *testing.T) {
	_, err := FormatForPruefidentifikator("77001")
	assert.Error(t, err)
}

func TestFormatForPruefidentifikatorWithContextResolvesPricatAmbiguity(t *testing.T) {
	format, err := FormatForPruefidentifikatorWithContext("21001", true)
	assert.NoError(t, err)
	assert.Equal(t, PRICAT, format)
}

func TestFormatForPruefidentifikatorWithContextDefaultsToIftsta(t *testing.T) {
	format, err := FormatForPruefidentifikatorWithContext("21001", false)
	assert.NoError(t, err)
	assert.Equal(t, IFTSTA, format)
}

func TestEdifactFormatIsValid(t *testing.T) {
	assert.True(t, UTILMD.IsValid())
	assert.False(t, EdifactFormat("NOPE").IsValid())
}
