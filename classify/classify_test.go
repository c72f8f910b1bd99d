package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRequirementConstraintRange(t *testing.T) {
	cat, err := Classify("1")
	assert.NoError(t, err)
	assert.Equal(t, RequirementConstraint, cat)

	cat, err = Classify("499")
	assert.NoError(t, err)
	assert.Equal(t, RequirementConstraint, cat)
}

func TestClassifyHintRange(t *testing.T) {
	cat, err := Classify("500")
	assert.NoError(t, err)
	assert.Equal(t, Hint, cat)

	cat, err = Classify("900")
	assert.NoError(t, err)
	assert.Equal(t, Hint, cat)
}

func TestClassifyFormatConstraintRange(t *testing.T) {
	cat, err := Classify("901")
	assert.NoError(t, err)
	assert.Equal(t, FormatConstraint, cat)

	cat, err = Classify("999")
	assert.NoError(t, err)
	assert.Equal(t, FormatConstraint, cat)
}

func TestClassifyPackage(t *testing.T) {
	cat, err := Classify("123P")
	assert.NoError(t, err)
	assert.Equal(t, Package, cat)
}

func TestClassifyTimeCondition(t *testing.T) {
	for _, key := range []string{"UB1", "UB2", "UB3"} {
		cat, err := Classify(key)
		assert.NoError(t, err)
		assert.Equal(t, TimeCondition, cat)
	}
}

func TestClassifyZeroIsOutOfRange(t *testing.T) {
	_, err := Classify("0")
	assert.Error(t, err)
	var rangeErr *InvalidKeyRangeError
	assert.ErrorAs(t, err, &rangeErr)
}

func TestClassifyNonNumeric(t *testing.T) {
	_, err := Classify("abc")
	assert.Error(t, err)
}

func TestClassifyBarePSuffixIsInvalid(t *testing.T) {
	_, err := Classify("P")
	assert.Error(t, err)
}

func TestClassifyStringer(t *testing.T) {
	assert.Equal(t, "requirement constraint", RequirementConstraint.String())
	assert.Equal(t, "hint", Hint.String())
	assert.Equal(t, "format constraint", FormatConstraint.String())
	assert.Equal(t, "package", Package.String())
	assert.Equal(t, "time condition", TimeCondition.String())
}
