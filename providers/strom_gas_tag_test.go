package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStromtagMidnightIsFulfilled(t *testing.T) {
	e := NewStromGasTagEvaluator()
	result, err := e.Evaluate(context.Background(), "932", "2022-06-01T00:00:00+02:00")
	assert.NoError(t, err)
	assert.True(t, result.Fulfilled)
	assert.Empty(t, result.ErrorMessage)
}

func TestStromtagNonMidnightFails(t *testing.T) {
	e := NewStromGasTagEvaluator()
	result, err := e.Evaluate(context.Background(), "932", "2022-06-01T12:00:00+02:00")
	assert.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestGastagSixAmIsFulfilled(t *testing.T) {
	e := NewStromGasTagEvaluator()
	result, err := e.Evaluate(context.Background(), "934", "2022-06-01T06:00:00+02:00")
	assert.NoError(t, err)
	assert.True(t, result.Fulfilled)
}

func TestGastagUsesUtcOffsetConversion(t *testing.T) {
	e := NewStromGasTagEvaluator()
	// 04:00 UTC is 06:00 in Berlin summer time (UTC+2).
	result, err := e.Evaluate(context.Background(), "934", "2022-06-01T04:00:00Z")
	assert.NoError(t, err)
	assert.True(t, result.Fulfilled)
}

func TestEmptyInputFails(t *testing.T) {
	e := NewStromGasTagEvaluator()
	result, err := e.Evaluate(context.Background(), "932", "")
	assert.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.Contains(t, result.ErrorMessage, "cannot be parsed")
}

func TestNaiveDatetimeIsRejected(t *testing.T) {
	e := NewStromGasTagEvaluator()
	result, err := e.Evaluate(context.Background(), "932", "2022-06-01T00:00:00")
	assert.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestHasNoUtcOffsetIsFulfilledForZeroOffset(t *testing.T) {
	e := NewStromGasTagEvaluator()
	result, err := e.Evaluate(context.Background(), "931", "2021-01-01T00:00:00+00:00")
	assert.NoError(t, err)
	assert.True(t, result.Fulfilled)
	assert.Empty(t, result.ErrorMessage)
}

func TestHasNoUtcOffsetFailsForNonZeroOffset(t *testing.T) {
	e := NewStromGasTagEvaluator()
	// This is Berlin local midnight (23:00 UTC the day before), i.e. the
	// Stromtag predicate would be fulfilled, but 931 only cares about the
	// offset itself.
	result, err := e.Evaluate(context.Background(), "931", "2021-01-01T00:00:00+01:00")
	assert.NoError(t, err)
	assert.False(t, result.Fulfilled)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestUnregisteredKeyIsNotImplemented(t *testing.T) {
	e := NewStromGasTagEvaluator()
	_, err := e.Evaluate(context.Background(), "940", "2022-06-01T00:00:00Z")
	assert.Error(t, err)
	var niErr *NotImplementedError
	assert.ErrorAs(t, err, &niErr)
}
