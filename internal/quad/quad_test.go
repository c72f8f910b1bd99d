package quad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeutralIsIdentity(t *testing.T) {
	for _, v := range []Value{Fulfilled, Unfulfilled, Unknown, Neutral} {
		assert.Equal(t, v, And(v, Neutral))
		assert.Equal(t, v, And(Neutral, v))
		assert.Equal(t, v, Or(v, Neutral))
		assert.Equal(t, v, Or(Neutral, v))
		assert.Equal(t, v, Xor(v, Neutral))
		assert.Equal(t, v, Xor(Neutral, v))
	}
}

func TestAndTable(t *testing.T) {
	assert.Equal(t, Fulfilled, And(Fulfilled, Fulfilled))
	assert.Equal(t, Unfulfilled, And(Fulfilled, Unfulfilled))
	assert.Equal(t, Unfulfilled, And(Unfulfilled, Unfulfilled))
	assert.Equal(t, Unknown, And(Fulfilled, Unknown))
	assert.Equal(t, Unfulfilled, And(Unfulfilled, Unknown))
	assert.Equal(t, Unknown, And(Unknown, Unknown))
}

func TestOrTable(t *testing.T) {
	assert.Equal(t, Fulfilled, Or(Fulfilled, Fulfilled))
	assert.Equal(t, Fulfilled, Or(Fulfilled, Unfulfilled))
	assert.Equal(t, Unfulfilled, Or(Unfulfilled, Unfulfilled))
	assert.Equal(t, Fulfilled, Or(Fulfilled, Unknown))
	assert.Equal(t, Unknown, Or(Unfulfilled, Unknown))
	assert.Equal(t, Unknown, Or(Unknown, Unknown))
}

func TestXorTable(t *testing.T) {
	assert.Equal(t, Unfulfilled, Xor(Fulfilled, Fulfilled))
	assert.Equal(t, Fulfilled, Xor(Fulfilled, Unfulfilled))
	assert.Equal(t, Unfulfilled, Xor(Unfulfilled, Unfulfilled))
	assert.Equal(t, Unknown, Xor(Fulfilled, Unknown))
	assert.Equal(t, Unknown, Xor(Unfulfilled, Unknown))
	assert.Equal(t, Unknown, Xor(Unknown, Unknown))
}

func TestValueStringer(t *testing.T) {
	assert.Equal(t, "FULFILLED", Fulfilled.String())
	assert.Equal(t, "UNFULFILLED", Unfulfilled.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "NEUTRAL", Neutral.String())
}
