package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptional(t *testing.T) {
	assert.Equal(t, "hall", Deref(Ptr("hall"), "venue"))
	assert.Equal(t, "venue", Deref[string](nil, "venue"))
	assert.Zero(t, OrZero[int](nil))

	assert.Nil(t, NonZero(0))
	assert.Equal(t, 4, *NonZero(4))

	assert.Nil(t, StringOrNil("   "))
	assert.Equal(t, "Main Hall", *StringOrNil("  Main Hall "))
}
