package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesCapacity(t *testing.T) {
	l := New()

	// capacity 3, negligible refill: exactly three requests pass
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("k", 3, 0.0001), "request %d within capacity", i)
	}
	assert.False(t, l.Allow("k", 3, 0.0001))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("a", 1, 0.0001))
	assert.False(t, l.Allow("a", 1, 0.0001))
	assert.True(t, l.Allow("b", 1, 0.0001))
}

func TestAllowRefills(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("k", 1, 10))
	assert.False(t, l.Allow("k", 1, 10))

	// 10 tokens/s restores the bucket within 100ms
	time.Sleep(150 * time.Millisecond)
	assert.True(t, l.Allow("k", 1, 10))
}
