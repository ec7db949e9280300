package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueTokens(t *testing.T) {
	rng := NewRNG(4711)

	tokens := rng.UniqueTokens(512)
	assert.Len(t, tokens, 512)

	seen := make(map[uint64]struct{}, len(tokens))
	for _, tok := range tokens {
		_, dup := seen[uint64(tok)]
		assert.False(t, dup)
		seen[uint64(tok)] = struct{}{}
	}
}

func TestDeterminism(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)

	assert.Equal(t, a.UniqueTokens(100), b.UniqueTokens(100))
	assert.Equal(t, a.Payload(), b.Payload())
}

func TestReset(t *testing.T) {
	rng := NewRNG(7)

	first := rng.UniqueTokens(10)
	rng.Reset()
	second := rng.UniqueTokens(10)

	assert.Equal(t, first, second)
}
