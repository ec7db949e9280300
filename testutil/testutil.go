package testutil

import (
	"math/rand"
	"sync"

	"github.com/treekv/treekv/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Token returns a pseudo-random token.
func (r *RNG) Token() model.Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.Token(r.rand.Uint64())
}

// UniqueTokens returns n distinct pseudo-random tokens.
func (r *RNG) UniqueTokens(n int) []model.Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[model.Token]struct{}, n)
	tokens := make([]model.Token, 0, n)
	for len(tokens) < n {
		tok := model.Token(r.rand.Uint64())
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Payload returns a pseudo-random payload.
func (r *RNG) Payload() model.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()

	var p model.Payload
	for i := range p {
		p[i] = byte(r.rand.Intn(256))
	}
	return p
}

// Shuffle permutes tokens in place.
func (r *RNG) Shuffle(tokens []model.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(tokens), func(i, j int) {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	})
}
