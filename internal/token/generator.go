package token

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/ErlanBelekov/newsletter/internal/domain"
)

// Generator mints confirmation tokens. Uniqueness is enforced by the token
// store, not here.
type Generator interface {
	Generate() (domain.SubscriptionToken, error)
}

// largest multiple of the alphabet size that fits in a byte; bytes at or
// above it are discarded so every symbol is equally likely.
const rejectAbove = 256 - 256%len(domain.TokenAlphabet)

type RandomGenerator struct {
	src io.Reader
}

// NewRandomGenerator reads from crypto/rand.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{src: rand.Reader}
}

// NewGeneratorFromReader is used by tests to get deterministic tokens.
func NewGeneratorFromReader(src io.Reader) *RandomGenerator {
	return &RandomGenerator{src: src}
}

func (g *RandomGenerator) Generate() (domain.SubscriptionToken, error) {
	out := make([]byte, 0, domain.TokenLength)
	buf := make([]byte, domain.TokenLength*2)

	for len(out) < domain.TokenLength {
		if _, err := io.ReadFull(g.src, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, domain.TokenAlphabet[int(b)%len(domain.TokenAlphabet)])
			if len(out) == domain.TokenLength {
				break
			}
		}
	}
	return domain.SubscriptionToken(out), nil
}
