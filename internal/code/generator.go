package code

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/manitto-app/manitto-server/internal/domain"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	DefaultLength      = 7
	DefaultMaxAttempts = 10
)

// ExistsFunc reports whether a candidate code is already taken. It is
// backed by storage; the generator treats it as opaque.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator produces short public identifiers like "U3kF9xQz" or "RqW72mAb".
// Candidates are random alphanumeric suffixes checked against storage;
// check-then-insert is not atomic, so the storage uniqueness constraint
// remains the final arbiter on insert.
type Generator struct {
	// Length of the random suffix after the prefix. Zero or negative
	// means DefaultLength.
	Length int
	// MaxAttempts bounds the retry loop. Zero or negative means
	// DefaultMaxAttempts.
	MaxAttempts int
}

func New(length int, maxAttempts int) Generator {
	return Generator{Length: length, MaxAttempts: maxAttempts}
}

// Generate returns prefix + random suffix not reported as existing by
// exists. It calls exists at most MaxAttempts times and fails with
// KindCodeGenerationExhausted when every candidate collided.
// Randomness comes from math/rand: uniform over the alphabet, not
// cryptographic, which keeps collision probability negligible at 62^7
// possible suffixes.
func (g Generator) Generate(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	length := g.Length
	if length <= 0 {
		length = DefaultLength
	}
	maxAttempts := g.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := prefix + randomSuffix(length)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", domain.E(domain.KindCodeGenerationExhausted,
		fmt.Sprintf("could not generate a unique %q code in %d attempts", prefix, maxAttempts))
}

func randomSuffix(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
