package slug

import (
	"context"
	"strconv"
)

// DefaultMaxAttempts is the number of numbered suffixes tried before
// ResolveUnique falls back to a random suffix.
const DefaultMaxAttempts = 100

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Resolver finds a free variant of a base slug.
type Resolver struct {
	MaxAttempts int
}

// ResolveUnique returns base if free, else base-1, base-2, ... and finally
// base-<random8> once DefaultMaxAttempts suffixes are taken.
func ResolveUnique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	return (&Resolver{MaxAttempts: DefaultMaxAttempts}).Resolve(ctx, base, exists)
}

// Resolve returns the first candidate for which exists reports false.
// The base is used as given; callers normalize it beforehand. The random
// fallback is returned without consulting exists since the store's unique
// constraint remains the final arbiter.
func (r *Resolver) Resolve(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = Random()
	}

	taken, err := exists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 1; i <= r.MaxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := withSuffix(base, strconv.Itoa(i), MaxLength)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return withSuffix(base, randomSuffix(8), MaxLength), nil
}
