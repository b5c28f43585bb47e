package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist.
	// Lookups by id return this rather than a nil-plus-ok convention;
	// callers are expected to branch on it with errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as an
	// unknown feedback signal or an empty phrase.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCollection indicates a granularity outside deck/slide/element.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrEmbeddingUnavailable indicates the requested embedding backend is
	// not reachable. The hash backend never returns this.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates a vector whose length does not match
	// the dimensionality the index was configured with. Mixing dimensions
	// within one collection is a caller error, not a recoverable state.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
