package driven

import "context"

// EmbeddingService maps text to a fixed-dimension float vector.
//
// Two interchangeable strategies exist: a dependency-free deterministic
// hash backend (always available) and a learned-model backend (optional).
// Both must be configured to the same dimensionality so they are
// interchangeable at the storage layer.
type EmbeddingService interface {
	// Embed generates a vector for the given text. The hash backend is
	// deterministic; an empty input yields the zero vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed vector size (e.g. 384).
	Dimensions() int

	// Name identifies the backend ("hash", "ollama", ...).
	Name() string

	// Ping validates the backend is usable. The hash backend always
	// succeeds; network-backed implementations make a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
