// Package ai provides factory functions for creating embedding service
// adapters and selecting a usable backend at startup.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/unnitin/slides/internal/adapters/driven/embedding/hash"
	ollamaembed "github.com/unnitin/slides/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/unnitin/slides/internal/adapters/driven/embedding/openai"
	"github.com/unnitin/slides/internal/core/domain"
	"github.com/unnitin/slides/internal/core/ports/driven"
	"github.com/unnitin/slides/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Backend names accepted in configuration.
const (
	BackendAuto   = "auto"
	BackendHash   = "hash"
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// EmbeddingSettings selects and configures the embedding backend. The zero
// value means auto selection with defaults.
type EmbeddingSettings struct {
	// Backend is one of "auto", "hash", "ollama", "openai".
	Backend string

	// BaseURL overrides the service URL for network backends.
	BaseURL string

	// Model overrides the embedding model for network backends.
	Model string

	// APIKey authenticates the openai backend.
	APIKey string

	// Dimensions is the vector size; all backends must agree on it so
	// stored vectors stay comparable. Defaults to 384.
	Dimensions int
}

// CreateEmbeddingService creates the configured embedding backend and
// validates its connectivity.
//
// With "auto", network backends are tried in order (ollama, then openai if
// a key is present) and the hash backend is the fallback, with one warning
// logged on fallback. An explicitly requested backend that fails its ping
// is an error, not a silent downgrade.
func CreateEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings.Backend == "" {
		settings.Backend = BackendAuto
	}
	if settings.Dimensions == 0 {
		settings.Dimensions = hash.DefaultDimensions
	}

	switch settings.Backend {
	case BackendHash:
		return hash.NewEmbeddingService(settings.Dimensions), nil

	case BackendOllama:
		svc := createOllama(settings)
		if err := ping(svc); err != nil {
			svc.Close()
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	case BackendOpenAI:
		svc, err := createOpenAI(settings)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		if err := ping(svc); err != nil {
			svc.Close()
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	case BackendAuto:
		ollamaSvc := createOllama(settings)
		if err := ping(ollamaSvc); err == nil {
			logger.Info("Using %s embedding backend (dim=%d)", ollamaSvc.Name(), ollamaSvc.Dimensions())
			return ollamaSvc, nil
		}
		ollamaSvc.Close()

		if settings.APIKey != "" {
			if svc, err := createOpenAI(settings); err == nil {
				if err := ping(svc); err == nil {
					logger.Info("Using %s embedding backend (dim=%d)", svc.Name(), svc.Dimensions())
					return svc, nil
				}
				svc.Close()
			}
		}

		logger.Warn("No embedding service reachable; using hash embeddings. " +
			"For better retrieval, run a local Ollama or configure an API key.")
		return hash.NewEmbeddingService(settings.Dimensions), nil

	default:
		return nil, fmt.Errorf("unsupported embedding backend: %s", settings.Backend)
	}
}

func createOllama(settings EmbeddingSettings) *ollamaembed.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

func createOpenAI(settings EmbeddingSettings) (*openaiembed.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

func ping(svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
