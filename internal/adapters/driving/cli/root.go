// Package cli implements the slides command-line interface. It wires the
// SQLite store, the embedding backend, and the core services into cobra
// commands.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/unnitin/slides/internal/adapters/driven/ai"
	configfile "github.com/unnitin/slides/internal/adapters/driven/config/file"
	"github.com/unnitin/slides/internal/adapters/driven/serializer/text"
	"github.com/unnitin/slides/internal/adapters/driven/storage/sqlite"
	"github.com/unnitin/slides/internal/core/ports/driven"
	"github.com/unnitin/slides/internal/core/ports/driving"
	"github.com/unnitin/slides/internal/core/services"
	"github.com/unnitin/slides/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Flags shared by all commands.
var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
	flagBackend   string
)

// Services wired by initServices and used by the subcommands.
var (
	store           *sqlite.Store
	embeddingSvc    driven.EmbeddingService
	configStore     driven.ConfigStore
	indexerService  driving.IndexerService
	retrieverSvc    driving.Retriever
	feedbackService driving.FeedbackService
)

var rootCmd = &cobra.Command{
	Use:   "slides",
	Short: "Design index for presentation decks",
	Long: `slides maintains a searchable index of presentation designs.

Decks are chunked at three granularities (deck, slide, element), embedded,
and stored in SQLite with full-text search. Retrieval fuses semantic
similarity, keyword relevance, and structural filters into one ranking.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.slides/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.slides)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "embedding", "", "embedding backend: auto, hash, ollama, openai")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices opens the store, selects an embedding backend, and builds
// the core services. Local .env files supply API keys in development.
func initServices() error {
	_ = godotenv.Load()

	var err error
	configStore, err = configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return err
	}

	store, err = sqlite.NewStore(flagDataDir)
	if err != nil {
		return err
	}
	logger.Debug("Store opened at %s", store.Path())

	settings := ai.EmbeddingSettings{
		Backend:    flagBackend,
		BaseURL:    configStore.GetString("embedding.base_url"),
		Model:      configStore.GetString("embedding.model"),
		APIKey:     configStore.GetString("embedding.api_key"),
		Dimensions: configStore.GetInt("embedding.dimensions"),
	}
	if settings.Backend == "" {
		settings.Backend = configStore.GetString("embedding.backend")
	}
	if settings.APIKey == "" {
		settings.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	embeddingSvc, err = ai.CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	logger.Debug("Embedding backend: %s (dim=%d)", embeddingSvc.Name(), embeddingSvc.Dimensions())

	chunker := services.NewChunkerService(text.NewSerializer())
	indexerService = services.NewIndexerService(chunker, store, embeddingSvc)
	retrieverSvc = services.NewRetrieverService(store, embeddingSvc)
	feedbackService = services.NewFeedbackProcessor(store)
	return nil
}

func closeServices() {
	if embeddingSvc != nil {
		embeddingSvc.Close()
	}
	if store != nil {
		store.Close()
	}
}
