package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unnitin/slides/internal/core/domain"
)

var (
	similarLimit int
	similarFile  string

	suggestLimit int

	bestAudience string
)

var similarCmd = &cobra.Command{
	Use:   "similar [text]",
	Short: "Find slides similar to the given slide text",
	Long: `Searches the slide collection for designs structurally and
semantically similar to the given canonical slide text. Pass the text as
an argument or point --file at a saved slide.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimilar,
}

var contextCmd = &cobra.Command{
	Use:   "context [slide-chunk-id]",
	Short: "Show a slide's place within its deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runContext,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [slide-type...]",
	Short: "Suggest the next slide from the types so far",
	Long: `Given the slide types of a deck in progress, proposes designs that
historically follow the last one. With no arguments, proposes openers.`,
	RunE: runSuggest,
}

var bestCmd = &cobra.Command{
	Use:   "best [slide-type] [topic]",
	Short: "Show the best proven design for a slide type and topic",
	Args:  cobra.ExactArgs(2),
	RunE:  runBest,
}

func init() {
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 5, "maximum number of results")
	similarCmd.Flags().StringVar(&similarFile, "file", "", "read slide text from a file")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 3, "maximum number of suggestions")
	bestCmd.Flags().StringVar(&bestAudience, "audience", "", "narrow by audience")
	rootCmd.AddCommand(similarCmd, contextCmd, suggestCmd, bestCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	var text string
	switch {
	case similarFile != "":
		data, err := os.ReadFile(similarFile)
		if err != nil {
			return err
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		return fmt.Errorf("provide slide text as an argument or via --file")
	}

	results, err := retrieverSvc.FindSimilarSlides(context.Background(), text, similarLimit)
	if err != nil {
		return fmt.Errorf("similarity search failed: %w", err)
	}
	printResults(cmd, results)
	return nil
}

func runContext(cmd *cobra.Command, args []string) error {
	sc, err := retrieverSvc.GetSlideContext(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("looking up slide context: %w", err)
	}

	cmd.Printf("Deck: %s\n", sc.DeckTitle)
	if sc.DeckSummary != "" {
		cmd.Printf("Summary: %s\n", sc.DeckSummary)
	}
	cmd.Printf("Slide %d of %d (%s)\n", sc.SlideIndex+1, sc.TotalSlides, sc.DeckPosition)
	if sc.SectionName != "" {
		cmd.Printf("Section: %s\n", sc.SectionName)
	}
	if sc.PrevSlide != nil {
		cmd.Printf("Previous: %s (%s)\n", sc.PrevSlide.SlideName, sc.PrevSlide.SlideType)
	}
	if sc.NextSlide != nil {
		cmd.Printf("Next: %s (%s)\n", sc.NextSlide.SlideName, sc.NextSlide.SlideType)
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	types := make([]domain.SlideType, len(args))
	for i, arg := range args {
		types[i] = domain.SlideType(arg)
	}

	results, err := retrieverSvc.SuggestNextSlide(context.Background(), types, suggestLimit)
	if err != nil {
		return fmt.Errorf("suggestion failed: %w", err)
	}
	printResults(cmd, results)
	return nil
}

func runBest(cmd *cobra.Command, args []string) error {
	result, err := retrieverSvc.BestDesignFor(context.Background(),
		domain.SlideType(args[0]), args[1], bestAudience)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if result == nil {
		cmd.Println("No proven design found.")
		return nil
	}

	cmd.Printf("%s (%.2f)\n", result.ChunkID, result.Score)
	if result.DeckTitle != "" {
		cmd.Printf("Deck: %s\n", result.DeckTitle)
	}
	if result.DSLText != "" {
		cmd.Println()
		cmd.Println(result.DSLText)
	}
	return nil
}
