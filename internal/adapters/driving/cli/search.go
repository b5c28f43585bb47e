package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unnitin/slides/internal/core/domain"
)

var (
	searchGranularity string
	searchLimit       int
	searchMinScore    float64
	searchFilters     []string
	searchKeywords    []string
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the design index",
	Long: `Runs a hybrid query over the chosen granularity, fusing semantic
similarity, keyword relevance, and structural filters into one ranking.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchGranularity, "granularity", "g", "slide", "collection to search: deck, slide, element")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0.1, "minimum combined score")
	searchCmd.Flags().StringArrayVarP(&searchFilters, "filter", "f", nil, "structural filter as field=value (repeatable)")
	searchCmd.Flags().StringArrayVarP(&searchKeywords, "keyword", "k", nil, "extra full-text keyword (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters, err := parseFilters(searchFilters)
	if err != nil {
		return err
	}

	results, err := retrieverSvc.Search(context.Background(), domain.SearchQuery{
		Query:       args[0],
		Granularity: domain.Collection(searchGranularity),
		Filters:     filters,
		Keywords:    searchKeywords,
		Limit:       searchLimit,
		MinScore:    searchMinScore,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}
	printResults(cmd, results)
	return nil
}

func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q, expected field=value", pair)
		}
		filters[field] = value
	}
	return filters, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printResults(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.ChunkID, r.Score)
		if r.SlideType != "" {
			cmd.Printf("      Type: %s\n", r.SlideType)
		}
		if r.DeckTitle != "" {
			cmd.Printf("      Deck: %s\n", r.DeckTitle)
		}
		if r.SemanticSummary != "" {
			cmd.Printf("      %s\n", r.SemanticSummary)
		}
		cmd.Printf("      semantic=%.2f structural=%.2f keyword=%.2f quality=%.2f\n",
			r.SemanticScore, r.StructuralScore, r.KeywordScore, r.QualityScore())
		cmd.Println()
	}
}
