package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index size and health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := indexerService.Stats(context.Background())
		if err != nil {
			return err
		}
		cmd.Printf("Decks:           %d\n", stats.Decks)
		cmd.Printf("Slides:          %d\n", stats.Slides)
		cmd.Printf("Elements:        %d\n", stats.Elements)
		cmd.Printf("Phrase triggers: %d\n", stats.PhraseTriggers)
		cmd.Printf("Feedback events: %d\n", stats.FeedbackEvents)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
