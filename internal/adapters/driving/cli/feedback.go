package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	feedbackNote    string
	phraseSlideID   string
	phraseElementID string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record user signals against indexed designs",
}

var feedbackUseCmd = &cobra.Command{
	Use:   "use [slide-chunk-id]",
	Short: "Mark a slide design as reused in a new deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := feedbackService.RecordUse(context.Background(), args[0]); err != nil {
			return err
		}
		cmd.Println("Recorded use.")
		return nil
	},
}

var feedbackKeepCmd = &cobra.Command{
	Use:   "keep [slide-chunk-id]",
	Short: "Mark a slide design as accepted unchanged",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := feedbackService.RecordKeep(context.Background(), args[0]); err != nil {
			return err
		}
		cmd.Println("Recorded keep.")
		return nil
	},
}

var feedbackEditCmd = &cobra.Command{
	Use:   "edit [slide-chunk-id]",
	Short: "Mark a slide as kept after manual changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := feedbackService.RecordEdit(context.Background(), args[0], feedbackNote); err != nil {
			return err
		}
		cmd.Println("Recorded edit.")
		return nil
	},
}

var feedbackRegenCmd = &cobra.Command{
	Use:   "regen [slide-chunk-id]",
	Short: "Mark a slide design as rejected and regenerated",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := feedbackService.RecordRegen(context.Background(), args[0], feedbackNote); err != nil {
			return err
		}
		cmd.Println("Recorded regen.")
		return nil
	},
}

var feedbackPhraseCmd = &cobra.Command{
	Use:   "phrase [phrase]",
	Short: "Associate a phrase with the design that satisfied it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if phraseSlideID == "" && phraseElementID == "" {
			return fmt.Errorf("provide --slide and/or --element")
		}
		err := feedbackService.RecordPhraseHit(context.Background(), args[0], phraseSlideID, phraseElementID)
		if err != nil {
			return err
		}
		cmd.Println("Recorded phrase hit.")
		return nil
	},
}

func init() {
	feedbackEditCmd.Flags().StringVar(&feedbackNote, "note", "", "what was changed")
	feedbackRegenCmd.Flags().StringVar(&feedbackNote, "note", "", "why it was rejected")
	feedbackPhraseCmd.Flags().StringVar(&phraseSlideID, "slide", "", "matched slide chunk id")
	feedbackPhraseCmd.Flags().StringVar(&phraseElementID, "element", "", "matched element chunk id")
	feedbackCmd.AddCommand(feedbackUseCmd, feedbackKeepCmd, feedbackEditCmd, feedbackRegenCmd, feedbackPhraseCmd)
	rootCmd.AddCommand(feedbackCmd)
}
