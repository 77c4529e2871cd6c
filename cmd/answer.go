package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cramkit/internal/spacedrep"
)

var answerCmd = &cobra.Command{
	Use:   "answer <item-id>",
	Short: "Record the outcome of answering an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetBool("correct")
		confidence, _ := cmd.Flags().GetInt("confidence")
		sessionID, _ := cmd.Flags().GetString("session")

		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		rec, err := eng.Answer(cmd.Context(), sessionID, args[0], correct, confidence)
		if err != nil {
			return err
		}

		outcome := "wrong"
		if correct {
			outcome = "correct"
		}
		now := time.Now()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, streak %d, next review %s (%s)\n",
			rec.ItemID, outcome, rec.CorrectStreak,
			rec.NextReviewAt.Local().Format("2006-01-02 15:04"),
			spacedrep.Status(rec, now))
		return nil
	},
}

func init() {
	answerCmd.Flags().Bool("correct", false, "The answer was correct")
	answerCmd.Flags().Bool("wrong", false, "The answer was wrong")
	answerCmd.Flags().Int("confidence", spacedrep.DefaultConfidence, "Self-rated confidence, 1-5")
	answerCmd.Flags().String("session", "", "Count the answer toward this session")
	answerCmd.MarkFlagsMutuallyExclusive("correct", "wrong")
	answerCmd.MarkFlagsOneRequired("correct", "wrong")
}
