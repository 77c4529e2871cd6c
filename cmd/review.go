package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cramkit/internal/app"
	"github.com/abhisek/cramkit/internal/session"
	"github.com/abhisek/cramkit/internal/spacedrep"
	"github.com/abhisek/cramkit/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List the next items to review",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		topic, _ := cmd.Flags().GetString("topic")
		limit, _ := cmd.Flags().GetInt("limit")
		if !cmd.Flags().Changed("limit") {
			limit = cfg.Review.Limit
		}

		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		items, err := eng.SelectForReview(cmd.Context(), session.Filter{Category: category, Topic: topic}, limit)
		if err != nil {
			return err
		}
		return printItems(cmd, eng, items)
	},
}

var weakCmd = &cobra.Command{
	Use:   "weak",
	Short: "List items you keep getting wrong",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if !cmd.Flags().Changed("limit") {
			limit = cfg.Review.WeakLimit
		}

		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		items, err := eng.SelectWeak(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return printItems(cmd, eng, items)
	},
}

func init() {
	reviewCmd.Flags().String("category", "", "Only items in this category")
	reviewCmd.Flags().String("topic", "", "Only items in this topic")
	reviewCmd.Flags().IntP("limit", "n", session.DefaultLimit, "Maximum number of items")

	weakCmd.Flags().IntP("limit", "n", session.DefaultLimit, "Maximum number of items")
}

// printItems lists items with their review schedule.
func printItems(cmd *cobra.Command, eng *app.Engine, items []store.LearningItem) error {
	w := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(w, "Nothing to review.")
		return nil
	}

	progress, err := eng.Progress(cmd.Context())
	if err != nil {
		return err
	}
	now := time.Now()

	fmt.Fprintf(w, "%-24s  %-16s  %-20s  %6s  %-12s  %s\n", "ID", "Category", "Topic", "Weight", "Review", "Prompt")
	fmt.Fprintln(w, strings.Repeat("─", 104))
	for _, it := range items {
		var rec *store.ProgressRecord
		if r, ok := progress[it.ID]; ok {
			rec = &r
		}
		prompt := it.Prompt
		if len(prompt) > 40 {
			prompt = prompt[:37] + "..."
		}
		fmt.Fprintf(w, "%-24s  %-16s  %-20s  %6d  %-12s  %s\n",
			it.ID, it.Category, it.Topic, it.Weight, spacedrep.Describe(rec, now), prompt)
	}
	return nil
}
