package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/cramkit/internal/session"
	"github.com/abhisek/cramkit/internal/ui/components"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start, end and list study sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a study session and print its ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		modeName, _ := cmd.Flags().GetString("mode")
		category, _ := cmd.Flags().GetString("category")
		topic, _ := cmd.Flags().GetString("topic")

		mode, err := session.ParseMode(modeName)
		if err != nil {
			return err
		}

		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		sess, err := eng.StartSession(cmd.Context(), mode, category, topic)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sess.ID)
		return nil
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "end <session-id>",
	Short: "End a study session and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		sum, err := eng.EndSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.SessionSummary(sum))
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List study sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		sessions, err := eng.Sessions(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(w, "No sessions yet.")
			return nil
		}
		fmt.Fprintf(w, "%-36s  %-6s  %-16s  %8s  %s\n", "ID", "Mode", "Started", "Duration", "Score")
		fmt.Fprintln(w, strings.Repeat("─", 84))
		for _, s := range sessions {
			duration := "open"
			if !s.Open() {
				duration = s.Duration().Round(time.Second).String()
			}
			fmt.Fprintf(w, "%-36s  %-6s  %-16s  %8s  %d/%d\n",
				s.ID, s.Mode, s.StartedAt.Local().Format("2006-01-02 15:04"), duration, s.Correct, s.Attempted)
		}
		return nil
	},
}

func init() {
	sessionStartCmd.Flags().String("mode", string(session.ModeReview), "Session mode: review, weak or quiz")
	sessionStartCmd.Flags().String("category", "", "Category the session focuses on")
	sessionStartCmd.Flags().String("topic", "", "Topic the session focuses on")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionListCmd)
}
