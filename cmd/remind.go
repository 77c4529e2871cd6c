package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/cramkit/internal/reminder"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Periodically print how many items are due",
	Long:  "Check for due items every reminder.interval until interrupted. With --once, check a single time and exit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")

		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		r := reminder.New(eng, reminder.WriterNotifier{W: cmd.OutOrStdout()}, cfg.Reminder.Interval,
			log.WithField("component", "reminder"))

		if once {
			n, err := r.Check(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing due.")
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := r.Start(ctx); err != nil {
			return err
		}
		defer r.Stop()

		<-ctx.Done()
		return nil
	},
}

func init() {
	remindCmd.Flags().Bool("once", false, "Check once and exit")
}
