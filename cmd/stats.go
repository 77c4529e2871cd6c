package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/cramkit/internal/ui/components"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show readiness, accuracy and per-topic statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")

		eng, closeFn, err := openEngine()
		if err != nil {
			return err
		}
		defer closeFn()

		d, err := eng.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.Dashboard(d, width))
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("width", 60, "Width of the progress bars")
}
