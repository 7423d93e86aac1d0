package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/activity"
)

func newActivityCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir(cmd)
			if err != nil {
				return err
			}
			entries, err := activity.Read(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No activity")
				return nil
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "TIME\tACCOUNT\tACTION\tFAMILY\tDETAILS")
			for _, e := range activity.Tail(entries, limit) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format(time.DateTime), e.Account, e.Action, e.Tracker, e.Details)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "entries to show; 0 shows all")
	return cmd
}
