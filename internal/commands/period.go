package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/ledger"
	"github.com/biweekly-dev/biweekly/internal/model"
	"github.com/biweekly-dev/biweekly/internal/types"
)

// periodFlags selects a period: the one containing --date (default today),
// moved --offset periods.
type periodFlags struct {
	date   string
	offset int
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "any date in the period, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "periods to move; negative goes back")
}

func (f *periodFlags) reference() (types.Date, error) {
	if f.date == "" {
		return types.Date{}, nil
	}
	return types.ParseDate(f.date)
}

func newPeriodCommand() *cobra.Command {
	var pf periodFlags

	cmd := &cobra.Command{
		Use:   "period",
		Short: "Show totals and spending money for a pay period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := pf.reference()
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				sum, err := a.svc.ViewShifted(ctx, ref, pf.offset)
				if err != nil {
					return err
				}
				return printSummary(cmd, sum)
			})
		},
	}

	pf.register(cmd)
	return cmd
}

func printSummary(cmd *cobra.Command, sum ledger.Summary) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Period %s\n\n", sum.Period)

	tw := newTable(out)
	for _, c := range model.Categories() {
		fmt.Fprintf(tw, "%s\t%s\n", c, formatAmount(sum.Totals.Of(c)))
	}
	fmt.Fprintf(tw, "spending money\t%s\n", formatAmount(sum.SpendingMoney))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(sum.Breakdown) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nExpenses by category")
	tw = newTable(out)
	for _, b := range sum.Breakdown {
		fmt.Fprintf(tw, "  %s\t%s\n", b.Label, formatAmount(b.Amount))
	}
	return tw.Flush()
}
