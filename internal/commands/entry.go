package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/budget"
	"github.com/biweekly-dev/biweekly/internal/entrycsv"
	"github.com/biweekly-dev/biweekly/internal/id"
	"github.com/biweekly-dev/biweekly/internal/model"
	"github.com/biweekly-dev/biweekly/internal/types"
)

func newEntryCommand() *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Add, remove and list entries",
	}
	entryCmd.AddCommand(
		newEntryAddCommand(),
		newEntryRmCommand(),
		newEntryListCommand(),
	)
	return entryCmd
}

func newEntryAddCommand() *cobra.Command {
	var amount, date, label string

	cmd := &cobra.Command{
		Use:   "add CATEGORY",
		Short: "Add an income, expense, savings or emergency entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := model.ParseCategory(args[0])
			if err != nil {
				return err
			}
			in := budget.EntryInput{Amount: amount, Label: label}
			if date != "" {
				if in.Date, err = types.ParseDate(date); err != nil {
					return err
				}
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				e, err := a.svc.AddEntry(ctx, category, in)
				if err != nil {
					return err
				}
				a.commit(fmt.Sprintf("entry: add %s %s", category, formatAmount(e.Amount)))
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s on %s (%s)\n", category, formatAmount(e.Amount), e.Date, id.Short(e.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount; anything that is not a number counts as 0")
	cmd.Flags().StringVar(&date, "date", "", "entry date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&label, "label", "", "source, category, goal or note")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newEntryRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm CATEGORY ID",
		Short: "Delete an entry by ID or unique ID prefix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := model.ParseCategory(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.svc.Current(ctx)
				if err != nil {
					return err
				}
				entries := active.Tracker.Entries(category)
				ids := make([]string, len(entries))
				for i, e := range entries {
					ids[i] = e.ID
				}
				entryID, ok := id.MatchPrefix(ids, args[1])
				if !ok {
					return fmt.Errorf("no single %s entry matches %q", category, args[1])
				}

				deleted, err := a.svc.DeleteEntry(ctx, category, entryID)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("entry %s not found", entryID)
				}
				a.commit(fmt.Sprintf("entry: delete %s %s", category, id.Short(entryID)))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s entry %s\n", category, id.Short(entryID))
				return nil
			})
		},
	}
}

func newEntryListCommand() *cobra.Command {
	var pf periodFlags
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries in a period",
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
				out := cmd.OutOrStdout()
				if asCSV {
					return entrycsv.WriteEntries(out, sum.Entries)
				}

				fmt.Fprintf(out, "Period %s\n\n", sum.Period)
				if sum.Entries.Len() == 0 {
					fmt.Fprintln(out, "No entries")
					return nil
				}
				dir := a.directory()
				tw := newTable(out)
				fmt.Fprintln(tw, "CATEGORY\tID\tDATE\tAMOUNT\tLABEL\tBY")
				for _, r := range entrycsv.Rows(sum.Entries) {
					e := r.Entry
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						r.Category, id.Short(e.ID), e.Date, formatAmount(e.Amount), e.Label, dir.Author(e))
				}
				return tw.Flush()
			})
		},
	}

	pf.register(cmd)
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")

	return cmd
}
