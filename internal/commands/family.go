package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/budget"
	"github.com/biweekly-dev/biweekly/internal/types"
)

func newFamilyCommand() *cobra.Command {
	familyCmd := &cobra.Command{
		Use:   "family",
		Short: "Create, join and manage a family tracker",
	}
	familyCmd.AddCommand(
		newFamilyCreateCommand(),
		newFamilyJoinCommand(),
		newFamilyRelinkCommand(),
		newFamilyShowCommand(),
		newFamilyRenameCommand(),
		newFamilyAnchorCommand(),
	)
	return familyCmd
}

func newFamilyCreateCommand() *cobra.Command {
	var p budget.CreateFamilyParams
	var anchor string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and a new family tracker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if anchor != "" {
				d, err := types.ParseDate(anchor)
				if err != nil {
					return err
				}
				p.AnchorDate = d
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.svc.CreateFamily(ctx, p)
				if err != nil {
					return err
				}
				a.commit("family: create " + active.Tracker.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Created %q. Family Code: %s\n", active.Tracker.Name, active.Tracker.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&p.Email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&p.Name, "name", "", "your display name")
	cmd.Flags().StringVar(&p.Password, "password", "", "account password")
	cmd.Flags().StringVar(&p.FamilyName, "family", "", "family name")
	cmd.Flags().StringVar(&anchor, "anchor", "", "first day of a pay period, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newFamilyJoinCommand() *cobra.Command {
	var p budget.JoinFamilyParams

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Create an account in an existing family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.svc.JoinFamily(ctx, p)
				if err != nil {
					return err
				}
				a.commit("family: " + active.Account.ID + " joined " + active.Tracker.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Joined %q (%s)\n", active.Tracker.Name, active.Tracker.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&p.Email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&p.Name, "name", "", "your display name")
	cmd.Flags().StringVar(&p.Password, "password", "", "account password")
	cmd.Flags().StringVar(&p.FamilyCode, "code", "", "Family Code (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newFamilyRelinkCommand() *cobra.Command {
	var email, password, code string

	cmd := &cobra.Command{
		Use:   "relink",
		Short: "Point an existing account at another family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.svc.Relink(ctx, email, password, code)
				if err != nil {
					return err
				}
				a.commit("family: " + active.Account.ID + " relinked to " + active.Tracker.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Linked to %q (%s)\n", active.Tracker.Name, active.Tracker.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&code, "code", "", "Family Code (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newFamilyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the family tracker and its members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.svc.Current(ctx)
				if err != nil {
					return err
				}
				members, err := a.svc.Members(ctx)
				if err != nil {
					return err
				}

				t := active.Tracker
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Family:      %s\n", t.Name)
				fmt.Fprintf(out, "Family Code: %s\n", t.ID)
				fmt.Fprintf(out, "Anchor date: %s\n", t.AnchorDate)
				fmt.Fprintf(out, "Entries:     %d\n", t.Len())
				fmt.Fprintln(out, "Members:")
				dir := a.directory()
				for _, m := range members {
					fmt.Fprintf(out, "  %s <%s>\n", dir.DisplayName(m.ID), m.ID)
				}
				return nil
			})
		},
	}
}

func newFamilyRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME",
		Short: "Rename the family tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.svc.RenameTracker(ctx, args[0]); err != nil {
					return err
				}
				a.commit("family: rename to " + args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %q\n", args[0])
				return nil
			})
		},
	}
}

func newFamilyAnchorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "anchor DATE",
		Short: "Set the date pay periods are counted from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := types.ParseDate(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.svc.SetAnchorDate(ctx, d); err != nil {
					return err
				}
				a.commit("family: anchor " + d.String())
				fmt.Fprintf(cmd.OutOrStdout(), "Anchor date set to %s\n", d)
				return nil
			})
		},
	}
}
