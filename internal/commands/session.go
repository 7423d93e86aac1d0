package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/budget"
)

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.svc.Login(ctx, email, password)
				if errors.Is(err, budget.ErrTrackerNotFound) {
					return fmt.Errorf("%w; use 'family relink' to join another family", err)
				}
				if err != nil {
					return err
				}
				a.commit("session: login " + active.Account.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", active.Account.ID, active.Tracker.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.svc.Logout(ctx); err != nil {
					return err
				}
				a.commit("session: logout")
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.svc.Current(ctx)
				if errors.Is(err, budget.ErrNoSession) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> in %s (%s)\n",
					a.directory().DisplayName(active.Account.ID), active.Account.ID, active.Tracker.Name, active.Tracker.ID)
				return nil
			})
		},
	}
}
