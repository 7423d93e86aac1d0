package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the family tracker to a JSON backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				b, err := a.svc.Export(ctx)
				if err != nil {
					return err
				}
				if outPath == "-" {
					_, err := cmd.OutOrStdout().Write(b.Data)
					return err
				}
				path := outPath
				if path == "" {
					path = b.Filename
				}
				if err := os.WriteFile(path, b.Data, 0o644); err != nil {
					return fmt.Errorf("writing backup: %w", err)
				}
				abs, _ := filepath.Abs(path)
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", abs)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, or - for stdout (default biweekly-<code>-<date>.json)")
	return cmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace a family tracker with a JSON backup and switch to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading backup: %w", err)
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := a.svc.Import(ctx, data)
				if err != nil {
					return err
				}
				a.commit("import: " + t.ID + " from " + filepath.Base(args[0]))
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %q (%s) with %d entries\n", t.Name, t.ID, t.Len())
				return nil
			})
		},
	}
}
